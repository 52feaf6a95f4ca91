package app

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"healthmetrics/internal/adapter/memory"
)

func TestJob_PrunesExpiredWithoutNewSubmissions(t *testing.T) {
	svc := NewIngestService(memory.New(), zap.NewNop(), 1)

	stale := time.Now().Add(-2 * jobRetention).UTC()
	fresh := time.Now().UTC()
	svc.mu.Lock()
	svc.jobs["stale"] = &IngestJob{ID: "stale", Completed: true, FinishedAt: &stale}
	svc.jobs["fresh"] = &IngestJob{ID: "fresh", Completed: true, FinishedAt: &fresh}
	svc.mu.Unlock()

	if _, err := svc.Job("stale"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected stale job to be pruned on lookup, got %v", err)
	}
	if _, err := svc.Job("fresh"); err != nil {
		t.Fatalf("recently finished job must survive pruning: %v", err)
	}
}

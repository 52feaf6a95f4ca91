package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"healthmetrics/internal/adapter/memory"
	"healthmetrics/internal/app"
	"healthmetrics/internal/domain"
)

func heartRateBatch(samples ...string) app.IngestBatch {
	group := app.MetricGroup{Name: "heart_rate", Units: "count/min"}
	for _, s := range samples {
		group.Data = append(group.Data, json.RawMessage(s))
	}
	return app.IngestBatch{Data: &app.BatchData{Metrics: []app.MetricGroup{group}}}
}

func waitJob(t *testing.T, svc *app.IngestService, id string) app.IngestJob {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.Job(id)
		if err != nil {
			t.Fatalf("job lookup: %v", err)
		}
		if job.Completed {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("ingest job did not complete in time")
	return app.IngestJob{}
}

func storedCount(t *testing.T, repo domain.RecordRepository) int64 {
	t.Helper()
	agg, err := repo.Aggregate(context.Background(), domain.QueryFilter{})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	return agg.Count
}

func TestSubmit_StoresSamples(t *testing.T) {
	store := memory.New()
	svc := app.NewIngestService(store, zap.NewNop(), 4)

	job := svc.Submit(heartRateBatch(
		`{"date":"2024-01-01 10:00:00 +0000","Avg":60}`,
		`{"date":"2024-01-02 10:00:00 +0000","Avg":65}`,
	))
	if job.Total != 2 {
		t.Fatalf("expected total=2, got %d", job.Total)
	}

	done := waitJob(t, svc, job.ID)
	if done.Inserted != 2 || done.Failed != 0 {
		t.Errorf("expected 2 inserted, 0 failed; got %+v", done)
	}
	if n := storedCount(t, store); n != 2 {
		t.Errorf("expected 2 stored records, got %d", n)
	}
}

func TestSubmit_Idempotent(t *testing.T) {
	store := memory.New()
	svc := app.NewIngestService(store, zap.NewNop(), 4)

	batch := heartRateBatch(`{"date":"2024-01-01 10:00:00 +0000","Avg":60}`)

	first := svc.Submit(batch)
	waitJob(t, svc, first.ID)
	second := svc.Submit(batch)
	done := waitJob(t, svc, second.ID)

	if done.Inserted != 0 {
		t.Errorf("expected second submit to insert nothing, got %d", done.Inserted)
	}
	if done.Failed != 0 {
		t.Errorf("duplicate must not count as failure, got %d", done.Failed)
	}
	if n := storedCount(t, store); n != 1 {
		t.Errorf("expected 1 stored record after resubmit, got %d", n)
	}
}

func TestSubmit_CountsFailures(t *testing.T) {
	store := memory.New()
	svc := app.NewIngestService(store, zap.NewNop(), 4)

	job := svc.Submit(heartRateBatch(
		`{"date":"2024-01-01 10:00:00 +0000","Avg":60}`,
		`{"Avg":61}`, // no date
	))
	done := waitJob(t, svc, job.ID)

	if done.Failed != 1 {
		t.Errorf("expected 1 failed sample, got %d", done.Failed)
	}
	if done.Inserted != 1 {
		t.Errorf("bad sample must not abort the batch; inserted=%d", done.Inserted)
	}
}

func TestSubmit_EmptyBatch(t *testing.T) {
	store := memory.New()
	svc := app.NewIngestService(store, zap.NewNop(), 4)

	job := svc.Submit(app.IngestBatch{Data: &app.BatchData{}})
	done := waitJob(t, svc, job.ID)
	if done.Total != 0 || done.Failed != 0 {
		t.Errorf("unexpected job state for empty batch: %+v", done)
	}
}

func TestJob_NotFound(t *testing.T) {
	svc := app.NewIngestService(memory.New(), zap.NewNop(), 4)
	if _, err := svc.Job("nope"); !errors.Is(err, app.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

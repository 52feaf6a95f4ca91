package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"healthmetrics/internal/domain"
)

// ErrJobNotFound is returned by Job for unknown or expired job IDs.
var ErrJobNotFound = errors.New("ingest job not found")

const (
	// batchTimeout caps background processing of one batch.
	batchTimeout = 5 * time.Minute
	// jobRetention is how long finished jobs stay queryable.
	jobRetention = time.Hour
)

// IngestBatch is the parsed body of an ingest request.
type IngestBatch struct {
	Data *BatchData `json:"data"`
}

// BatchData holds the metric groups of a batch.
type BatchData struct {
	Metrics []MetricGroup `json:"metrics"`
}

// MetricGroup is one named metric with its raw samples.
type MetricGroup struct {
	Name  string            `json:"name"`
	Units string            `json:"units"`
	Data  []json.RawMessage `json:"data"`
}

// IngestJob tracks the progress of one submitted batch.
type IngestJob struct {
	ID         string     `json:"id"`
	Total      int        `json:"total"`
	Done       int        `json:"done"`
	Inserted   int        `json:"inserted"`
	Failed     int        `json:"failed"`
	Completed  bool       `json:"completed"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// IngestService accepts metric batches and upserts their samples in the
// background with bounded concurrency. The HTTP response never waits for
// persistence; callers poll Job for the outcome.
type IngestService struct {
	repo    domain.RecordRepository
	log     *zap.Logger
	workers int

	mu   sync.Mutex
	jobs map[string]*IngestJob
}

// NewIngestService creates an IngestService with at most workers upserts in
// flight per batch.
func NewIngestService(repo domain.RecordRepository, log *zap.Logger, workers int) *IngestService {
	return &IngestService{
		repo:    repo,
		log:     log,
		workers: workers,
		jobs:    make(map[string]*IngestJob),
	}
}

type workItem struct {
	metric string
	unit   string
	raw    json.RawMessage
}

// Submit registers a job for the batch, starts processing in the background,
// and returns a snapshot of the new job immediately.
func (s *IngestService) Submit(batch IngestBatch) IngestJob {
	var items []workItem
	if batch.Data != nil {
		for _, group := range batch.Data.Metrics {
			for _, raw := range group.Data {
				items = append(items, workItem{metric: group.Name, unit: group.Units, raw: raw})
			}
		}
	}

	job := &IngestJob{
		ID:        uuid.NewString(),
		Total:     len(items),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.pruneLocked(time.Now())
	s.jobs[job.ID] = job
	snapshot := *job
	s.mu.Unlock()

	go s.process(job, items)
	return snapshot
}

// Job returns the current state of a submitted job. Jobs finished longer than
// jobRetention ago are gone.
func (s *IngestService) Job(id string) (IngestJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(time.Now())
	job, ok := s.jobs[id]
	if !ok {
		return IngestJob{}, ErrJobNotFound
	}
	return *job, nil
}

func (s *IngestService) process(job *IngestJob, items []workItem) {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for _, item := range items {
		item := item
		g.Go(func() error {
			s.processOne(ctx, job, item)
			return nil
		})
	}
	_ = g.Wait()

	now := time.Now().UTC()
	s.mu.Lock()
	job.Completed = true
	job.FinishedAt = &now
	total, inserted, failed := job.Total, job.Inserted, job.Failed
	s.mu.Unlock()

	s.log.Info("ingest batch finished",
		zap.String("job", job.ID),
		zap.Int("total", total),
		zap.Int("inserted", inserted),
		zap.Int("failed", failed),
	)
}

// processOne runs hash, normalize and upsert for one sample. Failures are
// counted on the job and logged; they never abort the rest of the batch.
func (s *IngestService) processOne(ctx context.Context, job *IngestJob, item workItem) {
	inserted, err := s.upsert(ctx, item)

	s.mu.Lock()
	job.Done++
	if err != nil {
		job.Failed++
	} else if inserted {
		job.Inserted++
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("sample upsert failed",
			zap.String("job", job.ID),
			zap.String("metric", item.metric),
			zap.Error(err),
		)
	}
}

func (s *IngestService) upsert(ctx context.Context, item workItem) (bool, error) {
	hash, err := domain.SampleHash(item.raw)
	if err != nil {
		return false, err
	}
	rec, hasValue, err := domain.NormalizeSample(item.metric, item.unit, item.raw)
	if err != nil {
		return false, err
	}
	if !hasValue {
		s.log.Warn("sample carries neither Avg nor qty, storing 0",
			zap.String("metric", item.metric),
			zap.String("hash", hash),
		)
	}
	rec.Hash = hash
	return s.repo.UpsertRecord(ctx, rec)
}

func (s *IngestService) pruneLocked(now time.Time) {
	for id, job := range s.jobs {
		if job.Completed && job.FinishedAt != nil && now.Sub(*job.FinishedAt) > jobRetention {
			delete(s.jobs, id)
		}
	}
}

package app

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"healthmetrics/internal/domain"
)

// StatsService computes overall and time-bucketed aggregates.
type StatsService struct {
	repo    domain.RecordRepository
	workers int
}

// NewStatsService creates a StatsService with at most workers bucket queries
// in flight.
func NewStatsService(repo domain.RecordRepository, workers int) *StatsService {
	return &StatsService{repo: repo, workers: workers}
}

// Summary is the full aggregate response: overall statistics plus one bucket
// per time window of the chosen granularity.
type Summary struct {
	domain.Aggregate
	Breakdown []domain.Bucket `json:"breakdown"`
}

// Summary computes the overall aggregate for f plus a breakdown into buckets
// of granularity g, spanning from the earliest matching record's aligned
// bucket to the latest's. Buckets are sorted by start ascending.
func (s *StatsService) Summary(ctx context.Context, f domain.QueryFilter, g domain.Granularity) (*Summary, error) {
	overall, err := s.repo.Aggregate(ctx, f)
	if err != nil {
		return nil, err
	}
	buckets, err := s.breakdown(ctx, f, g)
	if err != nil {
		return nil, err
	}
	return &Summary{Aggregate: overall, Breakdown: buckets}, nil
}

func (s *StatsService) breakdown(ctx context.Context, f domain.QueryFilter, g domain.Granularity) ([]domain.Bucket, error) {
	first, last, ok, err := s.repo.TimeBounds(ctx, f)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.Bucket{}, nil
	}

	var starts []time.Time
	lastStart := g.AlignDown(last)
	for cur := g.AlignDown(first); !cur.After(lastStart); cur = g.Next(cur) {
		starts = append(starts, cur)
	}

	// Buckets are independent read-only queries; run them concurrently.
	buckets := make([]domain.Bucket, len(starts))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.workers)
	for i, start := range starts {
		i, start := i, start
		eg.Go(func() error {
			end := g.Next(start).Add(-time.Nanosecond)
			agg, err := s.repo.Aggregate(ctx, intersect(f, start, end))
			if err != nil {
				return err
			}
			buckets[i] = domain.Bucket{Start: start, End: end, Aggregate: agg}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Start.Before(buckets[j].Start) })
	return buckets, nil
}

// intersect narrows f to the window [start, end], keeping whichever bound is
// tighter.
func intersect(f domain.QueryFilter, start, end time.Time) domain.QueryFilter {
	if f.After == nil || start.After(*f.After) {
		f.After = &start
	}
	if f.Before == nil || end.Before(*f.Before) {
		f.Before = &end
	}
	return f
}

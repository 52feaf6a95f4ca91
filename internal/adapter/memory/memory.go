// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"healthmetrics/internal/domain"
)

// DB implements an in-memory record store.
type DB struct {
	mu      sync.Mutex
	records []domain.Record
	byHash  map[string]struct{}

	idCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{byHash: make(map[string]struct{})}
}

// Ensure interfaces are met.
var _ domain.RecordRepository = (*DB)(nil)

// UpsertRecord inserts rec unless a record with the same hash exists.
func (db *DB) UpsertRecord(ctx context.Context, rec domain.Record) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.byHash[rec.Hash]; exists {
		return false, nil
	}

	db.idCounter++
	rec.ID = db.idCounter
	rec.Date = rec.Date.UTC()
	db.records = append(db.records, rec)
	db.byHash[rec.Hash] = struct{}{}
	return true, nil
}

// Aggregate computes count/avg/sum/min/max over records matching f.
func (db *DB) Aggregate(ctx context.Context, f domain.QueryFilter) (domain.Aggregate, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var agg domain.Aggregate
	var sum, lo, hi float64
	for _, r := range db.records {
		if !matches(r, f) {
			continue
		}
		if agg.Count == 0 {
			lo, hi = r.Value, r.Value
		} else {
			if r.Value < lo {
				lo = r.Value
			}
			if r.Value > hi {
				hi = r.Value
			}
		}
		sum += r.Value
		agg.Count++
	}

	if agg.Count > 0 {
		avg := sum / float64(agg.Count)
		agg.Average = &avg
		s := sum
		agg.Sum = &s
		agg.Minimum = &lo
		agg.Maximum = &hi
	}
	return agg, nil
}

// TimeBounds returns the earliest and latest record dates matching f.
func (db *DB) TimeBounds(ctx context.Context, f domain.QueryFilter) (first, last time.Time, ok bool, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, r := range db.records {
		if !matches(r, f) {
			continue
		}
		if !ok {
			first, last = r.Date, r.Date
			ok = true
			continue
		}
		if r.Date.Before(first) {
			first = r.Date
		}
		if r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last, ok, nil
}

// ListRecords returns up to limit records matching f in the given order.
func (db *DB) ListRecords(ctx context.Context, f domain.QueryFilter, order domain.RecordSort, limit int) ([]domain.Record, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Record, 0, len(db.records))
	for _, r := range db.records {
		if matches(r, f) {
			result = append(result, r)
		}
	}

	less, err := lessFunc(order.Field)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(result, func(i, j int) bool {
		if order.Desc {
			return less(result[j], result[i])
		}
		return less(result[i], result[j])
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func lessFunc(field domain.SortField) (func(a, b domain.Record) bool, error) {
	switch field {
	case domain.SortByID:
		return func(a, b domain.Record) bool { return a.ID < b.ID }, nil
	case domain.SortByDate:
		return func(a, b domain.Record) bool { return a.Date.Before(b.Date) }, nil
	case domain.SortByValue:
		return func(a, b domain.Record) bool { return a.Value < b.Value }, nil
	case domain.SortByType:
		return func(a, b domain.Record) bool { return a.Type < b.Type }, nil
	case domain.SortByUnit:
		return func(a, b domain.Record) bool { return a.Unit < b.Unit }, nil
	}
	return nil, fmt.Errorf("unsortable field %q", field)
}

func matches(r domain.Record, f domain.QueryFilter) bool {
	if f.After != nil && r.Date.Before(*f.After) {
		return false
	}
	if f.Before != nil && r.Date.After(*f.Before) {
		return false
	}
	if f.Type != nil && r.Type != *f.Type {
		return false
	}
	if f.Unit != nil && r.Unit != *f.Unit {
		return false
	}
	if f.Value != nil && r.Value != *f.Value {
		return false
	}
	return true
}

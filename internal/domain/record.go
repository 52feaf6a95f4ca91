// Package domain holds the core entities and repository ports for the
// health-metrics store.
package domain

import (
	"context"
	"time"
)

// Record is a single normalized health metric sample.
type Record struct {
	ID    int64     `json:"id"`
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Type  string    `json:"type"`
	Unit  string    `json:"unit"`
	Hash  string    `json:"hash"`
}

// QueryFilter narrows record queries. Nil fields match everything; After and
// Before are both inclusive.
type QueryFilter struct {
	After  *time.Time
	Before *time.Time
	Type   *string
	Unit   *string
	Value  *float64
}

// Aggregate holds the scalar statistics over a set of records. The nullable
// fields are nil when no records matched; Count is then 0.
type Aggregate struct {
	Count   int64    `json:"count"`
	Average *float64 `json:"average"`
	Sum     *float64 `json:"sum"`
	Minimum *float64 `json:"minimum"`
	Maximum *float64 `json:"maximum"`
}

// Bucket is an Aggregate scoped to one time window. Start and End are both
// inclusive; End is the instant just before the next bucket's Start.
type Bucket struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Aggregate
}

// SortField names a record column that results may be ordered by.
type SortField string

// Sortable record fields.
const (
	SortByID    SortField = "id"
	SortByDate  SortField = "date"
	SortByValue SortField = "value"
	SortByType  SortField = "type"
	SortByUnit  SortField = "unit"
)

// RecordSort describes the ordering of a record listing.
type RecordSort struct {
	Field SortField
	Desc  bool
}

// RecordRepository is the port for record persistence.
type RecordRepository interface {
	// UpsertRecord inserts rec unless a record with the same hash already
	// exists. It reports whether a row was inserted.
	UpsertRecord(ctx context.Context, rec Record) (bool, error)
	// Aggregate computes the scalar statistics over all records matching f.
	Aggregate(ctx context.Context, f QueryFilter) (Aggregate, error)
	// TimeBounds returns the earliest and latest Date among records matching
	// f. ok is false when nothing matched.
	TimeBounds(ctx context.Context, f QueryFilter) (first, last time.Time, ok bool, err error)
	// ListRecords returns up to limit records matching f in the given order.
	ListRecords(ctx context.Context, f QueryFilter, sort RecordSort, limit int) ([]Record, error)
}

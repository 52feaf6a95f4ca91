package app

import (
	"context"
	"fmt"
	"strings"

	"healthmetrics/internal/domain"
)

// maxListLimit caps the number of rows a raw-records query may return.
const maxListLimit = 100

// ParseRecordSort parses a "field:direction" sort parameter against the
// allow-list of sortable fields. Empty input means date ascending.
func ParseRecordSort(s string) (domain.RecordSort, error) {
	if s == "" {
		return domain.RecordSort{Field: domain.SortByDate}, nil
	}

	field, dir, hasDir := strings.Cut(s, ":")
	var out domain.RecordSort
	switch f := domain.SortField(field); f {
	case domain.SortByID, domain.SortByDate, domain.SortByValue, domain.SortByType, domain.SortByUnit:
		out.Field = f
	default:
		return domain.RecordSort{}, fmt.Errorf("cannot sort by %q", field)
	}

	if hasDir {
		switch dir {
		case "asc":
		case "desc":
			out.Desc = true
		default:
			return domain.RecordSort{}, fmt.Errorf("sort direction must be \"asc\" or \"desc\", got %q", dir)
		}
	}
	return out, nil
}

// RecordsService serves raw record listings.
type RecordsService struct {
	repo domain.RecordRepository
}

// NewRecordsService creates a RecordsService backed by the given repository.
func NewRecordsService(repo domain.RecordRepository) *RecordsService {
	return &RecordsService{repo: repo}
}

// List returns up to 100 records matching f in the given order.
func (s *RecordsService) List(ctx context.Context, f domain.QueryFilter, sort domain.RecordSort) ([]domain.Record, error) {
	return s.repo.ListRecords(ctx, f, sort, maxListLimit)
}

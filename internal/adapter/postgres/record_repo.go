package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"healthmetrics/internal/domain"
)

// UpsertRecord inserts rec unless a record with the same hash exists. The
// unique constraint on hash is the only dedup mechanism; conflicts are
// silently skipped.
func (d *DB) UpsertRecord(ctx context.Context, rec domain.Record) (bool, error) {
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO health_records(date, value, type, unit, hash) VALUES($1, $2, $3, $4, $5) ON CONFLICT (hash) DO NOTHING;",
		rec.Date.UTC(), rec.Value, rec.Type, rec.Unit, rec.Hash,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Aggregate computes count/avg/sum/min/max over records matching f. The
// nullable aggregates come back NULL on an empty match and stay nil.
func (d *DB) Aggregate(ctx context.Context, f domain.QueryFilter) (domain.Aggregate, error) {
	where, args := filterWhere(f)
	row := d.sql.QueryRowContext(ctx,
		"SELECT COUNT(1), AVG(value), SUM(value), MIN(value), MAX(value) FROM health_records"+where+";",
		args...,
	)

	var agg domain.Aggregate
	var avg, sum, min, max sql.NullFloat64
	if err := row.Scan(&agg.Count, &avg, &sum, &min, &max); err != nil {
		return domain.Aggregate{}, err
	}
	agg.Average = nullable(avg)
	agg.Sum = nullable(sum)
	agg.Minimum = nullable(min)
	agg.Maximum = nullable(max)
	return agg, nil
}

// TimeBounds returns the earliest and latest record dates matching f.
func (d *DB) TimeBounds(ctx context.Context, f domain.QueryFilter) (first, last time.Time, ok bool, err error) {
	where, args := filterWhere(f)
	row := d.sql.QueryRowContext(ctx,
		"SELECT MIN(date), MAX(date) FROM health_records"+where+";", args...)

	var lo, hi sql.NullTime
	if err := row.Scan(&lo, &hi); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, time.Time{}, false, nil
		}
		return time.Time{}, time.Time{}, false, err
	}
	if !lo.Valid || !hi.Valid {
		return time.Time{}, time.Time{}, false, nil
	}
	return lo.Time.UTC(), hi.Time.UTC(), true, nil
}

// Columns for each sortable field. Kept explicit so the sort parameter never
// reaches the query text unchecked.
var sortColumns = map[domain.SortField]string{
	domain.SortByID:    "id",
	domain.SortByDate:  "date",
	domain.SortByValue: "value",
	domain.SortByType:  "type",
	domain.SortByUnit:  "unit",
}

// ListRecords returns up to limit records matching f in the given order.
func (d *DB) ListRecords(ctx context.Context, f domain.QueryFilter, sort domain.RecordSort, limit int) ([]domain.Record, error) {
	col, ok := sortColumns[sort.Field]
	if !ok {
		return nil, fmt.Errorf("unsortable field %q", sort.Field)
	}
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}

	where, args := filterWhere(f)
	args = append(args, limit)
	query := fmt.Sprintf(
		"SELECT id, date, value, type, unit, hash FROM health_records%s ORDER BY %s %s LIMIT $%d;",
		where, col, dir, len(args),
	)

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Record, 0, limit)
	for rows.Next() {
		var r domain.Record
		if err := rows.Scan(&r.ID, &r.Date, &r.Value, &r.Type, &r.Unit, &r.Hash); err != nil {
			return nil, err
		}
		r.Date = r.Date.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// filterWhere builds the WHERE clause and positional args for f.
func filterWhere(f domain.QueryFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.After != nil {
		add("date >= $%d", f.After.UTC())
	}
	if f.Before != nil {
		add("date <= $%d", f.Before.UTC())
	}
	if f.Type != nil {
		add("type = $%d", *f.Type)
	}
	if f.Unit != nil {
		add("unit = $%d", *f.Unit)
	}
	if f.Value != nil {
		add("value = $%d", *f.Value)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

package adapthttp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"healthmetrics/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// parseJSON decodes a request body. Unknown fields are tolerated: export
// payloads carry sections (workouts, device info) this service ignores.
func parseJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// parseFilter translates the shared query parameters into a QueryFilter.
// Errors name the offending parameter.
func parseFilter(q url.Values) (domain.QueryFilter, error) {
	var f domain.QueryFilter

	if v := q.Get("after"); v != "" {
		t, err := parseTimeBound(v, false)
		if err != nil {
			return f, fmt.Errorf("invalid after: %w", err)
		}
		f.After = &t
	}
	if v := q.Get("before"); v != "" {
		t, err := parseTimeBound(v, true)
		if err != nil {
			return f, fmt.Errorf("invalid before: %w", err)
		}
		f.Before = &t
	}
	if v := q.Get("type"); v != "" {
		f.Type = &v
	}
	if v := q.Get("unit"); v != "" {
		f.Unit = &v
	}
	if v := q.Get("value"); v != "" {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, fmt.Errorf("invalid value: %q is not a number", v)
		}
		f.Value = &x
	}
	return f, nil
}

// parseTimeBound accepts an RFC 3339 timestamp or a bare date. Bounds are
// inclusive, so a bare date used as an upper bound covers the whole day.
func parseTimeBound(s string, upper bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want RFC 3339 or YYYY-MM-DD, got %q", s)
	}
	if upper {
		return t.AddDate(0, 0, 1).Add(-time.Nanosecond).UTC(), nil
	}
	return t.UTC(), nil
}

func withCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
}

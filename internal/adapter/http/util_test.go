package adapthttp

import (
	"net/url"
	"testing"
	"time"
)

func TestParseFilter(t *testing.T) {
	q := url.Values{}
	q.Set("after", "2024-01-01")
	q.Set("before", "2024-01-02")
	q.Set("type", "heart_rate")
	q.Set("value", "60.5")

	f, err := parseFilter(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantAfter := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if f.After == nil || !f.After.Equal(wantAfter) {
		t.Errorf("expected after %v, got %v", wantAfter, f.After)
	}
	// A bare date as upper bound covers the whole day.
	if f.Before == nil || !f.Before.After(time.Date(2024, 1, 2, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("expected before at end of Jan 2, got %v", f.Before)
	}
	if f.Type == nil || *f.Type != "heart_rate" {
		t.Errorf("expected type heart_rate, got %v", f.Type)
	}
	if f.Value == nil || *f.Value != 60.5 {
		t.Errorf("expected value 60.5, got %v", f.Value)
	}
	if f.Unit != nil {
		t.Errorf("expected nil unit, got %v", f.Unit)
	}
}

func TestParseFilter_RFC3339(t *testing.T) {
	q := url.Values{}
	q.Set("before", "2024-01-02T10:30:00Z")

	f, err := parseFilter(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)
	if f.Before == nil || !f.Before.Equal(want) {
		t.Errorf("full timestamps are taken as-is; expected %v, got %v", want, f.Before)
	}
}

func TestParseFilter_Invalid(t *testing.T) {
	for param, val := range map[string]string{
		"after":  "soon",
		"before": "2024-1-1T",
		"value":  "sixty",
	} {
		q := url.Values{}
		q.Set(param, val)
		if _, err := parseFilter(q); err == nil {
			t.Errorf("expected error for %s=%q", param, val)
		}
	}
}

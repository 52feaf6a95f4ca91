package domain

import (
	"encoding/json"
	"testing"
)

func TestSampleHash_Stable(t *testing.T) {
	a := json.RawMessage(`{"date":"2024-01-01 10:00:00 +0000","Avg":60,"Min":55,"Max":70}`)
	b := json.RawMessage(`{"Min":55,"Max":70,"Avg":60,"date":"2024-01-01 10:00:00 +0000"}`)

	ha, err := SampleHash(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hb, err := SampleHash(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ha != hb {
		t.Errorf("field order changed the hash: %s vs %s", ha, hb)
	}
	if len(ha) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(ha))
	}
}

func TestSampleHash_DistinctValues(t *testing.T) {
	a := json.RawMessage(`{"date":"2024-01-01 10:00:00 +0000","Avg":60}`)
	b := json.RawMessage(`{"date":"2024-01-01 10:00:00 +0000","Avg":61}`)

	ha, _ := SampleHash(a)
	hb, _ := SampleHash(b)
	if ha == hb {
		t.Error("distinct samples produced the same hash")
	}
}

func TestSampleHash_LargeIntegerPrecision(t *testing.T) {
	// 2^53 and 2^53+1 are the same float64; their hashes must still differ.
	a := json.RawMessage(`{"date":"2024-01-01","qty":9007199254740992}`)
	b := json.RawMessage(`{"date":"2024-01-01","qty":9007199254740993}`)

	ha, err := SampleHash(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hb, err := SampleHash(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ha == hb {
		t.Error("samples differing beyond float64 precision collapsed to one hash")
	}
}

func TestSampleHash_InvalidJSON(t *testing.T) {
	if _, err := SampleHash(json.RawMessage(`{not json`)); err == nil {
		t.Fatal("expected error for invalid json")
	}
}

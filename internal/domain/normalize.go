package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date layouts seen in health export payloads, tried in order.
var sampleDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseSampleDate parses a sample's date string. Layouts without a zone are
// taken as UTC.
func ParseSampleDate(s string) (time.Time, error) {
	for _, layout := range sampleDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// NormalizeSample maps one raw sample from the metric group named metric onto
// the stored record shape. The value is taken from an "Avg" field if present,
// else a "qty" field, else 0; hasValue reports whether either field was
// present so callers can log the zero default. The returned record carries no
// ID or Hash.
func NormalizeSample(metric, unit string, raw json.RawMessage) (rec Record, hasValue bool, err error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Record{}, false, fmt.Errorf("normalize %s sample: %w", metric, err)
	}

	dateStr, ok := fields["date"].(string)
	if !ok {
		return Record{}, false, fmt.Errorf("normalize %s sample: missing date", metric)
	}
	date, err := ParseSampleDate(dateStr)
	if err != nil {
		return Record{}, false, fmt.Errorf("normalize %s sample: %w", metric, err)
	}

	value, hasValue := numberField(fields, "Avg")
	if !hasValue {
		value, hasValue = numberField(fields, "qty")
	}

	return Record{
		Date:  date,
		Value: value,
		Type:  metric,
		Unit:  unit,
	}, hasValue, nil
}

func numberField(fields map[string]any, key string) (float64, bool) {
	v, ok := fields[key].(float64)
	return v, ok
}

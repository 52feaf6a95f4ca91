package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// SampleHash returns the dedup key for one raw export sample: the sha256
// digest, hex encoded, of the sample's canonical JSON form. encoding/json
// marshals map keys in sorted order, so the digest depends only on the fields
// present and their values, never on field order or on the rest of the batch.
// Numbers are kept as their literal text so values beyond float64 precision
// stay distinct.
func SampleHash(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return "", fmt.Errorf("sample hash: %w", err)
	}
	canonical, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("sample hash: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

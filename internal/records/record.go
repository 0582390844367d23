// Package records defines the row shape shared by the extractor and the
// staging writers, plus the content fingerprint used for change detection.
//
// A Record is a flat field-name -> scalar mapping. Allowed value types are
// string, int64, float64, bool, and nil; the extractor only ever produces
// these, which keeps fingerprinting and SQL binding predictable.
package records

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Record is one staged row before column binding.
type Record map[string]any

// FingerprintField is the column that stores a row's content digest.
// It is never part of the digest input.
const FingerprintField = "row_fingerprint"

// Fingerprint returns a stable lowercase hex digest over the record's
// field values. Keys are serialized in sorted order with compact JSON, so
// two records with the same key/value sets hash identically regardless of
// how they were assembled. The digest is a change-detection tag, not a
// security primitive.
//
// The row_fingerprint field itself is excluded so a record can be
// re-fingerprinted after a round trip through storage.
func (r Record) Fingerprint() string {
	payload := make(map[string]any, len(r))
	for k, v := range r {
		if k == FingerprintField {
			continue
		}
		payload[k] = v
	}
	// encoding/json marshals map keys in sorted order and emits compact
	// output, which is exactly the canonical form we need.
	b, err := json.Marshal(payload)
	if err != nil {
		// Only unsupported value types can end up here; scalars never fail.
		b = []byte(err.Error())
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Stamp computes the record's fingerprint and stores it under
// FingerprintField, returning the record for chaining.
func (r Record) Stamp() Record {
	r[FingerprintField] = r.Fingerprint()
	return r
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

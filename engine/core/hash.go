package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// JobInputHashKey is the decision hash recorded when a job is prepared.
const JobInputHashKey = "job_input_hash"

// ContentHash returns the lowercase hex SHA-256 of the canonical encoding of v.
// Structurally equal values hash identically regardless of key insertion order.
func ContentHash(v Value) (string, error) {
	data, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize value: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

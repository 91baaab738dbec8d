package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key builds a canonical cache key from an operation name and its
// parameters. Parameters are encoded in the fixed order given by the
// caller, so the key does not depend on any map iteration or option
// field order. The format is: op:sha256(json(parts)).
func Key(op string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Full SHA-256 (64 hex chars) to prevent collisions.
	return fmt.Sprintf("%s:%s", op, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

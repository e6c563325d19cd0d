// Package idempotency detects change records that have already been applied
// within a run. Upstream extracts are replayed after failures, so the same
// NDJSON line can appear more than once in a feed; records are fingerprinted
// by content and repeats are skipped.
package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// FingerprintPrefix namespaces record fingerprints.
const FingerprintPrefix = "record"

// Fingerprint returns the content fingerprint of one raw change record.
func Fingerprint(record []byte) string {
	hash := sha256.Sum256(record)

	return fmt.Sprintf("%s:%s", FingerprintPrefix, hex.EncodeToString(hash[:]))
}

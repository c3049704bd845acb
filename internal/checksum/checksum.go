// Package checksum produces the content digests carried by detail responses.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data. Dashboard clients
// compare it across refreshes to skip re-rendering unchanged records.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

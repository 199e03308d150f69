package report

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"iocc/pkg/key"
)

// Fingerprint returns a short hex fingerprint of a key.
//
// It hashes the key's target type, qualifier type and display form with
// BLAKE2b-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(k key.Key) string {
	qt := "<nil>"
	if t := k.QualifierType(); t != nil {
		qt = t.String()
	}
	sum := blake2b.Sum256([]byte(k.Target().String() + "\x00" + qt + "\x00" + k.String()))
	return hex.EncodeToString(sum[:10])
}

package distill

import (
	"crypto/md5" //nolint:gosec // fingerprints identify shapes, not secrets
	"encoding/hex"

	"github.com/fyrsmithlabs/jsondistill/internal/jsontree"
)

// FingerprintLen is the length of a fingerprint string.
const FingerprintLen = 8

// Fingerprint returns the 8-character hex fingerprint of a structural key:
// the first four bytes of the MD5 digest of its canonical text. The result
// is stable across runs and processes.
func Fingerprint(k *Key) string {
	sum := md5.Sum([]byte(k.Repr())) //nolint:gosec
	return hex.EncodeToString(sum[:4])
}

// KeyOf returns the structural key of v.
func KeyOf(v jsontree.Value, strictTyping bool) (*Key, error) {
	return newCanonicalizer(strictTyping).key(v)
}

// FingerprintOf returns the fingerprint of v's structural key.
func FingerprintOf(v jsontree.Value, strictTyping bool) (string, error) {
	return newCanonicalizer(strictTyping).fingerprint(v)
}

package crypto

import (
	"encoding/hex"
	"io"

	"golang.org/x/crypto/blake2b"
)

// fingerprintBytes is the truncated digest length (20 hex chars).
const fingerprintBytes = 10

// Fingerprint returns a short hex fingerprint of data.
//
// It hashes with unkeyed BLAKE2b-256 and truncates to 10 bytes.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:fingerprintBytes])
}

// FingerprintReader is Fingerprint over a stream. It returns the number of
// bytes hashed alongside the fingerprint.
func FingerprintReader(r io.Reader) (string, int64, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", 0, err
	}
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, err
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:fingerprintBytes]), n, nil
}

// Pick maps fingerprint-derived bytes onto an index in [0, n). It is stable
// for a given input, which lets callers make deterministic choices keyed on
// image content.
func Pick(data []byte, n int) int {
	if n <= 0 {
		return 0
	}
	sum := blake2b.Sum256(data)
	var v uint64
	for _, b := range sum[:8] {
		v = v<<8 | uint64(b)
	}
	return int(v % uint64(n))
}

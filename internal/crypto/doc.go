// Package crypto exposes the small set of primitives plantdoc needs.
//
// Contents
//
//   - Short content fingerprints for uploaded images (Fingerprint,
//     FingerprintReader) and a stable content-keyed choice (Pick)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// # Notes
//
// Fingerprints are for display, logging and deduplication only. They are
// truncated and must not be used where collision resistance matters.
package crypto

// Package store provides file-based persistence for plantdoc's local state.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk through temp-file-and-rename writes. All
// methods are concurrency-safe via internal locking. Files live under the
// user's configured home directory (default ~/.plantdoc).
//
// The package includes stores for:
//   - The API token, sealed with a passphrase (CredentialFileStore)
//   - Cached diagnosis result sets (CacheFileStore)
package store

package interfaces

import domaintypes "plantdoc/internal/domain/types"

// CredentialStore persists the API token sealed under a passphrase.
type CredentialStore interface {
	SaveToken(passphrase string, token string) error
	LoadToken(passphrase string) (string, error)
	DeleteToken() error
	HasToken() (bool, error)
}

// CacheStore persists cached diagnosis result sets between runs. SaveEntry
// replaces one key and leaves the others as currently stored.
type CacheStore interface {
	SaveEntries(entries map[domaintypes.CacheKey]domaintypes.CacheEntry) error
	SaveEntry(key domaintypes.CacheKey, entry domaintypes.CacheEntry) error
	LoadEntries() (map[domaintypes.CacheKey]domaintypes.CacheEntry, error)
}

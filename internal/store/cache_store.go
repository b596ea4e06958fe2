package store

import (
	"path/filepath"
	"sync"

	"plantdoc/internal/domain"
)

const cacheFilename = "cache.json"

// CacheFileStore persists query cache entries to disk.
type CacheFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewCacheFileStore returns a CacheFileStore rooted at dir.
func NewCacheFileStore(dir string) *CacheFileStore {
	return &CacheFileStore{dir: dir}
}

// SaveEntries replaces the stored entries.
func (s *CacheFileStore) SaveEntries(entries map[domain.CacheKey]domain.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(filepath.Join(s.dir, cacheFilename), entries, 0o600)
}

// SaveEntry re-reads the stored entries, replaces key and writes them back,
// so keys written by another process since this one loaded are kept.
func (s *CacheFileStore) SaveEntry(key domain.CacheKey, entry domain.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, cacheFilename)
	entries := map[domain.CacheKey]domain.CacheEntry{}
	if _, err := readJSON(path, &entries); err != nil {
		return err
	}
	entries[key] = entry
	return writeJSON(path, entries, 0o600)
}

// LoadEntries returns the stored entries, or an empty map if none exist.
func (s *CacheFileStore) LoadEntries() (map[domain.CacheKey]domain.CacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := map[domain.CacheKey]domain.CacheEntry{}
	if _, err := readJSON(filepath.Join(s.dir, cacheFilename), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Compile-time assertion that CacheFileStore implements domain.CacheStore.
var _ domain.CacheStore = (*CacheFileStore)(nil)

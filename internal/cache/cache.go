// Package cache holds fetched diagnosis result sets keyed by query and marks
// them stale when a new diagnosis makes them outdated.
//
// A QueryCache is the client-side counterpart of the "invalidate after
// mutation" pattern: Get serves a fresh entry or refetches, Invalidate marks
// an entry stale so the next Get refetches. Concurrent Gets for one key share
// a single fetch. Entries are persisted through a domain.CacheStore so a
// separate process (the next CLI invocation) sees invalidations.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"plantdoc/internal/domain"
)

// Fetcher loads the records for one key.
type Fetcher func(ctx context.Context) ([]domain.DiagnosisRecord, error)

// Option configures a QueryCache.
type Option func(*QueryCache)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(c *QueryCache) { c.log = l } }

// WithMaxAge treats entries older than d as stale. Zero means entries stay
// fresh until invalidated.
func WithMaxAge(d time.Duration) Option { return func(c *QueryCache) { c.maxAge = d } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(c *QueryCache) { c.now = now } }

// QueryCache caches diagnosis lists per key.
type QueryCache struct {
	store  domain.CacheStore
	log    *zap.Logger
	maxAge time.Duration
	now    func() time.Time

	mu       sync.Mutex
	entries  map[domain.CacheKey]domain.CacheEntry
	versions map[domain.CacheKey]uint64 // bumped by Invalidate
	loaded   bool

	group singleflight.Group
}

// New returns a cache persisted through store. A nil store keeps entries in
// memory only.
func New(store domain.CacheStore, opts ...Option) *QueryCache {
	c := &QueryCache{
		store:    store,
		log:      zap.NewNop(),
		now:      time.Now,
		entries:  map[domain.CacheKey]domain.CacheEntry{},
		versions: map[domain.CacheKey]uint64{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached records for key, fetching them when the entry is
// missing or stale.
func (c *QueryCache) Get(ctx context.Context, key domain.CacheKey, fetch Fetcher) ([]domain.DiagnosisRecord, error) {
	if err := c.ensureLoaded(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	entry, ok := c.entries[key]
	fresh := ok && c.freshLocked(entry)
	c.mu.Unlock()
	if fresh {
		return cloneRecords(entry.Records), nil
	}

	v, err, shared := c.group.Do(key.String(), func() (any, error) {
		c.mu.Lock()
		version := c.versions[key]
		c.mu.Unlock()

		records, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		// An Invalidate during the fetch means these records may predate the
		// change it announced.
		entry := domain.CacheEntry{
			Records:   records,
			FetchedAt: c.now(),
			Stale:     c.versions[key] != version,
		}
		c.entries[key] = entry
		err = c.persistLocked(key, entry)
		c.mu.Unlock()
		if err != nil {
			c.log.Warn("persist cache", zap.String("key", key.String()), zap.Error(err))
		}
		return records, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}
	c.log.Debug("cache refetched", zap.String("key", key.String()), zap.Bool("shared", shared))
	return cloneRecords(v.([]domain.DiagnosisRecord)), nil
}

// Invalidate marks key stale. Keys never fetched are recorded as stale too,
// so the next Get always goes to the fetcher.
func (c *QueryCache) Invalidate(key domain.CacheKey) {
	if err := c.ensureLoaded(); err != nil {
		c.log.Warn("load cache", zap.Error(err))
	}

	c.mu.Lock()
	c.versions[key]++
	entry := c.entries[key]
	entry.Stale = true
	c.entries[key] = entry
	err := c.persistLocked(key, entry)
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("persist cache", zap.String("key", key.String()), zap.Error(err))
	}
	c.log.Debug("cache invalidated", zap.String("key", key.String()))
}

// IsStale reports whether the next Get for key would fetch.
func (c *QueryCache) IsStale(key domain.CacheKey) bool {
	if err := c.ensureLoaded(); err != nil {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	return !ok || !c.freshLocked(entry)
}

// Peek returns the entry for key without fetching.
func (c *QueryCache) Peek(key domain.CacheKey) (domain.CacheEntry, bool) {
	if err := c.ensureLoaded(); err != nil {
		return domain.CacheEntry{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	entry.Records = cloneRecords(entry.Records)
	return entry, ok
}

func (c *QueryCache) freshLocked(e domain.CacheEntry) bool {
	if e.Stale || e.FetchedAt.IsZero() {
		return false
	}
	return c.maxAge <= 0 || c.now().Sub(e.FetchedAt) < c.maxAge
}

func (c *QueryCache) ensureLoaded() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded || c.store == nil {
		c.loaded = true
		return nil
	}
	stored, err := c.store.LoadEntries()
	if err != nil {
		return fmt.Errorf("load cache: %w", err)
	}
	for k, v := range stored {
		if _, ok := c.entries[k]; !ok {
			c.entries[k] = v
		}
	}
	c.loaded = true
	return nil
}

// persistLocked writes only key, leaving keys other processes wrote alone.
func (c *QueryCache) persistLocked(key domain.CacheKey, entry domain.CacheEntry) error {
	if c.store == nil {
		return nil
	}
	return c.store.SaveEntry(key, entry)
}

func cloneRecords(in []domain.DiagnosisRecord) []domain.DiagnosisRecord {
	if in == nil {
		return nil
	}
	return append([]domain.DiagnosisRecord(nil), in...)
}

// Compile-time assertion that QueryCache implements domain.CacheInvalidator.
var _ domain.CacheInvalidator = (*QueryCache)(nil)

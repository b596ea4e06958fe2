package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantdoc/internal/cache"
	"plantdoc/internal/domain"
	"plantdoc/internal/store"
)

func fetcher(calls *atomic.Int32, records ...domain.DiagnosisRecord) cache.Fetcher {
	return func(ctx context.Context) ([]domain.DiagnosisRecord, error) {
		calls.Add(1)
		return records, nil
	}
}

func TestGet_CachesUntilInvalidated(t *testing.T) {
	c := cache.New(nil)
	ctx := context.Background()
	var calls atomic.Int32
	fetch := fetcher(&calls, domain.DiagnosisRecord{ID: "1", Disease: "Leaf Mold"})

	for i := 0; i < 3; i++ {
		got, err := c.Get(ctx, domain.CacheKeyAllDiagnoses, fetch)
		require.NoError(t, err)
		require.Len(t, got, 1)
	}
	assert.EqualValues(t, 1, calls.Load())
	assert.False(t, c.IsStale(domain.CacheKeyAllDiagnoses))

	c.Invalidate(domain.CacheKeyAllDiagnoses)
	assert.True(t, c.IsStale(domain.CacheKeyAllDiagnoses))

	_, err := c.Get(ctx, domain.CacheKeyAllDiagnoses, fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestInvalidate_OnlyTouchesItsKey(t *testing.T) {
	c := cache.New(nil)
	ctx := context.Background()
	var calls atomic.Int32
	fetch := fetcher(&calls)

	_, _ = c.Get(ctx, domain.CacheKeyAllDiagnoses, fetch)
	_, _ = c.Get(ctx, domain.CacheKeyRecentDiagnoses, fetch)
	c.Invalidate(domain.CacheKeyRecentDiagnoses)

	assert.False(t, c.IsStale(domain.CacheKeyAllDiagnoses))
	assert.True(t, c.IsStale(domain.CacheKeyRecentDiagnoses))
}

func TestGet_FetchErrorIsNotCached(t *testing.T) {
	c := cache.New(nil)
	boom := errors.New("boom")
	_, err := c.Get(context.Background(), domain.CacheKeyAllDiagnoses, func(context.Context) ([]domain.DiagnosisRecord, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	_, ok := c.Peek(domain.CacheKeyAllDiagnoses)
	assert.False(t, ok)
}

func TestGet_MaxAge(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c := cache.New(nil, cache.WithMaxAge(time.Minute), cache.WithClock(func() time.Time { return now }))
	var calls atomic.Int32
	fetch := fetcher(&calls)

	_, _ = c.Get(context.Background(), domain.CacheKeyRecentDiagnoses, fetch)
	now = now.Add(30 * time.Second)
	_, _ = c.Get(context.Background(), domain.CacheKeyRecentDiagnoses, fetch)
	assert.EqualValues(t, 1, calls.Load())

	now = now.Add(time.Minute)
	_, _ = c.Get(context.Background(), domain.CacheKeyRecentDiagnoses, fetch)
	assert.EqualValues(t, 2, calls.Load())
}

func TestGet_ConcurrentCallersShareOneFetch(t *testing.T) {
	c := cache.New(nil)
	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(context.Context) ([]domain.DiagnosisRecord, error) {
		calls.Add(1)
		<-release
		return []domain.DiagnosisRecord{{ID: "1"}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Get(context.Background(), domain.CacheKeyAllDiagnoses, fetch)
			assert.NoError(t, err)
		}()
	}
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
}

func TestInvalidation_SurvivesRestart(t *testing.T) {
	home := t.TempDir()
	ctx := context.Background()
	var calls atomic.Int32
	fetch := fetcher(&calls, domain.DiagnosisRecord{ID: "1"})

	first := cache.New(store.NewCacheFileStore(home))
	_, err := first.Get(ctx, domain.CacheKeyAllDiagnoses, fetch)
	require.NoError(t, err)

	second := cache.New(store.NewCacheFileStore(home))
	assert.False(t, second.IsStale(domain.CacheKeyAllDiagnoses))
	second.Invalidate(domain.CacheKeyAllDiagnoses)

	third := cache.New(store.NewCacheFileStore(home))
	assert.True(t, third.IsStale(domain.CacheKeyAllDiagnoses))
	entry, ok := third.Peek(domain.CacheKeyAllDiagnoses)
	require.True(t, ok)
	assert.Len(t, entry.Records, 1)
}

func TestInvalidate_DuringFetchKeepsEntryStale(t *testing.T) {
	c := cache.New(store.NewCacheFileStore(t.TempDir()))
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(context.Context) ([]domain.DiagnosisRecord, error) {
		close(started)
		<-release
		return []domain.DiagnosisRecord{{ID: "before"}}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.Get(context.Background(), domain.CacheKeyAllDiagnoses, fetch)
		done <- err
	}()

	<-started
	c.Invalidate(domain.CacheKeyAllDiagnoses)
	close(release)
	require.NoError(t, <-done)

	assert.True(t, c.IsStale(domain.CacheKeyAllDiagnoses))

	var calls atomic.Int32
	got, err := c.Get(context.Background(), domain.CacheKeyAllDiagnoses,
		fetcher(&calls, domain.DiagnosisRecord{ID: "after"}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, "after", got[0].ID)
	assert.False(t, c.IsStale(domain.CacheKeyAllDiagnoses))
}

func TestInvalidation_FromOtherCacheOnSameStoreIsKept(t *testing.T) {
	home := t.TempDir()
	ctx := context.Background()
	var calls atomic.Int32
	fetch := fetcher(&calls, domain.DiagnosisRecord{ID: "1"})

	history := cache.New(store.NewCacheFileStore(home))
	_, err := history.Get(ctx, domain.CacheKeyAllDiagnoses, fetch)
	require.NoError(t, err)

	diagnose := cache.New(store.NewCacheFileStore(home))
	diagnose.Invalidate(domain.CacheKeyAllDiagnoses)
	diagnose.Invalidate(domain.CacheKeyRecentDiagnoses)

	// history still holds its loaded view; writing recent must not resurrect
	// its fresh all-diagnoses entry on disk.
	_, err = history.Get(ctx, domain.CacheKeyRecentDiagnoses, fetch)
	require.NoError(t, err)

	next := cache.New(store.NewCacheFileStore(home))
	assert.True(t, next.IsStale(domain.CacheKeyAllDiagnoses))
	assert.False(t, next.IsStale(domain.CacheKeyRecentDiagnoses))
}

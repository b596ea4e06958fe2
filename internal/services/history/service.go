package history

import (
	"context"

	"plantdoc/internal/cache"
	"plantdoc/internal/domain"
)

// Service serves the all-diagnoses and recent-diagnoses result sets.
type Service struct {
	source domain.DiagnosisHistory
	cache  *cache.QueryCache
}

// New returns a history service reading from source through c.
func New(source domain.DiagnosisHistory, c *cache.QueryCache) *Service {
	return &Service{source: source, cache: c}
}

// All returns every diagnosis. refresh forces a refetch.
func (s *Service) All(ctx context.Context, refresh bool) ([]domain.DiagnosisRecord, error) {
	if refresh {
		s.cache.Invalidate(domain.CacheKeyAllDiagnoses)
	}
	return s.cache.Get(ctx, domain.CacheKeyAllDiagnoses, s.source.ListDiagnoses)
}

// Recent returns the most recent diagnoses. refresh forces a refetch.
func (s *Service) Recent(ctx context.Context, refresh bool) ([]domain.DiagnosisRecord, error) {
	if refresh {
		s.cache.Invalidate(domain.CacheKeyRecentDiagnoses)
	}
	return s.cache.Get(ctx, domain.CacheKeyRecentDiagnoses, s.source.RecentDiagnoses)
}

// Compile-time assertion that Service implements domain.HistoryService.
var _ domain.HistoryService = (*Service)(nil)

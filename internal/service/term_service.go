package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/course-admin-api/pkg/errors"
)

const (
	termListCacheKey     = "terms:list"
	termListCachePattern = "terms:*"
)

type termRepository interface {
	ListDistinct(ctx context.Context) ([]string, error)
}

// TermService lists the terms courses are offered in, backed by the cache when enabled.
type TermService struct {
	repo   termRepository
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewTermService constructs TermService. A nil cache disables caching.
func NewTermService(repo termRepository, cache *CacheService, ttl time.Duration, logger *zap.Logger) *TermService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// List returns distinct term names, newest first.
func (s *TermService) List(ctx context.Context) ([]string, error) {
	terms, err := Remember(ctx, s.cache, termListCacheKey, s.ttl, s.load)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list terms")
	}
	return terms, nil
}

func (s *TermService) load(ctx context.Context) ([]string, error) {
	terms, err := s.repo.ListDistinct(ctx)
	if err != nil {
		return nil, err
	}
	if terms == nil {
		terms = []string{}
	}
	return terms, nil
}

// InvalidateTerms drops the cached term list. Failures are logged by the cache service.
func (s *TermService) InvalidateTerms(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, termListCachePattern); err != nil {
		s.logger.Debug("term cache not invalidated", zap.Error(err))
	}
}

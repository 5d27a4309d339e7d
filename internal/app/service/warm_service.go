package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Refresher is a repository whose cache can be refreshed on demand.
// Implemented by SyncRepository and NewsRepository.
type Refresher interface {
	Domain() string
	Refresh(ctx context.Context) (int, error)
}

// WarmService refreshes every repository's cache ahead of consumer reads.
type WarmService struct {
	repos  []Refresher
	logger *zap.Logger
}

// NewWarmService creates a new WarmService.
func NewWarmService(repos []Refresher, logger *zap.Logger) *WarmService {
	return &WarmService{
		repos:  repos,
		logger: logger,
	}
}

// WarmResult holds the result of refreshing one domain.
type WarmResult struct {
	Domain   string
	Count    int
	Duration time.Duration
	Error    error
}

// WarmAll refreshes all repositories concurrently.
// Returns results for each domain. Partial failures are allowed.
func (s *WarmService) WarmAll(ctx context.Context) []WarmResult {
	results := make([]WarmResult, len(s.repos))
	var wg sync.WaitGroup

	s.logger.Info("warming all caches",
		zap.Int("domain_count", len(s.repos)),
	)

	for i, repo := range s.repos {
		wg.Add(1)
		go func(idx int, r Refresher) {
			defer wg.Done()
			results[idx] = s.warm(ctx, r)
		}(i, repo)
	}

	wg.Wait()

	totalCached := 0
	totalErrors := 0
	for _, r := range results {
		if r.Error != nil {
			totalErrors++
		} else {
			totalCached += r.Count
		}
	}

	s.logger.Info("cache warm completed",
		zap.Int("total_cached", totalCached),
		zap.Int("domains_failed", totalErrors),
	)

	return results
}

// warm refreshes a single repository.
func (s *WarmService) warm(ctx context.Context, repo Refresher) WarmResult {
	start := time.Now()
	result := WarmResult{
		Domain: repo.Domain(),
	}

	count, err := repo.Refresh(ctx)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		s.logger.Warn("cache warm failed",
			zap.String("domain", repo.Domain()),
			zap.Error(err),
		)

		return result
	}

	result.Count = count
	s.logger.Info("cache warmed",
		zap.String("domain", repo.Domain()),
		zap.Int("count", count),
		zap.Duration("duration", result.Duration),
	)

	return result
}

// WarmDomain refreshes a single named domain.
// Returns nil result and nil error if the domain is unknown.
func (s *WarmService) WarmDomain(ctx context.Context, name string) (*WarmResult, error) {
	for _, r := range s.repos {
		if r.Domain() == name {
			result := s.warm(ctx, r)

			return &result, result.Error
		}
	}

	return nil, nil
}

// Domains returns the names of all registered domains.
func (s *WarmService) Domains() []string {
	names := make([]string, len(s.repos))
	for i, r := range s.repos {
		names[i] = r.Domain()
	}

	return names
}

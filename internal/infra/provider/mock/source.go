// Package mock provides in-process remote sources that serve fixed portal
// data after a simulated network delay.
package mock

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"portal-sync-service/internal/domain"
)

// source is the latency and failure behavior shared by the mock sources.
type source[T domain.Record] struct {
	name    string
	items   func() []T
	latency time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	failure error
}

// Name returns the source identifier.
func (s *source[T]) Name() string {
	return s.name
}

// FetchAll returns the fixed collection after the configured latency.
func (s *source[T]) FetchAll(ctx context.Context) ([]T, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	items := s.items()
	s.logger.Debug("mock fetch completed",
		zap.String("source", s.name),
		zap.Int("count", len(items)),
	)

	return items, nil
}

// SetFailure makes every following call fail with err. A nil err restores
// normal behavior.
func (s *source[T]) SetFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failure = err
}

// wait sleeps for the simulated latency and then reports any injected failure.
func (s *source[T]) wait(ctx context.Context) error {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.failure
}

// NewsSource serves the fixed news list and searches it locally.
type NewsSource struct {
	*source[domain.News]
}

// NewNewsSource creates a mock news source.
func NewNewsSource(latency time.Duration, logger *zap.Logger) *NewsSource {
	return &NewsSource{source: &source[domain.News]{
		name:    "mock_news",
		items:   News,
		latency: latency,
		logger:  logger,
	}}
}

// Search returns the fixed articles whose title or summary contain query.
func (s *NewsSource) Search(ctx context.Context, query string) ([]domain.News, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	return domain.FilterNews(News(), query), nil
}

// EventsSource serves the fixed events list.
type EventsSource struct {
	*source[domain.Event]
}

// NewEventsSource creates a mock events source.
func NewEventsSource(latency time.Duration, logger *zap.Logger) *EventsSource {
	return &EventsSource{source: &source[domain.Event]{
		name:    "mock_events",
		items:   Events,
		latency: latency,
		logger:  logger,
	}}
}

package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"portal-sync-service/internal/domain"
)

// NewsRepository is the news SyncRepository with query support.
type NewsRepository struct {
	*SyncRepository[domain.News]
	source domain.NewsSource
}

// NewNewsRepository creates the news repository.
func NewNewsRepository(
	cache domain.CollectionCache[domain.News],
	source domain.NewsSource,
	cfg SyncConfig,
	logger *zap.Logger,
) *NewsRepository {
	return &NewsRepository{
		SyncRepository: NewSyncRepository[domain.News](domain.NewsDomain, cache, source, cfg, logger),
		source:         source,
	}
}

// Search returns news whose title or summary contains query, ignoring case.
//
// Matches in the cached collection are returned immediately. The background
// task then runs the remote search and, whatever its outcome, refreshes the
// full cached collection so later searches see complete local data; the
// remote search result is only logged. Without local matches the remote
// search is awaited, and a non-empty result also triggers a background full
// refresh. A blank query behaves like FetchAll.
func (r *NewsRepository) Search(ctx context.Context, query string) ([]domain.News, error) {
	// The background task outlives the caller, which may reuse the
	// query's backing buffer (fiber request strings do).
	query = strings.Clone(strings.TrimSpace(query))
	if query == "" {
		return r.FetchAll(ctx)
	}

	ctx, span := r.inst.tracer.Start(ctx, spanSearch)
	defer span.End()
	span.SetAttributes(attribute.String("sync.domain", r.domain))

	cached, err := r.cache.ReadAll(ctx)
	if err != nil {
		r.logger.Error("reading cached collection failed", zap.Error(err))
		recordSpanError(span, err)

		return nil, err
	}

	if matches := domain.FilterNews(cached, query); len(matches) > 0 {
		r.inst.hits.Add(ctx, 1, r.attrs)
		span.SetAttributes(attribute.Bool("sync.cache_hit", true))
		r.logger.Debug("serving cached search matches",
			zap.String("query", query),
			zap.Int("count", len(matches)),
		)

		r.goBackground(ctx, "search_refresh", func(ctx context.Context) error {
			if results, err := r.source.Search(ctx, query); err != nil {
				r.logger.Warn("background remote search failed",
					zap.String("query", query),
					zap.Error(err),
				)
			} else {
				r.logger.Debug("background remote search completed",
					zap.String("query", query),
					zap.Int("count", len(results)),
				)
			}

			_, err := r.Refresh(ctx)

			return err
		})

		return matches, nil
	}

	r.inst.misses.Add(ctx, 1, r.attrs)
	span.SetAttributes(attribute.Bool("sync.cache_hit", false))

	results, err := r.source.Search(ctx, query)
	if err != nil {
		r.logger.Error("remote search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		err = r.remoteError(err)
		recordSpanError(span, err)

		return nil, err
	}

	if len(results) == 0 {
		return []domain.News{}, nil
	}
	r.refreshInBackground(ctx)

	return results, nil
}

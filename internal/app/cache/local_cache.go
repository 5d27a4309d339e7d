// Package cache provides whole-collection persistence for one domain on top
// of a shared key-value store.
package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"portal-sync-service/internal/codec"
	"portal-sync-service/internal/domain"
)

// LocalCache implements domain.CollectionCache for one domain's collection
// stored under a single fixed key. There is no pagination or indexing: every
// read decodes the whole blob and every write replaces it.
type LocalCache[T domain.Record] struct {
	store  domain.KeyValueStore
	codec  codec.Codec[T]
	key    string
	logger *zap.Logger
}

// New creates a LocalCache storing its collection at key.
func New[T domain.Record](store domain.KeyValueStore, key string, logger *zap.Logger) *LocalCache[T] {
	return &LocalCache[T]{
		store:  store,
		codec:  codec.New[T](),
		key:    key,
		logger: logger,
	}
}

// NewNewsCache creates the cache for the news collection.
func NewNewsCache(store domain.KeyValueStore, logger *zap.Logger) *LocalCache[domain.News] {
	return New[domain.News](store, domain.NewsCacheKey, logger)
}

// NewEventsCache creates the cache for the events collection.
func NewEventsCache(store domain.KeyValueStore, logger *zap.Logger) *LocalCache[domain.Event] {
	return New[domain.Event](store, domain.EventsCacheKey, logger)
}

// ReadAll returns the cached collection. An absent or empty value yields an
// empty collection and no error; a value that fails to decode is an error.
func (c *LocalCache[T]) ReadAll(ctx context.Context) ([]T, error) {
	raw, found, err := c.store.GetString(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrStorage, c.key, err)
	}
	if !found || raw == "" {
		return []T{}, nil
	}

	items, err := c.codec.Decode(raw)
	if err != nil {
		c.logger.Error("cached collection is corrupt",
			zap.String("key", c.key),
			zap.Int("bytes", len(raw)),
			zap.Error(err),
		)

		return nil, fmt.Errorf("decoding %s: %w", c.key, err)
	}

	return items, nil
}

// WriteAll replaces the cached collection with items.
func (c *LocalCache[T]) WriteAll(ctx context.Context, items []T) error {
	raw, err := c.codec.Encode(items)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %w", domain.ErrStorage, c.key, err)
	}

	if err := c.store.SetString(ctx, c.key, raw); err != nil {
		return fmt.Errorf("%w: writing %s: %w", domain.ErrStorage, c.key, err)
	}

	c.logger.Debug("collection cached",
		zap.String("key", c.key),
		zap.Int("count", len(items)),
	)

	return nil
}

// Clear removes the cached collection.
func (c *LocalCache[T]) Clear(ctx context.Context) error {
	if err := c.store.Remove(ctx, c.key); err != nil {
		return fmt.Errorf("%w: removing %s: %w", domain.ErrStorage, c.key, err)
	}

	c.logger.Info("collection cache cleared", zap.String("key", c.key))

	return nil
}

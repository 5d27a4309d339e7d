// Package redis provides the Redis-backed key-value store used for cached
// collections.
package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store implements domain.KeyValueStore using Redis.
// Keys are namespaced with a prefix and stored without expiry.
type Store struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
}

// NewStore creates a new Redis store.
// keyPrefix is used to namespace all keys and prevent collisions with other applications.
func NewStore(client *redis.Client, logger *zap.Logger, keyPrefix string) *Store {
	return &Store{
		client:    client,
		logger:    logger,
		keyPrefix: keyPrefix,
	}
}

// GetString retrieves the value at key. found is false if the key doesn't exist.
func (s *Store) GetString(ctx context.Context, key string) (string, bool, error) {
	fullKey := s.buildKey(key)

	value, err := s.client.Get(ctx, fullKey).Result()
	if errors.Is(err, redis.Nil) {
		// Key doesn't exist - this is not an error condition
		s.logger.Debug("store miss", zap.String("key", key))

		return "", false, nil
	}
	if err != nil {
		s.logger.Error("store get failed",
			zap.String("key", key),
			zap.Error(err),
		)

		return "", false, err
	}

	s.logger.Debug("store hit",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
	)

	return value, true, nil
}

// SetString stores value at key with no expiry, replacing any previous value.
func (s *Store) SetString(ctx context.Context, key, value string) error {
	fullKey := s.buildKey(key)

	if err := s.client.Set(ctx, fullKey, value, 0).Err(); err != nil {
		s.logger.Error("store set failed",
			zap.String("key", key),
			zap.Int("bytes", len(value)),
			zap.Error(err),
		)

		return err
	}

	s.logger.Debug("store set",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
	)

	return nil
}

// Remove deletes key.
// Returns nil if the key doesn't exist (idempotent operation).
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.buildKey(key)).Err(); err != nil {
		s.logger.Error("store remove failed",
			zap.String("key", key),
			zap.Error(err),
		)

		return err
	}

	s.logger.Debug("store remove", zap.String("key", key))

	return nil
}

// Ping verifies the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// buildKey creates a fully-qualified key by prefixing with the configured keyPrefix.
func (s *Store) buildKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}

	return s.keyPrefix + ":" + key
}

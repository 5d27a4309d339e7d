package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements domain.KeyValueStore on the key_values table.
// Writes are single-row upserts, so the last writer wins.
type Store struct {
	db        *gorm.DB
	logger    *zap.Logger
	keyPrefix string
}

// NewStore creates a new PostgreSQL-backed key-value store.
func NewStore(db *gorm.DB, logger *zap.Logger, keyPrefix string) *Store {
	return &Store{
		db:        db,
		logger:    logger,
		keyPrefix: keyPrefix,
	}
}

// GetString returns the value stored under key and whether it exists.
func (s *Store) GetString(ctx context.Context, key string) (string, bool, error) {
	var model KeyValueModel
	err := s.db.WithContext(ctx).Where("key = ?", s.buildKey(key)).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("getting value: %w", err)
	}

	return model.Value, true, nil
}

// SetString stores value under key, replacing any previous value.
func (s *Store) SetString(ctx context.Context, key, value string) error {
	model := &KeyValueModel{
		Key:       s.buildKey(key),
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("upserting value: %w", err)
	}

	s.logger.Debug("value stored",
		zap.String("key", model.Key),
		zap.Int("bytes", len(value)),
	)

	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("key = ?", s.buildKey(key)).Delete(&KeyValueModel{}).Error
	if err != nil {
		return fmt.Errorf("removing value: %w", err)
	}

	return nil
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return HealthCheck(ctx, s.db)
}

func (s *Store) buildKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}

	return s.keyPrefix + ":" + key
}

package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"portal-sync-service/internal/infra/postgres/migrations"
)

// setupTestDB creates a PostgreSQL testcontainer and returns a migrated DB.
//
// Prerequisites:
//   - Docker must be running
//
// OR
//   - Skip tests with: go test -short
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgresContainer.Run(ctx,
		"postgres:16-alpine",
		postgresContainer.WithDatabase("testdb"),
		postgresContainer.WithUsername("testuser"),
		postgresContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf(`Failed to start PostgreSQL container: %v

Docker Prerequisites:
1. Ensure Docker is running
2. OR skip integration tests: go test -short

`, err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, err := NewConnection(ctx, Config{
		DSN:          connStr,
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		MaxLifetime:  time.Minute,
	}, zap.NewNop())
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, migrations.Run(db), "Failed to run migrations")

	return db
}

// TestStore runs every store case against one container.
func TestStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		store := NewStore(db, zap.NewNop(), "missing")

		value, found, err := store.GetString(ctx, "CACHED_NEWS")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, value)
	})

	t.Run("set then get", func(t *testing.T) {
		store := NewStore(db, zap.NewNop(), "roundtrip")

		require.NoError(t, store.SetString(ctx, "CACHED_NEWS", `[{"id":"n1"}]`))

		value, found, err := store.GetString(ctx, "CACHED_NEWS")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[{"id":"n1"}]`, value)

		var model KeyValueModel
		require.NoError(t, db.Where("key = ?", "roundtrip:CACHED_NEWS").Take(&model).Error)
		assert.False(t, model.CreatedAt.IsZero())
	})

	t.Run("overwrite keeps one row", func(t *testing.T) {
		store := NewStore(db, zap.NewNop(), "overwrite")

		require.NoError(t, store.SetString(ctx, "CACHED_EVENTS", "first"))
		require.NoError(t, store.SetString(ctx, "CACHED_EVENTS", "second"))

		value, _, err := store.GetString(ctx, "CACHED_EVENTS")
		require.NoError(t, err)
		assert.Equal(t, "second", value)

		var count int64
		require.NoError(t, db.Model(&KeyValueModel{}).Where("key = ?", "overwrite:CACHED_EVENTS").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("empty value is present", func(t *testing.T) {
		store := NewStore(db, zap.NewNop(), "empty")

		require.NoError(t, store.SetString(ctx, "CACHED_NEWS", ""))

		value, found, err := store.GetString(ctx, "CACHED_NEWS")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Empty(t, value)
	})

	t.Run("remove", func(t *testing.T) {
		store := NewStore(db, zap.NewNop(), "remove")

		require.NoError(t, store.SetString(ctx, "CACHED_NEWS", "value"))
		require.NoError(t, store.Remove(ctx, "CACHED_NEWS"))
		require.NoError(t, store.Remove(ctx, "CACHED_NEWS"), "removing an absent key is not an error")

		_, found, err := store.GetString(ctx, "CACHED_NEWS")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("concurrent writers last write wins", func(t *testing.T) {
		store := NewStore(db, zap.NewNop(), "concurrent")

		var wg sync.WaitGroup
		for i := range 10 {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				assert.NoError(t, store.SetString(ctx, "CACHED_NEWS", fmt.Sprintf("v%d", n)))
			}(i)
		}
		wg.Wait()

		value, found, err := store.GetString(ctx, "CACHED_NEWS")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Regexp(t, `^v\d$`, value)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, NewStore(db, zap.NewNop(), "").Ping(ctx))
	})
}

func TestMigrations_Rollback(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)

	require.NoError(t, migrations.Rollback(db))
	assert.False(t, db.Migrator().HasTable(&KeyValueModel{}))

	require.NoError(t, migrations.Run(db))
	assert.True(t, db.Migrator().HasTable(&KeyValueModel{}))
}

package locker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testLockKey = "portal-sync:warmer"

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestRedisLocker_AcquireAndContend(t *testing.T) {
	mr, client := setupTestRedis(t)
	first := NewRedisLocker(client, zap.NewNop())
	second := NewRedisLocker(client, zap.NewNop())
	ctx := context.Background()

	acquired, err := first.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
	assert.True(t, mr.Exists(testLockKey))

	acquired, err = second.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err, "contention is not an error")
	assert.False(t, acquired)
}

func TestRedisLocker_ReleaseThenReacquire(t *testing.T) {
	_, client := setupTestRedis(t)
	first := NewRedisLocker(client, zap.NewNop())
	second := NewRedisLocker(client, zap.NewNop())
	ctx := context.Background()

	acquired, err := first.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, first.Release(ctx, testLockKey))

	acquired, err = second.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisLocker_ReleaseNotOwnedIsNoop(t *testing.T) {
	mr, client := setupTestRedis(t)
	owner := NewRedisLocker(client, zap.NewNop())
	other := NewRedisLocker(client, zap.NewNop())
	ctx := context.Background()

	acquired, err := owner.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, other.Release(ctx, testLockKey))
	assert.True(t, mr.Exists(testLockKey), "lock survives a release by a non-owner")

	require.NoError(t, owner.Release(ctx, testLockKey))
	assert.False(t, mr.Exists(testLockKey))
}

func TestRedisLocker_Expiry(t *testing.T) {
	mr, client := setupTestRedis(t)
	first := NewRedisLocker(client, zap.NewNop())
	second := NewRedisLocker(client, zap.NewNop())
	ctx := context.Background()

	acquired, err := first.Acquire(ctx, testLockKey, 2*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(3 * time.Second)

	acquired, err = second.Acquire(ctx, testLockKey, 2*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired, "cooldown lock expires on its own")
}

func TestRedisLocker_ConcurrentAcquisition(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	const instances = 5
	results := make(chan bool, instances)
	for range instances {
		go func() {
			acquired, _ := NewRedisLocker(client, zap.NewNop()).Acquire(ctx, testLockKey, 2*time.Second)
			results <- acquired
		}()
	}

	won := 0
	for range instances {
		if <-results {
			won++
		}
	}
	assert.Equal(t, 1, won)
}

func TestRedisLocker_ContextCancellation(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	acquired, err := NewRedisLocker(client, zap.NewNop()).Acquire(ctx, testLockKey, 5*time.Second)

	assert.Error(t, err)
	assert.False(t, acquired)
}

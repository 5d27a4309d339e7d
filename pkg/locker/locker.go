// Package locker provides locks that let one of several service instances
// claim a periodic job.
package locker

import (
	"context"
	"time"
)

// DistributedLocker hands out named, expiring locks.
// Implementations must be safe for concurrent use.
//
// Typical usage:
//
//	acquired, err := l.Acquire(ctx, "portal-sync:warmer", 5*time.Minute)
//	if err != nil {
//	    return err
//	}
//	if !acquired {
//	    return nil // another instance holds it
//	}
//	defer l.Release(ctx, "portal-sync:warmer")
type DistributedLocker interface {
	// Acquire tries once to take the lock named key. It reports false,
	// without error, when another holder has it. The lock expires after ttl
	// unless released first.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives up a lock taken by this locker. Releasing a lock this
	// locker does not hold is a no-op.
	Release(ctx context.Context, key string) error
}

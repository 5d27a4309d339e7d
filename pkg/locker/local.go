package locker

import (
	"context"
	"sync"
	"time"
)

// LocalLocker is an in-process DistributedLocker for deployments that run a
// single instance and have no Redis (the postgres store backend).
type LocalLocker struct {
	now func() time.Time

	mu    sync.Mutex
	until map[string]time.Time
}

// NewLocalLocker creates an empty LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		now:   time.Now,
		until: make(map[string]time.Time),
	}
}

// Acquire takes key unless it is held and not yet expired.
func (l *LocalLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if exp, held := l.until[key]; held && now.Before(exp) {
		return false, nil
	}
	l.until[key] = now.Add(ttl)

	return true, nil
}

// Release frees key.
func (l *LocalLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.until, key)

	return nil
}

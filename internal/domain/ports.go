package domain

import (
	"context"
)

// KeyValueStore is a durable key to string mapping shared by all domains.
// Each domain owns exactly one key, so callers never interfere.
// Implementations: internal/infra/redis/store.go, internal/infra/postgres/store.go
type KeyValueStore interface {
	// GetString returns the value stored at key. found is false when the key
	// is absent; that is not an error.
	GetString(ctx context.Context, key string) (value string, found bool, err error)

	// SetString stores value at key, overwriting any previous value in a
	// single atomic write.
	SetString(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}

// RemoteSource provides the authoritative, current collection for one domain.
// Implementations: internal/infra/provider/mock/, internal/infra/provider/portal/
type RemoteSource[T Record] interface {
	// Name returns the identifier used in logs.
	Name() string

	// FetchAll retrieves the full current collection.
	FetchAll(ctx context.Context) ([]T, error)
}

// NewsSource is the news remote, which can also filter by query.
type NewsSource interface {
	RemoteSource[News]

	// Search returns the remote's news matching query.
	Search(ctx context.Context, query string) ([]News, error)
}

// CollectionCache persists one domain's whole collection.
// Implementation: internal/app/cache/local_cache.go
type CollectionCache[T Record] interface {
	// ReadAll returns the cached collection, empty when nothing is cached.
	ReadAll(ctx context.Context) ([]T, error)

	// WriteAll replaces the cached collection.
	WriteAll(ctx context.Context, items []T) error

	// Clear removes the cached collection.
	Clear(ctx context.Context) error
}

package domain

import "errors"

// Error taxonomy for the sync layer. Concrete errors wrap one of these
// together with their cause, so callers match them with errors.Is.
var (
	// ErrStorage marks a KeyValueStore read, write or remove failure.
	ErrStorage = errors.New("storage error")

	// ErrRemote marks a RemoteSource failure.
	ErrRemote = errors.New("remote error")

	// ErrDecode marks a cached blob that could not be decoded. Under the
	// single-writer overwrite model this indicates a bug, so it is surfaced
	// instead of being treated as an empty cache.
	ErrDecode = errors.New("decode error")
)

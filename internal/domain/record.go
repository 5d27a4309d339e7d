// Package domain contains the portal's core entities and the contracts the
// sync layer depends on.
// This package has no external dependencies (only stdlib).
package domain

import "time"

// Record is a cached domain value.
//
// Fields returns the flat representation persisted by the codec. Keys must
// match the record's `field` struct tags so the codec can decode them back.
// Optional fields are omitted from the map when unset.
type Record interface {
	Fields() map[string]string
}

// Domain names used in logs, metrics and admin routes.
const (
	NewsDomain   = "news"
	EventsDomain = "events"
)

// Storage keys for each cached collection. Changing a record's field set
// requires a new key or an accepted one-time cache loss.
const (
	NewsCacheKey   = "CACHED_NEWS"
	EventsCacheKey = "CACHED_EVENTS"
)

// TimeLayout is the layout used for every timestamp in a field map.
const TimeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// putOptional adds key to fields only when value is set, so that an unset
// optional field stays distinguishable from one set to "".
func putOptional(fields map[string]string, key string, value *string) {
	if value != nil {
		fields[key] = *value
	}
}

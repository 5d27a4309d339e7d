package domain

import "time"

// Event is a chapter event (meeting, conference, competition deadline).
type Event struct {
	ID          string    `json:"id" field:"id"`
	Title       string    `json:"title" field:"title"`
	Description string    `json:"description" field:"description"`
	Location    string    `json:"location" field:"location"`
	Category    string    `json:"category" field:"category"`
	StartsAt    time.Time `json:"starts_at" field:"starts_at"`
	EndsAt      time.Time `json:"ends_at" field:"ends_at"`

	// RegistrationURL is unset for events without sign-up.
	RegistrationURL *string `json:"registration_url,omitempty" field:"registration_url"`
}

// Fields returns the flat field map persisted in the events cache.
func (e Event) Fields() map[string]string {
	fields := map[string]string{
		"id":          e.ID,
		"title":       e.Title,
		"description": e.Description,
		"location":    e.Location,
		"category":    e.Category,
		"starts_at":   formatTime(e.StartsAt),
		"ends_at":     formatTime(e.EndsAt),
	}
	putOptional(fields, "registration_url", e.RegistrationURL)

	return fields
}

// IsUpcoming reports whether the event has not ended at now.
func (e Event) IsUpcoming(now time.Time) bool {
	return e.EndsAt.After(now)
}

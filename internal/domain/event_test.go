package domain

import (
	"testing"
	"time"
)

func TestEvent_Fields(t *testing.T) {
	start := time.Date(2024, 4, 12, 8, 0, 0, 0, time.UTC)
	url := "https://example.org/register"

	event := Event{
		ID:              "e1",
		Title:           "State Leadership Conference",
		Location:        "Convention Center",
		StartsAt:        start,
		EndsAt:          start.Add(48 * time.Hour),
		RegistrationURL: &url,
	}

	fields := event.Fields()
	if fields["starts_at"] != "2024-04-12T08:00:00Z" {
		t.Errorf("unexpected starts_at %q", fields["starts_at"])
	}
	if fields["ends_at"] != "2024-04-14T08:00:00Z" {
		t.Errorf("unexpected ends_at %q", fields["ends_at"])
	}
	if fields["registration_url"] != url {
		t.Errorf("unexpected registration_url %q", fields["registration_url"])
	}

	event.RegistrationURL = nil
	if _, ok := event.Fields()["registration_url"]; ok {
		t.Error("expected registration_url to be omitted when unset")
	}
}

func TestEvent_IsUpcoming(t *testing.T) {
	now := time.Date(2024, 4, 13, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		endsAt   time.Time
		expected bool
	}{
		{name: "ends later", endsAt: now.Add(time.Hour), expected: true},
		{name: "already ended", endsAt: now.Add(-time.Hour), expected: false},
		{name: "ends exactly now", endsAt: now, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Event{EndsAt: tt.endsAt}
			if got := e.IsUpcoming(now); got != tt.expected {
				t.Errorf("IsUpcoming() = %v, want %v", got, tt.expected)
			}
		})
	}
}

package portal

import (
	"time"

	"portal-sync-service/internal/domain"
)

// ListResponse is the envelope returned by every portal list endpoint.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// NewsItem is a news article as served by the portal API.
type NewsItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Summary     string  `json:"summary"`
	Content     string  `json:"content"`
	Category    string  `json:"category"`
	Author      string  `json:"author"`
	PublishedAt string  `json:"published_at"`
	ImageURL    *string `json:"image_url"`
	Link        *string `json:"link"`
}

// ToDomain converts NewsItem to domain.News.
func (n *NewsItem) ToDomain() domain.News {
	return domain.News{
		ID:          n.ID,
		Title:       n.Title,
		Summary:     n.Summary,
		Content:     n.Content,
		Category:    n.Category,
		Author:      n.Author,
		PublishedAt: parseTime(n.PublishedAt),
		ImageURL:    n.ImageURL,
		Link:        n.Link,
	}
}

// EventItem is a chapter event as served by the portal API.
type EventItem struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Location        string  `json:"location"`
	Category        string  `json:"category"`
	StartsAt        string  `json:"starts_at"`
	EndsAt          string  `json:"ends_at"`
	RegistrationURL *string `json:"registration_url"`
}

// ToDomain converts EventItem to domain.Event.
func (e *EventItem) ToDomain() domain.Event {
	return domain.Event{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Location:        e.Location,
		Category:        e.Category,
		StartsAt:        parseTime(e.StartsAt),
		EndsAt:          parseTime(e.EndsAt),
		RegistrationURL: e.RegistrationURL,
	}
}

// parseTime accepts RFC 3339 with or without fractional seconds. Unparsable
// values become the zero time.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}

	return t.UTC()
}

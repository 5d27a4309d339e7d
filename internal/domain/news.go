package domain

import (
	"strings"
	"time"
)

// News is a chapter news article shown in the portal's news tab.
type News struct {
	ID          string    `json:"id" field:"id"`
	Title       string    `json:"title" field:"title"`
	Summary     string    `json:"summary" field:"summary"`
	Content     string    `json:"content" field:"content"`
	Category    string    `json:"category" field:"category"`
	Author      string    `json:"author" field:"author"`
	PublishedAt time.Time `json:"published_at" field:"published_at"`

	// Optional
	ImageURL *string `json:"image_url,omitempty" field:"image_url"`
	Link     *string `json:"link,omitempty" field:"link"`
}

// Fields returns the flat field map persisted in the news cache.
func (n News) Fields() map[string]string {
	fields := map[string]string{
		"id":           n.ID,
		"title":        n.Title,
		"summary":      n.Summary,
		"content":      n.Content,
		"category":     n.Category,
		"author":       n.Author,
		"published_at": formatTime(n.PublishedAt),
	}
	putOptional(fields, "image_url", n.ImageURL)
	putOptional(fields, "link", n.Link)

	return fields
}

// Matches reports whether query occurs in the title or summary, ignoring case.
func (n News) Matches(query string) bool {
	q := strings.ToLower(query)

	return strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Summary), q)
}

// FilterNews returns the items matching query, preserving order.
// The result is never nil.
func FilterNews(items []News, query string) []News {
	matches := make([]News, 0, len(items))
	for _, item := range items {
		if item.Matches(query) {
			matches = append(matches, item)
		}
	}

	return matches
}

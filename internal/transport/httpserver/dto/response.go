package dto

import (
	"time"

	"portal-sync-service/internal/app/service"
	"portal-sync-service/internal/domain"
)

// NewsResponse represents a single news article in the response.
type NewsResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Summary     string  `json:"summary"`
	Content     string  `json:"content"`
	Category    string  `json:"category"`
	Author      string  `json:"author"`
	PublishedAt string  `json:"published_at"`
	ImageURL    *string `json:"image_url,omitempty"`
	Link        *string `json:"link,omitempty"`
}

// FromDomainNews converts domain.News to NewsResponse.
func FromDomainNews(n domain.News) NewsResponse {
	return NewsResponse{
		ID:          n.ID,
		Title:       n.Title,
		Summary:     n.Summary,
		Content:     n.Content,
		Category:    n.Category,
		Author:      n.Author,
		PublishedAt: n.PublishedAt.Format(time.RFC3339),
		ImageURL:    n.ImageURL,
		Link:        n.Link,
	}
}

// EventResponse represents a single event in the response.
type EventResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Location        string  `json:"location"`
	Category        string  `json:"category"`
	StartsAt        string  `json:"starts_at"`
	EndsAt          string  `json:"ends_at"`
	Upcoming        bool    `json:"upcoming"`
	RegistrationURL *string `json:"registration_url,omitempty"`
}

// FromDomainEvent converts domain.Event to EventResponse. now decides
// whether the event is still upcoming.
func FromDomainEvent(e domain.Event, now time.Time) EventResponse {
	return EventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Location:        e.Location,
		Category:        e.Category,
		StartsAt:        e.StartsAt.Format(time.RFC3339),
		EndsAt:          e.EndsAt.Format(time.RFC3339),
		Upcoming:        e.IsUpcoming(now),
		RegistrationURL: e.RegistrationURL,
	}
}

// ListResponse wraps a collection with its size.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// FromNewsList converts a news collection to a ListResponse.
func FromNewsList(items []domain.News) ListResponse[NewsResponse] {
	out := make([]NewsResponse, len(items))
	for i, n := range items {
		out[i] = FromDomainNews(n)
	}

	return ListResponse[NewsResponse]{Items: out, Count: len(out)}
}

// FromEventList converts an events collection to a ListResponse.
func FromEventList(items []domain.Event, now time.Time) ListResponse[EventResponse] {
	out := make([]EventResponse, len(items))
	for i, e := range items {
		out[i] = FromDomainEvent(e, now)
	}

	return ListResponse[EventResponse]{Items: out, Count: len(out)}
}

// WarmResultResponse represents the outcome of warming one domain.
type WarmResultResponse struct {
	Domain   string `json:"domain"`
	Count    int    `json:"count"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// FromWarmResult converts service.WarmResult to WarmResultResponse.
func FromWarmResult(r service.WarmResult) WarmResultResponse {
	errMsg := ""
	if r.Error != nil {
		errMsg = r.Error.Error()
	}

	return WarmResultResponse{
		Domain:   r.Domain,
		Count:    r.Count,
		Duration: r.Duration.String(),
		Error:    errMsg,
	}
}

// WarmResponse represents the response for a warm-all operation.
type WarmResponse struct {
	Results []WarmResultResponse `json:"results"`
	Summary WarmSummary          `json:"summary"`
}

// WarmSummary holds summary of a warm operation.
type WarmSummary struct {
	TotalCached int `json:"total_cached"`
	DomainsOK   int `json:"domains_ok"`
	DomainsFail int `json:"domains_fail"`
}

// FromWarmResults converts service.WarmResult slice to WarmResponse.
func FromWarmResults(results []service.WarmResult) WarmResponse {
	resp := WarmResponse{
		Results: make([]WarmResultResponse, len(results)),
	}

	for i, r := range results {
		if r.Error != nil {
			resp.Summary.DomainsFail++
		} else {
			resp.Summary.TotalCached += r.Count
			resp.Summary.DomainsOK++
		}
		resp.Results[i] = FromWarmResult(r)
	}

	return resp
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

package mock

import (
	"time"

	"portal-sync-service/internal/domain"
)

func ptr(s string) *string { return &s }

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

// News returns the fixed chapter news list, newest first.
func News() []domain.News {
	return []domain.News{
		{
			ID:          "news-1",
			Title:       "FBLA State Leadership Conference Registration Open",
			Summary:     "Register by March 1 to compete at this year's State Leadership Conference.",
			Content:     "Members planning to compete at SLC must submit event selections and dues through the portal before the deadline. Advisers will confirm travel details in the next chapter meeting.",
			Category:    "Competitions",
			Author:      "Chapter Officers",
			PublishedAt: at(2024, time.February, 12, 15, 0),
			ImageURL:    ptr("https://cdn.example.com/news/slc-2024.png"),
			Link:        ptr("https://portal.example.com/slc"),
		},
		{
			ID:          "news-2",
			Title:       "Chapter Awards Night Recap",
			Summary:     "Congratulations to everyone recognized for service and competition results.",
			Content:     "Awards were presented for community service hours, membership recruitment and regional competition placements.",
			Category:    "Chapter",
			Author:      "Public Relations",
			PublishedAt: at(2024, time.February, 8, 18, 30),
			ImageURL:    ptr("https://cdn.example.com/news/awards-night.png"),
		},
		{
			ID:          "news-3",
			Title:       "Community Service Drive Hits 500 Hours",
			Summary:     "Our fall food drive and tutoring program pushed the chapter past its service goal.",
			Content:     "Thanks to volunteers at the food bank and the after-school tutoring program, the chapter logged more than 500 service hours this semester.",
			Category:    "Service",
			Author:      "Service Committee",
			PublishedAt: at(2024, time.January, 29, 12, 0),
		},
		{
			ID:          "news-4",
			Title:       "New Study Guides for Objective Tests",
			Summary:     "Practice questions for Accounting, Business Law and Economics are now in Resources.",
			Content:     "The resources tab now includes updated practice sets. Members should review them before the regional objective tests.",
			Category:    "Resources",
			Author:      "Competitive Events Coordinator",
			PublishedAt: at(2024, time.January, 22, 9, 0),
			Link:        ptr(""),
		},
		{
			ID:          "news-5",
			Title:       "Officer Elections Announced",
			Summary:     "Applications for next year's executive board are due at the end of the month.",
			Content:     "Candidates will give short speeches at the general meeting. Voting takes place in the portal during the following week.",
			Category:    "Chapter",
			Author:      "Chapter President",
			PublishedAt: at(2024, time.January, 15, 16, 45),
		},
	}
}

// Events returns the fixed chapter event list, soonest first.
func Events() []domain.Event {
	return []domain.Event{
		{
			ID:              "event-1",
			Title:           "General Chapter Meeting",
			Description:     "Monthly meeting covering SLC preparation and officer election procedures.",
			Location:        "Room 204",
			Category:        "Meeting",
			StartsAt:        at(2024, time.February, 20, 20, 0),
			EndsAt:          at(2024, time.February, 20, 21, 0),
			RegistrationURL: nil,
		},
		{
			ID:              "event-2",
			Title:           "Regional Leadership Conference",
			Description:     "Regional competitive events and leadership workshops.",
			Location:        "Central High School",
			Category:        "Competition",
			StartsAt:        at(2024, time.March, 9, 13, 0),
			EndsAt:          at(2024, time.March, 9, 21, 0),
			RegistrationURL: ptr("https://portal.example.com/events/rlc/register"),
		},
		{
			ID:          "event-3",
			Title:       "Mock Interview Workshop",
			Description: "Practice job interviews with local business volunteers.",
			Location:    "Library Commons",
			Category:    "Workshop",
			StartsAt:    at(2024, time.March, 14, 21, 0),
			EndsAt:      at(2024, time.March, 14, 22, 30),
		},
		{
			ID:              "event-4",
			Title:           "State Leadership Conference",
			Description:     "Three days of competition, workshops and officer elections.",
			Location:        "Convention Center",
			Category:        "Competition",
			StartsAt:        at(2024, time.April, 18, 14, 0),
			EndsAt:          at(2024, time.April, 20, 22, 0),
			RegistrationURL: ptr("https://portal.example.com/events/slc/register"),
		},
	}
}

// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"portal-sync-service/internal/domain"
	"portal-sync-service/internal/transport/httpserver/dto"
	"portal-sync-service/internal/validator"
)

// NewsReader serves cached news.
type NewsReader interface {
	FetchAll(ctx context.Context) ([]domain.News, error)
	Search(ctx context.Context, query string) ([]domain.News, error)
}

// EventsReader serves cached events.
type EventsReader interface {
	FetchAll(ctx context.Context) ([]domain.Event, error)
}

// FeedHandler handles the read-only news and events endpoints.
type FeedHandler struct {
	news      NewsReader
	events    EventsReader
	validator *validator.Validator
	logger    *zap.Logger
	now       func() time.Time
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(news NewsReader, events EventsReader, v *validator.Validator, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		news:      news,
		events:    events,
		validator: v,
		logger:    logger,
		now:       time.Now,
	}
}

// ListNews handles GET /api/v1/news
func (h *FeedHandler) ListNews(c *fiber.Ctx) error {
	items, err := h.news.FetchAll(c.UserContext())
	if err != nil {
		return h.fail(c, "list news failed", err, zap.String("domain", domain.NewsDomain))
	}

	return c.JSON(dto.FromNewsList(items))
}

// SearchNews handles GET /api/v1/news/search?q=
func (h *FeedHandler) SearchNews(c *fiber.Ctx) error {
	var req dto.SearchNewsRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	items, err := h.news.Search(c.UserContext(), req.Query)
	if err != nil {
		return h.fail(c, "search news failed", err,
			zap.String("domain", domain.NewsDomain),
			zap.String("query", req.Query),
		)
	}

	return c.JSON(dto.FromNewsList(items))
}

// ListEvents handles GET /api/v1/events
func (h *FeedHandler) ListEvents(c *fiber.Ctx) error {
	items, err := h.events.FetchAll(c.UserContext())
	if err != nil {
		return h.fail(c, "list events failed", err, zap.String("domain", domain.EventsDomain))
	}

	return c.JSON(dto.FromEventList(items, h.now()))
}

func (h *FeedHandler) fail(c *fiber.Ctx, msg string, err error, fields ...zap.Field) error {
	status, resp := errorResponse(err)
	h.logger.Error(msg, append(fields, zap.Int("status", status), zap.Error(err))...)

	return c.Status(status).JSON(resp)
}

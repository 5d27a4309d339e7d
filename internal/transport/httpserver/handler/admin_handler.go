package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"portal-sync-service/internal/app/service"
	"portal-sync-service/internal/transport/httpserver/dto"
	"portal-sync-service/internal/validator"
)

// CacheClearer is a repository whose cache can be dropped.
type CacheClearer interface {
	Domain() string
	ClearCache(ctx context.Context) error
}

// Warmer refreshes domain caches on demand.
type Warmer interface {
	WarmAll(ctx context.Context) []service.WarmResult
	WarmDomain(ctx context.Context, name string) (*service.WarmResult, error)
	Domains() []string
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	warmer    Warmer
	clearers  map[string]CacheClearer
	validator *validator.Validator
	logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(warmer Warmer, clearers []CacheClearer, v *validator.Validator, logger *zap.Logger) *AdminHandler {
	byDomain := make(map[string]CacheClearer, len(clearers))
	for _, c := range clearers {
		byDomain[c.Domain()] = c
	}

	return &AdminHandler{
		warmer:    warmer,
		clearers:  byDomain,
		validator: v,
		logger:    logger,
	}
}

// WarmAll handles POST /api/v1/admin/warm
func (h *AdminHandler) WarmAll(c *fiber.Ctx) error {
	h.logger.Info("manual warm triggered")

	results := h.warmer.WarmAll(c.UserContext())

	return c.JSON(dto.FromWarmResults(results))
}

// WarmDomain handles POST /api/v1/admin/warm/:domain
func (h *AdminHandler) WarmDomain(c *fiber.Ctx) error {
	req, ok := h.parseDomain(c)
	if !ok {
		return nil
	}

	h.logger.Info("manual domain warm triggered", zap.String("domain", req.Domain))

	result, err := h.warmer.WarmDomain(c.UserContext(), req.Domain)
	if result == nil && err == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "domain not found",
			Code:  "DOMAIN_NOT_FOUND",
		})
	}
	if err != nil {
		status, resp := errorResponse(err)
		resp.Code = "WARM_FAILED"

		return c.Status(status).JSON(resp)
	}

	return c.JSON(dto.FromWarmResult(*result))
}

// ClearCache handles DELETE /api/v1/admin/cache/:domain
func (h *AdminHandler) ClearCache(c *fiber.Ctx) error {
	req, ok := h.parseDomain(c)
	if !ok {
		return nil
	}

	clearer, found := h.clearers[req.Domain]
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "domain not found",
			Code:  "DOMAIN_NOT_FOUND",
		})
	}

	if err := clearer.ClearCache(c.UserContext()); err != nil {
		h.logger.Error("clear cache failed", zap.String("domain", req.Domain), zap.Error(err))
		status, resp := errorResponse(err)

		return c.Status(status).JSON(resp)
	}

	h.logger.Info("cache cleared", zap.String("domain", req.Domain))

	return c.SendStatus(fiber.StatusNoContent)
}

// GetDomains handles GET /api/v1/admin/domains
func (h *AdminHandler) GetDomains(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"domains": h.warmer.Domains(),
	})
}

// parseDomain reads and validates the :domain parameter. On failure the
// 400 response is already written and ok is false.
func (h *AdminHandler) parseDomain(c *fiber.Ctx) (dto.DomainRequest, bool) {
	var req dto.DomainRequest
	if err := c.ParamsParser(&req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid path parameters",
			Code:  "INVALID_PARAMS",
		})

		return req, false
	}

	if err := h.validator.Validate(&req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})

		return req, false
	}

	return req, true
}

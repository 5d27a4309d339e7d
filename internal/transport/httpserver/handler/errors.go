package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"portal-sync-service/internal/domain"
	"portal-sync-service/internal/transport/httpserver/dto"
)

// errorResponse maps a repository error to an HTTP status and body.
// Causes are logged, not returned to clients.
func errorResponse(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrRemote):
		return fiber.StatusBadGateway, dto.ErrorResponse{
			Error: "portal unavailable",
			Code:  "REMOTE_ERROR",
		}
	case errors.Is(err, domain.ErrDecode):
		return fiber.StatusInternalServerError, dto.ErrorResponse{
			Error: "cached data is unreadable",
			Code:  "DECODE_ERROR",
		}
	case errors.Is(err, domain.ErrStorage):
		return fiber.StatusInternalServerError, dto.ErrorResponse{
			Error: "cache store unavailable",
			Code:  "STORAGE_ERROR",
		}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{
			Error: "internal server error",
			Code:  "INTERNAL_ERROR",
		}
	}
}

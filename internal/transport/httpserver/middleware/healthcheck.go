// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
)

// readinessTimeout bounds a single readiness ping.
const readinessTimeout = 2 * time.Second

// PingFunc checks a backing dependency.
type PingFunc func(ctx context.Context) error

// NewHealthCheck creates a Fiber healthcheck middleware with Kubernetes-style endpoints.
//
// Endpoints:
//   - GET /livez  - Liveness (app is running)
//   - GET /readyz - Readiness (cache store and every upstream reachable)
//
// The store ping is required; nil upstream pings are skipped.
// This middleware should be registered BEFORE other routes.
func NewHealthCheck(store PingFunc, upstreams ...PingFunc) fiber.Handler {
	return healthcheck.New(healthcheck.Config{
		LivenessEndpoint: "/livez",
		LivenessProbe: func(_ *fiber.Ctx) bool {
			return true
		},

		ReadinessEndpoint: "/readyz",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			if store == nil {
				return false
			}
			ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
			defer cancel()

			if store(ctx) != nil {
				return false
			}
			for _, ping := range upstreams {
				if ping != nil && ping(ctx) != nil {
					return false
				}
			}

			return true
		},
	})
}

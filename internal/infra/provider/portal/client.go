// Package portal implements the news and events remote sources against the
// chapter portal's HTTP API.
package portal

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"portal-sync-service/internal/infra/provider"
)

// API paths.
const (
	NewsEndpoint       = "/api/news"
	NewsSearchEndpoint = "/api/news/search"
	EventsEndpoint     = "/api/events"
	HealthEndpoint     = "/health"
)

// client is the transport shared by the news and events sources: resty
// retries inside a circuit breaker.
type client struct {
	name   string
	http   *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

func newClient(name string, cfg provider.ClientConfig, logger *zap.Logger) *client {
	return &client{
		name:   name,
		http:   provider.NewRestyClient(cfg),
		cb:     provider.NewCircuitBreaker[*resty.Response](name, cfg.CB, logger),
		logger: logger,
	}
}

// get fetches path and decodes the JSON body into result.
func (c *client) get(ctx context.Context, path string, query map[string]string, result any) error {
	_, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(query).
			SetResult(result).
			Get(path)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("%s returned status %d", c.name, r.StatusCode())
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("portal request failed",
			zap.String("source", c.name),
			zap.String("path", path),
			zap.String("state", c.cb.State().String()),
			zap.Error(err),
		)

		return fmt.Errorf("fetching from %s: %w", c.name, err)
	}

	return nil
}

// HealthCheck verifies the portal API is reachable.
func (c *client) HealthCheck(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(HealthEndpoint)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}

// Package registry builds the remote sources selected by configuration.
package registry

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"portal-sync-service/internal/config"
	"portal-sync-service/internal/domain"
	"portal-sync-service/internal/infra/provider"
	"portal-sync-service/internal/infra/provider/mock"
	"portal-sync-service/internal/infra/provider/portal"
)

// Sources holds one remote source per domain.
type Sources struct {
	News   domain.NewsSource
	Events domain.RemoteSource[domain.Event]

	// Ping checks that the remote is reachable. Nil when the sources are
	// in-process.
	Ping func(ctx context.Context) error
}

// NewSources creates the remote sources for cfg.Mode.
//
// In mock mode the sources serve fixed data in-process after cfg.Mock.Latency,
// or fail every call with cfg.Mock.Failure when it is set.
// In http mode they call the portal API at cfg.HTTP.BaseURL through a retrying
// client guarded by one circuit breaker per source.
func NewSources(cfg config.RemoteConfig, logger *zap.Logger) (*Sources, error) {
	switch cfg.Mode {
	case config.RemoteMock:
		news := mock.NewNewsSource(cfg.Mock.Latency, logger)
		events := mock.NewEventsSource(cfg.Mock.Latency, logger)
		if cfg.Mock.Failure != "" {
			outage := errors.New(cfg.Mock.Failure)
			news.SetFailure(outage)
			events.SetFailure(outage)
			logger.Warn("mock sources will fail every call", zap.String("failure", cfg.Mock.Failure))
		}

		return &Sources{News: news, Events: events}, nil
	case config.RemoteHTTP:
		clientCfg := clientConfig(cfg.HTTP)
		news := portal.NewNewsClient(clientCfg, logger)

		return &Sources{
			News:   news,
			Events: portal.NewEventsClient(clientCfg, logger),
			Ping:   news.HealthCheck,
		}, nil
	default:
		return nil, fmt.Errorf("unknown remote mode %q", cfg.Mode)
	}
}

func clientConfig(cfg config.HTTPConfig) provider.ClientConfig {
	return provider.ClientConfig{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Retry: provider.RetryConfig{
			MaxAttempts: cfg.Retry.MaxAttempts,
			WaitTime:    cfg.Retry.WaitTime,
			MaxWaitTime: cfg.Retry.MaxWaitTime,
		},
		CB: provider.CBConfig{
			MaxRequests:  cfg.CB.MaxRequests,
			Interval:     cfg.CB.Interval,
			Timeout:      cfg.CB.Timeout,
			FailureRatio: cfg.CB.FailureRatio,
		},
	}
}

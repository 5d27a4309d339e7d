package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	otelScope = "portal-sync-service/sync"

	spanFetchAll = "sync.fetch_all"
	spanSearch   = "sync.search"
	spanRefresh  = "sync.refresh"

	metricHits      = "portal.sync.cache.hits"
	metricMisses    = "portal.sync.cache.misses"
	metricCompleted = "portal.sync.refresh.completed"
	metricFailed    = "portal.sync.refresh.failed"
)

// instruments are always non-nil; they are no-ops while telemetry is disabled.
type instruments struct {
	tracer    trace.Tracer
	hits      metric.Int64Counter
	misses    metric.Int64Counter
	completed metric.Int64Counter
	failed    metric.Int64Counter
}

func newInstruments(logger *zap.Logger) *instruments {
	meter := otel.Meter(otelScope)

	mustCounter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			logger.Error("creating OTel counter", zap.String("name", name), zap.Error(err))

			return noop.Int64Counter{}
		}

		return c
	}

	return &instruments{
		tracer:    otel.Tracer(otelScope),
		hits:      mustCounter(metricHits, "Reads served from a warm cache"),
		misses:    mustCounter(metricMisses, "Reads that found the cache cold"),
		completed: mustCounter(metricCompleted, "Background refreshes that landed"),
		failed:    mustCounter(metricFailed, "Background tasks that failed or panicked"),
	}
}

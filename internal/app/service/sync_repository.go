// Package service provides the cache-first repositories consumed by the
// portal API and the warmer job.
package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"portal-sync-service/internal/domain"
)

// SyncConfig holds settings shared by all sync repositories.
type SyncConfig struct {
	// RefreshTimeout bounds each background refresh. Zero means no deadline.
	RefreshTimeout time.Duration
}

// SyncRepository serves one domain's collection cache-first.
//
// A warm cache is returned immediately and refreshed from the remote in a
// detached goroutine; only a cold cache waits on the remote. Failures of
// background work are logged and never reach the caller.
type SyncRepository[T domain.Record] struct {
	domain string
	cache  domain.CollectionCache[T]
	remote domain.RemoteSource[T]
	cfg    SyncConfig
	logger *zap.Logger

	tasks     *backgroundTasks
	refreshes singleflight.Group
	inst      *instruments
	attrs     metric.MeasurementOption
}

// NewSyncRepository creates a SyncRepository for the named domain.
func NewSyncRepository[T domain.Record](
	domainName string,
	cache domain.CollectionCache[T],
	remote domain.RemoteSource[T],
	cfg SyncConfig,
	logger *zap.Logger,
) *SyncRepository[T] {
	return &SyncRepository[T]{
		domain: domainName,
		cache:  cache,
		remote: remote,
		cfg:    cfg,
		logger: logger.With(zap.String("domain", domainName)),
		tasks:  newBackgroundTasks(),
		inst:   newInstruments(logger),
		attrs:  metric.WithAttributes(attribute.String("sync.domain", domainName)),
	}
}

// NewEventsRepository creates the events repository. Events have no search.
func NewEventsRepository(
	cache domain.CollectionCache[domain.Event],
	remote domain.RemoteSource[domain.Event],
	cfg SyncConfig,
	logger *zap.Logger,
) *SyncRepository[domain.Event] {
	return NewSyncRepository(domain.EventsDomain, cache, remote, cfg, logger)
}

// Domain returns the domain name this repository serves.
func (r *SyncRepository[T]) Domain() string {
	return r.domain
}

// FetchAll returns the current collection.
//
//   - Warm cache: the cached collection is returned without waiting on the
//     remote; a background refresh overwrites the cache for the next read.
//   - Cold cache: the remote is called synchronously, its result is cached
//     and returned. Remote and write failures are returned to the caller.
func (r *SyncRepository[T]) FetchAll(ctx context.Context) ([]T, error) {
	ctx, span := r.inst.tracer.Start(ctx, spanFetchAll)
	defer span.End()
	span.SetAttributes(attribute.String("sync.domain", r.domain))

	cached, err := r.cache.ReadAll(ctx)
	if err != nil {
		r.logger.Error("reading cached collection failed", zap.Error(err))
		recordSpanError(span, err)

		return nil, err
	}

	if len(cached) > 0 {
		r.inst.hits.Add(ctx, 1, r.attrs)
		span.SetAttributes(attribute.Bool("sync.cache_hit", true))
		r.logger.Debug("serving cached collection", zap.Int("count", len(cached)))

		r.refreshInBackground(ctx)

		return cached, nil
	}

	r.inst.misses.Add(ctx, 1, r.attrs)
	span.SetAttributes(attribute.Bool("sync.cache_hit", false))

	items, err := r.fetchAndStore(ctx)
	if err != nil {
		recordSpanError(span, err)

		return nil, err
	}

	return items, nil
}

// ClearCache removes the cached collection; the next FetchAll takes the
// cold path.
func (r *SyncRepository[T]) ClearCache(ctx context.Context) error {
	if err := r.cache.Clear(ctx); err != nil {
		r.logger.Error("clearing cache failed", zap.Error(err))

		return err
	}

	return nil
}

// Refresh fetches the full collection from the remote and overwrites the
// cache, waiting for the result. Concurrent refreshes of the same repository
// share one remote call. The shared call is detached from every caller and
// bounded by RefreshTimeout, so a caller giving up only ends its own wait.
func (r *SyncRepository[T]) Refresh(ctx context.Context) (int, error) {
	ch := r.refreshes.DoChan(r.domain, func() (_ any, err error) {
		// DoChan re-panics on a goroutine nobody can recover
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("refresh panicked",
					zap.Any("panic", rec),
					zap.String("stack", string(debug.Stack())),
				)
				err = fmt.Errorf("refresh panicked: %v", rec)
			}
		}()

		flightCtx := context.WithoutCancel(ctx)
		if r.cfg.RefreshTimeout > 0 {
			var cancel context.CancelFunc
			flightCtx, cancel = context.WithTimeout(flightCtx, r.cfg.RefreshTimeout)
			defer cancel()
		}

		items, err := r.remote.FetchAll(flightCtx)
		if err != nil {
			return 0, r.remoteError(err)
		}
		if err := r.cache.WriteAll(flightCtx, items); err != nil {
			return 0, err
		}

		return len(items), nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}

		return res.Val.(int), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Pending returns the number of background tasks still running.
func (r *SyncRepository[T]) Pending() int {
	return r.tasks.count()
}

// Drain waits until no background task is running or ctx is done.
func (r *SyncRepository[T]) Drain(ctx context.Context) error {
	return r.tasks.wait(ctx)
}

// fetchAndStore is the cold path: remote fetch, cache write, return.
func (r *SyncRepository[T]) fetchAndStore(ctx context.Context) ([]T, error) {
	start := time.Now()

	items, err := r.remote.FetchAll(ctx)
	if err != nil {
		r.logger.Error("remote fetch failed on cold cache",
			zap.String("source", r.remote.Name()),
			zap.Error(err),
		)

		return nil, r.remoteError(err)
	}

	if err := r.cache.WriteAll(ctx, items); err != nil {
		r.logger.Error("caching fetched collection failed", zap.Error(err))

		return nil, err
	}

	r.logger.Info("cold cache populated",
		zap.Int("count", len(items)),
		zap.Duration("duration", time.Since(start)),
	)

	return items, nil
}

// refreshInBackground starts a detached full refresh.
func (r *SyncRepository[T]) refreshInBackground(ctx context.Context) {
	r.goBackground(ctx, "refresh", func(ctx context.Context) error {
		count, err := r.Refresh(ctx)
		if err != nil {
			return err
		}
		r.logger.Debug("background refresh landed", zap.Int("count", count))

		return nil
	})
}

// goBackground runs task in its own goroutine. The task's context keeps the
// caller's values but not its cancellation, so it outlives the request that
// started it. Errors and panics are logged and counted, never returned.
func (r *SyncRepository[T]) goBackground(parent context.Context, name string, task func(context.Context) error) {
	ctx := context.WithoutCancel(parent)
	r.tasks.start()

	go func() {
		defer r.tasks.done()
		defer func() {
			if rec := recover(); rec != nil {
				r.inst.failed.Add(ctx, 1, r.attrs)
				r.logger.Error("background task panicked",
					zap.String("task", name),
					zap.Any("panic", rec),
					zap.String("stack", string(debug.Stack())),
				)
			}
		}()

		if r.cfg.RefreshTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.cfg.RefreshTimeout)
			defer cancel()
		}

		ctx, span := r.inst.tracer.Start(ctx, spanRefresh)
		defer span.End()
		span.SetAttributes(
			attribute.String("sync.domain", r.domain),
			attribute.String("sync.task", name),
		)

		if err := task(ctx); err != nil {
			r.inst.failed.Add(ctx, 1, r.attrs)
			recordSpanError(span, err)
			r.logger.Warn("background task failed",
				zap.String("task", name),
				zap.Error(err),
			)

			return
		}

		r.inst.completed.Add(ctx, 1, r.attrs)
	}()
}

func (r *SyncRepository[T]) remoteError(err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrRemote, r.remote.Name(), err)
}

// backgroundTasks counts running background goroutines. Unlike a
// sync.WaitGroup it can be waited on with a deadline while new tasks keep
// starting.
type backgroundTasks struct {
	mu      sync.Mutex
	running int
	idle    chan struct{} // closed while running == 0
}

func newBackgroundTasks() *backgroundTasks {
	idle := make(chan struct{})
	close(idle)

	return &backgroundTasks{idle: idle}
}

func (b *backgroundTasks) start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running == 0 {
		b.idle = make(chan struct{})
	}
	b.running++
}

func (b *backgroundTasks) done() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.running--
	if b.running == 0 {
		close(b.idle)
	}
}

func (b *backgroundTasks) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.running
}

func (b *backgroundTasks) wait(ctx context.Context) error {
	b.mu.Lock()
	idle := b.idle
	b.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"portal-sync-service/internal/app/service"
	"portal-sync-service/pkg/locker"
)

// Warmer refreshes every domain cache.
type Warmer interface {
	WarmAll(ctx context.Context) []service.WarmResult
}

// WarmConfig holds warm scheduler configuration.
type WarmConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
	LockKey   string
}

// WarmScheduler refreshes the caches on an interval so consumers rarely hit
// a cold cache. A distributed lock lets only one instance warm per interval.
type WarmScheduler struct {
	warmer Warmer
	cfg    WarmConfig
	logger *zap.Logger
	locker locker.DistributedLocker

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWarmScheduler creates a new WarmScheduler.
func NewWarmScheduler(warmer Warmer, cfg WarmConfig, logger *zap.Logger, l locker.DistributedLocker) *WarmScheduler {
	return &WarmScheduler{
		warmer: warmer,
		cfg:    cfg,
		logger: logger.With(zap.String("task", "warmer")),
		locker: l,
	}
}

// Start begins the background warm loop.
func (s *WarmScheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.logger.Info("starting warm scheduler",
		zap.Duration("interval", s.cfg.Interval),
		zap.Bool("run_on_startup", s.cfg.OnStartup),
	)

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop cancels the loop and waits for an in-flight warm to return.
func (s *WarmScheduler) Stop() {
	if s.cancel == nil {
		return
	}

	s.logger.Info("stopping warm scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("warm scheduler stopped")
}

func (s *WarmScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	if s.cfg.OnStartup {
		s.execute(ctx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.execute(ctx)
		}
	}
}

// execute runs one warm under the lock.
//
// Locking behavior:
//   - Lock TTL = interval (cooldown model)
//   - Success: lock held for the full interval so no other instance repeats the warm
//   - Any domain failed: lock released so another instance can retry
func (s *WarmScheduler) execute(ctx context.Context) {
	acquired, err := s.locker.Acquire(ctx, s.cfg.LockKey, s.cfg.Interval)
	if err != nil {
		s.logger.Error("failed to acquire warmer lock", zap.Error(err))

		return
	}
	if !acquired {
		s.logger.Debug("another instance is warming, skipping")

		return
	}

	warmCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		warmCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	results := s.warmer.WarmAll(warmCtx)

	total, failed := 0, 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		} else {
			total += r.Count
		}
	}

	if failed > 0 {
		// Release with a fresh context so a shutdown still frees the lock
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.locker.Release(releaseCtx, s.cfg.LockKey); err != nil {
			s.logger.Error("failed to release warmer lock", zap.Error(err))
		}
		s.logger.Warn("warm completed with errors, lock released for retry",
			zap.Int("total_cached", total),
			zap.Int("domains_failed", failed),
		)

		return
	}

	s.logger.Info("warm completed, lock held for cooldown",
		zap.Int("total_cached", total),
		zap.Duration("cooldown", s.cfg.Interval),
	)
}

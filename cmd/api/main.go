// Package main is the entry point for the portal-sync-service API.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"portal-sync-service/internal/app/cache"
	"portal-sync-service/internal/app/service"
	"portal-sync-service/internal/config"
	"portal-sync-service/internal/domain"
	"portal-sync-service/internal/infra/postgres"
	"portal-sync-service/internal/infra/postgres/migrations"
	"portal-sync-service/internal/infra/provider/registry"
	redisstore "portal-sync-service/internal/infra/redis"
	"portal-sync-service/internal/job"
	"portal-sync-service/internal/logger"
	"portal-sync-service/internal/telemetry"
	"portal-sync-service/internal/transport/httpserver"
	"portal-sync-service/internal/transport/httpserver/handler"
	"portal-sync-service/internal/validator"
	"portal-sync-service/pkg/locker"
)

func main() {
	cfg, err := config.Load(os.Getenv("APP_CONFIG"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting portal-sync-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("store", cfg.Store.Backend),
		zap.String("remote", cfg.Remote.Mode),
	)

	ctx := context.Background()

	shutdownTelemetry := telemetry.ShutdownFunc(func(context.Context) error { return nil })
	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err = telemetry.Setup(ctx, telemetry.Config{
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			Insecure:     cfg.Telemetry.Insecure,
			ServiceName:  cfg.Telemetry.ServiceName,
			Headers:      cfg.Telemetry.Headers,
		})
		if err != nil {
			log.Fatal("failed to set up telemetry", zap.Error(err))
		}
		log.Info("telemetry enabled", zap.String("endpoint", cfg.Telemetry.OTLPEndpoint))
	}

	backend, err := openBackend(ctx, cfg, log.Logger)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	defer backend.close()

	sources, err := registry.NewSources(cfg.Remote, log.Logger)
	if err != nil {
		log.Fatal("failed to create remote sources", zap.Error(err))
	}

	syncCfg := service.SyncConfig{RefreshTimeout: cfg.Sync.RefreshTimeout}
	newsRepo := service.NewNewsRepository(
		cache.NewNewsCache(backend.store, log.Logger),
		sources.News,
		syncCfg,
		log.Logger,
	)
	eventsRepo := service.NewEventsRepository(
		cache.NewEventsCache(backend.store, log.Logger),
		sources.Events,
		syncCfg,
		log.Logger,
	)
	warmSvc := service.NewWarmService([]service.Refresher{newsRepo, eventsRepo}, log.Logger)

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Name:        cfg.App.Name,
			Port:        cfg.App.Port,
			BodyLimit:   1024 * 1024, // 1MB
			CORSOrigins: cfg.App.CORSOrigins,
		},
		httpserver.Dependencies{
			News:       newsRepo,
			Events:     eventsRepo,
			Warmer:     warmSvc,
			Clearers:   []handler.CacheClearer{newsRepo, eventsRepo},
			Ping:       backend.store.Ping,
			RemotePing: sources.Ping,
		},
		validator.New(),
		log.Logger,
	)

	var scheduler *job.WarmScheduler
	if cfg.Warmer.Enabled {
		scheduler = job.NewWarmScheduler(
			warmSvc,
			job.WarmConfig{
				Interval:  cfg.Warmer.Interval,
				Timeout:   cfg.Warmer.Timeout,
				OnStartup: cfg.Warmer.OnStartup,
				LockKey:   cfg.Warmer.LockKey,
			},
			log.Logger,
			backend.locker,
		)
		scheduler.Start()
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.App.Port); err != nil {
		log.Error("server error", zap.Error(err))
	}

	// Let in-flight background refreshes finish writing before the store closes
	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.Sync.DrainTimeout)
	defer cancel()
	if err := errors.Join(newsRepo.Drain(drainCtx), eventsRepo.Drain(drainCtx)); err != nil {
		log.Warn("background refreshes did not finish",
			zap.Int("pending", newsRepo.Pending()+eventsRepo.Pending()),
			zap.Error(err),
		)
	}

	telemetryCtx, cancelTelemetry := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTelemetry()
	if err := shutdownTelemetry(telemetryCtx); err != nil {
		log.Warn("telemetry shutdown error", zap.Error(err))
	}

	log.Info("portal-sync-service stopped")
}

// backend is the cache store and the warmer lock that goes with it.
type backend struct {
	store  domain.KeyValueStore
	locker locker.DistributedLocker
	close  func()
}

// openBackend connects the configured store. Redis also coordinates the
// warmer across instances; the postgres backend runs a single warmer per
// process.
func openBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (*backend, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		db, err := postgres.NewConnection(ctx, postgres.Config{
			DSN:          cfg.Database.DSN(),
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			MaxLifetime:  cfg.Database.MaxLifetime,
			Debug:        cfg.App.Debug,
		}, log)
		if err != nil {
			return nil, err
		}
		if err := migrations.Run(db); err != nil {
			_ = postgres.Close(db)

			return nil, err
		}
		log.Info("database migrations completed")

		return &backend{
			store:  postgres.NewStore(db, log, cfg.Store.KeyPrefix),
			locker: locker.NewLocalLocker(),
			close:  func() { _ = postgres.Close(db) },
		}, nil

	default:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()

			return nil, err
		}
		log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))

		return &backend{
			store:  redisstore.NewStore(client, log, cfg.Store.KeyPrefix),
			locker: locker.NewRedisLocker(client, log),
			close:  func() { _ = client.Close() },
		}, nil
	}
}

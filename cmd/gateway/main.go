// cmd/gateway/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"medscreen-gateway/internal/cache"
	"medscreen-gateway/internal/common/config"
	"medscreen-gateway/internal/common/database"
	"medscreen-gateway/internal/common/logger"
	"medscreen-gateway/internal/common/observability"
	"medscreen-gateway/internal/conditions"
	"medscreen-gateway/internal/events"
	"medscreen-gateway/internal/inference"
	"medscreen-gateway/internal/screening"
	"medscreen-gateway/internal/server"
	"medscreen-gateway/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting screening gateway...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry (only when caching is on) ---
	var rds *database.RedisClient
	if cfg.Cache.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			rds, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rds.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rds.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Init Elasticsearch (optional, screening events) ---
	var indexer *events.Indexer
	if cfg.Events.Enabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch init failed", zap.Error(err))
		}
		if err := es.Ping(); err != nil {
			zapLog.Warn("elasticsearch unreachable at startup", zap.Error(err))
		}
		indexer = events.NewIndexer(es, cfg.Database.Elasticsearch.Index, log)
		zapLog.Info("Elasticsearch event indexing enabled",
			zap.String("index", cfg.Database.Elasticsearch.Index))
	}

	registry := conditions.NewRegistry(conditions.Defaults()...)
	for _, def := range registry.All() {
		zapLog.Info("condition registered",
			zap.String("slug", def.Slug),
			zap.Bool("enabled", config.IsConditionEnabled(cfg, def.Slug)),
		)
	}

	var predictionCache *cache.PredictionCache
	if cfg.Cache.Enabled {
		ttl := time.Duration(cfg.Cache.TTL) * time.Second
		predictionCache = cache.NewPredictionCache(rds.GetClient(), ttl, log)
	}

	svc := screening.NewService(screening.Dependencies{
		Registry: registry,
		Config:   cfg,
		// No client-level timeout; each call carries the condition's
		// configured deadline on its context.
		Client: inference.NewClient(0, log),
		Cache:    predictionCache,
		Store:    store.NewScreeningStore(pg.GetDB()),
		Events:   indexer,
		Obs:      obs,
		Logger:   log,
	})

	srv := server.New(cfg, svc, pg, rds, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	case sig := <-stop:
		zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}

	zapLog.Info("Screening gateway stopped")
}

// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"artmatch/internal/api"
	"artmatch/internal/common/camunda"
	"artmatch/internal/common/config"
	"artmatch/internal/common/database"
	"artmatch/internal/common/logger"
	"artmatch/internal/common/observability"
	"artmatch/internal/matching"
	"artmatch/internal/sources"
	"artmatch/pkg/registry"

	cms "artmatch/internal/workers/matching/calculate-match-score"
	rc "artmatch/internal/workers/matching/rank-candidates"
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

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

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

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	checkers := []database.Checker{zeebeClient, pg, redis}

	// --- Init Elasticsearch with retry (optional) ---
	var esClient *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.Enabled() {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		checkers = append(checkers, esClient)
		zapLog.Info("Elasticsearch connected successfully")
	} else {
		zapLog.Info("Elasticsearch not configured, candidate pools come from PostgreSQL")
	}

	// --- Ranking service and provider chain ---
	phrasebook, ok := matching.PhrasebookFor(cfg.Matching.Phrasebook)
	if !ok {
		zapLog.Fatal("unknown phrasebook", zap.String("phrasebook", cfg.Matching.Phrasebook))
	}
	ranker := matching.NewRanker(
		matching.WithPhrasebook(phrasebook),
		matching.WithParallelism(cfg.Matching.ParallelThreshold, cfg.Matching.MaxGoroutines),
	)
	service := matching.NewService(ranker, obs, log)

	var provider matching.DataProvider = sources.NewPostgresProvider(pg.DB, log)
	if esClient != nil {
		provider = sources.NewSearchProvider(provider, esClient.Client,
			cfg.Database.Elasticsearch.ArtistIndex, cfg.Database.Elasticsearch.MaxPool, log)
	}
	provider = sources.NewCachedProvider(provider, redis.Client, cfg.Matching.CacheTTL(), log)

	// --- Register Workers ---
	activities := registry.Default()
	for taskType := range cfg.Workers {
		if _, ok := activities.Find(taskType); !ok {
			zapLog.Warn("configured worker has no registered activity", zap.String("taskType", taskType))
		}
	}

	var workers camunda.Workers

	if config.IsWorkerEnabled(cfg, rc.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, rc.TaskType)
		handler := rc.NewHandler(
			&rc.Config{
				DefaultTopN: cfg.Matching.DefaultTopN,
				Timeout:     config.GetDuration(wcfg.Timeout),
			},
			service, provider, log,
		)
		workers = append(workers, camunda.StartWorker(zeebeClient, rc.TaskType, wcfg, handler, zapLog))
	}

	if config.IsWorkerEnabled(cfg, cms.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, cms.TaskType)
		handler := cms.NewHandler(
			&cms.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			ranker, log,
		)
		workers = append(workers, camunda.StartWorker(zeebeClient, cms.TaskType, wcfg, handler, zapLog))
	}

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- HTTP API, health & metrics ---
	srv := &http.Server{
		Addr: cfg.HTTP.Address,
		Handler: api.NewRouter(api.NewHandler(api.Options{
			Service:     service,
			Provider:    provider,
			Checkers:    checkers,
			DefaultTopN: cfg.Matching.DefaultTopN,
			Logger:      log,
		})),
		ReadTimeout:  config.GetDuration(cfg.HTTP.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	workers.StopAll()

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

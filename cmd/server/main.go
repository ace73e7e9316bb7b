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

	"github.com/rs/zerolog"

	"github.com/iho/draftledger/internal/adapter/document"
	httpAdapter "github.com/iho/draftledger/internal/adapter/http"
	"github.com/iho/draftledger/internal/adapter/http/handler"
	"github.com/iho/draftledger/internal/adapter/http/middleware"
	"github.com/iho/draftledger/internal/adapter/inference"
	"github.com/iho/draftledger/internal/adapter/inference/gemini"
	postgresRepo "github.com/iho/draftledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/draftledger/internal/adapter/repository/redis"
	"github.com/iho/draftledger/internal/adapter/storage"
	"github.com/iho/draftledger/internal/extraction"
	"github.com/iho/draftledger/internal/infrastructure/config"
	"github.com/iho/draftledger/internal/infrastructure/logger"
	"github.com/iho/draftledger/internal/infrastructure/metrics"
	"github.com/iho/draftledger/internal/infrastructure/postgres"
	"github.com/iho/draftledger/internal/infrastructure/redis"
	"github.com/iho/draftledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Inference
	geminiClient, err := gemini.NewClient(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gemini client")
	}
	inferenceClient := inference.NewCachingClient(geminiClient, redisRepo.NewResponseCache(redisClient), cfg.InferenceCacheTTL, log)

	observer := metrics.New(nil)

	orchestrator := usecase.NewOrchestrator(
		inferenceClient,
		inference.NewRetrier(cfg.InferenceMaxRetries, log),
		observer,
		log,
		usecase.OrchestratorConfig{Timeout: cfg.InferenceTimeout, Concurrency: cfg.InferenceConcurrency},
	)

	// Initialize repositories
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	sessionStore := redisRepo.NewImportSessionStore(redisClient, cfg.ImportSessionTTL)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	blobs, closeBlobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create receipt storage")
	}
	defer closeBlobs()

	committer := usecase.NewCommitter(
		txnRepo,
		categoryRepo,
		storage.NewReceiptStore(blobs, txnRepo),
		postgresRepo.NewRetrier(log),
		idGen,
		observer,
		log,
	)

	// Initialize use cases
	importUC := usecase.NewImportUseCase(
		orchestrator,
		extraction.NewParser(),
		extraction.NewNormalizer(),
		sessionStore,
		committer,
		idGen,
		observer,
		log,
		usecase.ImportConfig{DefaultCurrency: cfg.DefaultCurrency, ChunkSize: cfg.ChunkSize},
	)

	loader := document.NewLoader(document.NewPDFExtractor(document.NewExecRunner(log), cfg.PDFToTextPath), log)

	// Initialize handlers
	importHandler := handler.NewImportHandler(importUC, loader, cfg.MaxUploadBytes)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ImportHandler:    importHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Logger:           log,
	})

	// Create server
	server := &http.Server{
		Addr:         listenAddr(cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go cleanupLimiters(serverCtx, rateLimiter, time.Hour, log)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func listenAddr(port string) string {
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

// newBlobStore returns the GCS store when a bucket is configured and the local
// file store otherwise, plus a close func for the chosen store.
func newBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, func(), error) {
	if cfg.ReceiptBucket != "" {
		gcs, err := storage.NewGCSBlobStore(ctx, cfg.ReceiptBucket)
		if err != nil {
			return nil, nil, err
		}
		return gcs, func() { _ = gcs.Close() }, nil
	}

	files, err := storage.NewFileBlobStore(cfg.ReceiptDir)
	if err != nil {
		return nil, nil, err
	}
	return files, func() {}, nil
}

// cleanupLimiters drops rate limiter state for clients idle longer than every.
func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, every time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.CleanupLimiters(every); n > 0 {
				log.Debug().Int("clients", n).Msg("dropped idle rate limiters")
			}
		}
	}
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iho/porket/internal/adapter/export"
	httpAdapter "github.com/iho/porket/internal/adapter/http"
	"github.com/iho/porket/internal/adapter/http/handler"
	"github.com/iho/porket/internal/adapter/http/middleware"
	"github.com/iho/porket/internal/adapter/repository"
	memoryRepo "github.com/iho/porket/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/porket/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/porket/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/porket/internal/adapter/repository/sqlite"
	"github.com/iho/porket/internal/infrastructure/amqp"
	"github.com/iho/porket/internal/infrastructure/config"
	"github.com/iho/porket/internal/infrastructure/eventpublisher"
	"github.com/iho/porket/internal/infrastructure/logger"
	"github.com/iho/porket/internal/infrastructure/metrics"
	"github.com/iho/porket/internal/infrastructure/postgres"
	"github.com/iho/porket/internal/infrastructure/redis"
	"github.com/iho/porket/internal/infrastructure/sqlite"
	"github.com/iho/porket/internal/usecase"
	"github.com/iho/porket/web"
)

func main() {
	// A missing .env is fine; the environment wins over the file.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

// store is an opened transaction backend.
type store struct {
	repo   usecase.TransactionRepository
	health handler.HealthCheck
	close  func()
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	idGen := repository.NewULIDGenerator()
	clock := usecase.NewLocationClock(loc)

	st, err := openStore(ctx, cfg, idGen, appLogger)
	if err != nil {
		return err
	}
	defer st.close()

	checks := map[string]handler.HealthCheck{"database": st.health}

	// Connect to Redis
	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClientWithConfig(ctx, redis.Config{
			URL:          cfg.RedisURL,
			ConnectRetry: cfg.DatabaseConnectRetry,
			Logger:       appLogger,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()

		redisStore := redisRepo.NewIdempotencyStore(redisClient)
		idempotencyStore = redisStore
		checks["redis"] = redisStore.Ping
		appLogger.Info().Msg("connected to redis")
	} else {
		appLogger.Warn().Msg("REDIS_URL not set, idempotency keys are ignored")
	}

	publishers, closePublishers, err := buildPublishers(ctx, cfg, appLogger, m)
	if err != nil {
		return err
	}
	defer closePublishers()

	dispatcher := eventpublisher.NewDispatcher(eventpublisher.Config{
		Publishers: publishers,
		Logger:     appLogger,
		Metrics:    m,
	})

	// Initialize use cases
	transactionUC := usecase.NewTransactionUseCase(st.repo, dispatcher, clock)
	reportUC := usecase.NewReportUseCase(st.repo, clock)
	exportUC := usecase.NewExportUseCase(st.repo, clock,
		export.NewCSVEncoder(),
		export.NewJSONEncoder(),
		export.NewXLSXEncoder(),
	)

	// Initialize handlers
	uiHandler, err := handler.NewUIHandler(handler.UIConfig{
		Transactions: transactionUC,
		Reports:      reportUC,
		Clock:        clock,
		IDGen:        idGen,
		Formats:      exportUC.Formats(),
		Templates:    web.TemplatesFS,
	})
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m.RateLimitHits)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		ReportHandler:      handler.NewReportHandler(reportUC),
		ExportHandler:      handler.NewExportHandler(exportUC, m),
		HealthHandler:      handler.NewHealthHandler(checks),
		UIHandler:          uiHandler,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        rateLimiter,
		Metrics:            m,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Logger:             appLogger,
		Static:             web.StaticFS,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := dispatcher.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		rateLimiter.Run(gctx, time.Hour)
		return nil
	})

	g.Go(func() error {
		appLogger.Info().Str("port", cfg.HTTPPort).Str("backend", cfg.StoreBackend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info().Msg("shutting down server...")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	appLogger.Info().Msg("server stopped")
	return nil
}

// openStore connects the configured backend and applies its migrations.
func openStore(ctx context.Context, cfg *config.Config, idGen usecase.IDGenerator, appLogger zerolog.Logger) (*store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:  cfg.DatabaseURL,
			MaxConns:     cfg.DatabaseMaxConns,
			MinConns:     cfg.DatabaseMinConns,
			ConnectRetry: cfg.DatabaseConnectRetry,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		appLogger.Info().Msg("connected to postgres")

		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}

		return &store{
			repo:   postgresRepo.NewTransactionRepository(pool, idGen),
			health: pool.Ping,
			close:  pool.Close,
		}, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		appLogger.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite database")

		repo := sqliteRepo.NewTransactionRepository(db, idGen)
		return &store{
			repo:   repo,
			health: repo.Ping,
			close:  closeDB(db, appLogger),
		}, nil

	case config.BackendMemory:
		appLogger.Warn().Msg("using in-memory store, data is lost on restart")
		return &store{
			repo:   memoryRepo.NewTransactionRepository(idGen),
			health: func(context.Context) error { return nil },
			close:  func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func closeDB(db *sql.DB, appLogger zerolog.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			appLogger.Warn().Err(err).Msg("failed to close database")
		}
	}
}

// buildPublishers returns the change event publishers. AMQP is added when
// AMQP_URL is set.
func buildPublishers(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger, m *metrics.Metrics) ([]eventpublisher.Publisher, func(), error) {
	publishers := []eventpublisher.Publisher{
		eventpublisher.NewLogPublisher(appLogger),
		eventpublisher.NewMetricsPublisher(m),
	}

	if cfg.AMQPURL == "" {
		return publishers, func() {}, nil
	}

	client, err := amqp.NewClient(ctx, amqp.Config{
		URL:          cfg.AMQPURL,
		ExchangeName: cfg.AMQPExchange,
		DialRetry:    cfg.DatabaseConnectRetry,
		Logger:       appLogger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect amqp: %w", err)
	}
	appLogger.Info().Str("exchange", cfg.AMQPExchange).Msg("connected to amqp")

	closeClient := func() {
		if err := client.Close(); err != nil {
			appLogger.Warn().Err(err).Msg("failed to close amqp client")
		}
	}

	return append(publishers, client), closeClient, nil
}

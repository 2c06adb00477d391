package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/iho/billingledger/internal/adapter/chain"
	httpAdapter "github.com/iho/billingledger/internal/adapter/http"
	"github.com/iho/billingledger/internal/adapter/http/handler"
	postgresRepo "github.com/iho/billingledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/billingledger/internal/adapter/repository/redis"
	"github.com/iho/billingledger/internal/infrastructure/config"
	"github.com/iho/billingledger/internal/infrastructure/indexer"
	"github.com/iho/billingledger/internal/infrastructure/logger"
	"github.com/iho/billingledger/internal/infrastructure/metrics"
	"github.com/iho/billingledger/internal/infrastructure/postgres"
	"github.com/iho/billingledger/internal/infrastructure/redis"
	"github.com/iho/billingledger/internal/infrastructure/scheduler"
	"github.com/iho/billingledger/internal/usecase"
)

const blockTimeCachePrefix = "blocktime:"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "billingledger"})

	if err := cfg.ValidateIndexer(); err != nil {
		log.Fatal().Err(err).Msg("invalid indexer configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("indexer stopped")
	}
	log.Info().Msg("indexer stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := metrics.New()

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:     cfg.DatabaseURL,
		MaxConns:        cfg.DatabaseMaxConns,
		MinConns:        cfg.DatabaseMinConns,
		ConnectTimeout:  cfg.DatabaseTimeout,
		ApplicationName: "billingledger-indexer",
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, logger.Component(log, "migrator")).Up(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	redisClient, err := redis.NewClient(ctx, redis.Config{
		URL:         cfg.RedisURL,
		PoolSize:    cfg.RedisPoolSize,
		DialTimeout: cfg.DatabaseTimeout,
	}, logger.Component(log, "redis"))
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	ethClient, err := chain.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to dial rpc: %w", err)
	}
	defer ethClient.Close()
	log.Info().Str("rpc", cfg.RPCURL).Msg("connected to rpc")

	source := chain.NewLogSource(
		ethClient,
		chain.NewLogDecoder(cfg.BillingContract, cfg.TokenContract),
		redisRepo.NewCache(redisClient, blockTimeCachePrefix, m),
		sourceConfig(cfg),
		logger.Component(log, "source"),
		m,
	)

	processor, reconciler := wireLedger(pool, chain.NewGovernorReader(ethClient), cfg, log, m)

	idx := indexer.New(indexer.Config{
		Source:        source,
		Processor:     processor,
		Logger:        logger.Component(log, "indexer"),
		Metrics:       m,
		StartBlock:    cfg.StartBlock,
		BatchSize:     cfg.BlockBatchSize,
		Confirmations: cfg.Confirmations,
		Interval:      cfg.PollInterval,
	})

	if cfg.ReconcileSchedule != "" {
		sched, err := scheduler.New(ctx, cfg.ReconcileSchedule, reconciler, logger.Component(log, "scheduler"), m)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	health := handler.NewHealthHandler().
		AddCheck("postgres", pool.Ping).
		AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})

	server := newHTTPServer(cfg, httpAdapter.NewRouter(httpAdapter.RouterConfig{
		HealthHandler: health,
		Logger:        logger.Component(log, "http"),
	}))

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	indexerErr := make(chan error, 1)
	go func() {
		indexerErr <- idx.Start(ctx)
	}()

	var runErr error
	select {
	case err := <-indexerErr:
		if !errors.Is(err, context.Canceled) {
			runErr = err
		}
	case err := <-serverErr:
		runErr = fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		log.Info().Msg("shutting down...")
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	return runErr
}

// wireLedger assembles the event processor and the reconciler over postgres.
func wireLedger(
	pool *pgxpool.Pool,
	governors usecase.GovernorSource,
	cfg *config.Config,
	log zerolog.Logger,
	m *metrics.Metrics,
) (*usecase.Processor, *usecase.ReconciliationUseCase) {
	accountRepo := postgresRepo.NewAccountRepository(pool)
	globalRepo := postgresRepo.NewGlobalLedgerRepository(pool)
	snapshotRepo := postgresRepo.NewSnapshotRepository(pool)

	resolver := usecase.NewIdentityResolver(accountRepo, globalRepo, governors)
	rollup := usecase.NewRollupEngine(snapshotRepo, cfg.Calendar(), m)
	txLog := usecase.NewTransactionLog(postgresRepo.NewRecordRepository(), m)

	billing := usecase.NewBillingUseCase(resolver, rollup, txLog, accountRepo, globalRepo)
	token := usecase.NewTokenUseCase(resolver, accountRepo)

	processor := usecase.NewProcessor(
		postgresRepo.NewTxManagerWithConfig(pool, postgresRepo.TxConfig{LockTimeout: cfg.DatabaseLockTimeout}),
		postgresRepo.NewCursorRepository(),
		usecase.NewLedgerRouter(billing, token),
		postgresRepo.NewRetrier(logger.Component(log, "retrier"), m),
		usecase.BillingCursorID,
		m,
	)

	return processor, usecase.NewReconciliationUseCase(accountRepo, snapshotRepo, postgresRepo.NewLedgerRepository(pool))
}

func sourceConfig(cfg *config.Config) chain.SourceConfig {
	return chain.SourceConfig{
		CacheTTL:   cfg.BlockTimeCacheTTL,
		MaxRetries: cfg.RPCMaxRetries,
	}
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shopkit/commerce-gateway/internal/adapter"
	"github.com/shopkit/commerce-gateway/internal/api/rest"
	"github.com/shopkit/commerce-gateway/internal/api/server"
	"github.com/shopkit/commerce-gateway/internal/api/shared/executor"
	"github.com/shopkit/commerce-gateway/internal/auth"
	"github.com/shopkit/commerce-gateway/internal/config"
	"github.com/shopkit/commerce-gateway/internal/logger"
	"github.com/shopkit/commerce-gateway/internal/metrics"
	"github.com/shopkit/commerce-gateway/internal/ratelimit"
	"github.com/shopkit/commerce-gateway/internal/store"
	"github.com/shopkit/commerce-gateway/internal/usage"
	"github.com/shopkit/commerce-gateway/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Service:         "gateway-api",
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting commerce gateway API")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	m := metrics.New(prometheus.NewRegistry())

	// Rate limiting
	redisClient := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.DialTimeout)
	counterStore := ratelimit.NewRedisCounterStore(redisClient, clock, cfg.RateLimit.KeyPrefix, cfg.Redis.HealthCheckInterval)
	defer func() {
		if err := counterStore.Close(); err != nil {
			logger.Error(fmt.Errorf("failed to close redis: %w", err))
		}
	}()
	limiter, err := ratelimit.NewLimiter(cfg.RateLimit, counterStore, clock, m)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limiter", zap.Error(err))
	}

	usageRecorder := usage.NewRecorder(dataStore, m, cfg.Usage.WorkerPoolSize, cfg.Usage.WorkerQueueSize)
	defer usageRecorder.Close()

	// Webhook delivery
	registry, err := webhook.NewRegistry(cfg.Webhook.EventTypes)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load event registry", zap.Error(err))
	}
	defaultTimeout := time.Duration(cfg.Webhook.DefaultTimeoutMs) * time.Millisecond
	scheduler := webhook.NewScheduler(
		webhook.NewDeliverer(adapter.NewHTTPClient(0), clock, cfg.Webhook.UserAgent),
		webhook.NewRecorder(dataStore, m),
		clock,
		webhook.WithDefaults(cfg.Webhook.DefaultMaxAttempts, defaultTimeout),
	)
	dispatcher := webhook.NewDispatcher(dataStore, scheduler, registry, jsonAdapter, clock, cfg.Webhook.MaxWorkers)
	defer dispatcher.Close()

	// Admin console tokens are optional; without a key the console answers 500
	var consoleVerifier *auth.ConsoleVerifier
	if cfg.Auth.JWTPublicKey != "" {
		consoleVerifier, err = auth.NewConsoleVerifier(cfg.Auth.JWTPublicKey)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to parse console public key", zap.Error(err))
		}
	} else {
		logger.WarnCtx(ctx, "Console public key not configured, console routes are disabled")
	}

	srv := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		WebhookDefaults: executor.WebhookDefaults{
			MaxAttempts: cfg.Webhook.DefaultMaxAttempts,
			TimeoutMs:   cfg.Webhook.DefaultTimeoutMs,
		},
	}, server.Dependencies{
		Store:      dataStore,
		Dispatcher: dispatcher,
		Registry:   registry,
		Routes: rest.RouteConfig{
			Resolver:        auth.NewResolver(dataStore),
			Limiter:         limiter,
			Usage:           usageRecorder,
			Clock:           clock,
			Metrics:         m,
			ConsoleVerifier: consoleVerifier,
			ConsoleOrigins:  cfg.Auth.ConsoleOrigins,
		},
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, fmt.Errorf("server forced to shutdown: %w", err))
	}

	logger.Info("API server stopped")
}

package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/searchnrate/leadgate/internal/api/router"
	"github.com/searchnrate/leadgate/internal/buyers"
	appconfig "github.com/searchnrate/leadgate/internal/config"
	"github.com/searchnrate/leadgate/internal/http/handlers"
	"github.com/searchnrate/leadgate/internal/intake"
	"github.com/searchnrate/leadgate/internal/leadlog"
	"github.com/searchnrate/leadgate/internal/leads"
	"github.com/searchnrate/leadgate/internal/notify"
	"github.com/searchnrate/leadgate/internal/observability/metrics"
	"github.com/searchnrate/leadgate/internal/rowstore"
	"github.com/searchnrate/leadgate/internal/suppression"
	"github.com/searchnrate/leadgate/pkg/logging"
)

func main() {
	// Load .env if present (local development); environment wins in deploys
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadgate API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"dispatch_mode", cfg.DispatchMode,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	// Canceled on shutdown so background work (suppression refresher)
	// stops before the server drains.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	store := rowstore.NewPostgres(pool)

	targets, err := buyers.ParseTargets(cfg.BuyersJSON)
	if err != nil {
		logger.Error("invalid BUYERS_JSON", "error", err)
		os.Exit(1)
	}
	if len(targets) == 0 {
		logger.Warn("no buyer targets configured; accepted leads will only be recorded")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	intakeMetrics := metrics.NewIntakeMetrics(registry)

	// Optional Redis-backed suppression index; without it every check scans
	// the opt-out table directly.
	var healthRedis redis.UniversalClient
	var index *suppression.Index
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		healthRedis = rdb
		index = suppression.NewIndex(rdb, store, cfg.PhoneNationalDigits, 2*cfg.SuppressionRefresh, logger)
		go index.Run(ctx, cfg.SuppressionRefresh, intakeMetrics.SetSuppressionRecords)
	}

	// Pipeline
	builder := leads.NewBuilder(cfg.DefaultVertical, cfg.RequireConsent, cfg.PhoneNationalDigits)
	checker := suppression.NewChecker(store, index, cfg.PhoneNationalDigits, logger)
	writer := leadlog.NewWriter(store)
	buyerRouter := buyers.NewRouter(buyers.Config{
		Targets:     targets,
		Live:        cfg.LiveDispatch(),
		Environment: cfg.Env,
		Timeout:     cfg.BuyerTimeout,
		Logger:      logger,
		Metrics:     intakeMetrics,
	})

	serviceCfg := intake.Config{
		Builder: builder,
		Checker: checker,
		Writer:  writer,
		Router:  buyerRouter,
		Logger:  logger,
		Metrics: intakeMetrics,
	}
	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	if sender != nil {
		if notifier := notify.NewService(sender, cfg.OpsNotifyEmail, logger); notifier != nil {
			serviceCfg.Notifier = notifier
		}
	}
	service := intake.NewService(serviceCfg)

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		IntakeHandler:      intake.NewHandler(service, logger),
		OptOutHandler:      suppression.NewHandler(store, index, cfg.PhoneNationalDigits, logger),
		HealthHandler:      handlers.NewHealthHandler(store, healthRedis, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

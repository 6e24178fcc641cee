package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/paypulse/paypulse/pkg/api"
	"github.com/paypulse/paypulse/pkg/billing"
	"github.com/paypulse/paypulse/pkg/config"
	"github.com/paypulse/paypulse/pkg/observability"
	"github.com/paypulse/paypulse/pkg/scheduler"
	"github.com/paypulse/paypulse/pkg/storage"
)

func main() {
	// Load .env if present; environment variables win over file values.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	store, err := storage.NewFileSystemStore(cfg.Storage.DataDir)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize storage")
		os.Exit(1)
	}
	logger.WithField("dataDir", cfg.Storage.DataDir).Info("Storage initialized")

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	svc := billing.NewPaymentService(store, logger, metrics)
	svc.SeedDemo = cfg.Billing.SeedDemo

	apiServer := api.NewServer(svc, logger, api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Metrics:     metrics,
	})

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Health and metrics on a separate port for probes.
	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, observability.NewHealthChecker(store))
	if metrics != nil {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: healthMux,
	}
	go func() {
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Health server failed")
		}
	}()

	sched := scheduler.New(svc, cfg.Billing.SweepSchedule, logger)
	if err := sched.Start(); err != nil {
		logger.WithError(err).Error("Failed to start payment scheduler")
		os.Exit(1)
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("PayPulse backend server running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	// Surface operator status at startup, as a hint for first-time setup.
	if admin, err := svc.GetAdminConfig(); err == nil {
		if admin.Configured {
			logger.WithFields(map[string]interface{}{
				"name":    admin.Name,
				"address": admin.Address,
			}).Info("Admin configured")
		} else {
			logger.Warn("Admin not configured; set it via PUT /api/admin/config")
		}
	}

	sm := observability.NewShutdownManager(logger, server, cfg.Server.ShutdownTimeout)
	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		sched.Stop()
		return nil
	})
	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})

	if err := sm.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
		os.Exit(1)
	}
}

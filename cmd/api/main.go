package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crescentview/leadgate/internal/api/router"
	"github.com/crescentview/leadgate/internal/app/bootstrap"
	appconfig "github.com/crescentview/leadgate/internal/config"
	"github.com/crescentview/leadgate/internal/leads"
	"github.com/crescentview/leadgate/internal/observability/metrics"
	"github.com/crescentview/leadgate/internal/projects"
	"github.com/crescentview/leadgate/pkg/logging"
)

func main() {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadgate API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	leadMetrics := metrics.NewLeadMetrics(prometheus.DefaultRegisterer)

	// Lead pipeline
	records := bootstrap.BuildRecordWriter(cfg)
	crm := bootstrap.BuildCRMForwarder(cfg, logger)
	notifier := bootstrap.BuildLeadNotifier(cfg, logger)
	leadsService := leads.NewService(records, crm, notifier, leadMetrics, logger)
	leadsHandler := leads.NewHandler(leadsService, logger)

	// Project catalog
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	projectsRepo, closeRepo, err := bootstrap.BuildProjectsRepository(ctx, cfg, redisClient, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer closeRepo()
	projectsHandler := projects.NewHandler(projectsRepo, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		ProjectsHandler:    projectsHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminJWTSecret:     cfg.AdminJWTSecret,
		LeadRateLimit:      cfg.LeadRateLimit,
		LeadRateBurst:      cfg.LeadRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/straye-as/offer-workflow/docs"
	"github.com/straye-as/offer-workflow/internal/auth"
	"github.com/straye-as/offer-workflow/internal/backend"
	"github.com/straye-as/offer-workflow/internal/config"
	"github.com/straye-as/offer-workflow/internal/http/handler"
	"github.com/straye-as/offer-workflow/internal/http/middleware"
	"github.com/straye-as/offer-workflow/internal/http/router"
	"github.com/straye-as/offer-workflow/internal/jobs"
	"github.com/straye-as/offer-workflow/internal/logger"
	"github.com/straye-as/offer-workflow/internal/service"
	"github.com/straye-as/offer-workflow/internal/storage"
	"github.com/straye-as/offer-workflow/internal/telemetry"
	"go.uber.org/zap"
)

// @title Offer Workflow API
// @version 1.0
// @description Backend for the listing agent offer wizard: offer data, document uploads, purchase agreement analysis, DocuSign connection and submission
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@straye.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token
// @Security BearerAuth

// readinessCheckKey is never written; a not-found answer proves the draft store is reachable
const readinessCheckKey = "health/readiness-check"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	switch basicCfg.App.Environment {
	case "staging", "production":
		if host := os.Getenv("SWAGGER_HOST"); host != "" {
			docs.SwaggerInfo.Host = host
		}
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// In development secrets come from the environment, in staging/production from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if cfg.Auth.SigningKey == "" {
		return fmt.Errorf("auth signing key is not configured")
	}

	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry, log)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	drafts, err := storage.NewStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize draft storage: %w", err)
	}
	log.Info("Draft storage initialized", zap.String("mode", cfg.Storage.Mode))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	backendMetrics, err := backend.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register backend metrics: %w", err)
	}
	httpMetrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register http metrics: %w", err)
	}
	jobMetrics, err := jobs.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register job metrics: %w", err)
	}

	backendClient := backend.NewClient(&cfg.Backend, backendMetrics, log)

	// Services
	sessionService := service.NewSessionService(cfg, backendClient, drafts, log)
	offerService := service.NewOfferService(log)
	documentService := service.NewDocumentService(cfg, backendClient, log)
	signingService := service.NewSigningService(log)
	wizardService := service.NewWizardService(log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	sessionHandler := handler.NewSessionHandler(sessionService, log)
	offerHandler := handler.NewOfferHandler(sessionService, offerService, log)
	documentHandler := handler.NewDocumentHandler(sessionService, documentService, cfg.Upload, log)
	docuSignHandler := handler.NewDocuSignHandler(sessionService, signingService, log)
	wizardHandler := handler.NewWizardHandler(sessionService, wizardService, log)

	readiness := map[string]router.ReadinessCheck{
		"storage": func(r *http.Request) error {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			_, err := drafts.Get(ctx, readinessCheckKey)
			if err == nil || errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			return err
		},
	}

	rt := router.NewRouter(
		cfg,
		log,
		reg,
		httpMetrics,
		readiness,
		authMiddleware,
		rateLimiter,
		sessionHandler,
		offerHandler,
		documentHandler,
		docuSignHandler,
		wizardHandler,
	)

	// Idle session sweeper; database-backed drafts are also purged after the retention period
	var purger jobs.DraftPurger
	if dbDrafts, ok := drafts.(*storage.DatabaseStorage); ok {
		purger = dbDrafts
	}
	scheduler := jobs.NewScheduler(log, jobMetrics)
	cleanup := jobs.NewCleanupJob(sessionService, purger, cfg.Storage.DraftRetentionDuration(), log)
	if err := scheduler.AddJob(jobs.CleanupJobName, cfg.Session.SweepCron, time.Minute, cleanup.Run); err != nil {
		log.Error("Failed to register session cleanup job", zap.Error(err))
	} else {
		scheduler.Start()
		log.Info("Scheduler started with session cleanup job",
			zap.String("cron_expr", cfg.Session.SweepCron),
			zap.Duration("idle_ttl", cfg.Session.IdleTTLDuration()),
			zap.Bool("draft_purge", purger != nil),
		)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		stopped := scheduler.Stop()
		<-stopped.Done()
		log.Info("Scheduler stopped")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if err := shutdownTracing(ctx); err != nil {
			log.Warn("Error flushing traces", zap.Error(err))
		}

		log.Info("Server stopped gracefully", zap.Int("open_sessions", sessionService.Count()))
	}

	return nil
}

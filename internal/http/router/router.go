package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/straye-as/offer-workflow/internal/auth"
	"github.com/straye-as/offer-workflow/internal/config"
	"github.com/straye-as/offer-workflow/internal/http/handler"
	"github.com/straye-as/offer-workflow/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	_ "github.com/straye-as/offer-workflow/docs" // Import generated swagger docs
)

// ReadinessCheck reports whether a dependency is usable
type ReadinessCheck func(r *http.Request) error

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	gatherer        prometheus.Gatherer
	metrics         *middleware.Metrics
	readiness       map[string]ReadinessCheck
	authMiddleware  *auth.Middleware
	rateLimiter     *middleware.RateLimiter
	sessionHandler  *handler.SessionHandler
	offerHandler    *handler.OfferHandler
	documentHandler *handler.DocumentHandler
	docuSignHandler *handler.DocuSignHandler
	wizardHandler   *handler.WizardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	gatherer prometheus.Gatherer,
	metrics *middleware.Metrics,
	readiness map[string]ReadinessCheck,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	sessionHandler *handler.SessionHandler,
	offerHandler *handler.OfferHandler,
	documentHandler *handler.DocumentHandler,
	docuSignHandler *handler.DocuSignHandler,
	wizardHandler *handler.WizardHandler,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		gatherer:        gatherer,
		metrics:         metrics,
		readiness:       readiness,
		authMiddleware:  authMiddleware,
		rateLimiter:     rateLimiter,
		sessionHandler:  sessionHandler,
		offerHandler:    offerHandler,
		documentHandler: documentHandler,
		docuSignHandler: docuSignHandler,
		wizardHandler:   wizardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	if rt.metrics != nil {
		r.Use(rt.metrics.Handler)
	}
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(rt.cfg, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Readiness: draft storage and any other registered dependency
	r.Get("/health/ready", rt.ready)

	if rt.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(rt.gatherer, promhttp.HandlerOpts{}))
	}

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes, all on behalf of an authenticated agent
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.authMiddleware.Authenticate)
		r.Use(rt.rateLimiter.Limit)

		r.Post("/sessions", rt.sessionHandler.Create)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", rt.sessionHandler.Get)
			r.Delete("/", rt.sessionHandler.Discard)

			// Offer data
			r.Get("/offer", rt.offerHandler.Get)
			r.Patch("/offer", rt.offerHandler.Update)
			r.Get("/offer/financials", rt.offerHandler.Financials)

			// Documents
			r.Post("/documents/analyze", rt.documentHandler.Analyze)
			r.Post("/documents", rt.documentHandler.Upload)
			r.Delete("/documents/{docId}", rt.documentHandler.Remove)
			r.Post("/documents/{docId}/restore", rt.documentHandler.Restore)
			r.Put("/documents/{docId}/type", rt.documentHandler.SetType)
			r.Put("/documents/{docId}/signing", rt.documentHandler.SetSendForSigning)
			r.Put("/purchase-agreement", rt.documentHandler.SetPurchaseAgreement)

			// Signing setup
			r.Post("/signing/skip", rt.documentHandler.SkipSigning)
			r.Post("/signing/recipients", rt.documentHandler.AddRecipient)
			r.Patch("/signing/recipients/{recipientId}", rt.documentHandler.UpdateRecipient)
			r.Delete("/signing/recipients/{recipientId}", rt.documentHandler.RemoveRecipient)

			// DocuSign connection
			r.Get("/docusign", rt.docuSignHandler.Status)
			r.Post("/docusign/connect", rt.docuSignHandler.Connect)
			r.Post("/docusign/message", rt.docuSignHandler.Message)
			r.Post("/docusign/popup-closed", rt.docuSignHandler.PopupClosed)

			// Wizard
			r.Post("/wizard/next", rt.wizardHandler.Next)
			r.Post("/wizard/back", rt.wizardHandler.Back)
			r.Get("/wizard/review", rt.wizardHandler.Review)
			r.Post("/wizard/submit", rt.wizardHandler.Submit)
		})
	})

	return otelhttp.NewHandler(r, "offer-workflow",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health" && r.URL.Path != "/metrics"
		}),
	)
}

func (rt *Router) ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{}, len(rt.readiness))
	allHealthy := true

	for name, check := range rt.readiness {
		if err := check(r); err != nil {
			rt.logger.Error("readiness check failed", zap.String("check", name), zap.Error(err))
			checks[name] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
			continue
		}
		checks[name] = map[string]interface{}{"status": "healthy"}
	}

	status, code := "healthy", http.StatusOK
	if !allHealthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

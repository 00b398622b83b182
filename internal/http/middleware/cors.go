package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/straye-as/offer-workflow/internal/config"
	"go.uber.org/zap"
)

// CORS returns a CORS middleware configured from the application config.
// The wizard UI origin (docuSign.appOrigin) is always allowed in addition to cors.allowedOrigins.
func CORS(cfg *config.Config, logger *zap.Logger) func(http.Handler) http.Handler {
	c := cfg.CORS
	environment := cfg.App.Environment

	options := cors.Options{
		AllowedMethods:   c.AllowedMethods,
		AllowedHeaders:   c.AllowedHeaders,
		ExposedHeaders:   c.ExposedHeaders,
		AllowCredentials: c.AllowCredentials,
		MaxAge:           c.MaxAge,
	}

	origins := make([]string, 0, len(c.AllowedOrigins)+1)
	wildcard := false
	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			wildcard = true
			continue
		}
		origins = append(origins, strings.TrimSuffix(origin, "/"))
	}

	switch {
	case wildcard:
		if !isDevelopment(environment) {
			logger.Warn("CORS configured with wildcard origin in non-development environment",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return origin != ""
		}
	case len(origins) == 0 && isDevelopment(environment):
		options.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return origin != ""
		}
		logger.Info("CORS configured to allow all origins in development mode")
	default:
		if app := strings.TrimSuffix(cfg.DocuSign.AppOrigin, "/"); app != "" && !contains(origins, app) {
			origins = append(origins, app)
		}
		if len(origins) == 0 {
			// empty AllowedOrigins means "*" to go-chi/cors
			options.AllowOriginFunc = func(r *http.Request, origin string) bool {
				return false
			}
			logger.Warn("CORS configured with no allowed origins - all cross-origin requests will be denied",
				zap.String("environment", environment))
			break
		}
		options.AllowedOrigins = origins
		logger.Info("CORS configured with explicit origins", zap.Strings("origins", origins))
	}

	return cors.Handler(options)
}

func isDevelopment(environment string) bool {
	return environment == "development" || environment == "local" || environment == ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

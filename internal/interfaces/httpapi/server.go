package httpapi

import (
	"net/http"

	"github.com/riskibarqy/petanque-league/internal/platform/logging"
)

type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	InternalJobToken   string
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Metrics        RouteMetrics
}

func NewRouter(handler *Handler, verifier TokenVerifier, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	routes := &routeRegistrar{mux: http.NewServeMux(), metrics: cfg.Metrics}
	registerSystemRoutes(routes, handler, cfg)
	registerLeagueRoutes(routes, handler, verifier)
	registerInternalJobRoutes(routes, handler, cfg.InternalJobToken)

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, NoStore(recoverPanic(logger, routes.mux)))))
}

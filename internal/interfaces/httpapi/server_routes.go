package httpapi

import (
	"net/http"

	"github.com/riskibarqy/petanque-league/internal/usecase"
)

type routeRegistrar struct {
	mux     *http.ServeMux
	metrics RouteMetrics
}

func (r *routeRegistrar) handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, instrument(r.metrics, pattern, h))
}

func registerSystemRoutes(routes *routeRegistrar, handler *Handler, cfg RouterConfig) {
	routes.mux.HandleFunc("GET /healthz", handler.Healthz)
	if cfg.MetricsHandler != nil {
		routes.mux.Handle("GET /metrics", cfg.MetricsHandler)
	}
	if !cfg.SwaggerEnabled {
		return
	}

	routes.mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	routes.mux.HandleFunc("GET /docs", handler.SwaggerUI)
	routes.mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerLeagueRoutes(routes *routeRegistrar, handler *Handler, verifier TokenVerifier) {
	routes.handle("GET /v1/teams", http.HandlerFunc(handler.ListTeams))
	routes.handle("GET /v1/schedule", http.HandlerFunc(handler.ListSchedule))
	routes.handle("GET /v1/matches", http.HandlerFunc(handler.ListMatches))
	routes.handle("POST /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.SubmitMatch)))
	routes.handle("GET /v1/standings", http.HandlerFunc(handler.GetStandings))
}

func registerInternalJobRoutes(routes *routeRegistrar, handler *Handler, internalJobToken string) {
	routes.handle("POST "+usecase.SyncJobPath, RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncJob)))
	routes.handle("GET "+usecase.SyncJobPath, RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetSyncStatus)))
}

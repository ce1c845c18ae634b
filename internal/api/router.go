package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/telecom-kpi/internal/api/handlers"
	"github.com/wonny/telecom-kpi/pkg/logger"
	"github.com/wonny/telecom-kpi/pkg/redis"
)

// RouterConfig holds what the router needs besides the handlers
type RouterConfig struct {
	Limiter            *redis.RateLimiter // nil disables rate limiting
	RateLimitPerMinute int
	TrustProxy         bool // key clients by X-Forwarded-For
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: routes are declared in this function only
func NewRouter(kpiHandler *handlers.KPIHandler, dataHandler *handlers.DataHandler, cfg RouterConfig, log *logger.Logger) http.Handler {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = methodNotAllowedHandler()

	// Health check
	r.HandleFunc("/health", dataHandler.GetHealth).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.MethodNotAllowedHandler = methodNotAllowedHandler()

	// KPI endpoints
	api.HandleFunc("/kpi/summary", kpiHandler.GetSummary).Methods("GET")
	api.HandleFunc("/kpi/internet", kpiHandler.GetInternet).Methods("GET")
	api.HandleFunc("/kpi/internet/provinces/{province}", kpiHandler.GetInternetProvince).Methods("GET")
	api.HandleFunc("/kpi/fiber", kpiHandler.GetFiber).Methods("GET")
	api.HandleFunc("/kpi/mobile", kpiHandler.GetMobile).Methods("GET")
	api.HandleFunc("/kpi/export.xlsx", kpiHandler.GetExport).Methods("GET")
	api.HandleFunc("/kpi/{kpi}/chart.png", kpiHandler.GetChart).Methods("GET")

	// Data endpoints
	api.HandleFunc("/data/ingest", dataHandler.Ingest).Methods("POST")
	api.HandleFunc("/data/runs", dataHandler.GetRuns).Methods("GET")

	// Apply middleware (outermost first)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	if cfg.Limiter != nil && cfg.RateLimitPerMinute > 0 {
		api.Use(rateLimitMiddleware(cfg.Limiter, cfg.RateLimitPerMinute, cfg.TrustProxy, log))
	}

	return r
}

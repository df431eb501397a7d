package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jineeshjohn/market-movers/internal/api/handlers"
	"github.com/jineeshjohn/market-movers/pkg/logger"
)

// Handlers groups the route handlers. Jobs is optional.
type Handlers struct {
	Report  *handlers.ReportHandler
	Chart   *handlers.ChartHandler
	Symbols *handlers.SymbolHandler
	Jobs    *handlers.JobsHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// HTML reports
	r.HandleFunc("/", h.Report.Symbol).Methods("GET")
	r.HandleFunc("/momentum", h.Report.Momentum).Methods("GET")
	r.HandleFunc("/chart.png", h.Chart.Get).Methods("GET")

	// JSON API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/symbols", h.Symbols.Search).Methods("GET")
	if h.Jobs != nil {
		api.HandleFunc("/jobs", h.Jobs.Stats).Methods("GET")
	}

	// Apply middleware (outermost first)
	r.Use(requestIDMiddleware)
	r.Use(recoveryMiddleware(log))
	r.Use(loggingMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "market-movers",
	})
}

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/scoutlab/scout/internal/api/handlers"
	"github.com/scoutlab/scout/pkg/logger"
)

// NewRouter configures all HTTP routes and middleware.
func NewRouter(
	scanHandler *handlers.ScanHandler,
	analyzeHandler *handlers.AnalyzeHandler,
	committeeHandler *handlers.CommitteeHandler,
	scanStream *ScanStream,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Scan endpoints
	api.HandleFunc("/scan", scanHandler.RunScan).Methods("POST")
	api.HandleFunc("/opportunities", scanHandler.GetOpportunities).Methods("GET")

	// Full pipeline per ticker, plus standalone aggregation
	api.HandleFunc("/analyze/{ticker}", analyzeHandler.Analyze).Methods("GET")
	api.HandleFunc("/consensus", analyzeHandler.Consensus).Methods("POST")

	// Committee endpoints
	api.HandleFunc("/committee/debate", committeeHandler.Debate).Methods("POST")
	api.HandleFunc("/committee/stats", committeeHandler.GetStats).Methods("GET")
	api.HandleFunc("/committee/history", committeeHandler.GetHistory).Methods("GET")

	// Live scan progress
	r.HandleFunc("/ws/scan", scanStream.Handle)

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "scout-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

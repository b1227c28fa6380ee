package http

import (
	"net/http"

	"apilog-analytics/internal/analyzers"
	"apilog-analytics/internal/shared/loggers"
	"apilog-analytics/internal/shared/metrics"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(analysisService analyzers.AnalysisService, httpLogger loggers.Logger) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	// Initialize handlers
	analyzeReportHandler := NewAnalyzeReportHandler(analysisService)

	// Routes
	router.Post("/reports", errorHandlingAdapter(analyzeReportHandler))
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}

package server

import (
	"log/slog"
	"net/http"

	"nightsales-dashboard/internal/handlers"
	"nightsales-dashboard/internal/services"
)

type Server struct {
	analytics    *services.Analytics
	mux          *http.ServeMux
	logger       *slog.Logger
	apiHandlers  *handlers.APIHandlers
	sseHandlers  *handlers.SSEHandlers
	pageHandlers *handlers.PageHandlers
}

func NewServer(analytics *services.Analytics, logger *slog.Logger) *Server {
	s := &Server{
		analytics:    analytics,
		mux:          http.NewServeMux(),
		logger:       logger,
		apiHandlers:  handlers.NewAPIHandlers(analytics, logger),
		sseHandlers:  handlers.NewSSEHandlers(analytics, logger),
		pageHandlers: handlers.NewPageHandlers(analytics, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Dashboard
	s.mux.HandleFunc("GET /{$}", s.pageHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API
	s.mux.HandleFunc("GET /api/report", s.apiHandlers.HandleReport)
	s.mux.HandleFunc("GET /api/payment-methods", s.apiHandlers.HandlePaymentMethods)
	s.mux.HandleFunc("GET /api/daily-revenue", s.apiHandlers.HandleDailyRevenue)
	s.mux.HandleFunc("GET /api/payment-revenue", s.apiHandlers.HandlePaymentRevenue)
	s.mux.HandleFunc("GET /api/hourly-summary", s.apiHandlers.HandleHourlySummary)

	// Datastar SSE
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Liveness at "/", JSON 404 for anything else unmatched
	mux.HandleFunc("/", s.app.APIHandler.RootHandler)

	// Question answering
	mux.HandleFunc("/ask", s.app.AskHandler.AskHandler)

	// API routes - System
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	// API routes - Index
	mux.HandleFunc("/api/index", s.handleIndexRoute)
	mux.HandleFunc("/api/index/refresh", s.app.IndexHandler.RefreshHandler)

	return mux
}

// handleIndexRoute serves GET /api/index
func (s *Server) handleIndexRoute(w http.ResponseWriter, r *http.Request) {
	RouteByMethod(w, r, MethodRouter{
		http.MethodGet: s.app.IndexHandler.StatsHandler,
	})
}

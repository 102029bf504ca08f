package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// System metrics (no auth required for basic monitoring)
		r.Get("/metrics", s.handleMetrics)

		// Auth endpoints (no auth required)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// Catalogue reads are public
		r.Get("/products", s.handleListProducts)
		r.Get("/products/{id}", s.handleGetProduct)

		// WebSocket upgrade. Browsers cannot set an Authorization header
		// on the upgrade request, so auth is a single-use ticket issued
		// to logged-in users and validated in the handler.
		r.Get(s.wsPath(), s.handleWebSocket)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/auth/profile", s.handleProfile)

			// WS ticket requires authentication
			r.Post("/auth/ws-ticket", s.handleWSTicket)

			// The caller's own products. Static segment wins over the
			// public /products/{id} pattern.
			r.Get("/products/mine", s.handleListMyProducts)

			// Catalogue writes require ownership or the admin role,
			// enforced inside the handlers after existence checks.
			r.Post("/products", s.handleCreateProduct)
			r.Patch("/products/{id}", s.handleUpdateProduct)
			r.Put("/products/{id}", s.handleUpdateProduct)
			r.Delete("/products/{id}", s.handleDeleteProduct)

			// Audit trail (admin only, enforced in handler)
			r.Get("/audit", s.handleListAuditLogs)
		})
	})

	return r
}

// wsPath returns the configured WebSocket mount point, defaulting to /ws.
func (s *Server) wsPath() string {
	if s.cfg != nil && s.cfg.WebSocket.Path != "" {
		return s.cfg.WebSocket.Path
	}
	return "/ws"
}

// handleHealth returns the server health status, including database
// reachability when a database handle is wired in.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err != nil {
			s.logger.Error("database health check failed", "error", err)
			status = "degraded"
		}
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"status":  status,
		"version": s.version,
	})
}

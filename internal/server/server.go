// Package server provides the HTTP server implementation.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/inmogo/inmogo/internal/config"
	"github.com/inmogo/inmogo/internal/handlers"
	"github.com/inmogo/inmogo/internal/metrics"
	"github.com/inmogo/inmogo/internal/middleware"
	"github.com/inmogo/inmogo/internal/ratelimit"
	"github.com/inmogo/inmogo/pkg/logger"
)

// Handlers groups the HTTP handlers the server routes to.
type Handlers struct {
	Health   *handlers.HealthHandler
	Lead     *handlers.LeadHandler
	Property *handlers.PropertyHandler
	Invoice  *handlers.InvoiceHandler
	Auth     *handlers.AuthHandler
}

// Server represents the HTTP server.
type Server struct {
	cfg        *config.Config
	log        *logger.Logger
	httpServer *http.Server
	limiter    ratelimit.Limiter
	listener   net.Listener
	running    bool
	mu         sync.RWMutex
}

// New creates a new Server instance. The limiter is applied per operation
// family on the submission endpoints.
func New(cfg *config.Config, log *logger.Logger, h Handlers, limiter ratelimit.Limiter) *Server {
	s := &Server{
		cfg:     cfg,
		log:     log,
		limiter: limiter,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux, h)

	// Metrics, request ID and client IP wrap everything. Rate limits are
	// attached per route so each operation family has its own counters.
	chain := middleware.New(
		middleware.Metrics(),
		middleware.RequestID(),
		middleware.ClientIP(cfg.Server.TrustProxy),
	)

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      chain.Then(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

// registerRoutes sets up the HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.Handle("GET /metrics", metrics.Handler())

	// Public site: submissions are rate limited per client IP, reads are
	// not.
	mux.Handle("POST /api/v1/valuations", s.limited("valuation", h.Lead.SubmitValuation))
	mux.Handle("POST /api/v1/contacts", s.limited("contact", h.Lead.SubmitContact))
	mux.HandleFunc("GET /api/v1/properties", h.Property.ListPublished)
	mux.HandleFunc("GET /api/v1/properties/{id}", h.Property.Get)

	// Client portal.
	mux.Handle("POST /api/v1/portal/properties", s.limited("property", h.Property.Create))
	mux.HandleFunc("GET /api/v1/portal/properties", h.Property.ListMine)
	mux.HandleFunc("PUT /api/v1/portal/properties/{id}", h.Property.Update)
	mux.HandleFunc("DELETE /api/v1/portal/properties/{id}", h.Property.Delete)
	mux.Handle("POST /api/v1/portal/properties/{id}/images", s.limited("upload", h.Property.AddImage))
	mux.HandleFunc("DELETE /api/v1/portal/properties/{id}/images/{imageID}", h.Property.DeleteImage)
	mux.Handle("POST /api/v1/portal/invoices", s.limited("invoice", h.Invoice.Submit))
	mux.HandleFunc("GET /api/v1/portal/invoices", h.Invoice.ListMine)
	mux.HandleFunc("POST /api/v1/portal/signout", h.Auth.SignOut)

	// Back office.
	mux.HandleFunc("GET /api/v1/admin/valuations", h.Lead.ListValuations)
	mux.HandleFunc("GET /api/v1/admin/contacts", h.Lead.ListContacts)
	mux.HandleFunc("GET /api/v1/admin/invoices", h.Invoice.List)
	mux.HandleFunc("PATCH /api/v1/admin/invoices/{id}/status", h.Invoice.UpdateStatus)
}

// limited wraps a handler with the rate limiter for one operation family.
func (s *Server) limited(operation string, fn http.HandlerFunc) http.Handler {
	return middleware.RateLimit(s.limiter, operation)(fn)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := s.cfg.Server.Address()

	// Create the listener first so the actual address is known when the
	// configured port is 0.
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.log.Info("server starting", "address", listener.Addr().String())

	err = s.httpServer.Serve(listener)
	if err != nil && err != http.ErrServerClosed {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")

	err := s.httpServer.Shutdown(ctx)

	if s.limiter != nil {
		if closeErr := s.limiter.Close(); closeErr != nil {
			s.log.Error("failed to close rate limiter", "error", closeErr.Error())
		}
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if err != nil {
		s.log.Error("shutdown error", "error", err.Error())
		return err
	}

	s.log.Info("server stopped")
	return nil
}

// Addr returns the listener address once the server has started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Package api provides the HTTP presentation layer of the dashboard: a JSON
// API over the session and a server-rendered HTML page.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/asset-dashboard/internal/logging"
	"github.com/asset-dashboard/internal/projection"
	"github.com/asset-dashboard/internal/session"
	"github.com/asset-dashboard/internal/types"
)

// DashboardSession is the part of session.Session the handlers use
type DashboardSession interface {
	View() session.View
	ToggleWallet() (session.View, error)
	ToggleFilterMineOnly() (session.View, error)
	SetSortKey(key types.SortKey) (session.View, error)
	SelectAsset(id *int64) (session.View, error)
	Asset(id int64) (projection.Card, bool)
}

// Server represents the HTTP API server.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	session    DashboardSession
	logger     *logging.Logger
	config     *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	RequestsPerSecond int // Per-client request rate
	Burst             int // Per-client burst size
}

// NewServer creates a new API server instance.
func NewServer(config *ServerConfig, sess DashboardSession, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	s := &Server{
		router:  mux.NewRouter(),
		session: sess,
		logger:  logger.WithField("component", "api"),
		config:  config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RequestsPerSecond, s.config.Burst)

	// Set up middleware (order matters!)
	s.router.Use(LoggingMiddleware(s.logger))
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", s.handleGetDashboard).Methods("GET")
	api.HandleFunc("/wallet/toggle", s.handleToggleWallet).Methods("POST")
	api.HandleFunc("/filter/toggle", s.handleToggleFilter).Methods("POST")
	api.HandleFunc("/sort", s.handleSetSort).Methods("PUT")
	api.HandleFunc("/selection", s.handleSetSelection).Methods("PUT")
	api.HandleFunc("/assets/{id}", s.handleGetAsset).Methods("GET")

	// Browser page; forms post back and are redirected to "/"
	s.router.HandleFunc("/", s.handlePage).Methods("GET")
	ui := s.router.PathPrefix("/ui").Subrouter()
	ui.HandleFunc("/wallet", s.handleUIToggleWallet).Methods("POST")
	ui.HandleFunc("/filter", s.handleUIToggleFilter).Methods("POST")
	ui.HandleFunc("/sort", s.handleUISetSort).Methods("POST")
	ui.HandleFunc("/select", s.handleUISelect).Methods("POST")

	// Preflight requests are answered by CORSMiddleware
	s.router.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// Handler exposes the fully wired router
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "asset-dashboard",
		"loaded":  s.session.View().Loaded,
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting dashboard server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down dashboard server...")
	return s.httpServer.Shutdown(ctx)
}

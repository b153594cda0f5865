package server

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"vidstash/internal/config"
	"vidstash/internal/ngrok"
	"vidstash/internal/store"

	"github.com/sirupsen/logrus"
)

// Server is the HTTP front for the playlist store. It is stateless between
// requests; all state lives in the store.
type Server struct {
	store        *store.Store
	config       *config.Config
	logger       *logrus.Logger
	ngrokService *ngrok.Service
	routes       []route
	httpServer   *http.Server
}

// route binds an HTTP method and a compiled path pattern to a handler. The
// capture groups of the pattern are passed to the handler as params.
type route struct {
	method  string
	pattern *regexp.Regexp
	handler func(w http.ResponseWriter, r *http.Request, params []string)
}

// NewServer creates a new API server instance
func NewServer(cfg *config.Config, st *store.Store, logger *logrus.Logger) (*Server, error) {
	ngrokSvc, err := ngrok.NewService(&cfg.Ngrok)
	if err != nil {
		logger.WithError(err).Warn("Ngrok service not available")
		ngrokSvc = nil
	}

	s := &Server{
		store:        st,
		config:       cfg,
		logger:       logger,
		ngrokService: ngrokSvc,
	}
	s.routes = s.buildRoutes()

	return s, nil
}

// buildRoutes returns the routing table, ordered most specific to least
// specific. The order is a correctness invariant: the nested video routes
// must be evaluated before the bare playlist-by-id routes, otherwise a
// broader rule would swallow requests meant for a narrower one.
func (s *Server) buildRoutes() []route {
	return []route{
		{http.MethodGet, regexp.MustCompile(`^/playlists$`), s.handleListPlaylists},
		{http.MethodPost, regexp.MustCompile(`^/playlists$`), s.handleCreatePlaylist},
		{http.MethodPost, regexp.MustCompile(`^/videos$`), s.handleAddVideo},
		{http.MethodPut, regexp.MustCompile(`^/playlists/([^/]+)/videos/([^/]+)/title$`), s.handleUpdateVideoTitle},
		{http.MethodPut, regexp.MustCompile(`^/playlists/([^/]+)/name$`), s.handleRenamePlaylist},
		{http.MethodDelete, regexp.MustCompile(`^/playlists/([^/]+)/videos/([^/]+)$`), s.handleRemoveVideo},
		{http.MethodDelete, regexp.MustCompile(`^/playlists/([^/]+)$`), s.handleDeletePlaylist},
		{http.MethodGet, regexp.MustCompile(`^/health$`), s.handleHealthCheck},
	}
}

// ServeHTTP dispatches each request through the ordered route table. CORS
// headers are fixed on every response, and OPTIONS preflights short-circuit
// before any routing occurs.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		s.respondJSON(w, http.StatusOK, map[string]string{"message": "CORS preflight"})
		return
	}

	for _, rt := range s.routes {
		if r.Method != rt.method {
			continue
		}
		match := rt.pattern.FindStringSubmatch(r.URL.Path)
		if match == nil {
			continue
		}
		rt.handler(w, r, match[1:])
		return
	}

	s.respondError(w, r, http.StatusNotFound, "Not Found", nil)
}

// setCORSHeaders applies the fixed CORS headers the mobile client expects.
func (s *Server) setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", s.config.Server.AllowedOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

// Start starts the API server and blocks until it shuts down.
func (s *Server) Start() error {
	handler := s.panicRecoveryMiddleware(s.requestLoggingMiddleware(s))

	s.httpServer = &http.Server{
		Addr:        s.config.GetAddress(),
		Handler:     handler,
		ReadTimeout: time.Duration(s.config.Server.ReadTimeout) * time.Second,
	}

	localAddress := fmt.Sprintf("http://%s", s.config.GetAddress())
	s.logger.WithField("address", localAddress).Info("Vidstash server starting")

	// Start ngrok tunnel if enabled
	if s.ngrokService != nil {
		ctx := context.Background()
		if err := s.ngrokService.StartTunnel(ctx, localAddress); err != nil {
			s.logger.WithError(err).Warn("Could not start ngrok tunnel")
		} else {
			defer s.ngrokService.Stop()
		}
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down vidstash server...")

	if s.ngrokService != nil {
		s.ngrokService.Stop()
	}

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

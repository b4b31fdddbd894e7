// Package web provides the HTTP server and handlers for the interactive shell.
//
// The shell is stateless: every button press uploads both reports again, runs
// one action and renders the outcome. A finished report travels back inside
// the page as a data: URI, so nothing is kept on the server between requests.
package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/ginjaninja78/grn-comparison/internal/config"
	"github.com/ginjaninja78/grn-comparison/internal/reporter"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).ParseFS(templateFiles, "templates/*.html"))

// Server is the HTTP server for the GRN comparison shell.
type Server struct {
	reporter *reporter.Reporter
	cfg      config.ServerConfig
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance.
func NewServer(rep *reporter.Reporter, cfg config.ServerConfig) *Server {
	s := &Server{
		reporter: rep,
		cfg:      cfg,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Post("/reports/{kind}", s.handleReport)
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/reports/{kind}", s.handleReportAPI)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server.Addr = addr

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

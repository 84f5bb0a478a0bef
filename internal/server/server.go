// Package server serves the notes over HTTP: rendered pages, the search and
// table of contents APIs, the live websocket and Prometheus metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mohitxskull/daa-notes/internal/content"
	"github.com/mohitxskull/daa-notes/internal/live"
	"github.com/mohitxskull/daa-notes/internal/metrics"
	"github.com/mohitxskull/daa-notes/internal/render"
	"github.com/mohitxskull/daa-notes/internal/site"
	"github.com/mohitxskull/daa-notes/internal/theme"
)

// Config holds server configuration.
type Config struct {
	Port          int
	ContentDir    string       // served under /content/ when set
	DefaultScheme theme.Scheme // scheme for readers without a cookie
	TOCThreshold  float64
	AllowAll      bool // allow all CORS origins (dev mode)
}

// Deps are the collaborators a Server renders pages with.
type Deps struct {
	Fetcher  *content.Fetcher
	Renderer *render.Renderer
	Shell    *site.Shell
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// Server is the daanotes HTTP server.
type Server struct {
	cfg        Config
	fetcher    *content.Fetcher
	renderer   *render.Renderer
	shell      *site.Shell
	metrics    *metrics.Metrics
	log        *slog.Logger
	hub        *live.Hub
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies.
func New(cfg Config, deps Deps) *Server {
	if cfg.DefaultScheme == "" {
		cfg.DefaultScheme = theme.Light
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		fetcher:  deps.Fetcher,
		renderer: deps.Renderer,
		shell:    deps.Shell,
		metrics:  deps.Metrics,
		log:      deps.Logger,
	}
	s.hub = live.NewHub(live.HeadingSourceFunc(s.headings), cfg.TOCThreshold, s.log, s.metrics)
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.countRequests)
	}
	r.Use(theme.Middleware(s.cfg.DefaultScheme))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	// The websocket outlives the request timeout.
	r.Get("/ws/toc", s.hub.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/", s.handleIndex)
		r.Get("/notes", s.handleNotesRoot)
		r.Get("/notes/*", s.handlePage)
		r.Get("/style.css", s.handleAsset("style.css"))
		r.Get("/script.js", s.handleAsset("script.js"))

		r.Route("/api", func(r chi.Router) {
			r.Get("/search", s.handleSearch)
			r.Get("/toc", s.handleTOC)
			r.Post("/theme", s.handleTheme)
			r.Post("/cache/invalidate", s.handleInvalidate)
		})

		if s.cfg.ContentDir != "" {
			fs := http.StripPrefix("/content/", http.FileServer(http.Dir(s.cfg.ContentDir)))
			r.Get("/content/*", fs.ServeHTTP)
		}
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the live session hub.
func (s *Server) Hub() *live.Hub { return s.hub }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// ContentChanged drops the cached copy of source and reloads the pages
// showing it.
func (s *Server) ContentChanged(source string) {
	s.fetcher.Invalidate(source)
	for _, e := range s.fetcher.Nav().Entries() {
		if e.Source == source {
			n := s.hub.Reload(e.Route)
			s.log.Info("content changed", "source", source, "route", e.Route, "sessions", n)
		}
	}
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info("daanotes server listening", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown closes the live sessions and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// countRequests records every response by route pattern.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}

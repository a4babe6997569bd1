// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package api serves the WireGuard stats the dashboard polls.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/sharedco/vpnwatch/internal/config"
	"github.com/sharedco/vpnwatch/internal/logging"
	"github.com/sharedco/vpnwatch/internal/stats"
)

// StatsSource produces the per-interface peer stats
type StatsSource interface {
	WGStats(ctx context.Context) ([]stats.InterfaceStats, error)
}

// LinkLister lists the host's network interface names
type LinkLister interface {
	LinkNames() ([]string, error)
}

// HealthCheck reports whether a dependency is usable
type HealthCheck func(ctx context.Context) error

// Server represents the HTTP API server
type Server struct {
	router     *chi.Mux
	stats      StatsSource
	links      LinkLister
	health     HealthCheck
	config     *config.Config
	log        logrus.FieldLogger
	gatherer   prometheus.Gatherer
	metrics    *Metrics
	httpServer *http.Server
}

// Option configures a Server
type Option func(*Server)

// WithLinks sets the interface lister. Defaults to netlink.
func WithLinks(l LinkLister) Option {
	return func(s *Server) { s.links = l }
}

// WithLogger sets the request logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) { s.log = log }
}

// WithHealthCheck adds a dependency check to /health
func WithHealthCheck(h HealthCheck) Option {
	return func(s *Server) { s.health = h }
}

// WithRegistry exposes reg on /metrics and registers the server's own metrics on it
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.gatherer = reg
		s.metrics = NewMetrics(reg)
	}
}

// NewServer creates a new API server instance
func NewServer(cfg *config.Config, src StatsSource, opts ...Option) (*Server, error) {
	if src == nil {
		return nil, fmt.Errorf("stats source is required")
	}

	s := &Server{
		router: chi.NewRouter(),
		stats:  src,
		links:  NetlinkLister{},
		config: cfg,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// setupMiddleware configures global middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/status", s.handleStatus)

	if s.config.Features.MetricsEnabled {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.router.Route(basePath(s.config.Server.BasePath)+"/api", func(r chi.Router) {
		r.Get("/wg/stats", s.handleWGStats)
		r.Get("/interfaces", s.handleInterfaces)
	})
}

func basePath(p string) string {
	p = strings.TrimSuffix(p, "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Start starts the HTTP server
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router returns the underlying router (useful for testing)
func (s *Server) Router() *chi.Mux {
	return s.router
}

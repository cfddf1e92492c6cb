// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package observability provides HTTP endpoints for metrics and health checks.
package observability

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
)

// ReadinessChecker returns whether the service is ready to accept traffic.
type ReadinessChecker func() bool

// Package-level counters for auth-core events. The auth services increment
// these without needing access to a Server instance.
var (
	sessionEvictions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gatehouse_session_evictions_total",
		Help: "Total number of expired sessions removed lazily on read",
	})

	sessionsSwept = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gatehouse_sessions_swept_total",
		Help: "Total number of expired sessions removed by bulk sweeps",
	})

	passwordChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatehouse_password_checks_total",
			Help: "Total number of password verifications by result",
		},
		[]string{"result"},
	)

	usersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatehouse_users_created_total",
			Help: "Total number of users created by role",
		},
		[]string{"role"},
	)
)

// RecordSessionEviction increments the lazy-eviction counter.
func RecordSessionEviction() {
	sessionEvictions.Inc()
}

// RecordSessionSweep adds the result of a bulk expired-session sweep.
func RecordSessionSweep(count int64) {
	if count > 0 {
		sessionsSwept.Add(float64(count))
	}
}

// RecordPasswordCheck increments the password verification counter.
func RecordPasswordCheck(ok bool) {
	result := "mismatch"
	if ok {
		result = "match"
	}
	passwordChecks.WithLabelValues(result).Inc()
}

// RecordUserCreated increments the user creation counter.
func RecordUserCreated(role string) {
	usersCreated.WithLabelValues(role).Inc()
}

// Server provides HTTP endpoints for observability (metrics and health probes).
type Server struct {
	addr       string
	listener   net.Listener
	httpServer *http.Server
	registry   *prometheus.Registry
	isReady    ReadinessChecker
	running    atomic.Bool
}

// NewServer creates a new observability server.
// addr: listen address in "host:port" format (":9100" for all interfaces).
func NewServer(addr string, readinessChecker ReadinessChecker) *Server {
	// Own registry so tests don't collide on the global one
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(sessionEvictions, sessionsSwept, passwordChecks, usersCreated)

	return &Server{
		addr:     addr,
		registry: registry,
		isReady:  readinessChecker,
	}
}

// Start begins serving observability endpoints. It returns an error channel
// that receives any error from the HTTP server after startup; the channel
// is closed on graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("observability server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/healthz/liveness", s.handleLiveness)
	mux.HandleFunc("/healthz/readiness", s.handleReadiness)

	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := s.httpServer.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			errCh <- oops.With("addr", s.addr).Wrap(serveErr)
		}
	}()

	slog.Info("observability server started", "addr", s.Addr())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return oops.With("operation", "shutdown observability server").Wrap(err)
	}
	return nil
}

// Addr returns the bound listen address. Useful when addr used port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok")) //nolint:errcheck // probe response
}

func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if s.isReady != nil && !s.isReady() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready")) //nolint:errcheck // probe response
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok")) //nolint:errcheck // probe response
}

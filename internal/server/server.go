// Package server provides the HTTP API of the internship matcher.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/internship-matcher/internal/accepted"
	"github.com/spigell/internship-matcher/internal/ai"
	"github.com/spigell/internship-matcher/internal/catalog"
	"github.com/spigell/internship-matcher/internal/filtering"
	"github.com/spigell/internship-matcher/internal/matching"
	"github.com/spigell/internship-matcher/internal/metrics"
	"github.com/spigell/internship-matcher/internal/stats"
)

const (
	defaultShutdownTimeout = 30 * time.Second
	limiterTTL             = 10 * time.Minute
	maxBodyBytes           = 1 << 20
)

// Appender persists accepted matches.
type Appender interface {
	Append(r accepted.Record) error
}

// Config holds server configuration.
type Config struct {
	Addr            string
	RateLimit       float64
	Burst           int
	ShutdownTimeout time.Duration
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Ranker   *matching.Ranker
	Catalog  catalog.Source
	Accepted Appender
	Counters *stats.Counters
	Letters  ai.LetterWriter
	Filters  []filtering.Filter
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler

	ranker    *matching.Ranker
	catalog   catalog.Source
	accepted  Appender
	counters  *stats.Counters
	letters   ai.LetterWriter
	filters   []filtering.Filter
	metrics   *metrics.Metrics
	logger    *zap.Logger
	validator *validator.Validate
	limiters  *limiterSet

	shutdownTimeout time.Duration
}

// New creates a new server instance.
func New(cfg Config, deps Deps) (*Server, error) {
	switch {
	case deps.Ranker == nil:
		return nil, errors.New("ranker is required")
	case deps.Catalog == nil:
		return nil, errors.New("catalog source is required")
	case deps.Accepted == nil:
		return nil, errors.New("accepted store is required")
	case deps.Counters == nil:
		return nil, errors.New("counters are required")
	}

	s := &Server{
		ranker:          deps.Ranker,
		catalog:         deps.Catalog,
		accepted:        deps.Accepted,
		counters:        deps.Counters,
		letters:         deps.Letters,
		filters:         deps.Filters,
		metrics:         deps.Metrics,
		logger:          deps.Logger,
		validator:       newValidator(),
		limiters:        newLimiterSet(cfg.RateLimit, cfg.Burst),
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	if s.letters == nil {
		s.letters = ai.Static{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = defaultShutdownTimeout
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /match", s.handleMatch)
	mux.HandleFunc("POST /accept", s.handleAccept)
	mux.HandleFunc("GET /accuracy", s.handleAccuracy)
	mux.HandleFunc("POST /template", s.handleTemplate)
	mux.HandleFunc("GET /filters", s.handleFilters)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.handler = s.withLogging(s.withCORS(s.withRateLimit(mux)))

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}

	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s.limiters != nil {
		cleanupCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go s.limiters.cleanup(cleanupCtx, limiterTTL)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", listener.Addr().String()))
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

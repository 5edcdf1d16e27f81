// Package server exposes trade graphs over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/singleflight"

	"github.com/msalah0e/tradegraph/internal/graph"
	"github.com/msalah0e/tradegraph/internal/logger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// Options are the defaults applied to requests that leave a parameter out.
type Options struct {
	Display graph.DisplayConfig
	Filter  graph.FilterState
	Layout  graph.LayoutOptions
	// Vocabulary defaults to graph.DefaultVocabulary when nil.
	Vocabulary *graph.Vocabulary
}

// Server serves one loaded row set. Full graphs are built on first use per
// display configuration and shared between requests.
type Server struct {
	echo *echo.Echo
	rows []graph.Row
	opts Options
	norm *graph.Normalizer

	cache   map[graph.DisplayConfig]*graph.Graph
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// New wires the routes.
func New(rows []graph.Row, opts Options) *Server {
	vocab := graph.DefaultVocabulary()
	if opts.Vocabulary != nil {
		vocab = *opts.Vocabulary
	}
	s := &Server{
		echo:  echo.New(),
		rows:  rows,
		opts:  opts,
		norm:  graph.NewNormalizer(vocab),
		cache: make(map[graph.DisplayConfig]*graph.Graph),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", addr)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
		return err
	}
	return nil
}

// full returns the full graph for cfg, building it at most once.
func (s *Server) full(cfg graph.DisplayConfig) (*graph.Graph, error) {
	s.cacheMu.RLock()
	if cached, ok := s.cache[cfg]; ok {
		s.cacheMu.RUnlock()
		return cached, nil
	}
	s.cacheMu.RUnlock()

	result, err, _ := s.group.Do(cfg.String(), func() (any, error) {
		s.cacheMu.RLock()
		if cached, ok := s.cache[cfg]; ok {
			s.cacheMu.RUnlock()
			return cached, nil
		}
		s.cacheMu.RUnlock()

		g, stats := graph.Build(s.rows, cfg, s.norm)
		log := logger.With("display", cfg.String())
		log.Info("graph built",
			"rows", stats.Rows,
			"nodes", len(g.Nodes),
			"links", len(g.Links),
		)
		if stats.Skipped > 0 || stats.Unparseable > 0 {
			log.Warn("incomplete rows", "skipped", stats.Skipped, "unparseable", stats.Unparseable)
		}
		if len(g.Nodes) == 0 {
			return nil, graph.ErrNoData
		}

		s.cacheMu.Lock()
		s.cache[cfg] = g
		s.cacheMu.Unlock()
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*graph.Graph), nil
}

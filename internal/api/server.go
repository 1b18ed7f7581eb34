// Package api serves the catalog, journal, progress, game and settings over
// a JSON HTTP API.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	gommonlog "github.com/labstack/gommon/log"

	"github.com/futurework-1/NestEgg-Journal/internal/api/middleware"
	"github.com/futurework-1/NestEgg-Journal/internal/app"
	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/game"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
	"github.com/futurework-1/NestEgg-Journal/internal/observability/metrics"
)

// Prefix is the base path of every API route
const Prefix = "/api/v1"

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front end of an App. It owns at most one game at a
// time.
type Server struct {
	echo   *echo.Echo
	group  *echo.Group
	app    *app.App
	logger logger.Logger

	mu   sync.Mutex
	game *game.Engine
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger used for request and error logs
func WithLogger(log logger.Logger) Option {
	return func(s *Server) { s.logger = log.Module("api") }
}

// New builds the echo instance and registers every route
func New(a *app.App, opts ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		app:    a,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	e.HTTPErrorHandler = s.httpErrorHandler
	e.Logger = logger.NewEchoAdapter(s.logger.Module("echo"))

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) httpMetrics() *metrics.HTTPMetrics {
	if s.app.Metrics == nil {
		return nil
	}
	return s.app.Metrics.HTTP
}

func (s *Server) setupMiddleware() {
	s.echo.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogLevel: gommonlog.ERROR,
	}))
	s.echo.Use(middleware.NewRequestLogger(s.logger))
	s.echo.Use(middleware.NewRequestMetrics(s.httpMetrics()))
	s.group = s.echo.Group(Prefix)

	rl := s.app.Settings.WebServer.RateLimit
	if rl.Enabled {
		limiter := middleware.NewRateLimiter(rl.RequestsPerSecond, rl.Burst, s.httpMetrics())
		s.group.Use(limiter.Middleware())
	}
}

func (s *Server) setupRoutes() {
	s.group.GET("/health", s.health)

	routeInitializers := []struct {
		name string
		fn   func()
	}{
		{"bird routes", s.initBirdRoutes},
		{"observation routes", s.initObservationRoutes},
		{"game routes", s.initGameRoutes},
		{"settings routes", s.initSettingsRoutes},
	}
	for _, initializer := range routeInitializers {
		initializer.fn()
		s.logger.Trace("routes registered", logger.String("group", initializer.name))
	}

	if s.app.Settings.WebServer.Metrics && s.app.Metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.app.Metrics.Handler()))
	}
}

// Echo exposes the router, mainly for tests
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown. A normal shutdown returns nil.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", logger.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.New(err).
			Component("api").
			Category(errors.CategoryHTTP).
			Context("addr", addr).
			Build()
	}
	return nil
}

// Shutdown drains in-flight requests and closes the current game
func (s *Server) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
	}
	err := s.echo.Shutdown(ctx)

	s.mu.Lock()
	if s.game != nil {
		s.game.Close()
		s.game = nil
	}
	s.mu.Unlock()

	s.logger.Info("http server stopped")
	return err
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":       "ok",
		"birds":        s.app.Catalog.Len(),
		"observations": s.app.Journal.Len(),
	})
}

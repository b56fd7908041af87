// Package server exposes the planning use cases as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexanderramin/cadence/internal/service"
)

// Deps are the services behind the routes. Registry receives the HTTP
// metrics and is served at /metrics.
type Deps struct {
	Analysis service.AnalysisService
	Rank     service.RankService
	Signals  service.SignalService
	Tasks    service.TaskService
	Registry *prometheus.Registry
	Logger   *slog.Logger

	// UserID is used when a request does not name one.
	UserID string
	TopK   int
	Now    func() time.Time
}

type Server struct {
	app  *fiber.App
	deps Deps
}

func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	app := fiber.New(fiber.Config{
		AppName:               "cadence",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
		ErrorHandler:          errorHandler(deps.Logger),
	})
	app.Use(recover.New())
	app.Use(requestLogger(deps.Logger))

	prom := fiberprometheus.NewWithRegistry(deps.Registry, "cadence", "cadence", "http", nil)
	prom.RegisterAt(app, "/metrics")
	prom.SetSkipPaths([]string{"/healthz"})
	app.Use(prom.Middleware)

	s := &Server{app: app, deps: deps}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.health)

	api := s.app.Group("/api")
	api.Post("/analyze", s.analyze)
	api.Post("/rank", s.rank)
	api.Post("/breakdown", s.breakdown)
	api.Post("/signals", s.ingestSignal)
	api.Get("/capacity", s.capacity)
}

// App returns the underlying fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.app.Listen(addr) }()

	s.deps.Logger.Info("http_server_started", "addr", addr)
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

func requestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Debug("http_request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return err
	}
}

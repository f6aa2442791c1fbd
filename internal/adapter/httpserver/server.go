package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/roshda/galaxy-o-meter/internal/adapter/metrics"
	"github.com/roshda/galaxy-o-meter/internal/app"
	"github.com/roshda/galaxy-o-meter/internal/domain"
	"github.com/roshda/galaxy-o-meter/internal/platform/config"
	apperrors "github.com/roshda/galaxy-o-meter/internal/platform/errors"
	"github.com/roshda/galaxy-o-meter/web"
)

type catalogProvider interface {
	Catalog() (*domain.Catalog, bool)
	State() domain.LoadState
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	catalog     catalogProvider
	presenter   *app.Presenter
	preferences *Preferences

	websocketHandler http.Handler
	metricsHandler   http.Handler
	httpMetrics      *metrics.HTTPMetrics
	errorRecorder    apperrors.Recorder

	templates    *template.Template
	static       fs.FS
	healthChecks []HealthCheck
	startTime    time.Time
}

// Option configures optional Server collaborators.
type Option func(*Server)

// WithMetrics serves reg-backed metrics at /metrics and records HTTP and error metrics.
func WithMetrics(handler http.Handler, httpMetrics *metrics.HTTPMetrics, errorRecorder apperrors.Recorder) Option {
	return func(s *Server) {
		s.metricsHandler = handler
		s.httpMetrics = httpMetrics
		s.errorRecorder = errorRecorder
	}
}

func NewServer(cfg *config.Config, catalog catalogProvider, presenter *app.Presenter, preferences *Preferences, websocketHandler http.Handler, healthChecks []HealthCheck, opts ...Option) (*Server, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:             e,
		config:           cfg,
		catalog:          catalog,
		presenter:        presenter,
		preferences:      preferences,
		websocketHandler: websocketHandler,
		templates:        templates,
		static:           web.StaticFiles,
		healthChecks:     healthChecks,
		startTime:        time.Now(),
	}
	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// currentCatalog returns the loaded catalog or nil while loading or after a failure.
func (s *Server) currentCatalog() *domain.Catalog {
	cat, ok := s.catalog.Catalog()
	if !ok {
		return nil
	}
	return cat
}

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(c.Request().Context(), "Template execution failed", "path", c.Request().URL.Path, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(http.StatusOK, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}

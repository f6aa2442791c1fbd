package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/roshda/galaxy-o-meter/internal/adapter/httpserver"
	"github.com/roshda/galaxy-o-meter/internal/adapter/metrics"
	"github.com/roshda/galaxy-o-meter/internal/adapter/websocket"
	"github.com/roshda/galaxy-o-meter/internal/app"
	"github.com/roshda/galaxy-o-meter/internal/catalog"
	"github.com/roshda/galaxy-o-meter/internal/platform/config"
	"github.com/roshda/galaxy-o-meter/internal/platform/logging"
	"github.com/roshda/galaxy-o-meter/internal/platform/version"
	"github.com/roshda/galaxy-o-meter/web"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupLoader(cfg *config.Config, clock clockwork.Clock, loadMetrics *metrics.LoadMetrics) *app.Loader {
	embedded := catalog.FSSource{FS: web.StaticFiles, Path: web.ArtifactPath}
	source := catalog.NewSource(cfg.SentimentSource, &http.Client{}, embedded)
	return app.NewLoader(source, app.LogSink{}, clock, app.WithLoadRecorder(loadMetrics))
}

func runGracefulShutdown(srv *httpserver.Server, wsHandler *websocket.Handler, loader *app.Loader) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		// Live view connections are hijacked, so the HTTP server does not wait for them.
		wsHandler.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		loader.Stop()
		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	info := version.Get()
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", info.Version, "commit", info.Commit)

	reg := metrics.NewRegistry()
	loadMetrics := metrics.NewLoadMetrics(reg)
	wsMetrics := metrics.NewWebSocketMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)
	errorMetrics := metrics.NewErrorMetrics(reg)

	loader := setupLoader(cfg, clock, loadMetrics)
	loader.Start(context.Background())

	presenter := app.NewPresenter(app.PresenterConfig{
		SearchURLBase: cfg.SearchURLBase,
		RepositoryURL: cfg.RepositoryURL,
		AnalyzedAsOf:  cfg.AnalyzedAsOf,
	})
	preferences := httpserver.NewPreferences(cfg)

	wsHandler := websocket.NewHandler(websocket.Config{
		AppURL:         cfg.AppURL,
		IsDevelopment:  cfg.IsDevelopment(),
		EnterRate:      cfg.WSEnterRate,
		EnterBurst:     cfg.WSEnterBurst,
		MaxConnections: cfg.WSMaxConnections,
		MaxPerIP:       cfg.WSMaxPerIP,
	}, loader, presenter, preferences, websocket.WithRecorder(wsMetrics), websocket.WithClock(clock))

	healthChecks := []httpserver.HealthCheck{
		{Name: "catalog", Check: loader.CheckReady},
	}

	srv, err := httpserver.NewServer(cfg, loader, presenter, preferences, wsHandler, healthChecks,
		httpserver.WithMetrics(metrics.Handler(reg), httpMetrics, errorMetrics))
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv, wsHandler, loader)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}

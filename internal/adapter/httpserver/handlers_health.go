package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/roshda/galaxy-o-meter/internal/platform/version"
)

const readinessProbeTimeout = 5 * time.Second

// HealthCheck is one named readiness condition.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type livenessResponse struct {
	Status  string  `json:"status"`
	Uptime  float64 `json:"uptime"`
	Version string  `json:"version"`
}

// readinessResponse reports every check, not just the first failure, together
// with the catalog load state so a stuck or failed load is visible to operators.
type readinessResponse struct {
	Status       string            `json:"status"`
	CatalogState string            `json:"catalog_state"`
	Entities     int               `json:"entities"`
	Checks       map[string]string `json:"checks"`
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
}

func (s *Server) handleLiveness(c echo.Context) error {
	resp := livenessResponse{
		Status:  "ok",
		Uptime:  time.Since(s.startTime).Seconds(),
		Version: version.Version,
	}
	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to write liveness response: %w", err)
	}
	return nil
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessProbeTimeout)
	defer cancel()

	resp := readinessResponse{
		Status:       "ready",
		CatalogState: s.catalog.State().String(),
		Entities:     s.currentCatalog().Len(),
		Checks:       make(map[string]string, len(s.healthChecks)),
	}
	for _, hc := range s.healthChecks {
		if err := hc.Check(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Checks[hc.Name] = err.Error()
			continue
		}
		resp.Checks[hc.Name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	if err := c.JSON(status, resp); err != nil {
		return fmt.Errorf("failed to write readiness response: %w", err)
	}
	return nil
}

func (s *Server) handleVersion(c echo.Context) error {
	if err := c.JSON(http.StatusOK, version.Get()); err != nil {
		return fmt.Errorf("failed to write version response: %w", err)
	}
	return nil
}

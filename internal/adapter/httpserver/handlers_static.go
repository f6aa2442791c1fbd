package httpserver

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
	apperrors "github.com/roshda/galaxy-o-meter/internal/platform/errors"
	"github.com/roshda/galaxy-o-meter/web"
)

// ArtifactRoute is where the bundled sentiment artifact is published.
const ArtifactRoute = "/galaxy-o-meter/averageSentiment.json"

func (s *Server) registerStaticRoutes() {
	s.echo.GET(ArtifactRoute, s.handleArtifact)
}

func (s *Server) handleArtifact(c echo.Context) error {
	data, err := fs.ReadFile(s.static, web.ArtifactPath)
	if err != nil {
		return apperrors.NotFoundError("sentiment artifact not bundled")
	}
	if err := c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}

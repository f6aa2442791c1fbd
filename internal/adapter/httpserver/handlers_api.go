package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/roshda/galaxy-o-meter/internal/domain"
	apperrors "github.com/roshda/galaxy-o-meter/internal/platform/errors"
)

func (s *Server) registerAPIRoutes(rateLimiter echo.MiddlewareFunc) {
	api := s.echo.Group("/api", rateLimiter)
	api.GET("/sentiment", s.handleSentiment)
	api.GET("/tooltip", s.handleTooltip)
}

// neutralVisible resolves the toggle from ?neutral=, falling back to the session cookie.
func (s *Server) neutralVisible(c echo.Context) (bool, error) {
	raw := c.QueryParam("neutral")
	if raw == "" {
		return s.preferences.NeutralVisible(c.Request()), nil
	}
	visible, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.ValidationError("neutral must be a boolean").WithField("neutral", raw)
	}
	return visible, nil
}

func (s *Server) handleSentiment(c echo.Context) error {
	visible, err := s.neutralVisible(c)
	if err != nil {
		return err
	}

	view := s.presenter.Build(s.currentCatalog(), s.catalog.State(), domain.ViewState{NeutralVisible: visible})
	if err := c.JSON(http.StatusOK, view); err != nil {
		return fmt.Errorf("failed to write sentiment response: %w", err)
	}
	return nil
}

type tooltipResponse struct {
	Entity   string          `json:"entity"`
	Category domain.Category `json:"category"`
	Text     string          `json:"text"`
}

func (s *Server) handleTooltip(c echo.Context) error {
	visible, err := s.neutralVisible(c)
	if err != nil {
		return err
	}

	ref := domain.SegmentRef{
		Entity:   c.QueryParam("entity"),
		Category: domain.Category(c.QueryParam("category")),
	}
	if ref.Entity == "" {
		return apperrors.ValidationError("entity is required")
	}

	text, err := s.presenter.TooltipFor(s.currentCatalog(), ref, visible)
	if err != nil {
		return tooltipError(err, ref, s.catalog.State())
	}

	if err := c.JSON(http.StatusOK, tooltipResponse{Entity: ref.Entity, Category: ref.Category, Text: text}); err != nil {
		return fmt.Errorf("failed to write tooltip response: %w", err)
	}
	return nil
}

// tooltipError maps presenter errors to HTTP errors. A catalog that failed to load
// is reported as a source failure rather than as still loading.
func tooltipError(err error, ref domain.SegmentRef, state domain.LoadState) error {
	switch {
	case errors.Is(err, domain.ErrCatalogNotLoaded) && state == domain.LoadFailed:
		return apperrors.ExternalError("sentiment source failed", err)
	case errors.Is(err, domain.ErrCatalogNotLoaded):
		return apperrors.UnavailableError("sentiment data is not loaded", err)
	case errors.Is(err, domain.ErrUnknownEntity):
		return apperrors.NotFoundError("entity not found").WithField("entity", ref.Entity)
	case errors.Is(err, domain.ErrUnknownCategory):
		return apperrors.ValidationError("unknown category").WithField("category", string(ref.Category))
	case errors.Is(err, domain.ErrSegmentHidden):
		return apperrors.ValidationError("segment is hidden").WithField("category", string(ref.Category))
	default:
		return apperrors.InternalError("failed to build tooltip", err)
	}
}

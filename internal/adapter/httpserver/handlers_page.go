package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/roshda/galaxy-o-meter/internal/app"
	"github.com/roshda/galaxy-o-meter/internal/domain"
)

type indexPage struct {
	View      app.PageView
	CSRFToken string
}

func (s *Server) handleIndex(c echo.Context) error {
	state := domain.ViewState{NeutralVisible: s.preferences.NeutralVisible(c.Request())}
	view := s.presenter.Build(s.currentCatalog(), s.catalog.State(), state)

	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return s.renderTemplate(c, "index.html", indexPage{View: view, CSRFToken: token})
}

// handleToggle flips the neutral toggle for this browser. Script clients asking
// for JSON get the new value, plain form posts are redirected back to the page.
func (s *Server) handleToggle(c echo.Context) error {
	visible := !s.preferences.NeutralVisible(c.Request())
	if err := s.preferences.SetNeutralVisible(c.Response(), c.Request(), visible); err != nil {
		return fmt.Errorf("failed to store toggle: %w", err)
	}

	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		if err := c.JSON(http.StatusOK, map[string]bool{"neutralVisible": visible}); err != nil {
			return fmt.Errorf("failed to write toggle response: %w", err)
		}
		return nil
	}

	if err := c.Redirect(http.StatusSeeOther, "/"); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}

package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/roshda/galaxy-o-meter/internal/platform/config"
)

const (
	sessionName           = "galaxyometer-session"
	sessionKeyHideNeutral = "hide_neutral"
)

// Preferences stores the viewer's neutral toggle in a signed session cookie.
// Nothing is persisted server-side.
type Preferences struct {
	store sessions.Store
}

func NewPreferences(cfg *config.Config) *Preferences {
	return &Preferences{store: setupSessionStore(cfg)}
}

// NeutralVisible reads the toggle from the request's session cookie. A missing
// or unreadable cookie yields the default, neutral shown.
func (p *Preferences) NeutralVisible(r *http.Request) bool {
	session, err := p.store.Get(r, sessionName)
	if err != nil {
		return true
	}
	hide, _ := session.Values[sessionKeyHideNeutral].(bool)
	return !hide
}

// SetNeutralVisible writes the toggle to the response's session cookie.
func (p *Preferences) SetNeutralVisible(w http.ResponseWriter, r *http.Request, visible bool) error {
	// An invalid cookie still returns a fresh session, which replaces it.
	session, _ := p.store.Get(r, sessionName)
	session.Values[sessionKeyHideNeutral] = !visible
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func setupSessionStore(cfg *config.Config) *sessions.CookieStore {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	}
	return sessionStore
}

package websocket

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// NewCheckOrigin builds the upgrader's origin policy. Requests without an Origin
// header (curl, the TUI, tests) pass, as does the page's own origin taken from
// appURL. Loopback pages on any port also pass in development.
func NewCheckOrigin(appURL string, isDevelopment bool) func(r *http.Request) bool {
	own, ownOK := originOf(appURL)

	return func(r *http.Request) bool {
		raw := r.Header.Get("Origin")
		if raw == "" {
			return true
		}

		origin, ok := originOf(raw)
		switch {
		case !ok:
		case ownOK && origin == own:
			return true
		case isDevelopment && loopback(origin.host):
			return true
		}

		slog.WarnContext(r.Context(), "Live view origin rejected", "origin", raw, "remote_addr", r.RemoteAddr)
		return false
	}
}

type origin struct {
	scheme string
	host   string
	port   string
}

// originOf parses scheme, host and port case-insensitively. A missing port is
// filled in from the scheme so https://a and https://a:443 compare equal.
func originOf(raw string) (origin, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return origin{}, false
	}
	o := origin{
		scheme: strings.ToLower(u.Scheme),
		host:   strings.ToLower(u.Hostname()),
		port:   u.Port(),
	}
	if o.port == "" {
		switch o.scheme {
		case "https":
			o.port = "443"
		case "http":
			o.port = "80"
		}
	}
	return o, true
}

func loopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

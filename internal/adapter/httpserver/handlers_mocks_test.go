package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/roshda/galaxy-o-meter/internal/app"
	"github.com/roshda/galaxy-o-meter/internal/catalog"
	"github.com/roshda/galaxy-o-meter/internal/domain"
	"github.com/roshda/galaxy-o-meter/internal/platform/config"
	"github.com/stretchr/testify/require"
)

const testArtifact = `{
  "The Acolyte": {"AverageNegative": 0.1, "AverageNeutral": 0.3, "AveragePositive": 0.6,
                  "CountNeutral": 30, "CountPositive": 60, "CountNegative": 10},
  "Andor": {"AverageNegative": 0, "AverageNeutral": 0, "AveragePositive": 0,
            "CountNeutral": 0, "CountPositive": 0, "CountNegative": 0},
  "Obi-Wan Kenobi": {"AverageNegative": 0.25, "AverageNeutral": 0.25, "AveragePositive": 0.5,
                     "CountNeutral": 5, "CountPositive": 10, "CountNegative": 5}
}`

// --- Mock implementations ---

type mockCatalog struct {
	catalog *domain.Catalog
	state   domain.LoadState
}

func (m *mockCatalog) Catalog() (*domain.Catalog, bool) {
	return m.catalog, m.catalog != nil
}

func (m *mockCatalog) State() domain.LoadState {
	return m.state
}

func loadedCatalog(t *testing.T) *mockCatalog {
	t.Helper()
	cat, err := catalog.Decode([]byte(testArtifact))
	require.NoError(t, err)
	return &mockCatalog{catalog: cat, state: domain.LoadLoaded}
}

func loadingCatalog() *mockCatalog {
	return &mockCatalog{state: domain.LoadLoading}
}

// --- Test helpers ---

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:        "test",
		Port:          "0",
		SessionSecret: "test-secret-key-32-bytes-long!!!",
		SessionMaxAge: time.Hour,
		AnalyzedAsOf:  "07/10/2024",
	}
}

func newTestServer(t *testing.T, provider catalogProvider, opts ...Option) *Server {
	t.Helper()

	cfg := testConfig()
	presenter := app.NewPresenter(app.PresenterConfig{AnalyzedAsOf: cfg.AnalyzedAsOf})

	srv, err := NewServer(cfg, provider, presenter, NewPreferences(cfg), nil, nil, opts...)
	require.NoError(t, err)
	return srv
}

func withHealthChecks(checks ...HealthCheck) Option {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func withWebsocketHandler(h http.Handler) Option {
	return func(s *Server) {
		s.websocketHandler = h
	}
}

// serve runs req through the full middleware stack.
func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func parseHTML(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

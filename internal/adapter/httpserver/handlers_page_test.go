package httpserver

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/roshda/galaxy-o-meter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csrfTokenCookieName = "csrf_token"

func TestHandleIndex_Loading(t *testing.T) {
	srv := newTestServer(t, loadingCatalog())

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)
	assert.Equal(t, "Loading sentiment data...", strings.TrimSpace(doc.Find("#entities .loading").Text()))
	assert.Equal(t, 0, doc.Find(".entity").Length())
	assert.Equal(t, "loading", doc.Find("#entities").AttrOr("data-state", ""))
	assert.Equal(t, "Galaxy-O-Meter: How do the Fans Feel?", doc.Find("h1").Text())
}

func TestHandleIndex_FailedLooksLikeLoading(t *testing.T) {
	srv := newTestServer(t, &mockCatalog{state: domain.LoadFailed})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)
	assert.Equal(t, 1, doc.Find("#entities .loading").Length())
	assert.Equal(t, "failed", doc.Find("#entities").AttrOr("data-state", ""))
}

func TestHandleIndex_Loaded(t *testing.T) {
	srv := newTestServer(t, loadedCatalog(t))

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)

	entities := doc.Find(".entity")
	require.Equal(t, 3, entities.Length())

	var names []string
	entities.Each(func(_ int, s *goquery.Selection) {
		names = append(names, s.Find("h2 a").Text())
	})
	assert.Equal(t, []string{"The Acolyte", "Andor", "Obi-Wan Kenobi"}, names)

	acolyte := entities.Eq(0)
	link := acolyte.Find("h2 a")
	assert.Equal(t, "https://twitter.com/search?q=The%20Acolyte&src=typed_query", link.AttrOr("href", ""))
	assert.Equal(t, "_blank", link.AttrOr("target", ""))
	assert.Equal(t, "noopener noreferrer", link.AttrOr("rel", ""))
	assert.Equal(t, "2024 • A mystery-thriller series set in the final days of the High Republic era.", acolyte.Find(".subtitle").Text())
	assert.Equal(t, "100 tweets analyzed as of 07/10/2024", acolyte.Find(".caption").Text())

	segments := acolyte.Find(".segment")
	require.Equal(t, 3, segments.Length())
	assert.True(t, segments.Eq(0).HasClass("positive"))
	assert.True(t, segments.Eq(0).HasClass("rounded-left"))
	assert.Contains(t, segments.Eq(0).AttrOr("style", ""), "width: 60.0000%")
	assert.True(t, segments.Eq(1).HasClass("neutral"))
	assert.Contains(t, segments.Eq(1).AttrOr("style", ""), "left: 60.0000%")
	assert.True(t, segments.Eq(2).HasClass("negative"))
	assert.False(t, segments.Eq(2).HasClass("rounded-right"))
	assert.Contains(t, segments.Eq(2).AttrOr("style", ""), "left: 90.0000%")
	assert.Equal(t, "Positive count: 60", segments.Eq(0).AttrOr("data-tooltip", ""))

	assert.Equal(t, "0 tweets analyzed as of 07/10/2024", entities.Eq(1).Find(".caption").Text())
	assert.Equal(t, "Details unavailable", entities.Eq(2).Find(".subtitle").Text())

	assert.Equal(t, "true", doc.Find("#toggle button").AttrOr("aria-pressed", ""))
	assert.NotEmpty(t, doc.Find(`#toggle input[name="csrf_token"]`).AttrOr("value", ""))
	assert.Equal(t, "https://github.com/roshda/galaxy-o-meter", doc.Find(".repo a").AttrOr("href", ""))
}

func TestHandleIndex_SecurityHeaders(t *testing.T) {
	srv := newTestServer(t, loadingCatalog())

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "connect-src 'self'")
}

func getPageWithCSRF(t *testing.T, srv *Server) *http.Cookie {
	t.Helper()
	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := findCookie(rec, csrfTokenCookieName)
	require.NotNil(t, cookie, "CSRF cookie should be set")
	return cookie
}

func toggleRequest(csrfCookie *http.Cookie, extra ...*http.Cookie) *http.Request {
	form := url.Values{}
	form.Set(csrfTokenCookieName, csrfCookie.Value)
	req := httptest.NewRequest(http.MethodPost, "/toggle", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(csrfCookie)
	for _, c := range extra {
		req.AddCookie(c)
	}
	return req
}

func TestToggle_RejectsMissingCSRF(t *testing.T) {
	srv := newTestServer(t, loadedCatalog(t))

	req := httptest.NewRequest(http.MethodPost, "/toggle", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(srv, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, findCookie(rec, sessionName))
}

func TestToggle_FormFlowHidesNeutral(t *testing.T) {
	srv := newTestServer(t, loadedCatalog(t))
	csrfCookie := getPageWithCSRF(t, srv)

	rec := serve(srv, toggleRequest(csrfCookie))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	session := findCookie(rec, sessionName)
	require.NotNil(t, session, "toggle should be stored in the session cookie")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(session)
	page := serve(srv, req)
	require.Equal(t, http.StatusOK, page.Code)

	doc := parseHTML(t, page)
	assert.Equal(t, "false", doc.Find("#toggle button").AttrOr("aria-pressed", ""))
	assert.Equal(t, 0, doc.Find(".segment.neutral").Length())

	segments := doc.Find(".entity").Eq(0).Find(".segment")
	require.Equal(t, 2, segments.Length())
	assert.Contains(t, segments.Eq(0).AttrOr("style", ""), "width: 85.7143%")
	assert.Contains(t, segments.Eq(1).AttrOr("style", ""), "left: 85.7143%")
	assert.Contains(t, segments.Eq(1).AttrOr("style", ""), "width: 14.2857%")
	assert.True(t, segments.Eq(1).HasClass("rounded-right"))
}

func TestToggle_TwiceRestoresNeutral(t *testing.T) {
	srv := newTestServer(t, loadedCatalog(t))
	csrfCookie := getPageWithCSRF(t, srv)

	first := serve(srv, toggleRequest(csrfCookie))
	require.Equal(t, http.StatusSeeOther, first.Code)
	session := findCookie(first, sessionName)
	require.NotNil(t, session)

	second := serve(srv, toggleRequest(csrfCookie, session))
	require.Equal(t, http.StatusSeeOther, second.Code)
	session = findCookie(second, sessionName)
	require.NotNil(t, session)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(session)
	doc := parseHTML(t, serve(srv, req))
	assert.Equal(t, 3, doc.Find(".segment.neutral").Length())
}

func TestToggle_JSONResponse(t *testing.T) {
	srv := newTestServer(t, loadedCatalog(t))
	csrfCookie := getPageWithCSRF(t, srv)

	req := toggleRequest(csrfCookie)
	req.Header.Set("Accept", "application/json")
	rec := serve(srv, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"neutralVisible":false}`, rec.Body.String())
}

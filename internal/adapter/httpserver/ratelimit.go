package httpserver

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const rateLimiterExpiry = 5 * time.Minute

// rateLimit is a per client IP token bucket.
type rateLimit struct {
	perSecond float64
	burst     int
}

var (
	// apiLimit covers the JSON endpoints, which a page script may poll.
	apiLimit = rateLimit{perSecond: 10, burst: 20}
	// toggleLimit covers the form post; a person clicks, a script does not.
	toggleLimit = rateLimit{perSecond: 2, burst: 5}
)

// retryAfter is the whole number of seconds until one token is available again.
func (l rateLimit) retryAfter() string {
	if l.perSecond <= 0 {
		return "60"
	}
	return strconv.Itoa(int(math.Ceil(1 / l.perSecond)))
}

func newRateLimiter(limit rateLimit) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(limit.perSecond),
		Burst:     limit.burst,
		ExpiresIn: rateLimiterExpiry,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, _ error) error {
			slog.WarnContext(c.Request().Context(), "Rate limit exceeded", "remote_ip", identifier, "path", c.Path())
			c.Response().Header().Set("Retry-After", limit.retryAfter())
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "rate limit exceeded",
				"type":  "validation",
			})
		},
	})
}

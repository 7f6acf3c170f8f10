// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"codeberg.org/oliverandrich/storefront/internal/appcontext"
	"codeberg.org/oliverandrich/storefront/internal/config"
	"codeberg.org/oliverandrich/storefront/internal/cookies"
	"codeberg.org/oliverandrich/storefront/internal/metrics"
	"codeberg.org/oliverandrich/storefront/internal/middleware"
	"codeberg.org/oliverandrich/storefront/internal/services/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// MsgTooManyRequests is returned when a client exceeds a rate limit.
const MsgTooManyRequests = "Too many requests. Please try again later."

func setupMiddleware(e *echo.Echo, cfg *config.Config, sessions *session.Manager, jar cookies.Jar) {
	e.Pre(middleware.StripTrailingSlash())

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomw.Secure())
	e.Use(echomw.Gzip())
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dM", max(cfg.Server.MaxBodySize, 1))))
	e.Use(staticCacheHeaders())
	e.Use(csrfMiddleware(cfg))
	e.Use(csrfToContext())
	e.Use(middleware.Locale())
	e.Use(metrics.Middleware())
	e.Use(middleware.LoadSession(sessions))
	e.Use(middleware.ConsentGate(jar))
	e.Use(middleware.ProtectPaths(middleware.ProtectedPaths))
}

// csrfMiddleware configures CSRF protection.
func csrfMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	return echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "form:csrf_token,header:X-CSRF-Token",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSecure:   cfg.SecureCookies(),
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	})
}

// csrfToContext copies the CSRF token to the request context.
func csrfToContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := c.Get(echomw.DefaultCSRFConfig.ContextKey).(string); ok {
				c.SetRequest(c.Request().WithContext(appcontext.WithCSRFToken(c.Request().Context(), token)))
			}
			return next(c)
		}
	}
}

// staticCacheHeaders adds cache headers for static assets. Versioned URLs
// change with the content and may be cached forever.
func staticCacheHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if strings.HasPrefix(req.URL.Path, "/static/") {
				if isVersioned(req.URL.Query().Get("v")) {
					c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
				} else {
					c.Response().Header().Set("Cache-Control", "no-cache")
				}
			}
			return next(c)
		}
	}
}

// isVersioned checks for the 8 hex character content hash of asset URLs.
func isVersioned(v string) bool {
	if len(v) != 8 {
		return false
	}
	for _, c := range v {
		isDigit := c >= '0' && c <= '9'
		isHexLetter := c >= 'a' && c <= 'f'
		if !isDigit && !isHexLetter {
			return false
		}
	}
	return true
}

// verifyRateLimiter limits verification emails per client IP.
func verifyRateLimiter(perMinute int) echo.MiddlewareFunc {
	if perMinute <= 0 {
		perMinute = 5
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(_ echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, MsgTooManyRequests).SetInternal(err)
		},
		DenyHandler: func(_ echo.Context, _ string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, MsgTooManyRequests).SetInternal(err)
		},
	})
}

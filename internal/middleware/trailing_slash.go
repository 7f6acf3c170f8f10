// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// StripTrailingSlash redirects requests with trailing slashes to the canonical URL without.
func StripTrailingSlash() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			if path != "/" && strings.HasSuffix(path, "/") {
				// Collapse leading slashes so the target stays on this host.
				newURL := "/" + strings.Trim(path, "/")
				if req.URL.RawQuery != "" {
					newURL += "?" + req.URL.RawQuery
				}
				return c.Redirect(http.StatusMovedPermanently, newURL)
			}
			return next(c)
		}
	}
}

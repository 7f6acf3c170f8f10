// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"codeberg.org/oliverandrich/storefront/internal/appcontext"
	"codeberg.org/oliverandrich/storefront/internal/services/session"
	"github.com/labstack/echo/v4"
)

// LoadSession puts the claims of a valid session cookie into the request
// context. Missing, tampered and expired cookies leave the request anonymous.
func LoadSession(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims := sessions.Parse(c.Request()); claims != nil {
				req := c.Request()
				c.SetRequest(req.WithContext(appcontext.WithClaims(req.Context(), claims)))
			}
			return next(c)
		}
	}
}

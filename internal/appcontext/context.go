// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package appcontext carries request-scoped values between middleware,
// handlers and templates.
package appcontext

import (
	"context"

	"codeberg.org/oliverandrich/storefront/internal/services/session"
	"github.com/labstack/echo/v4"
)

type (
	csrfKey   struct{}
	claimsKey struct{}
)

// WithCSRFToken stores the CSRF token for templates.
func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfKey{}, token)
}

// CSRFToken returns the CSRF token, or "" outside a protected request.
func CSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(csrfKey{}).(string); ok {
		return token
	}
	return ""
}

// WithClaims stores the session claims of the signed-in user.
func WithClaims(ctx context.Context, claims *session.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFrom returns the session claims, or nil when not signed in.
func ClaimsFrom(ctx context.Context) *session.Claims {
	if claims, ok := ctx.Value(claimsKey{}).(*session.Claims); ok {
		return claims
	}
	return nil
}

// Context is an Echo context with the session claims resolved.
type Context struct {
	echo.Context
	Claims *session.Claims // nil if not authenticated
}

// Wrap builds a Context from the request of c.
func Wrap(c echo.Context) *Context {
	if cc, ok := c.(*Context); ok {
		return cc
	}
	return &Context{
		Context: c,
		Claims:  ClaimsFrom(c.Request().Context()),
	}
}

// IsAuthenticated returns true if the request carries a valid session.
func (c *Context) IsAuthenticated() bool {
	return c.Claims != nil
}

// IsAdmin returns true for signed-in administrators.
func (c *Context) IsAdmin() bool {
	return c.Claims != nil && c.Claims.IsAdmin()
}

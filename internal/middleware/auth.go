// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"net/http"
	"net/url"
	"regexp"

	"codeberg.org/oliverandrich/storefront/internal/appcontext"
	"codeberg.org/oliverandrich/storefront/internal/htmx"
	"github.com/labstack/echo/v4"
)

// SignInPath is where anonymous visitors of protected pages are sent.
const SignInPath = "/sign-in"

// ProtectedPaths require a signed-in user.
var ProtectedPaths = []*regexp.Regexp{
	regexp.MustCompile(`^/shipping-address`),
	regexp.MustCompile(`^/payment-method`),
	regexp.MustCompile(`^/place-order`),
	regexp.MustCompile(`^/profile`),
	regexp.MustCompile(`^/user/`),
	regexp.MustCompile(`^/order/`),
	regexp.MustCompile(`^/admin`),
}

// RequireAuth redirects anonymous requests to the sign-in page.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !appcontext.Wrap(c).IsAuthenticated() {
				return redirectToSignIn(c)
			}
			return next(c)
		}
	}
}

// ProtectPaths applies RequireAuth to requests whose path matches one of
// paths, whether or not a route exists for it.
func ProtectPaths(paths []*regexp.Regexp) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, re := range paths {
				if re.MatchString(path) && appcontext.ClaimsFrom(c.Request().Context()) == nil {
					return redirectToSignIn(c)
				}
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects signed-in users without the admin role.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := appcontext.Wrap(c)
			if !cc.IsAuthenticated() {
				return redirectToSignIn(c)
			}
			if !cc.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "User is not authorized")
			}
			return next(c)
		}
	}
}

func redirectToSignIn(c echo.Context) error {
	target := SignInPath + "?callbackUrl=" + url.QueryEscape(c.Request().URL.RequestURI())
	htmx.Redirect(c.Response(), c.Request(), target)
	return nil
}

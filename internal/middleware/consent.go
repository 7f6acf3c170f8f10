// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"net/url"
	"regexp"
	"strings"

	"codeberg.org/oliverandrich/storefront/internal/appcontext"
	"codeberg.org/oliverandrich/storefront/internal/cookies"
	"codeberg.org/oliverandrich/storefront/internal/htmx"
	"codeberg.org/oliverandrich/storefront/internal/metrics"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ConsentPath is the page where signed-in users accept the terms.
const ConsentPath = "/consent"

var staticPrefixes = []string{"/static/", "/favicon", "/images", "/assets"}

// consentBypass lists paths that stay reachable without consent. Patterns
// match anywhere in the path.
var consentBypass = []*regexp.Regexp{
	regexp.MustCompile(`/consent`),
	regexp.MustCompile(`/api/auth/`),
	regexp.MustCompile(`/auth/`),
	regexp.MustCompile(`/sign-out`),
	regexp.MustCompile(`/sign-in`),
	regexp.MustCompile(`/sign-up`),
	regexp.MustCompile(`/verify-email`),
	regexp.MustCompile(`/api/verify-email`),
	regexp.MustCompile(`/terms`),
	regexp.MustCompile(`/privacy`),
	regexp.MustCompile(`/health`),
	regexp.MustCompile(`/metrics`),
}

// ConsentGate assigns a cart cookie to every visitor and sends signed-in
// users without a "true" terms cookie to the consent page. It must run
// after LoadSession.
func ConsentGate(jar cookies.Jar) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !cookies.HasCart(req) {
				c.SetCookie(jar.Cart(uuid.NewString()))
			}

			path := req.URL.Path
			if isStatic(path) || bypassesConsent(path) {
				return next(c)
			}

			if appcontext.ClaimsFrom(req.Context()) == nil || cookies.TermsAgreed(req) {
				return next(c)
			}

			metrics.ConsentRedirects.Inc()
			target := ConsentPath + "?callbackUrl=" + url.QueryEscape(req.URL.RequestURI())
			htmx.Redirect(c.Response(), req, target)
			return nil
		}
	}
}

func isStatic(path string) bool {
	for _, prefix := range staticPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func bypassesConsent(path string) bool {
	for _, re := range consentBypass {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

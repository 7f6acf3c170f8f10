// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"codeberg.org/oliverandrich/storefront/internal/apperr"
	"codeberg.org/oliverandrich/storefront/internal/htmx"
	"codeberg.org/oliverandrich/storefront/internal/services/session"
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render renders a templ component with the given status code.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := component.Render(c.Request().Context(), buf); err != nil {
		return err
	}

	return c.HTML(statusCode, buf.String())
}

// SafeCallback returns raw if it is a path on this site and "/" otherwise.
func SafeCallback(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return raw
}

// redirect sends a 303, or an HX-Redirect header to htmx requests.
func redirect(c echo.Context, target string) error {
	htmx.Redirect(c.Response(), c.Request(), target)
	return nil
}

// statusFor picks the response code for a re-rendered form.
func statusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch apperr.KindOf(err) {
	case apperr.KindInternal:
		return http.StatusInternalServerError
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

func result(err error, successMessage string) *apperr.Result {
	r := apperr.ToResult(err, successMessage)
	return &r
}

func startSession(c echo.Context, sessions *session.Manager, claims session.Claims) error {
	cookie, err := sessions.Create(claims)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	return nil
}

func formBool(c echo.Context, name string) bool {
	switch c.FormValue(name) {
	case "true", "on", "1":
		return true
	}
	return false
}

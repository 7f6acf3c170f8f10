// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"codeberg.org/oliverandrich/storefront/internal/apperr"
	"codeberg.org/oliverandrich/storefront/internal/i18n"
	"codeberg.org/oliverandrich/storefront/internal/templates"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escaped a handler. API paths get JSON,
// everything else the error page.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, message := describeError(c, err)
	if code >= http.StatusInternalServerError {
		slog.Error("request_failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
	}

	var renderErr error
	switch {
	case c.Request().Method == http.MethodHead:
		renderErr = c.NoContent(code)
	case strings.HasPrefix(c.Request().URL.Path, "/api/"):
		renderErr = c.JSON(code, map[string]string{"error": message})
	default:
		renderErr = Render(c, code, templates.Error(code, message))
	}
	if renderErr != nil {
		slog.Error("failed to render error page", "error", renderErr)
	}
}

func describeError(c echo.Context, err error) (int, string) {
	ctx := c.Request().Context()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound:
			return he.Code, i18n.T(ctx, "error_not_found")
		case http.StatusForbidden:
			return he.Code, i18n.T(ctx, "error_forbidden")
		}
		if he.Code < http.StatusInternalServerError {
			return he.Code, fmt.Sprint(he.Message)
		}
		return he.Code, i18n.T(ctx, "error_generic")
	}

	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound, i18n.T(ctx, "error_not_found")
	case apperr.KindInternal:
		return http.StatusInternalServerError, i18n.T(ctx, "error_generic")
	default:
		return statusFor(err), apperr.Message(err)
	}
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"codeberg.org/oliverandrich/storefront/internal/appcontext"
	"codeberg.org/oliverandrich/storefront/internal/config"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsVersioned(t *testing.T) {
	tests := []struct {
		v        string
		expected bool
	}{
		{"abc12345", true},
		{"d073ff63", true},
		{"", false},
		{"ABCDEFGH", false}, // uppercase not allowed
		{"abcd123", false},  // wrong length
		{"abcd12345", false},
		{"ghijklmn", false},
	}

	for _, tt := range tests {
		t.Run(tt.v, func(t *testing.T) {
			assert.Equal(t, tt.expected, isVersioned(tt.v))
		})
	}
}

func TestStaticCacheHeaders(t *testing.T) {
	e := echo.New()
	e.Use(staticCacheHeaders())
	e.GET("/static/*", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	tests := []struct {
		path     string
		expected string
	}{
		{"/static/css/styles.css?v=abc12345", "public, max-age=31536000, immutable"},
		{"/static/css/styles.css", "no-cache"},
		{"/static/css/styles.css?v=latest", "no-cache"},
		{"/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expected, rec.Header().Get("Cache-Control"))
		})
	}
}

func TestCsrfToContext(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{BaseURL: "http://localhost:8080"}}
	e := echo.New()
	e.Use(csrfMiddleware(cfg))
	e.Use(csrfToContext())

	var token string
	e.GET("/", func(c echo.Context) error {
		token = appcontext.CSRFToken(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, token)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "_csrf" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
}

func TestCsrfMiddleware_RejectsMissingToken(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{BaseURL: "https://shop.example.com"}}
	e := echo.New()
	e.Use(csrfMiddleware(cfg))
	e.POST("/sign-in", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/sign-in", strings.NewReader(url.Values{"email": {"x"}}.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.GreaterOrEqual(t, rec.Code, http.StatusBadRequest)
}

func TestVerifyRateLimiter(t *testing.T) {
	e := echo.New()
	e.POST("/sign-up/verify", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, verifyRateLimiter(2))

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/sign-up/verify", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1:1234"))
	assert.Equal(t, http.StatusOK, send("192.0.2.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, send("192.0.2.1:1234"))

	// Other clients have their own budget.
	assert.Equal(t, http.StatusOK, send("192.0.2.2:1234"))
}

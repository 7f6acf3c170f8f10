// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/oliverandrich/storefront/internal/appcontext"
	"codeberg.org/oliverandrich/storefront/internal/apperr"
	"codeberg.org/oliverandrich/storefront/internal/handlers"
	"codeberg.org/oliverandrich/storefront/internal/i18n"
	"codeberg.org/oliverandrich/storefront/internal/services/session"
	"codeberg.org/oliverandrich/storefront/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize i18n for template rendering
	_ = i18n.Init()
}

// withClaims signs the request in as the given user.
func withClaims(c echo.Context, claims *session.Claims) {
	req := c.Request()
	c.SetRequest(req.WithContext(appcontext.WithClaims(req.Context(), claims)))
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealth(t *testing.T) {
	h := handlers.New(nil)
	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/health", nil)

	require.NoError(t, h.Health(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealth_DatabaseDown(t *testing.T) {
	db, repo := testutil.NewTestDB(t)
	require.NoError(t, db.Close())
	h := handlers.New(repo)
	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/health", nil)

	require.NoError(t, h.Health(c))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestHome(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	testutil.NewTestProduct(t, repo, "polo-shirt")
	h := handlers.New(repo)
	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/", nil)

	require.NoError(t, h.Home(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Product polo-shirt")
	assert.Contains(t, rec.Body.String(), `href="/product/polo-shirt"`)
}

func TestHome_ShowsLatestFour(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	for _, slug := range []string{"one", "two", "three", "four", "five"} {
		testutil.NewTestProduct(t, repo, slug)
	}
	h := handlers.New(repo)
	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/", nil)

	require.NoError(t, h.Home(c))

	assert.Contains(t, rec.Body.String(), "Product five")
	assert.NotContains(t, rec.Body.String(), `href="/product/one"`)
}

func TestProduct(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	testutil.NewTestProduct(t, repo, "polo-shirt")
	h := handlers.New(repo)
	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/product/polo-shirt", nil)
	c.SetParamNames("slug")
	c.SetParamValues("polo-shirt")

	require.NoError(t, h.Product(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product polo-shirt")
	assert.Contains(t, rec.Body.String(), "29.99")
}

func TestProduct_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	h := handlers.New(repo)
	c, _ := testutil.NewEchoContext(echo.New(), http.MethodGet, "/product/nope", nil)
	c.SetParamNames("slug")
	c.SetParamValues("nope")

	err := h.Product(c)

	assert.Equal(t, echo.ErrNotFound, err)
}

func TestStaticPages(t *testing.T) {
	h := handlers.New(nil)

	for name, handler := range map[string]echo.HandlerFunc{
		"/terms":   h.Terms,
		"/privacy": h.Privacy,
	} {
		t.Run(name, func(t *testing.T) {
			c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, name, nil)

			require.NoError(t, handler(c))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "<html")
		})
	}
}

func TestSafeCallback(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"", "/"},
		{"/", "/"},
		{"/profile", "/profile"},
		{"/product/polo?color=red", "/product/polo?color=red"},
		{"https://evil.example.com", "/"},
		{"//evil.example.com", "/"},
		{"/\\evil.example.com", "/"},
		{"profile", "/"},
		{"javascript:alert(1)", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, handlers.SafeCallback(tt.raw))
		})
	}
}

func TestErrorHandler_NotFoundPage(t *testing.T) {
	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/missing", nil)

	handlers.ErrorHandler(echo.ErrNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "404")
}

func TestErrorHandler_API(t *testing.T) {
	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/api/verify-email", nil)

	handlers.ErrorHandler(apperr.Validation("Bad input"), c)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"Bad input"}`, rec.Body.String())
}

func TestErrorHandler_InternalHidesDetails(t *testing.T) {
	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/api/anything", nil)

	handlers.ErrorHandler(errors.New("database exploded"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "exploded")
}

func TestErrorHandler_Head(t *testing.T) {
	c, rec := testutil.NewEchoContext(echo.New(), http.MethodHead, "/missing", nil)

	handlers.ErrorHandler(echo.ErrNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestErrorHandler_Forbidden(t *testing.T) {
	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/admin/users", nil)

	handlers.ErrorHandler(echo.NewHTTPError(http.StatusForbidden, "User is not authorized"), c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

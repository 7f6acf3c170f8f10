// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"codeberg.org/oliverandrich/storefront/internal/database"
	"codeberg.org/oliverandrich/storefront/internal/models"
	"codeberg.org/oliverandrich/storefront/internal/repository"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plain password of users created by NewTestUser.
const TestPassword = "secret123"

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestUser creates a user with TestPassword in the database.
func NewTestUser(t *testing.T, repo *repository.Repository, name, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)
	passwordHash := string(hash)

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: &passwordHash,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// NewTestProduct creates a product with the given slug.
func NewTestProduct(t *testing.T, repo *repository.Repository, slug string) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        "Product " + slug,
		Slug:        slug,
		Category:    "Shirts",
		Brand:       "Acme",
		Description: "A fine product",
		Stock:       5,
		Images:      models.StringList{"/images/" + slug + ".jpg"},
		Price:       2999,
		Rating:      4.5,
		NumReviews:  10,
	}
	require.NoError(t, repo.CreateProduct(context.Background(), p))
	return p
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// NewFormContext creates an Echo context carrying a url-encoded form.
func NewFormContext(e *echo.Echo, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

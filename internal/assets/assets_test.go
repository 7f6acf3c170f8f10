// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

//go:build !dev

package assets_test

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"codeberg.org/oliverandrich/storefront/internal/assets"
	"github.com/stretchr/testify/assert"
)

func TestCSSPath_Versioned(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^/static/css/styles\.css\?v=[0-9a-f]{8}$`), assets.CSSPath())
}

func TestFileServer(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/static/css/styles.css", nil)

	assets.FileServer().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".product-grid")
}

func TestFileServer_Missing(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/static/css/missing.css", nil)

	assets.FileServer().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

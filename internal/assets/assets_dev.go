// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

//go:build dev

// Package assets serves static files straight from the filesystem in
// development, so stylesheet edits show up without a rebuild.
package assets

import (
	"net/http"
)

// CSSPath returns the path to the main CSS file (unversioned in dev mode).
func CSSPath() string {
	return "/static/css/styles.css"
}

// FileServer returns an http.Handler that serves static files from the filesystem.
func FileServer() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.Dir("internal/assets/static")))
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

//go:build !dev

// Package assets provides the embedded static files.
package assets

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"io/fs"
	"log/slog"
	"net/http"
)

//go:embed static
var staticFS embed.FS

const styles = "static/css/styles.css"

var cssPath = versioned(styles)

// versioned appends a content hash so the file can be cached forever.
func versioned(name string) string {
	data, err := staticFS.ReadFile(name)
	if err != nil {
		slog.Error("failed to read asset", "name", name, "error", err)
		return "/" + name
	}
	sum := sha256.Sum256(data)
	return "/" + name + "?v=" + hex.EncodeToString(sum[:4])
}

// CSSPath returns the path to the main CSS file.
func CSSPath() string {
	return cssPath
}

// FileServer returns an http.Handler that serves embedded static files
// below /static/.
func FileServer() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("failed to create sub filesystem: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

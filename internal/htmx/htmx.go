// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package htmx answers redirects in a way htmx requests can follow.
package htmx

import (
	"net/http"
)

const (
	// HeaderRequest is sent as "true" by htmx on every request it issues.
	HeaderRequest = "HX-Request"
	// HeaderRedirect tells htmx to perform a full client-side navigation.
	HeaderRedirect = "HX-Redirect"
)

// IsRequest reports whether r was issued by htmx.
func IsRequest(r *http.Request) bool {
	return r.Header.Get(HeaderRequest) == "true"
}

// Redirect sends htmx requests an HX-Redirect header so the browser
// performs a full navigation. Other requests get a 303.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsRequest(r) {
		w.Header().Set(HeaderRedirect, url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

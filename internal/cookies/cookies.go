// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package cookies builds the client-side cookies shared by middleware and
// handlers.
package cookies

import (
	"net/http"
	"strings"
	"time"
)

const (
	// CartName holds a random per-browser cart identifier.
	CartName = "sessionCartId"
	// TermsName is "true" when the signed-in user agreed to the terms.
	TermsName = "termsAgreed"
	// VerifiedEmailName locks sign-up to a freshly verified address.
	VerifiedEmailName = "verifiedEmail"
	// OAuthStateName binds a provider sign-in to the browser that started it.
	OAuthStateName = "oauthState"
)

const (
	CartMaxAge          = 365 * 24 * time.Hour
	TermsMaxAge         = 30 * 24 * time.Hour
	VerifiedEmailMaxAge = time.Hour
	OAuthStateMaxAge    = 10 * time.Minute
)

// Signer authenticates cookie values. *secret.Box satisfies it.
type Signer interface {
	HMAC(s string) string
	Compare(s, digest string) bool
}

// Jar creates cookies with consistent attributes. With a Signer the
// verified address is stored as "<email>|<hmac>" and rejected when the
// digest does not match.
type Jar struct {
	Signer Signer
	Secure bool
}

// Cart returns the cart identifier cookie.
func (j Jar) Cart(id string) *http.Cookie {
	return j.build(CartName, id, CartMaxAge, true)
}

// Terms returns the consent cookie for agreed users and a deleting cookie
// otherwise. It is readable by scripts.
func (j Jar) Terms(agreed bool) *http.Cookie {
	if !agreed {
		return j.clear(TermsName, false)
	}
	return j.build(TermsName, "true", TermsMaxAge, false)
}

// VerifiedEmail records the address confirmed by a verification link.
func (j Jar) VerifiedEmail(email string) *http.Cookie {
	value := email
	if j.Signer != nil {
		value = email + "|" + j.Signer.HMAC(email)
	}
	return j.build(VerifiedEmailName, value, VerifiedEmailMaxAge, true)
}

// VerifiedEmailFrom returns the verified address recorded on the request,
// or "" when it is missing or its signature does not match.
func (j Jar) VerifiedEmailFrom(r *http.Request) string {
	c, err := r.Cookie(VerifiedEmailName)
	if err != nil {
		return ""
	}
	if j.Signer == nil {
		return c.Value
	}
	i := strings.LastIndexByte(c.Value, '|')
	if i <= 0 {
		return ""
	}
	email, digest := c.Value[:i], c.Value[i+1:]
	if !j.Signer.Compare(email, digest) {
		return ""
	}
	return email
}

// ClearVerifiedEmail removes the verified address.
func (j Jar) ClearVerifiedEmail() *http.Cookie {
	return j.clear(VerifiedEmailName, true)
}

// OAuthState records the state of a pending provider sign-in.
func (j Jar) OAuthState(state string) *http.Cookie {
	return j.build(OAuthStateName, state, OAuthStateMaxAge, true)
}

// ClearOAuthState removes the pending sign-in state.
func (j Jar) ClearOAuthState() *http.Cookie {
	return j.clear(OAuthStateName, true)
}

func (j Jar) build(name, value string, maxAge time.Duration, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: httpOnly,
		Secure:   j.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j Jar) clear(name string, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: httpOnly,
		Secure:   j.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// TermsAgreed reports whether the request carries the consent cookie.
func TermsAgreed(r *http.Request) bool {
	c, err := r.Cookie(TermsName)
	return err == nil && c.Value == "true"
}

// HasCart reports whether the request already has a cart identifier.
func HasCart(r *http.Request) bool {
	c, err := r.Cookie(CartName)
	return err == nil && c.Value != ""
}

// OAuthState returns the pending provider sign-in state.
func OAuthState(r *http.Request) string {
	c, err := r.Cookie(OAuthStateName)
	if err != nil {
		return ""
	}
	return c.Value
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package cookies_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/oliverandrich/storefront/internal/cookies"
	"codeberg.org/oliverandrich/storefront/internal/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerms(t *testing.T) {
	jar := cookies.Jar{Secure: true}

	set := jar.Terms(true)
	assert.Equal(t, "termsAgreed", set.Name)
	assert.Equal(t, "true", set.Value)
	assert.Equal(t, 30*24*60*60, set.MaxAge)
	assert.False(t, set.HttpOnly)
	assert.True(t, set.Secure)

	cleared := jar.Terms(false)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Empty(t, cleared.Value)
}

func TestVerifiedEmail(t *testing.T) {
	jar := cookies.Jar{}

	c := jar.VerifiedEmail("jane@example.com")

	assert.Equal(t, "verifiedEmail", c.Name)
	assert.Equal(t, "jane@example.com", c.Value)
	assert.Equal(t, 3600, c.MaxAge)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	assert.Equal(t, -1, jar.ClearVerifiedEmail().MaxAge)
}

func TestVerifiedEmail_Signed(t *testing.T) {
	box, err := secret.New("cookie-secret")
	require.NoError(t, err)
	jar := cookies.Jar{Signer: box}

	c := jar.VerifiedEmail("jane@example.com")
	assert.Equal(t, "jane@example.com|"+box.HMAC("jane@example.com"), c.Value)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	assert.Equal(t, "jane@example.com", jar.VerifiedEmailFrom(req))
}

func TestVerifiedEmail_ForgedRejected(t *testing.T) {
	box, err := secret.New("cookie-secret")
	require.NoError(t, err)
	other, err := secret.New("other-secret")
	require.NoError(t, err)
	jar := cookies.Jar{Signer: box}

	for _, value := range []string{
		"jane@example.com",
		"jane@example.com|",
		"|" + box.HMAC(""),
		"john@example.com|" + box.HMAC("jane@example.com"),
		"jane@example.com|" + other.HMAC("jane@example.com"),
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: cookies.VerifiedEmailName, Value: value})
		assert.Empty(t, jar.VerifiedEmailFrom(req), value)
	}
}

func TestReaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, cookies.TermsAgreed(req))
	assert.Empty(t, cookies.Jar{}.VerifiedEmailFrom(req))
	assert.False(t, cookies.HasCart(req))

	req.AddCookie(&http.Cookie{Name: cookies.TermsName, Value: "true"})
	req.AddCookie(&http.Cookie{Name: cookies.VerifiedEmailName, Value: "jane@example.com"})
	req.AddCookie(&http.Cookie{Name: cookies.CartName, Value: "abc"})

	assert.True(t, cookies.TermsAgreed(req))
	assert.Equal(t, "jane@example.com", cookies.Jar{}.VerifiedEmailFrom(req))
	assert.True(t, cookies.HasCart(req))
}

func TestTermsAgreed_OtherValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookies.TermsName, Value: "false"})

	assert.False(t, cookies.TermsAgreed(req))
}

func TestOAuthState(t *testing.T) {
	jar := cookies.Jar{Secure: true}

	c := jar.OAuthState("state-1")
	assert.Equal(t, cookies.OAuthStateName, c.Name)
	assert.Equal(t, 600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, -1, jar.ClearOAuthState().MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, cookies.OAuthState(req))
	req.AddCookie(c)
	assert.Equal(t, "state-1", cookies.OAuthState(req))
}

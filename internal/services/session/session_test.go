// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/oliverandrich/storefront/internal/config"
	"codeberg.org/oliverandrich/storefront/internal/services/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validHashKey is a valid 32-byte hex-encoded key for testing
const validHashKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// validBlockKey is a valid 32-byte hex-encoded key for encryption testing
const validBlockKey = "fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210"

func newTestConfig() *config.SessionConfig {
	return &config.SessionConfig{
		CookieName: "_test_session",
		MaxAge:     3600, // 1 hour
		HashKey:    validHashKey,
	}
}

func testClaims() session.Claims {
	return session.Claims{
		UserID:      123,
		Email:       "jane@example.com",
		Name:        "Jane Doe",
		Role:        "user",
		TermsAgreed: true,
	}
}

func TestNewManager(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), false)

	require.NoError(t, err)
	assert.Equal(t, "_test_session", mgr.CookieName())
}

func TestNewManager_WithBlockKey(t *testing.T) {
	cfg := newTestConfig()
	cfg.BlockKey = validBlockKey

	mgr, err := session.NewManager(cfg, true)

	require.NoError(t, err)
	assert.NotNil(t, mgr)
}

func TestNewManager_InvalidKeys(t *testing.T) {
	tests := []struct {
		name     string
		hashKey  string
		blockKey string
		expected string
	}{
		{"hash not hex", "not-hex-encoded", "", "invalid session hash key"},
		{"hash wrong length", "0123456789abcdef", "", "must be 32 bytes"},
		{"block not hex", validHashKey, "not-hex-encoded", "invalid session block key"},
		{"block wrong length", validHashKey, "0123456789abcdef", "must be 32 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			cfg.HashKey = tt.hashKey
			cfg.BlockKey = tt.blockKey

			_, err := session.NewManager(cfg, false)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestNewManager_DevMode_GeneratesKey(t *testing.T) {
	cfg := newTestConfig()
	cfg.HashKey = ""

	mgr, err := session.NewManager(cfg, false)
	require.NoError(t, err)

	cookie, err := mgr.Create(testClaims())
	require.NoError(t, err)
	assert.NotEmpty(t, cookie.Value)
}

func TestCreate(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), false)
	require.NoError(t, err)

	cookie, err := mgr.Create(testClaims())

	require.NoError(t, err)
	assert.Equal(t, "_test_session", cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestCreate_SecureMode(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), true)
	require.NoError(t, err)

	cookie, err := mgr.Create(testClaims())

	require.NoError(t, err)
	assert.True(t, cookie.Secure)
}

func TestParse(t *testing.T) {
	cfg := newTestConfig()
	cfg.BlockKey = validBlockKey
	mgr, err := session.NewManager(cfg, false)
	require.NoError(t, err)

	cookie, err := mgr.Create(testClaims())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	claims := mgr.Parse(req)

	require.NotNil(t, claims)
	assert.Equal(t, int64(123), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "Jane Doe", claims.Name)
	assert.True(t, claims.TermsAgreed)
	assert.False(t, claims.IsAdmin())
	assert.False(t, claims.ExpiresAt.IsZero())
}

func TestParse_NoCookie(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), false)
	require.NoError(t, err)

	claims := mgr.Parse(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Nil(t, claims)
}

func TestParse_InvalidCookie(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "_test_session", Value: "invalid-cookie-value"})

	claims := mgr.Parse(req)

	assert.Nil(t, claims)
}

func TestParse_TamperedCookie(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), false)
	require.NoError(t, err)

	cookie, err := mgr.Create(testClaims())
	require.NoError(t, err)
	cookie.Value = cookie.Value[:len(cookie.Value)-5] + "XXXXX"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	claims := mgr.Parse(req)

	assert.Nil(t, claims)
}

func TestParse_ExpiredSession(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), false)
	require.NoError(t, err)

	start := time.Now()
	mgr.SetClock(func() time.Time { return start })
	cookie, err := mgr.Create(testClaims())
	require.NoError(t, err)

	mgr.SetClock(func() time.Time { return start.Add(2 * time.Hour) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	claims := mgr.Parse(req)

	assert.Nil(t, claims)
}

func TestParse_DifferentManager(t *testing.T) {
	mgr1, err := session.NewManager(newTestConfig(), false)
	require.NoError(t, err)

	cookie, err := mgr1.Create(testClaims())
	require.NoError(t, err)

	cfg2 := newTestConfig()
	cfg2.HashKey = validBlockKey
	mgr2, err := session.NewManager(cfg2, false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	claims := mgr2.Parse(req)

	assert.Nil(t, claims)
}

func TestClear(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), true)
	require.NoError(t, err)

	cookie := mgr.Clear()

	assert.Equal(t, "_test_session", cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestGenerateKey(t *testing.T) {
	key, err := session.GenerateKey()

	require.NoError(t, err)
	assert.Len(t, key, 64)

	cfg := newTestConfig()
	cfg.HashKey = key
	_, err = session.NewManager(cfg, false)
	assert.NoError(t, err)
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session stores signed identity claims in a cookie.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"codeberg.org/oliverandrich/storefront/internal/config"
	"codeberg.org/oliverandrich/storefront/internal/models"
	"github.com/gorilla/securecookie"
)

const keyLength = 32

// Claims is the identity carried by the session cookie. Role and
// TermsAgreed are copied from the user when the session is issued or
// refreshed.
type Claims struct {
	ExpiresAt   time.Time `json:"exp"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	UserID      int64     `json:"uid"`
	TermsAgreed bool      `json:"terms"`
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// Manager issues and validates session cookies.
type Manager struct {
	codec  *securecookie.SecureCookie
	now    func() time.Time
	name   string
	maxAge int
	secure bool
}

// NewManager creates a session manager. An empty hash key is replaced by a
// random one, which invalidates sessions on restart.
func NewManager(cfg *config.SessionConfig, secure bool) (*Manager, error) {
	hashKey, err := decodeKey(cfg.HashKey, "hash")
	if err != nil {
		return nil, err
	}
	if hashKey == nil {
		hashKey = securecookie.GenerateRandomKey(keyLength)
		if hashKey == nil {
			return nil, errors.New("generating session hash key")
		}
		slog.Warn("session_hash_key_generated", "hint", "set SESSION_HASH_KEY to keep sessions across restarts")
	}

	blockKey, err := decodeKey(cfg.BlockKey, "block")
	if err != nil {
		return nil, err
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(cfg.MaxAge)
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &Manager{
		codec:  codec,
		name:   cfg.CookieName,
		maxAge: cfg.MaxAge,
		secure: secure,
		now:    time.Now,
	}, nil
}

// SetClock replaces time.Now for expiry checks.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Codec returns the signing codec so other short-lived cookies can share
// the session keys.
func (m *Manager) Codec() *securecookie.SecureCookie {
	return m.codec
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.name
}

// Create encodes claims into a session cookie, stamping the expiry.
func (m *Manager) Create(claims Claims) (*http.Cookie, error) {
	claims.ExpiresAt = m.now().Add(time.Duration(m.maxAge) * time.Second).UTC()

	value, err := m.codec.Encode(m.name, claims)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}

	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   m.maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Parse returns the claims of the request's session, or nil when the cookie
// is missing, invalid or expired.
func (m *Manager) Parse(r *http.Request) *Claims {
	cookie, err := r.Cookie(m.name)
	if err != nil {
		return nil
	}

	var claims Claims
	if err := m.codec.Decode(m.name, cookie.Value, &claims); err != nil {
		slog.Debug("session_decode_failed", "error", err)
		return nil
	}

	if !claims.ExpiresAt.After(m.now()) {
		return nil
	}

	return &claims
}

// Clear returns a cookie that removes the session.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func decodeKey(hexKey, kind string) ([]byte, error) {
	if hexKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid session %s key: %w", kind, err)
	}
	if len(key) != keyLength {
		return nil, fmt.Errorf("invalid session %s key: must be 32 bytes, got %d", kind, len(key))
	}
	return key, nil
}

// GenerateKey returns a random hex encoded key for configuration.
func GenerateKey() (string, error) {
	b := make([]byte, keyLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestIsLocalhost(t *testing.T) {
	tests := []struct {
		host     string
		expected bool
	}{
		{"", true},
		{"localhost", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"app.localhost", true},
		{"example.com", false},
		{"localhost.com", false}, // not a real localhost
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLocalhost(tt.host))
		})
	}
}

func TestBuildBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		expected string
	}{
		{
			name:     "HTTP default port",
			cfg:      &Config{Server: ServerConfig{Host: "localhost", Port: 80}},
			expected: "http://localhost",
		},
		{
			name:     "HTTP custom port",
			cfg:      &Config{Server: ServerConfig{Host: "localhost", Port: 8080}},
			expected: "http://localhost:8080",
		},
		{
			name: "TLS default port",
			cfg: &Config{
				Server: ServerConfig{Host: "shop.example.com", Port: 443},
				TLS:    TLSConfig{CertFile: "cert.pem", KeyFile: "key.pem"},
			},
			expected: "https://shop.example.com",
		},
		{
			name: "TLS custom port",
			cfg: &Config{
				Server: ServerConfig{Host: "shop.example.com", Port: 8443},
				TLS:    TLSConfig{CertFile: "cert.pem", KeyFile: "key.pem"},
			},
			expected: "https://shop.example.com:8443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildBaseURL(tt.cfg))
		})
	}
}

func TestVerificationExpiry(t *testing.T) {
	assert.Equal(t, 24*time.Hour, VerificationConfig{}.Expiry())
	assert.Equal(t, 24*time.Hour, VerificationConfig{ExpiryHours: -3}.Expiry())
	assert.Equal(t, 2*time.Hour, VerificationConfig{ExpiryHours: 2}.Expiry())
}

func TestGoogleEnabled(t *testing.T) {
	assert.False(t, OAuthConfig{}.GoogleEnabled())
	assert.False(t, OAuthConfig{GoogleClientID: "id"}.GoogleEnabled())
	assert.True(t, OAuthConfig{GoogleClientID: "id", GoogleClientSecret: "secret"}.GoogleEnabled())
}

func TestSecureCookies(t *testing.T) {
	assert.False(t, (&Config{Server: ServerConfig{BaseURL: "http://localhost:8080"}}).SecureCookies())
	assert.True(t, (&Config{Server: ServerConfig{BaseURL: "https://shop.example.com"}}).SecureCookies())
}

func TestFlags(t *testing.T) {
	flags := Flags()

	flagNames := make(map[string]bool)
	for _, f := range flags {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	assert.True(t, flagNames["host"], "should have host flag")
	assert.True(t, flagNames["base-url"], "should have base-url flag")
	assert.True(t, flagNames["database-dsn"], "should have database-dsn flag")
	assert.True(t, flagNames["session-hash-key"], "should have session-hash-key flag")
	assert.True(t, flagNames["smtp-host"], "should have smtp-host flag")
	assert.True(t, flagNames["verification-expiry-hours"], "should have verification-expiry-hours flag")
	assert.True(t, flagNames["encryption-key"], "should have encryption-key flag")
	assert.True(t, flagNames["google-client-id"], "should have google-client-id flag")
}

func TestNewFromCLI(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.Equal(t, "localhost", cfg.Server.Host)
			assert.Equal(t, 8080, cfg.Server.Port)
			assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
			assert.Equal(t, "_session", cfg.Session.CookieName)
			assert.Equal(t, 2592000, cfg.Session.MaxAge)
			assert.Equal(t, 24, cfg.Verification.ExpiryHours)
			assert.Equal(t, "Storefront", cfg.SMTP.FromName)
			assert.Equal(t, 5, cfg.RateLimit.VerifyPerMinute)

			return nil
		},
	}

	err := app.Run(context.Background(), []string{"test"})
	assert.NoError(t, err)
}

func TestNewFromCLI_WithCustomValues(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.Equal(t, "0.0.0.0", cfg.Server.Host)
			assert.Equal(t, 9000, cfg.Server.Port)
			assert.Equal(t, "https://shop.example.com", cfg.Server.BaseURL)
			assert.Equal(t, 48, cfg.Verification.ExpiryHours)
			assert.Equal(t, "s3cret", cfg.Security.EncryptionKey)
			assert.Equal(t, "Acme Mail", cfg.SMTP.FromName)

			return nil
		},
	}

	args := []string{
		"test",
		"--host", "0.0.0.0",
		"--port", "9000",
		"--base-url", "https://shop.example.com/",
		"--verification-expiry-hours", "48",
		"--encryption-key", "s3cret",
		"--smtp-from-name", "Acme Mail",
	}
	err := app.Run(context.Background(), args)
	assert.NoError(t, err)
}

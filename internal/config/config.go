// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"fmt"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	App          AppConfig
	Server       ServerConfig
	Log          LogConfig
	Database     DatabaseConfig
	TLS          TLSConfig
	Session      SessionConfig
	SMTP         SMTPConfig
	Verification VerificationConfig
	Security     SecurityConfig
	OAuth        OAuthConfig
	RateLimit    RateLimitConfig
}

type AppConfig struct {
	Name string // shown in page titles and emails
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

// TLSConfig enables HTTPS when both files are set.
type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type SessionConfig struct { //nolint:govet // fieldalignment not critical
	CookieName string // Session cookie name
	MaxAge     int    // Session max age in seconds
	HashKey    string // 32-byte hex string for HMAC signing
	BlockKey   string // 32-byte hex string for AES encryption (optional)
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

// VerificationConfig controls email verification tokens.
type VerificationConfig struct {
	ExpiryHours int
}

// Expiry returns the token lifetime, falling back to 24 hours.
func (v VerificationConfig) Expiry() time.Duration {
	if v.ExpiryHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(v.ExpiryHours) * time.Hour
}

// SecurityConfig holds the secret used for field encryption and keyed hashes.
type SecurityConfig struct {
	EncryptionKey string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
}

// GoogleEnabled reports whether Google sign-in is configured.
func (o OAuthConfig) GoogleEnabled() bool {
	return o.GoogleClientID != "" && o.GoogleClientSecret != ""
}

type RateLimitConfig struct {
	VerifyPerMinute int // verification emails per client IP and minute
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		App: AppConfig{
			Name: cmd.String("app-name"),
		},
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		TLS: TLSConfig{
			CertFile: cmd.String("tls-cert-file"),
			KeyFile:  cmd.String("tls-key-file"),
		},
		Session: SessionConfig{
			CookieName: cmd.String("session-cookie-name"),
			MaxAge:     int(cmd.Int("session-max-age")),
			HashKey:    cmd.String("session-hash-key"),
			BlockKey:   cmd.String("session-block-key"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		Verification: VerificationConfig{
			ExpiryHours: int(cmd.Int("verification-expiry-hours")),
		},
		Security: SecurityConfig{
			EncryptionKey: cmd.String("encryption-key"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     cmd.String("google-client-id"),
			GoogleClientSecret: cmd.String("google-client-secret"),
		},
		RateLimit: RateLimitConfig{
			VerifyPerMinute: int(cmd.Int("verify-rate-per-minute")),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}
	cfg.Server.BaseURL = strings.TrimSuffix(cfg.Server.BaseURL, "/")

	if cfg.SMTP.FromName == "" {
		cfg.SMTP.FromName = cfg.App.Name
	}

	return cfg
}

// UseTLS reports whether the server terminates TLS itself.
func (c *Config) UseTLS() bool {
	return c.TLS.CertFile != "" && c.TLS.KeyFile != ""
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.Server.BaseURL, "https://")
}

func buildBaseURL(cfg *Config) string {
	host := cfg.Server.Host
	port := cfg.Server.Port

	scheme := "http"
	if cfg.UseTLS() {
		scheme = "https"
	}

	// Hide default ports in URL
	if (scheme == "http" && port == 80) || (scheme == "https" && port == 443) {
		return fmt.Sprintf("%s://%s", scheme, host)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, port)
}

// IsLocalhost checks if the host is a localhost address.
func IsLocalhost(host string) bool {
	switch host {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	// Check for *.localhost subdomains (e.g., app.localhost)
	return strings.HasSuffix(host, ".localhost")
}

func source(env, key string) cli.ValueSourceChain {
	return cli.NewValueSourceChain(cli.EnvVar(env), toml.TOML(key, configFile))
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "app-name",
			Value:   "Storefront",
			Usage:   "Application name used in titles and emails",
			Sources: source("APP_NAME", "app.name"),
		},
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: source("HOST", "server.host"),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: source("PORT", "server.port"),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL for the application (used in verification links)",
			Sources: source("SERVER_URL", "server.base_url"),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: source("MAX_BODY_SIZE", "server.max_body_size"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: source("LOG_LEVEL", "log.level"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: source("LOG_FORMAT", "log.format"),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/storefront.db",
			Usage:   "Database DSN",
			Sources: source("DATABASE_DSN", "database.dsn"),
		},
		&cli.StringFlag{
			Name:    "tls-cert-file",
			Usage:   "Path to TLS certificate file",
			Sources: source("TLS_CERT_FILE", "tls.cert_file"),
		},
		&cli.StringFlag{
			Name:    "tls-key-file",
			Usage:   "Path to TLS private key file",
			Sources: source("TLS_KEY_FILE", "tls.key_file"),
		},
		// Session flags
		&cli.StringFlag{
			Name:    "session-cookie-name",
			Value:   "_session",
			Usage:   "Session cookie name",
			Sources: source("SESSION_COOKIE_NAME", "session.cookie_name"),
		},
		&cli.IntFlag{
			Name:    "session-max-age",
			Value:   2592000, // 30 days in seconds
			Usage:   "Session max age in seconds",
			Sources: source("SESSION_MAX_AGE", "session.max_age"),
		},
		&cli.StringFlag{
			Name:    "session-hash-key",
			Usage:   "Session hash key (32-byte hex, auto-generated if empty in dev)",
			Sources: source("SESSION_HASH_KEY", "session.hash_key"),
		},
		&cli.StringFlag{
			Name:    "session-block-key",
			Usage:   "Session block key for encryption (32-byte hex, optional)",
			Sources: source("SESSION_BLOCK_KEY", "session.block_key"),
		},
		// SMTP flags
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP host (verification links are logged when empty)",
			Sources: source("SMTP_HOST", "smtp.host"),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP port",
			Sources: source("SMTP_PORT", "smtp.port"),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: source("SMTP_USERNAME", "smtp.username"),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password or provider API key",
			Sources: source("SMTP_PASSWORD", "smtp.password"),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Value:   "onboarding@example.com",
			Usage:   "Sender address",
			Sources: source("SENDER_EMAIL", "smtp.from"),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Usage:   "Sender display name (defaults to app name)",
			Sources: source("SMTP_FROM_NAME", "smtp.from_name"),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: source("SMTP_TLS", "smtp.tls"),
		},
		// Verification and secrets
		&cli.IntFlag{
			Name:    "verification-expiry-hours",
			Value:   24,
			Usage:   "Hours an email verification link stays valid",
			Sources: source("EMAIL_VERIFICATION_TOKEN_EXPIRES_IN_HOURS", "verification.expiry_hours"),
		},
		&cli.StringFlag{
			Name:    "encryption-key",
			Usage:   "Secret for field encryption and keyed hashes",
			Sources: source("ENCRYPTION_KEY", "security.encryption_key"),
		},
		&cli.StringFlag{
			Name:    "google-client-id",
			Usage:   "Google OAuth client ID",
			Sources: source("GOOGLE_CLIENT_ID", "oauth.google_client_id"),
		},
		&cli.StringFlag{
			Name:    "google-client-secret",
			Usage:   "Google OAuth client secret",
			Sources: source("GOOGLE_CLIENT_SECRET", "oauth.google_client_secret"),
		},
		&cli.IntFlag{
			Name:    "verify-rate-per-minute",
			Value:   5,
			Usage:   "Verification email requests allowed per client IP and minute",
			Sources: source("VERIFY_RATE_PER_MINUTE", "rate_limit.verify_per_minute"),
		},
	}
}

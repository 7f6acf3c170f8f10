// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/oliverandrich/storefront/internal/config"
	"codeberg.org/oliverandrich/storefront/internal/cookies"
	"codeberg.org/oliverandrich/storefront/internal/database"
	"codeberg.org/oliverandrich/storefront/internal/handlers"
	"codeberg.org/oliverandrich/storefront/internal/i18n"
	"codeberg.org/oliverandrich/storefront/internal/repository"
	"codeberg.org/oliverandrich/storefront/internal/secret"
	"codeberg.org/oliverandrich/storefront/internal/services/auth"
	"codeberg.org/oliverandrich/storefront/internal/services/email"
	"codeberg.org/oliverandrich/storefront/internal/services/identity"
	"codeberg.org/oliverandrich/storefront/internal/services/oauth"
	"codeberg.org/oliverandrich/storefront/internal/services/session"
	"codeberg.org/oliverandrich/storefront/internal/services/users"
	"codeberg.org/oliverandrich/storefront/internal/services/verification"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command. The logger is
// configured by the caller.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database, migrations are applied on open
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	repo := repository.New(db)

	e, err := New(cfg, repo)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return startWithGracefulShutdown(ctx, e, cfg)
}

// cookieSigner signs the verified email cookie with the encryption key, or
// with a per-process key when none is configured.
func cookieSigner(box *secret.Box) (cookies.Signer, error) {
	if box != nil {
		return box, nil
	}
	key, err := session.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating cookie signing key: %w", err)
	}
	return secret.New(key)
}

// New wires services, middleware and routes into an Echo instance.
func New(cfg *config.Config, repo *repository.Repository) (*echo.Echo, error) {
	box, err := secret.New(cfg.Security.EncryptionKey)
	if err != nil {
		slog.Warn("field encryption disabled", "error", err,
			"hint", "set ENCRYPTION_KEY to store phone numbers")
	}

	mailer, err := email.NewService(&cfg.SMTP, cfg.Server.BaseURL, cfg.Verification.Expiry())
	if err != nil {
		return nil, fmt.Errorf("failed to configure email: %w", err)
	}

	sessions, err := session.NewManager(&cfg.Session, cfg.SecureCookies())
	if err != nil {
		return nil, fmt.Errorf("failed to configure sessions: %w", err)
	}

	var google *oauth.Service
	if cfg.OAuth.GoogleEnabled() {
		google = oauth.NewGoogle(&cfg.OAuth, cfg.Server.BaseURL, sessions.Codec())
	}

	verifier := verification.NewService(repo, mailer, cfg.Verification.Expiry())
	signer, err := cookieSigner(box)
	if err != nil {
		return nil, err
	}
	jar := cookies.Jar{Signer: signer, Secure: cfg.SecureCookies()}
	adapter := identity.NewAdapter(repo)
	usersSvc := users.NewService(repo, box)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.ErrorHandler

	setupMiddleware(e, cfg, sessions, jar)
	setupRoutes(e, cfg, routes{
		pages:   handlers.New(repo),
		auth:    handlers.NewAuth(auth.NewService(repo, verifier, box), adapter, sessions, repo, google, jar),
		account: handlers.NewAccount(usersSvc, adapter, sessions, jar),
		admin:   handlers.NewAdmin(usersSvc),
	})

	return e, nil
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	tlsConfig, err := setupTLS(cfg)
	if err != nil {
		return fmt.Errorf("TLS setup failed: %w", err)
	}

	errChan := make(chan error, 1)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		var err error
		if tlsConfig != nil {
			err = startTLSServer(e, addr, tlsConfig)
		} else {
			err = e.Start(addr)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}

// startTLSServer starts the Echo server with a custom TLS configuration.
func startTLSServer(e *echo.Echo, addr string, tlsConfig *tls.Config) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}
	e.TLSListener = tls.NewListener(ln, tlsConfig)
	e.TLSServer.TLSConfig = tlsConfig
	return e.TLSServer.Serve(e.TLSListener)
}

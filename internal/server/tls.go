// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"codeberg.org/oliverandrich/storefront/internal/config"
)

// setupTLS loads the configured certificate. It returns nil when the
// server runs plain HTTP, typically behind a TLS terminating proxy.
func setupTLS(cfg *config.Config) (*tls.Config, error) {
	if !cfg.UseTLS() {
		if !config.IsLocalhost(cfg.Server.Host) && !cfg.SecureCookies() {
			slog.Warn("serving plain HTTP on a public host",
				"host", cfg.Server.Host,
				"hint", "set an https base URL when running behind a proxy",
			)
		}
		slog.Info("TLS mode: off")
		return nil, nil //nolint:nilnil // no TLS is a valid result
	}

	certFile := cfg.TLS.CertFile
	keyFile := cfg.TLS.KeyFile

	if _, err := os.Stat(certFile); err != nil {
		return nil, fmt.Errorf("certificate file not found: %w", err)
	}
	if _, err := os.Stat(keyFile); err != nil {
		return nil, fmt.Errorf("key file not found: %w", err)
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate: %w", err)
	}

	slog.Info("TLS mode: manual", "cert", certFile, "key", keyFile)
	logCertFingerprint(&cert)
	if isCertExpiringSoon(&cert) {
		slog.Warn("certificate expires within 30 days", "cert", certFile)
	}

	return createTLSConfig(&cert), nil
}

// isCertExpiringSoon checks if certificate expires within 30 days.
func isCertExpiringSoon(cert *tls.Certificate) bool {
	if len(cert.Certificate) == 0 {
		return true
	}
	x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return true
	}
	return time.Until(x509Cert.NotAfter) < 30*24*time.Hour
}

// logCertFingerprint logs the SHA-256 fingerprint of the certificate.
func logCertFingerprint(cert *tls.Certificate) {
	if len(cert.Certificate) == 0 {
		return
	}
	sum := sha256.Sum256(cert.Certificate[0])
	parts := make([]string, len(sum))
	for i, b := range sum {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	slog.Info("certificate fingerprint", "sha256", strings.Join(parts, ":"))
}

func createTLSConfig(cert *tls.Certificate) *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{*cert},
		MinVersion:   tls.VersionTLS12,
	}
}

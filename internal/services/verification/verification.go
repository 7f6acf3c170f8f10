// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package verification issues and redeems single-use email verification
// tokens. Only the SHA-256 hash of a token is stored.
package verification

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"codeberg.org/oliverandrich/storefront/internal/apperr"
	"codeberg.org/oliverandrich/storefront/internal/metrics"
	"codeberg.org/oliverandrich/storefront/internal/models"
	"codeberg.org/oliverandrich/storefront/internal/repository"
)

// TokenLength is the number of random bytes for verification tokens.
const TokenLength = 32

// User-facing messages.
const (
	MsgMissing = "Verification token is missing."
	MsgInvalid = "Invalid or expired verification link"
	MsgExpired = "Verification link has expired. Please sign up again."
)

// Store persists hashed tokens.
type Store interface {
	CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error
	GetVerificationToken(ctx context.Context, tokenHash string) (*models.VerificationToken, error)
	DeleteVerificationToken(ctx context.Context, identifier, tokenHash string) (bool, error)
	DeleteVerificationTokens(ctx context.Context, identifier string) error
	DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error)
}

// Sender delivers the raw token to the address being verified.
type Sender interface {
	SendVerification(ctx context.Context, toEmail, token string) error
}

// Service issues and verifies tokens.
type Service struct {
	store  Store
	sender Sender
	now    func() time.Time
	expiry time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a verification service.
func NewService(store Store, sender Sender, expiry time.Duration, opts ...Option) *Service {
	s := &Service{
		store:  store,
		sender: sender,
		expiry: expiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateToken returns a random token and its SHA-256 hash.
func GenerateToken() (string, string, error) {
	b := make([]byte, TokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	plaintext := hex.EncodeToString(b)
	return plaintext, HashToken(plaintext), nil
}

// HashToken computes the SHA256 hash of a token.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Issue replaces all tokens for identifier with a fresh one and emails it.
// Expired tokens of other identifiers are swept on the way. A delivery
// failure is returned, but the stored token stays valid.
func (s *Service) Issue(ctx context.Context, identifier string) (string, error) {
	if err := s.store.DeleteVerificationTokens(ctx, identifier); err != nil {
		return "", fmt.Errorf("deleting previous tokens: %w", err)
	}
	if n, err := s.store.DeleteExpiredVerificationTokens(ctx, s.now()); err != nil {
		slog.Warn("verification_purge_failed", "error", err)
	} else if n > 0 {
		slog.Debug("verification_tokens_purged", "count", n)
	}

	plaintext, hash, err := GenerateToken()
	if err != nil {
		return "", err
	}

	token := &models.VerificationToken{
		Identifier: identifier,
		Token:      hash,
		Expires:    s.now().Add(s.expiry).UTC(),
	}
	if err := s.store.CreateVerificationToken(ctx, token); err != nil {
		return "", fmt.Errorf("storing token: %w", err)
	}

	if err := s.sender.SendVerification(ctx, identifier, plaintext); err != nil {
		metrics.VerificationsIssued.WithLabelValues("send_failed").Inc()
		return "", fmt.Errorf("sending verification email: %w", err)
	}

	metrics.VerificationsIssued.WithLabelValues("sent").Inc()
	slog.Info("verification_issued", "identifier", identifier, "expires", token.Expires)
	return plaintext, nil
}

// Verify redeems a raw token and returns the identifier it was issued for.
// A token can be redeemed once; expired tokens are removed on sight.
func (s *Service) Verify(ctx context.Context, rawToken string) (string, error) {
	identifier, err := s.verify(ctx, rawToken)
	metrics.VerificationsRedeemed.WithLabelValues(outcome(err)).Inc()
	return identifier, err
}

func (s *Service) verify(ctx context.Context, rawToken string) (string, error) {
	if rawToken == "" {
		return "", apperr.New(apperr.KindMissing, MsgMissing)
	}

	hash := HashToken(rawToken)
	token, err := s.store.GetVerificationToken(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return "", apperr.New(apperr.KindInvalid, MsgInvalid)
	}
	if err != nil {
		return "", apperr.Internal(err)
	}

	deleted, err := s.store.DeleteVerificationToken(ctx, token.Identifier, hash)
	if err != nil {
		return "", apperr.Internal(err)
	}

	if token.Expired(s.now()) {
		return "", apperr.New(apperr.KindExpired, MsgExpired)
	}
	// Another request redeemed the token between lookup and delete.
	if !deleted {
		return "", apperr.New(apperr.KindInvalid, MsgInvalid)
	}

	slog.Info("verification_redeemed", "identifier", token.Identifier)
	return token.Identifier, nil
}

func outcome(err error) string {
	if err == nil {
		return "verified"
	}
	return apperr.KindOf(err).String()
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"codeberg.org/oliverandrich/storefront/internal/apperr"
	"codeberg.org/oliverandrich/storefront/internal/metrics"
	"codeberg.org/oliverandrich/storefront/internal/models"
	"codeberg.org/oliverandrich/storefront/internal/repository"
	"codeberg.org/oliverandrich/storefront/internal/secret"
	"codeberg.org/oliverandrich/storefront/internal/services/verification"
	"golang.org/x/crypto/bcrypt"
)

// Action messages.
const (
	MsgEmailRequired      = "Please enter an email before verifying."
	MsgAlreadyVerified    = "Email already verified. You can sign in."
	MsgVerificationSent   = "Verification email sent. Check your inbox."
	MsgEmailVerified      = "Email verified. You can now sign in."
	MsgVerifyBeforeSignUp = "Please verify your email before signing up."
	MsgAlreadyRegistered  = "Email already registered. Please sign in."
	MsgAccountCreated     = "Account created. You can sign in now."
	MsgInvalidCredentials = "Invalid email or password"
	MsgSignedIn           = "Signed in successfully"
)

// dummyHash is used for constant-time login to prevent timing attacks
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

type Service struct {
	repo              *repository.Repository
	verifier          *verification.Service
	box               *secret.Box
	passwordValidator *PasswordValidator
	bcryptCost        int
}

// NewService creates the authentication service. box may be nil, in which
// case sign-ups with a phone number fail.
func NewService(repo *repository.Repository, verifier *verification.Service, box *secret.Box) *Service {
	return &Service{
		repo:              repo,
		verifier:          verifier,
		box:               box,
		passwordValidator: DefaultPasswordValidator(),
		bcryptCost:        bcrypt.DefaultCost,
	}
}

// SetBcryptCost lowers the hashing cost, for tests.
func (s *Service) SetBcryptCost(cost int) {
	s.bcryptCost = cost
}

// PasswordValidator returns the password validator for use in handlers
func (s *Service) PasswordValidator() *PasswordValidator {
	return s.passwordValidator
}

// RequestVerification sends a verification link unless the address already
// belongs to an account. It reports whether the address is registered.
func (s *Service) RequestVerification(ctx context.Context, rawEmail string) (bool, error) {
	if strings.TrimSpace(rawEmail) == "" {
		return false, apperr.New(apperr.KindMissing, MsgEmailRequired)
	}
	email, err := NormalizeEmail(rawEmail)
	if err != nil {
		return false, err
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return false, apperr.Internal(err)
	}
	if exists {
		return true, nil
	}

	if _, err := s.verifier.Issue(ctx, email); err != nil {
		return false, apperr.Internal(err)
	}
	return false, nil
}

// VerifyEmail redeems a verification token and returns the verified address.
func (s *Service) VerifyEmail(ctx context.Context, token string) (string, error) {
	return s.verifier.Verify(ctx, token)
}

// SignUp creates a credentials account for a previously verified address.
func (s *Service) SignUp(ctx context.Context, form SignUpForm, verifiedEmail string) (*models.User, error) {
	if err := form.Validate(s.passwordValidator); err != nil {
		return nil, err
	}

	if verifiedEmail == "" || !strings.EqualFold(strings.TrimSpace(verifiedEmail), form.Email) {
		return nil, apperr.New(apperr.KindUnauthorized, MsgVerifyBeforeSignUp)
	}

	exists, err := s.repo.EmailExists(ctx, form.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if exists {
		return nil, apperr.New(apperr.KindConflict, MsgAlreadyRegistered)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	passwordHash := string(hash)

	user := &models.User{
		Name:             form.Name,
		Email:            form.Email,
		PasswordHash:     &passwordHash,
		TermsAgreed:      form.TermsAgreed,
		MarketingConsent: form.MarketingConsent,
	}
	now := time.Now().UTC()
	if form.TermsAgreed {
		user.TermsAgreedAt = &now
	}
	if form.MarketingConsent {
		user.MarketingConsentAt = &now
	}

	if form.Phone != "" {
		if s.box == nil {
			return nil, apperr.Internal(secret.ErrMissingKey)
		}
		encrypted, err := s.box.Encrypt(form.Phone)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		user.Phone = &encrypted
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		var conflict *repository.ConflictError
		if errors.As(err, &conflict) {
			return nil, apperr.Wrap(apperr.KindConflict, MsgAlreadyRegistered, err)
		}
		return nil, apperr.Internal(err)
	}

	slog.Info("signup_success", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Authenticate checks credentials and returns the user.
func (s *Service) Authenticate(ctx context.Context, rawEmail, password string) (*models.User, error) {
	fail := apperr.New(apperr.KindUnauthorized, MsgInvalidCredentials)

	email, err := NormalizeEmail(rawEmail)
	if err != nil || s.passwordValidator.MinLength > len([]rune(password)) {
		metrics.SignIns.WithLabelValues("credentials", "invalid_input").Inc()
		return nil, fail
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			metrics.SignIns.WithLabelValues("credentials", "failed").Inc()
			return nil, fail
		}
		return nil, apperr.Internal(fmt.Errorf("failed to get user: %w", err))
	}

	if !user.HasPassword() {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		slog.Warn("login_failed", "email", email, "reason", "no_password")
		metrics.SignIns.WithLabelValues("credentials", "failed").Inc()
		return nil, fail
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		metrics.SignIns.WithLabelValues("credentials", "failed").Inc()
		return nil, fail
	}

	slog.Info("login_success", "user_id", user.ID, "email", email)
	metrics.SignIns.WithLabelValues("credentials", "success").Inc()
	return user, nil
}

// MakeAdmin grants the admin role to an existing user.
func (s *Service) MakeAdmin(ctx context.Context, email string) error {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	if err := s.repo.SetUserRole(ctx, normalized, models.RoleAdmin); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Wrap(apperr.KindNotFound, "User not found", err)
		}
		return err
	}
	return nil
}

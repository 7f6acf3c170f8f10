// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package identity keeps session claims in sync with persisted users and
// links federated accounts.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/storefront/internal/metrics"
	"codeberg.org/oliverandrich/storefront/internal/models"
	"codeberg.org/oliverandrich/storefront/internal/repository"
	"codeberg.org/oliverandrich/storefront/internal/services/session"
)

// ErrNoEmail is returned when a provider does not disclose an address.
var ErrNoEmail = errors.New("identity provider returned no email")

// FederatedLogin is the outcome of a successful provider sign-in.
type FederatedLogin struct {
	Provider          string
	ProviderAccountID string
	Email             string
	Name              string
	AccessToken       string
	RefreshToken      string
	TokenType         string
	Scope             string
	IDToken           string
	ExpiresAt         int64 // unix seconds, 0 when unknown
}

// IdentityStore is the request-scoped side of a sign-in: account links in
// the database and the consent cookie on the response.
type IdentityStore interface {
	UpsertLinkedAccount(ctx context.Context, userID int64, login FederatedLogin) error
	GetConsentFlag(ctx context.Context, userID int64) (bool, error)
	SetConsentCookie(agreed bool)
}

// UserStore is the persistence the adapter needs.
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUserName(ctx context.Context, id int64, name string) error
}

// Adapter derives session claims from users.
type Adapter struct {
	users UserStore
}

func NewAdapter(users UserStore) *Adapter {
	return &Adapter{users: users}
}

// ClaimsFor builds claims for user. A user still named NO_NAME is renamed
// to the local part of their email, and the new name is persisted.
func (a *Adapter) ClaimsFor(ctx context.Context, user *models.User) (session.Claims, error) {
	if user.Name == models.DefaultName || strings.TrimSpace(user.Name) == "" {
		name := user.DisplayName()
		if err := a.users.UpdateUserName(ctx, user.ID, name); err != nil {
			return session.Claims{}, fmt.Errorf("persisting derived name: %w", err)
		}
		user.Name = name
	}

	return session.Claims{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		TermsAgreed: user.TermsAgreed,
	}, nil
}

// RefreshClaims reloads role, name and consent flag from the database.
func (a *Adapter) RefreshClaims(ctx context.Context, claims *session.Claims) error {
	user, err := a.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return err
	}
	fresh, err := a.ClaimsFor(ctx, user)
	if err != nil {
		return err
	}
	claims.Email = fresh.Email
	claims.Name = fresh.Name
	claims.Role = fresh.Role
	claims.TermsAgreed = fresh.TermsAgreed
	return nil
}

// SignIn reconciles the consent cookie for a credentials sign-in.
func (a *Adapter) SignIn(ctx context.Context, store IdentityStore, user *models.User) (session.Claims, error) {
	claims, err := a.ClaimsFor(ctx, user)
	if err != nil {
		return session.Claims{}, err
	}
	store.SetConsentCookie(claims.TermsAgreed)
	return claims, nil
}

// FederatedSignIn links a provider account and returns the session claims.
// Existing users get their link upserted and the consent cookie set from
// the persisted flag. New users are created without a password and start
// without consent.
func (a *Adapter) FederatedSignIn(ctx context.Context, store IdentityStore, login FederatedLogin) (session.Claims, error) {
	email := strings.ToLower(strings.TrimSpace(login.Email))
	if email == "" {
		return session.Claims{}, ErrNoEmail
	}

	user, err := a.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if err := store.UpsertLinkedAccount(ctx, user.ID, login); err != nil {
			return session.Claims{}, fmt.Errorf("linking account: %w", err)
		}
		agreed, err := store.GetConsentFlag(ctx, user.ID)
		if err != nil {
			return session.Claims{}, err
		}
		store.SetConsentCookie(agreed)
		user.TermsAgreed = agreed

	case errors.Is(err, repository.ErrNotFound):
		user = &models.User{Name: strings.TrimSpace(login.Name), Email: email}
		if err := a.users.CreateUser(ctx, user); err != nil {
			return session.Claims{}, fmt.Errorf("creating user: %w", err)
		}
		if err := store.UpsertLinkedAccount(ctx, user.ID, login); err != nil {
			return session.Claims{}, fmt.Errorf("linking account: %w", err)
		}
		store.SetConsentCookie(false)
		slog.Info("federated_user_created", "user_id", user.ID, "provider", login.Provider)

	default:
		return session.Claims{}, err
	}

	metrics.SignIns.WithLabelValues(login.Provider, "success").Inc()
	return a.ClaimsFor(ctx, user)
}

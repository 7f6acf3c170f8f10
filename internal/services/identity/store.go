// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package identity

import (
	"context"
	"net/http"

	"codeberg.org/oliverandrich/storefront/internal/cookies"
	"codeberg.org/oliverandrich/storefront/internal/models"
	"codeberg.org/oliverandrich/storefront/internal/repository"
)

// RequestStore implements IdentityStore for one HTTP request.
type RequestStore struct {
	repo *repository.Repository
	w    http.ResponseWriter
	jar  cookies.Jar
}

// NewRequestStore binds the store to the response of the current request.
func NewRequestStore(repo *repository.Repository, jar cookies.Jar, w http.ResponseWriter) *RequestStore {
	return &RequestStore{repo: repo, jar: jar, w: w}
}

func (s *RequestStore) UpsertLinkedAccount(ctx context.Context, userID int64, login FederatedLogin) error {
	account := &models.Account{
		UserID:            userID,
		Type:              "oauth",
		Provider:          login.Provider,
		ProviderAccountID: login.ProviderAccountID,
		AccessToken:       optional(login.AccessToken),
		RefreshToken:      optional(login.RefreshToken),
		TokenType:         optional(login.TokenType),
		Scope:             optional(login.Scope),
		IDToken:           optional(login.IDToken),
	}
	if login.ExpiresAt > 0 {
		account.ExpiresAt = &login.ExpiresAt
	}
	return s.repo.UpsertAccount(ctx, account)
}

func (s *RequestStore) GetConsentFlag(ctx context.Context, userID int64) (bool, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.TermsAgreed, nil
}

func (s *RequestStore) SetConsentCookie(agreed bool) {
	http.SetCookie(s.w, s.jar.Terms(agreed))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

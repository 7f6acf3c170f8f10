// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package oauth implements the Google sign-in flow.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codeberg.org/oliverandrich/storefront/internal/config"
	"codeberg.org/oliverandrich/storefront/internal/services/identity"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ProviderGoogle is the provider name stored on linked accounts.
const ProviderGoogle = "google"

// CallbackPath is where Google redirects after consent.
const CallbackPath = "/api/auth/callback/google"

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

var ErrUnverifiedEmail = errors.New("provider email is not verified")

// Service exchanges authorization codes for federated logins.
type Service struct {
	oauth       *oauth2.Config
	codec       Codec
	now         func() time.Time
	userInfoURL string
}

type Option func(*Service)

// WithEndpoint points the flow at a different authorization server.
func WithEndpoint(endpoint oauth2.Endpoint, userInfoURL string) Option {
	return func(s *Service) {
		s.oauth.Endpoint = endpoint
		s.userInfoURL = userInfoURL
	}
}

// WithClock replaces the clock used for state expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewGoogle configures the Google provider. Callers check
// cfg.GoogleEnabled before registering the routes. The codec signs the
// state cookie and must be shared by every instance serving the callback.
func NewGoogle(cfg *config.OAuthConfig, baseURL string, codec Codec, opts ...Option) *Service {
	s := &Service{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  strings.TrimSuffix(baseURL, "/") + CallbackPath,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		codec:       codec,
		now:         time.Now,
		userInfoURL: googleUserInfoURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthCodeURL starts a sign-in. It returns the provider URL and the signed
// state cookie value the caller binds to the browser.
func (s *Service) AuthCodeURL(callbackURL string) (authURL, stateCookie string, err error) {
	state := uuid.NewString()
	stateCookie, err = s.encodeState(pendingSignIn{
		ExpiresAt:   s.now().Add(stateTTL).UTC(),
		State:       state,
		CallbackURL: callbackURL,
	})
	if err != nil {
		return "", "", err
	}
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), stateCookie, nil
}

// Exchange checks the returned state against the state cookie and redeems
// the authorization code. It returns the login and the callback URL
// recorded when the flow started.
func (s *Service) Exchange(ctx context.Context, state, stateCookie, code string) (identity.FederatedLogin, string, error) {
	pending, err := s.decodeState(state, stateCookie)
	if err != nil {
		return identity.FederatedLogin{}, "", err
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return identity.FederatedLogin{}, "", fmt.Errorf("exchanging code: %w", err)
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return identity.FederatedLogin{}, "", err
	}
	if info.Email != "" && !info.EmailVerified {
		return identity.FederatedLogin{}, "", ErrUnverifiedEmail
	}

	login := identity.FederatedLogin{
		Provider:          ProviderGoogle,
		ProviderAccountID: info.Subject,
		Email:             info.Email,
		Name:              info.Name,
		AccessToken:       token.AccessToken,
		RefreshToken:      token.RefreshToken,
		TokenType:         token.Type(),
	}
	if !token.Expiry.IsZero() {
		login.ExpiresAt = token.Expiry.Unix()
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		login.IDToken = idToken
	}
	if scope, ok := token.Extra("scope").(string); ok {
		login.Scope = scope
	}

	return login, pending.CallbackURL, nil
}

type userInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func (s *Service) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*userInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching userinfo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding userinfo: %w", err)
	}
	if info.Subject == "" {
		return nil, errors.New("userinfo without subject")
	}
	return &info, nil
}

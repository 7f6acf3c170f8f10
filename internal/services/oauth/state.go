// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package oauth

import (
	"errors"
	"fmt"
	"time"
)

const stateTTL = 10 * time.Minute

// stateCookieName is the securecookie name the pending sign-in is signed
// under. It matches cookies.OAuthStateName.
const stateCookieName = "oauthState"

var (
	ErrStateInvalid  = errors.New("oauth state missing or invalid")
	ErrStateMismatch = errors.New("oauth state does not match")
	ErrStateExpired  = errors.New("oauth state expired")
)

// Codec signs and verifies the pending sign-in carried by the state cookie.
// *securecookie.SecureCookie satisfies it.
type Codec interface {
	Encode(name string, value any) (string, error)
	Decode(name, value string, dst any) error
}

// pendingSignIn travels in the state cookie between the redirect to the
// provider and the callback, so any instance can finish the flow.
type pendingSignIn struct {
	ExpiresAt   time.Time `json:"exp"`
	State       string    `json:"state"`
	CallbackURL string    `json:"cb"`
}

func (s *Service) encodeState(p pendingSignIn) (string, error) {
	value, err := s.codec.Encode(stateCookieName, p)
	if err != nil {
		return "", fmt.Errorf("encoding oauth state: %w", err)
	}
	return value, nil
}

// decodeState checks the signed cookie against the state the provider
// echoed back.
func (s *Service) decodeState(state, cookieValue string) (pendingSignIn, error) {
	var p pendingSignIn
	if state == "" || cookieValue == "" {
		return p, ErrStateInvalid
	}
	if err := s.codec.Decode(stateCookieName, cookieValue, &p); err != nil {
		return p, fmt.Errorf("%w: %w", ErrStateInvalid, err)
	}
	if p.State != state {
		return p, ErrStateMismatch
	}
	if s.now().After(p.ExpiresAt) {
		return p, ErrStateExpired
	}
	return p, nil
}

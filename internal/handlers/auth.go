// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"codeberg.org/oliverandrich/storefront/internal/appcontext"
	"codeberg.org/oliverandrich/storefront/internal/apperr"
	"codeberg.org/oliverandrich/storefront/internal/cookies"
	"codeberg.org/oliverandrich/storefront/internal/metrics"
	"codeberg.org/oliverandrich/storefront/internal/repository"
	"codeberg.org/oliverandrich/storefront/internal/services/auth"
	"codeberg.org/oliverandrich/storefront/internal/services/identity"
	"codeberg.org/oliverandrich/storefront/internal/services/oauth"
	"codeberg.org/oliverandrich/storefront/internal/services/session"
	"codeberg.org/oliverandrich/storefront/internal/templates"
	"github.com/labstack/echo/v4"
)

// MsgProviderFailed is shown when a provider sign-in cannot be completed.
const MsgProviderFailed = "Sign in with Google failed. Please try again."

// AuthHandlers contains handlers for sign-up, sign-in and verification.
type AuthHandlers struct {
	auth     *auth.Service
	identity *identity.Adapter
	sessions *session.Manager
	repo     *repository.Repository
	google   *oauth.Service // nil when Google sign-in is not configured
	jar      cookies.Jar
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(
	authSvc *auth.Service,
	adapter *identity.Adapter,
	sessions *session.Manager,
	repo *repository.Repository,
	google *oauth.Service,
	jar cookies.Jar,
) *AuthHandlers {
	return &AuthHandlers{
		auth:     authSvc,
		identity: adapter,
		sessions: sessions,
		repo:     repo,
		google:   google,
		jar:      jar,
	}
}

// SignInPage renders the sign-in form. Signed-in users go straight to the
// callback URL.
func (h *AuthHandlers) SignInPage(c echo.Context) error {
	callbackURL := SafeCallback(c.QueryParam("callbackUrl"))
	if appcontext.ClaimsFrom(c.Request().Context()) != nil {
		return c.Redirect(http.StatusSeeOther, callbackURL)
	}

	data := templates.SignInData{
		CallbackURL:   callbackURL,
		GoogleEnabled: h.google != nil,
	}
	if c.QueryParam("registered") == "1" {
		data.Notice = auth.MsgAccountCreated
	}
	if c.QueryParam("error") != "" {
		data.Error = MsgProviderFailed
	}
	return Render(c, http.StatusOK, templates.SignIn(data))
}

// SignIn checks credentials, starts a session and reconciles the consent
// cookie with the stored flag.
func (h *AuthHandlers) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	email := c.FormValue("email")
	callbackURL := SafeCallback(c.FormValue("callbackUrl"))

	user, err := h.auth.Authenticate(ctx, email, c.FormValue("password"))
	if err != nil {
		return Render(c, statusFor(err), templates.SignIn(templates.SignInData{
			CallbackURL:   callbackURL,
			Email:         email,
			Error:         apperr.ToResult(err, "").Message,
			GoogleEnabled: h.google != nil,
		}))
	}

	store := identity.NewRequestStore(h.repo, h.jar, c.Response())
	claims, err := h.identity.SignIn(ctx, store, user)
	if err != nil {
		return err
	}
	if err := startSession(c, h.sessions, claims); err != nil {
		return err
	}
	return redirect(c, callbackURL)
}

// SignUpPage renders the first sign-up step, or the account form once the
// address in the verifiedEmail cookie has been confirmed.
func (h *AuthHandlers) SignUpPage(c echo.Context) error {
	verified := h.jar.VerifiedEmailFrom(c.Request())
	email := c.QueryParam("email")
	if email == "" {
		email = verified
	}

	data := templates.SignUpData{
		Email:         email,
		Verified:      verifiedFor(verified, email),
		PasswordHints: h.auth.PasswordValidator().HelpTexts(),
	}
	if data.Verified && c.QueryParam("verified") == "1" {
		r := apperr.OK(auth.MsgEmailVerified)
		data.Result = &r
	}
	return Render(c, http.StatusOK, templates.SignUp(data))
}

// RequestVerification sends a verification link. Any earlier verified
// address is forgotten so an abandoned verification cannot be reused.
func (h *AuthHandlers) RequestVerification(c echo.Context) error {
	c.SetCookie(h.jar.ClearVerifiedEmail())
	email := strings.TrimSpace(c.FormValue("email"))

	registered, err := h.auth.RequestVerification(c.Request().Context(), email)
	data := templates.SignUpData{Email: email}
	switch {
	case err != nil:
		data.Result = result(err, "")
	case registered:
		data.Result = result(nil, auth.MsgAlreadyVerified)
	default:
		data.Result = result(nil, auth.MsgVerificationSent)
	}
	return Render(c, statusFor(err), templates.SignUp(data))
}

// VerifyEmail redeems the token of a verification link. Failures land on
// the verify-email page, success on the second sign-up step with the
// verified address locked in a cookie.
func (h *AuthHandlers) VerifyEmail(c echo.Context) error {
	email, err := h.auth.VerifyEmail(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindMissing:
			return c.Redirect(http.StatusSeeOther, "/verify-email?error=missing")
		case apperr.KindExpired:
			return c.Redirect(http.StatusSeeOther, "/verify-email?error=expired")
		case apperr.KindInvalid:
			return c.Redirect(http.StatusSeeOther, "/verify-email?error=invalid")
		default:
			return err
		}
	}

	c.SetCookie(h.jar.VerifiedEmail(email))
	return c.Redirect(http.StatusSeeOther, "/sign-up?email="+url.QueryEscape(email)+"&verified=1")
}

// VerifyEmailPage explains why a verification link was rejected.
func (h *AuthHandlers) VerifyEmailPage(c echo.Context) error {
	reason := c.QueryParam("error")
	switch reason {
	case "missing", "expired", "invalid":
	default:
		reason = "invalid"
	}
	return Render(c, http.StatusOK, templates.VerifyEmail(templates.VerifyEmailData{Error: reason}))
}

// SignUp creates an account for the verified address.
func (h *AuthHandlers) SignUp(c echo.Context) error {
	form := auth.SignUpForm{
		Name:             c.FormValue("name"),
		Email:            c.FormValue("email"),
		Phone:            strings.TrimSpace(c.FormValue("phone")),
		Password:         c.FormValue("password"),
		ConfirmPassword:  c.FormValue("confirmPassword"),
		TermsAgreed:      formBool(c, "termsAgreed"),
		MarketingConsent: formBool(c, "marketingConsent"),
	}

	verified := h.jar.VerifiedEmailFrom(c.Request())
	_, err := h.auth.SignUp(c.Request().Context(), form, verified)
	if err != nil {
		return Render(c, statusFor(err), templates.SignUp(templates.SignUpData{
			Email:            form.Email,
			Verified:         verifiedFor(verified, form.Email),
			PasswordHints:    h.auth.PasswordValidator().HelpTexts(),
			Name:             form.Name,
			Phone:            form.Phone,
			MarketingConsent: form.MarketingConsent,
			Result:           result(err, ""),
		}))
	}

	c.SetCookie(h.jar.ClearVerifiedEmail())
	return redirect(c, "/sign-in?registered=1")
}

// verifiedFor reports whether the verifiedEmail cookie unlocks the account
// form for email.
func verifiedFor(cookieEmail, email string) bool {
	return cookieEmail != "" && strings.EqualFold(strings.TrimSpace(cookieEmail), strings.TrimSpace(email))
}

// SignOut ends the session and forgets the consent cookie.
func (h *AuthHandlers) SignOut(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())
	c.SetCookie(h.jar.Terms(false))
	return redirect(c, "/")
}

// GoogleSignIn starts the Google sign-in flow.
func (h *AuthHandlers) GoogleSignIn(c echo.Context) error {
	if h.google == nil {
		return echo.ErrNotFound
	}
	authURL, stateCookie, err := h.google.AuthCodeURL(SafeCallback(c.QueryParam("callbackUrl")))
	if err != nil {
		return err
	}
	c.SetCookie(h.jar.OAuthState(stateCookie))
	return c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback completes the Google sign-in flow, linking or creating
// the account.
func (h *AuthHandlers) GoogleCallback(c echo.Context) error {
	if h.google == nil {
		return echo.ErrNotFound
	}
	ctx := c.Request().Context()
	stateCookie := cookies.OAuthState(c.Request())
	c.SetCookie(h.jar.ClearOAuthState())

	if providerErr := c.QueryParam("error"); providerErr != "" {
		slog.Warn("oauth_denied", "provider", oauth.ProviderGoogle, "error", providerErr)
		return h.providerFailed(c)
	}

	login, callbackURL, err := h.google.Exchange(ctx, c.QueryParam("state"), stateCookie, c.QueryParam("code"))
	if errors.Is(err, oauth.ErrStateInvalid) || errors.Is(err, oauth.ErrStateMismatch) || errors.Is(err, oauth.ErrStateExpired) {
		slog.Warn("oauth_state_rejected", "provider", oauth.ProviderGoogle, "error", err)
		return h.providerFailed(c)
	}
	if err != nil {
		slog.Warn("oauth_exchange_failed", "provider", oauth.ProviderGoogle, "error", err)
		return h.providerFailed(c)
	}

	store := identity.NewRequestStore(h.repo, h.jar, c.Response())
	claims, err := h.identity.FederatedSignIn(ctx, store, login)
	if errors.Is(err, identity.ErrNoEmail) {
		return h.providerFailed(c)
	}
	if err != nil {
		return err
	}

	if err := startSession(c, h.sessions, claims); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, SafeCallback(callbackURL))
}

func (h *AuthHandlers) providerFailed(c echo.Context) error {
	metrics.SignIns.WithLabelValues(oauth.ProviderGoogle, "failed").Inc()
	return c.Redirect(http.StatusSeeOther, "/sign-in?error=oauth")
}

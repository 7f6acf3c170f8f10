// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/storefront/internal/appcontext"
	"codeberg.org/oliverandrich/storefront/internal/apperr"
	"codeberg.org/oliverandrich/storefront/internal/cookies"
	"codeberg.org/oliverandrich/storefront/internal/models"
	"codeberg.org/oliverandrich/storefront/internal/services/identity"
	"codeberg.org/oliverandrich/storefront/internal/services/session"
	"codeberg.org/oliverandrich/storefront/internal/services/users"
	"codeberg.org/oliverandrich/storefront/internal/templates"
	"github.com/labstack/echo/v4"
)

// AccountHandlers serve the signed-in user's own pages. Routes are guarded
// by middleware.RequireAuth, so claims are always present.
type AccountHandlers struct {
	users    *users.Service
	identity *identity.Adapter
	sessions *session.Manager
	jar      cookies.Jar
}

// NewAccount creates a new AccountHandlers instance.
func NewAccount(usersSvc *users.Service, adapter *identity.Adapter, sessions *session.Manager, jar cookies.Jar) *AccountHandlers {
	return &AccountHandlers{
		users:    usersSvc,
		identity: adapter,
		sessions: sessions,
		jar:      jar,
	}
}

// ConsentPage renders the terms form.
func (h *AccountHandlers) ConsentPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Consent(templates.ConsentData{
		CallbackURL: SafeCallback(c.QueryParam("callbackUrl")),
	}))
}

// AcceptConsent stores the consent flags, sets the consent cookie,
// refreshes the session and returns to the page the user came from.
func (h *AccountHandlers) AcceptConsent(c echo.Context) error {
	ctx := c.Request().Context()
	claims := appcontext.ClaimsFrom(ctx)
	callbackURL := SafeCallback(c.FormValue("callbackUrl"))

	user, err := h.users.AcceptTerms(ctx, claims.UserID, formBool(c, "termsAgreed"), formBool(c, "marketingConsent"))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			return err
		}
		return Render(c, statusFor(err), templates.Consent(templates.ConsentData{
			CallbackURL: callbackURL,
			Error:       apperr.Message(err),
		}))
	}

	fresh, err := h.identity.ClaimsFor(ctx, user)
	if err != nil {
		return err
	}
	if err := startSession(c, h.sessions, fresh); err != nil {
		return err
	}
	c.SetCookie(h.jar.Terms(true))
	return redirect(c, callbackURL)
}

// ProfilePage renders the profile with address and payment method forms.
func (h *AccountHandlers) ProfilePage(c echo.Context) error {
	return h.renderProfile(c, http.StatusOK, nil)
}

// UpdateProfile changes the display name and refreshes the session.
func (h *AccountHandlers) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	claims := appcontext.ClaimsFrom(ctx)

	err := h.users.UpdateProfile(ctx, claims.UserID, c.FormValue("name"))
	if err == nil {
		fresh := *claims
		if err = h.identity.RefreshClaims(ctx, &fresh); err == nil {
			err = startSession(c, h.sessions, fresh)
			c.SetRequest(c.Request().WithContext(appcontext.WithClaims(ctx, &fresh)))
		}
	}
	return h.renderProfile(c, statusFor(err), result(err, users.MsgUserUpdated))
}

// UpdateAddress stores the shipping address.
func (h *AccountHandlers) UpdateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	addr := models.ShippingAddress{
		FullName:      c.FormValue("fullName"),
		StreetAddress: c.FormValue("streetAddress"),
		City:          c.FormValue("city"),
		PostalCode:    c.FormValue("postalCode"),
		Country:       c.FormValue("country"),
	}

	err := h.users.UpdateAddress(ctx, appcontext.ClaimsFrom(ctx).UserID, addr)
	return h.renderProfile(c, statusFor(err), result(err, users.MsgUserUpdated))
}

// UpdatePaymentMethod stores the preferred payment method.
func (h *AccountHandlers) UpdatePaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()
	err := h.users.UpdatePaymentMethod(ctx, appcontext.ClaimsFrom(ctx).UserID, c.FormValue("type"))
	return h.renderProfile(c, statusFor(err), result(err, users.MsgUserUpdated))
}

func (h *AccountHandlers) renderProfile(c echo.Context, status int, res *apperr.Result) error {
	ctx := c.Request().Context()
	user, err := h.users.Get(ctx, appcontext.ClaimsFrom(ctx).UserID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		// The account was deleted while the session lived on.
		c.SetCookie(h.sessions.Clear())
		return c.Redirect(http.StatusSeeOther, "/sign-in")
	}
	if err != nil {
		return err
	}

	addr, _ := users.Address(user)
	return Render(c, status, templates.Profile(templates.ProfileData{
		User:           user,
		Phone:          h.users.Phone(user),
		Address:        addr,
		PaymentMethods: users.PaymentMethods,
		Result:         res,
	}))
}

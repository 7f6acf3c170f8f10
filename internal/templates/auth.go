// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"
	"net/url"

	"github.com/a-h/templ"
)

func SignIn(data SignInData) templ.Component {
	return layout("signin_title", component(func(ctx context.Context, p *printer) {
		p.raw(`<section class="card">
  <h1>`, esc(tr(ctx, "signin_title")), `</h1>
`)
		if data.Notice != "" {
			p.raw(`  `, flash("success", "status", data.Notice), "\n")
		}
		if data.Error != "" {
			p.raw(`  `, flash("error", "alert", data.Error), "\n")
		}
		p.raw(`  <form method="post" action="/sign-in">
    `, csrfField(ctx), `
    <input type="hidden" name="callbackUrl" value="`, esc(data.CallbackURL), `">
    <label>`, esc(tr(ctx, "form_email")), ` <input type="email" name="email" value="`, esc(data.Email), `" required autocomplete="email"></label>
    <label>`, esc(tr(ctx, "form_password")), ` <input type="password" name="password" required autocomplete="current-password"></label>
    <button type="submit">`, esc(tr(ctx, "signin_submit")), `</button>
  </form>
`)
		if data.GoogleEnabled {
			href := "/api/auth/signin/google?callbackUrl=" + url.QueryEscape(data.CallbackURL)
			p.raw(`  <a class="button" href="`, safeURL(href), `">`, esc(tr(ctx, "signin_google")), `</a>
`)
		}
		p.raw(`  <p>`, esc(tr(ctx, "signin_no_account")), ` <a href="/sign-up">`, esc(tr(ctx, "nav_sign_up")), `</a></p>
</section>
`)
	}))
}

func SignUp(data SignUpData) templ.Component {
	return layout("signup_title", component(func(ctx context.Context, p *printer) {
		p.raw(`<section class="card">
  <h1>`, esc(tr(ctx, "signup_title")), `</h1>
  `, result(data.Result), `
`)
		if data.Verified {
			signUpAccountForm(ctx, p, &data)
		} else {
			p.raw(`  <p>`, esc(tr(ctx, "signup_verify_first")), `</p>
  <form method="post" action="/sign-up/verify">
    `, csrfField(ctx), `
    <label>`, esc(tr(ctx, "form_email")), ` <input type="email" name="email" value="`, esc(data.Email), `" required autocomplete="email"></label>
    <button type="submit">`, esc(tr(ctx, "signup_send_link")), `</button>
  </form>
`)
		}
		p.raw(`  <p>`, esc(tr(ctx, "signup_have_account")), ` <a href="/sign-in">`, esc(tr(ctx, "nav_sign_in")), `</a></p>
</section>
`)
	}))
}

func signUpAccountForm(ctx context.Context, p *printer, data *SignUpData) {
	p.raw(`  <p>`, esc(tr(ctx, "signup_verified")), `</p>
  <form method="post" action="/sign-up">
    `, csrfField(ctx), `
    <label>`, esc(tr(ctx, "form_name")), ` <input type="text" name="name" value="`, esc(data.Name), `" required minlength="3"></label>
    <label>`, esc(tr(ctx, "form_email")), ` <input type="email" name="email" value="`, esc(data.Email), `" readonly></label>
    <label>`, esc(tr(ctx, "form_phone")), ` <input type="tel" name="phone" value="`, esc(data.Phone), `"></label>
    <label>`, esc(tr(ctx, "form_password")), ` <input type="password" name="password" required minlength="6" autocomplete="new-password"></label>
`)
	for _, hint := range data.PasswordHints {
		p.raw(`    <small class="hint">`, esc(hint), `</small>
`)
	}
	checked := ""
	if data.MarketingConsent {
		checked = " checked"
	}
	p.raw(`    <label>`, esc(tr(ctx, "form_confirm_password")), ` <input type="password" name="confirmPassword" required autocomplete="new-password"></label>
    <label><input type="checkbox" name="termsAgreed" value="true" required> `, esc(tr(ctx, "signup_terms")), `</label>
    <label><input type="checkbox" name="marketingConsent" value="true"`, checked, `> `, esc(tr(ctx, "signup_marketing")), `</label>
    <button type="submit">`, esc(tr(ctx, "signup_submit")), `</button>
  </form>
`)
}

func VerifyEmail(data VerifyEmailData) templ.Component {
	return layout("verify_title", component(func(ctx context.Context, p *printer) {
		key := "verify_error_invalid"
		switch data.Error {
		case "missing":
			key = "verify_error_missing"
		case "expired":
			key = "verify_error_expired"
		}
		p.raw(`<section class="card">
  <h1>`, esc(tr(ctx, "verify_title")), `</h1>
  `, flash("error", "alert", tr(ctx, key)), `
  <a class="button" href="/sign-up">`, esc(tr(ctx, "verify_restart")), `</a>
</section>
`)
	}))
}

func Consent(data ConsentData) templ.Component {
	return layout("consent_title", component(func(ctx context.Context, p *printer) {
		p.raw(`<section class="card">
  <h1>`, esc(tr(ctx, "consent_title")), `</h1>
  <p>`, esc(tr(ctx, "consent_intro")), `</p>
`)
		if data.Error != "" {
			p.raw(`  `, flash("error", "alert", data.Error), "\n")
		}
		p.raw(`  <form method="post" action="/consent">
    `, csrfField(ctx), `
    <input type="hidden" name="callbackUrl" value="`, esc(data.CallbackURL), `">
    <label><input type="checkbox" name="termsAgreed" value="true"> `, esc(tr(ctx, "consent_terms")),
			` (<a href="/terms">`, esc(tr(ctx, "footer_terms")), `</a>, <a href="/privacy">`, esc(tr(ctx, "footer_privacy")), `</a>)</label>
    <label><input type="checkbox" name="marketingConsent" value="true"> `, esc(tr(ctx, "consent_marketing")), `</label>
    <button type="submit">`, esc(tr(ctx, "consent_submit")), `</button>
  </form>
</section>
`)
	}))
}

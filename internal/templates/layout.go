// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"

	"codeberg.org/oliverandrich/storefront/internal/apperr"
	"github.com/a-h/templ"
)

// layout wraps content in the shared page chrome.
func layout(titleKey string, content templ.Component) templ.Component {
	return component(func(ctx context.Context, p *printer) {
		p.raw(`<!doctype html>
<html lang="`, esc(locale(ctx)), `">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <meta name="csrf-token" content="`, esc(csrfToken(ctx)), `">
  <title>`, esc(title(ctx, titleKey)), `</title>
  <link rel="stylesheet" href="`, safeURL(cssPath()), `">
</head>
<body>
  <header class="site-header">
    <a class="brand" href="/">`, esc(tr(ctx, "app_name")), `</a>
    <nav>
`)
		if c := claims(ctx); c != nil {
			p.raw(`      <a href="/profile">`, esc(c.Name), `</a>
`)
			if c.IsAdmin() {
				p.raw(`      <a href="/admin/users">`, esc(tr(ctx, "nav_admin")), `</a>
`)
			}
			p.raw(`      <form method="post" action="/sign-out" class="inline">
        `, csrfField(ctx), `
        <button type="submit">`, esc(tr(ctx, "nav_sign_out")), `</button>
      </form>
`)
		} else {
			p.raw(`      <a href="/sign-in">`, esc(tr(ctx, "nav_sign_in")), `</a>
      <a href="/sign-up">`, esc(tr(ctx, "nav_sign_up")), `</a>
`)
		}
		p.raw(`    </nav>
  </header>
  <main>
`)
		p.render(ctx, content)
		p.raw(`  </main>
  <footer class="site-footer">
    <a href="/terms">`, esc(tr(ctx, "footer_terms")), `</a>
    <a href="/privacy">`, esc(tr(ctx, "footer_privacy")), `</a>
    <span>`, esc(tr(ctx, "app_name")), `. `, esc(tr(ctx, "footer_rights")), `</span>
  </footer>
</body>
</html>
`)
	})
}

func csrfField(ctx context.Context) string {
	return `<input type="hidden" name="csrf_token" value="` + esc(csrfToken(ctx)) + `">`
}

// flash renders an inline message box of the given kind.
func flash(kind, role, message string) string {
	return `<div class="flash flash-` + kind + `" role="` + role + `">` + esc(message) + `</div>`
}

// result renders the outcome of a form submission, if any.
func result(r *apperr.Result) string {
	if r == nil {
		return ""
	}
	if r.Success {
		return flash("success", "status", r.Message)
	}
	return flash("error", "status", r.Message)
}

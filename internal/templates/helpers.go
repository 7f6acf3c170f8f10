// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"
	"io"

	"codeberg.org/oliverandrich/storefront/internal/appcontext"
	"codeberg.org/oliverandrich/storefront/internal/assets"
	"codeberg.org/oliverandrich/storefront/internal/i18n"
	"codeberg.org/oliverandrich/storefront/internal/services/session"
	"github.com/a-h/templ"
)

// csrfToken returns the CSRF token from the context.
func csrfToken(ctx context.Context) string {
	return appcontext.CSRFToken(ctx)
}

// tr translates a message by ID.
func tr(ctx context.Context, messageID string) string {
	return i18n.T(ctx, messageID)
}

// trData translates a message with template data.
func trData(ctx context.Context, messageID string, data map[string]any) string {
	return i18n.TData(ctx, messageID, data)
}

// trPlural translates a message with plural support. Counts come from
// int64 columns.
func trPlural(ctx context.Context, messageID string, count int64) string {
	return i18n.TPlural(ctx, messageID, int(count))
}

// locale returns the current locale.
func locale(ctx context.Context) string {
	return i18n.GetLocale(ctx)
}

// claims returns the signed-in user, or nil.
func claims(ctx context.Context) *session.Claims {
	return appcontext.ClaimsFrom(ctx)
}

// title returns the page title, prefixed to the app name.
func title(ctx context.Context, titleKey string) string {
	app := tr(ctx, "app_name")
	if titleKey == "" {
		return app
	}
	return tr(ctx, titleKey) + " | " + app
}

func cssPath() string {
	return assets.CSSPath()
}

// esc escapes s for HTML text and quoted attribute values.
func esc(s string) string {
	return templ.EscapeString(s)
}

// safeURL sanitizes s for href and src attributes.
func safeURL(s string) string {
	return templ.EscapeString(string(templ.URL(s)))
}

// printer writes markup to w and keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) raw(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *printer) render(ctx context.Context, c templ.Component) {
	if p.err == nil {
		p.err = c.Render(ctx, p.w)
	}
}

// component adapts a printer function to templ.Component.
func component(fn func(ctx context.Context, p *printer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		fn(ctx, p)
		return p.err
	})
}

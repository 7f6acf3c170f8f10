// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"

	"github.com/a-h/templ"
)

func Profile(data ProfileData) templ.Component {
	return layout("profile_title", component(func(ctx context.Context, p *printer) {
		user := data.User
		p.raw(`<section class="card">
  <h1>`, esc(tr(ctx, "profile_title")), `</h1>
  `, result(data.Result), `
  <form method="post" action="/profile">
    `, csrfField(ctx), `
    <label>`, esc(tr(ctx, "form_email")), ` <input type="email" value="`, esc(user.Email), `" disabled></label>
`)
		if data.Phone != "" {
			p.raw(`    <label>`, esc(tr(ctx, "form_phone")), ` <input type="tel" value="`, esc(data.Phone), `" disabled></label>
`)
		}
		p.raw(`    <label>`, esc(tr(ctx, "form_name")), ` <input type="text" name="name" value="`, esc(user.Name), `" required minlength="3"></label>
    <button type="submit">`, esc(tr(ctx, "profile_update")), `</button>
  </form>
</section>
`)
		addressForm(ctx, p, &data)
		paymentForm(ctx, p, &data)
	}))
}

func addressForm(ctx context.Context, p *printer, data *ProfileData) {
	field := func(labelKey, name, value string) {
		p.raw(`    <label>`, esc(tr(ctx, labelKey)), ` <input type="text" name="`, name, `" value="`, esc(value), `" required></label>
`)
	}
	p.raw(`<section class="card">
  <h2>`, esc(tr(ctx, "profile_address")), `</h2>
  <form method="post" action="/shipping-address">
    `, csrfField(ctx), `
`)
	field("address_full_name", "fullName", data.Address.FullName)
	field("address_street", "streetAddress", data.Address.StreetAddress)
	field("address_city", "city", data.Address.City)
	field("address_postal_code", "postalCode", data.Address.PostalCode)
	field("address_country", "country", data.Address.Country)
	p.raw(`    <button type="submit">`, esc(tr(ctx, "form_save")), `</button>
  </form>
</section>
`)
}

func paymentForm(ctx context.Context, p *printer, data *ProfileData) {
	current := ""
	if data.User.PaymentMethod != nil {
		current = *data.User.PaymentMethod
	}
	p.raw(`<section class="card">
  <h2>`, esc(tr(ctx, "profile_payment")), `</h2>
  <form method="post" action="/payment-method">
    `, csrfField(ctx), `
`)
	for _, method := range data.PaymentMethods {
		checked := ""
		if method == current {
			checked = " checked"
		}
		p.raw(`    <label><input type="radio" name="type" value="`, esc(method), `"`, checked, `> `, esc(method), `</label>
`)
	}
	p.raw(`    <button type="submit">`, esc(tr(ctx, "form_save")), `</button>
  </form>
</section>
`)
}

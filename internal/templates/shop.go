// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"
	"strconv"

	"codeberg.org/oliverandrich/storefront/internal/models"
	"github.com/a-h/templ"
)

func Home(products []models.Product) templ.Component {
	return layout("nav_home", component(func(ctx context.Context, p *printer) {
		p.raw(`<section>
  <p class="tagline">`, esc(tr(ctx, "app_tagline")), `</p>
  <h1>`, esc(tr(ctx, "home_latest_products")), `</h1>
`)
		if len(products) == 0 {
			p.raw(`  <p>`, esc(tr(ctx, "home_no_products")), `</p>
</section>
`)
			return
		}
		p.raw(`  <ul class="product-grid">
`)
		for i := range products {
			productCard(ctx, p, &products[i])
		}
		p.raw(`  </ul>
</section>
`)
	}))
}

func productCard(ctx context.Context, p *printer, product *models.Product) {
	p.raw(`    <li class="product-card">
      <a href="`, safeURL("/product/"+product.Slug), `">
`)
	if len(product.Images) > 0 {
		p.raw(`        <img src="`, safeURL(product.Images[0]), `" alt="`, esc(product.Name), `">
`)
	}
	p.raw(`        <span class="brand">`, esc(product.Brand), `</span>
        <h2>`, esc(product.Name), `</h2>
      </a>
      <p class="rating">`, rating(ctx, product), `</p>
      `, stock(ctx, product, true), `
    </li>
`)
}

func rating(ctx context.Context, product *models.Product) string {
	return strconv.FormatFloat(product.Rating, 'f', 1, 64) +
		" (" + esc(trPlural(ctx, "product_reviews", product.NumReviews)) + ")"
}

// stock shows the price on cards or an in-stock note on the detail page,
// unless the product is sold out.
func stock(ctx context.Context, product *models.Product, card bool) string {
	if !product.InStock() {
		return `<p class="out-of-stock">` + esc(tr(ctx, "product_out_of_stock")) + `</p>`
	}
	if card {
		return `<p class="price">` + esc(product.FormattedPrice()) + `</p>`
	}
	return `<p class="in-stock">` + esc(tr(ctx, "product_in_stock")) + `</p>`
}

func Product(product *models.Product) templ.Component {
	return layout("", component(func(ctx context.Context, p *printer) {
		p.raw(`<article class="product">
  <div class="gallery">
`)
		for _, img := range product.Images {
			p.raw(`    <img src="`, safeURL(img), `" alt="`, esc(product.Name), `">
`)
		}
		p.raw(`  </div>
  <div class="details">
    <p>`, esc(tr(ctx, "product_brand")), `: `, esc(product.Brand), ` &middot; `,
			esc(tr(ctx, "product_category")), `: `, esc(product.Category), `</p>
    <h1>`, esc(product.Name), `</h1>
    <p class="rating">`, rating(ctx, product), `</p>
    <h2>`, esc(tr(ctx, "product_description")), `</h2>
    <p>`, esc(product.Description), `</p>
  </div>
  <aside class="buy-box">
    <p>`, esc(tr(ctx, "product_price")), `: <strong class="price">`, esc(product.FormattedPrice()), `</strong></p>
    `, stock(ctx, product, false), `
  </aside>
</article>
`)
	}))
}

// prose renders a static text page from a title and a body message.
func prose(titleKey, bodyKey string) templ.Component {
	return layout(titleKey, component(func(ctx context.Context, p *printer) {
		p.raw(`<article class="prose">
  <h1>`, esc(tr(ctx, titleKey)), `</h1>
  <p>`, esc(tr(ctx, bodyKey)), `</p>
</article>
`)
	}))
}

func Terms() templ.Component {
	return prose("terms_title", "terms_body")
}

func Privacy() templ.Component {
	return prose("privacy_title", "privacy_body")
}

func Error(code int, message string) templ.Component {
	return layout("", component(func(ctx context.Context, p *printer) {
		p.raw(`<section class="card error">
  <h1>`, strconv.Itoa(code), `</h1>
  <p>`, esc(message), `</p>
  <a class="button" href="/">`, esc(tr(ctx, "error_back_home")), `</a>
</section>
`)
	}))
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"codeberg.org/oliverandrich/storefront/internal/services/users"
	"github.com/a-h/templ"
)

func AdminUsers(page *users.Page) templ.Component {
	return layout("admin_users_title", component(func(ctx context.Context, p *printer) {
		p.raw(`<section>
  <h1>`, esc(tr(ctx, "admin_users_title")), `</h1>
  <form method="get" action="/admin/users" class="search">
    <input type="search" name="query" value="`, esc(page.Query), `" placeholder="`, esc(tr(ctx, "admin_search")), `">
    <button type="submit">`, esc(tr(ctx, "admin_search_submit")), `</button>
  </form>
`)
		if len(page.Users) == 0 {
			p.raw(`  <p>`, esc(tr(ctx, "admin_no_users")), `</p>
`)
		} else {
			userTable(ctx, p, page)
		}
		p.raw(`  <nav class="pagination">
`)
		if page.HasPrevious() {
			p.raw(`    <a href="`, safeURL(pageURL(page.Page-1, page.Query)), `">`, esc(tr(ctx, "admin_previous")), `</a>
`)
		}
		p.raw(`    <span>`, esc(trData(ctx, "admin_page", map[string]any{"Page": page.Page, "Total": page.TotalPages})), `</span>
`)
		if page.HasNext() {
			p.raw(`    <a href="`, safeURL(pageURL(page.Page+1, page.Query)), `">`, esc(tr(ctx, "admin_next")), `</a>
`)
		}
		p.raw(`  </nav>
</section>
`)
	}))
}

func userTable(ctx context.Context, p *printer, page *users.Page) {
	p.raw(`  <table>
    <thead>
      <tr>`)
	for _, key := range []string{"admin_col_id", "admin_col_name", "admin_col_email", "admin_col_role", "admin_col_actions"} {
		p.raw(`<th>`, esc(tr(ctx, key)), `</th>`)
	}
	p.raw(`</tr>
    </thead>
    <tbody>
`)
	confirm := confirmScript(tr(ctx, "admin_confirm_delete"))
	for i := range page.Users {
		u := &page.Users[i]
		id := strconv.FormatInt(u.ID, 10)
		p.raw(`      <tr>
        <td>`, id, `</td>
        <td>`, esc(u.Name), `</td>
        <td>`, esc(u.Email), `</td>
        <td>`, esc(u.Role), `</td>
        <td>
          <a href="/admin/users/`, id, `">`, esc(tr(ctx, "admin_edit")), `</a>
          <form method="post" action="/admin/users/`, id, `/delete" class="inline" onsubmit="`, esc(confirm), `">
            `, csrfField(ctx), `
            <button type="submit">`, esc(tr(ctx, "admin_delete")), `</button>
          </form>
        </td>
      </tr>
`)
	}
	p.raw(`    </tbody>
  </table>
`)
}

// confirmScript returns an inline handler asking the browser to confirm.
func confirmScript(question string) string {
	quoted, err := json.Marshal(question)
	if err != nil {
		return ""
	}
	return "return confirm(" + string(quoted) + ")"
}

func pageURL(page int, query string) string {
	return "/admin/users?" + url.Values{
		"page":  {strconv.Itoa(page)},
		"query": {query},
	}.Encode()
}

func AdminUserEdit(data AdminUserData) templ.Component {
	return layout("admin_edit_user", component(func(ctx context.Context, p *printer) {
		p.raw(`<section class="card">
  <h1>`, esc(tr(ctx, "admin_edit_user")), `</h1>
  `, result(data.Result), `
`)
		if u := data.User; u != nil {
			id := strconv.FormatInt(u.ID, 10)
			p.raw(`  <form method="post" action="/admin/users/`, id, `">
    `, csrfField(ctx), `
    <label>`, esc(tr(ctx, "form_email")), ` <input type="email" value="`, esc(u.Email), `" disabled></label>
    <label>`, esc(tr(ctx, "form_name")), ` <input type="text" name="name" value="`, esc(u.Name), `" required minlength="3"></label>
    <label>`, esc(tr(ctx, "admin_col_role")), `
      <select name="role">
`)
			for _, role := range data.Roles {
				selected := ""
				if role == u.Role {
					selected = " selected"
				}
				p.raw(`        <option value="`, esc(role), `"`, selected, `>`, esc(role), `</option>
`)
			}
			p.raw(`      </select>
    </label>
    <button type="submit">`, esc(tr(ctx, "form_save")), `</button>
  </form>
`)
		}
		p.raw(`</section>
`)
	}))
}

// Package templates renders the HTML served by the web package.
//
// Components are templ.Component values, so handlers render them the same
// way whether they are full pages or HTMX fragments:
//
//	templates.TableFragment(view).Render(r.Context(), w)
//
// Each component has a .templ source next to its Go file. Running
// `templ generate` writes the *_templ.go equivalents; delete layout.go,
// errors.go, confirm.go and table.go in the same change, since the
// generated files declare the same names.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// html accumulates markup and keeps the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s escaped for element content and attribute values.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes name="value" with a leading space.
func (h *html) attr(name, value string) {
	h.raw(" " + name + `="`)
	h.text(value)
	h.raw(`"`)
}

// flag writes a boolean attribute when on is true.
func (h *html) flag(name string, on bool) {
	if on {
		h.raw(" " + name)
	}
}

// child renders a nested component into the same writer.
func (h *html) child(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

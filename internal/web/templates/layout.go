package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/tablekit/internal/core"
)

// HTMXSource is where pages load htmx from. The CSP header allows it.
const HTMXSource = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// Layout wraps body in the HTML document shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title>`)
		h.raw(`<link rel="stylesheet" href="/static/jtags.css">`)
		h.raw(`<script src="` + HTMXSource + `" defer></script>`)
		h.raw(`</head><body><main><h1>`)
		h.text(title)
		h.raw(`</h1>`)
		h.child(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// TableIndex lists the registered tables by group.
func TableIndex(groups []string, byGroup map[string][]core.TableInfo) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		if len(groups) == 0 {
			h.raw(`<p>No tables are registered.</p>`)
			return h.err
		}
		for _, g := range groups {
			h.raw(`<section><h2>`)
			h.text(g)
			h.raw(`</h2><ul>`)
			for _, info := range byGroup[g] {
				h.raw(`<li><a`)
				h.attr("href", "/tables/"+info.Key)
				h.raw(`>`)
				h.text(info.Label)
				h.raw(`</a></li>`)
			}
			h.raw(`</ul></section>`)
		}
		return h.err
	})
	return Layout("Tables", body)
}

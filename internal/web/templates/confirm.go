package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/tablekit/internal/core"
)

// DeleteConfirmParams drives the bulk delete confirmation dialog.
type DeleteConfirmParams struct {
	DeleteURL    string
	Preview      core.DeletePreview
	IDs          []int64
	ConfirmToken string // Set when the delete would clear the table
}

// DeleteConfirm renders the confirmation dialog. Confirming sends the same
// selection back as a DELETE; the dialog closes when the table refreshes.
func DeleteConfirm(p DeleteConfirmParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		pv := p.Preview

		h.raw(`<dialog class="jtags-modal" open><form`)
		h.attr("hx-delete", p.DeleteURL)
		h.attr("hx-swap", "none")
		h.raw(`><p class="jtags-modal-message">`)
		switch {
		case pv.Count == 0:
			h.raw(`Nothing is selected.`)
		case pv.FilterMode && pv.HasFilter:
			h.text("Delete all " + strconv.Itoa(pv.Count) + " items where " + pv.SearchField + " contains \"" + pv.Search + "\"?")
		case pv.FilterMode:
			h.text("Delete all " + strconv.Itoa(pv.Count) + " items? No filter is applied, so this empties the table.")
		default:
			h.text("Delete " + strconv.Itoa(pv.Count) + " selected item" + plural(pv.Count) + "?")
		}
		h.raw(`</p>`)

		if pv.FilterMode {
			hidden(h, "selectionMode", string(core.SelectByFilter))
			hidden(h, "searchField", pv.SearchField)
			hidden(h, "search", pv.Search)
		} else {
			hidden(h, "selectionMode", string(core.SelectByIDs))
			for _, id := range p.IDs {
				hidden(h, "select-item", strconv.FormatInt(id, 10))
			}
		}
		if p.ConfirmToken != "" {
			hidden(h, "confirmToken", p.ConfirmToken)
		}

		h.raw(`<div class="jtags-modal-actions">`)
		h.raw(`<button type="button" onclick="this.closest('dialog').remove()">Cancel</button>`)
		h.raw(`<button type="submit"`)
		h.flag("disabled", pv.Count == 0)
		h.raw(`>Delete</button></div></form></dialog>`)
		return h.err
	})
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

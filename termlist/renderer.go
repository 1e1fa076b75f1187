package termlist

import (
	"fmt"

	"github.com/gdamore/tcell/v3"

	"github.com/xqrs/recyclerview"
)

// Renderer turns flat entries into terminal rows. The widget measures
// through Height and paints through Draw; both are called only for
// entries inside the window, so implementations can be naive about cost
// per entry.
type Renderer interface {
	// Height returns the number of rows the entry occupies at the given
	// width. Results below 1 are treated as 1.
	Height(entry recyclerview.FlatEntry, width int) int

	// Draw paints the entry. The screen is clipped to the entry's visible
	// band; y may lie above it when the entry is partially scrolled off,
	// so implementations lay out from y and let the clip do the cropping.
	// cell is the entry's pooled slot, nil for stateless repaints such as
	// the pinned header copy.
	Draw(screen tcell.Screen, entry recyclerview.FlatEntry, cell *recyclerview.Cell, x, y, width, height int, selected bool)
}

// TextRenderer is a minimal single-row Renderer that prints each entry's
// payload. Headers carry a collapse marker when a list is attached.
type TextRenderer struct {
	List   *recyclerview.List
	Styles Styles
}

// NewTextRenderer returns a TextRenderer with the default styles.
func NewTextRenderer(list *recyclerview.List) *TextRenderer {
	return &TextRenderer{List: list, Styles: DefaultStyles()}
}

// Height implements Renderer. Every entry is one row tall.
func (r *TextRenderer) Height(entry recyclerview.FlatEntry, width int) int {
	return 1
}

// Draw implements Renderer.
func (r *TextRenderer) Draw(screen tcell.Screen, entry recyclerview.FlatEntry, cell *recyclerview.Cell, x, y, width, height int, selected bool) {
	text := ""
	if entry.Payload != nil {
		text = fmt.Sprint(entry.Payload)
	}
	style := r.Styles.Row
	switch entry.Kind {
	case recyclerview.KindHeader:
		style = r.Styles.Header
		marker := "▾ "
		if r.List != nil && r.List.IsCollapsed(entry.GroupKey) {
			marker = "▸ "
		}
		text = marker + text
	case recyclerview.KindFooter:
		style = r.Styles.Footer
	}
	if selected {
		style = r.Styles.SelectedRow
	}
	screen.PutStrStyled(x, y, text, style)
}

var _ Renderer = &TextRenderer{}

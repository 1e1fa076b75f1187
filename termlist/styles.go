package termlist

import (
	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
)

// Styles defines the styles the widget draws with. Zero-value fields are
// valid tcell defaults; widgets start from DefaultStyles.
type Styles struct {
	Background   tcell.Style // Fill behind and between entries.
	Header       tcell.Style // Group header rows.
	StickyHeader tcell.Style // The pinned header while its group is scrolled.
	Footer       tcell.Style // Group footer rows.
	Row          tcell.Style // Record rows.
	SelectedRow  tcell.Style // The selected entry's rows.
	ScrollTrack  tcell.Style // Scroll bar track cells.
	ScrollThumb  tcell.Style // Scroll bar thumb cells.
}

// DefaultStyles returns the default look: a black background and some
// basic colors.
func DefaultStyles() Styles {
	base := tcell.StyleDefault.Background(color.Black).Foreground(color.White)
	return Styles{
		Background:   base,
		Header:       base.Foreground(color.Yellow).Bold(true),
		StickyHeader: base.Foreground(color.Yellow).Bold(true).Reverse(true),
		Footer:       base.Foreground(color.Green),
		Row:          base,
		SelectedRow:  base.Reverse(true),
		ScrollTrack:  base.Dim(true),
		ScrollThumb:  base,
	}
}

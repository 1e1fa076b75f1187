package termlist

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xqrs/recyclerview"
)

// fakeScreen records cell writes for assertions. It embeds the Screen
// interface and implements only the methods the widget and renderers
// call.
type fakeScreen struct {
	tcell.Screen
	text  map[[2]int]string
	style map[[2]int]tcell.Style
}

func newFakeScreen() *fakeScreen {
	return &fakeScreen{
		text:  map[[2]int]string{},
		style: map[[2]int]tcell.Style{},
	}
}

func (s *fakeScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	s.text[[2]int{x, y}] = string(primary)
	s.style[[2]int{x, y}] = style
}

func (s *fakeScreen) Put(x int, y int, str string, style tcell.Style) (string, int) {
	if str == "" {
		return "", 0
	}
	cluster, remain, width, _ := uniseg.FirstGraphemeClusterInString(str, -1)
	if width <= 0 {
		width = 1
	}
	s.text[[2]int{x, y}] = cluster
	s.style[[2]int{x, y}] = style
	return remain, width
}

func (s *fakeScreen) PutStr(x int, y int, str string) {
	s.PutStrStyled(x, y, str, tcell.StyleDefault)
}

func (s *fakeScreen) PutStrStyled(x int, y int, str string, style tcell.Style) {
	for str != "" {
		remain, width := s.Put(x, y, str, style)
		if width <= 0 || remain == str {
			return
		}
		x += width
		str = remain
	}
}

func (s *fakeScreen) ShowCursor(x int, y int) {}

func (s *fakeScreen) at(x, y int) string {
	return s.text[[2]int{x, y}]
}

// row joins one row's glyphs over the given span, trimming the trailing
// blank run.
func (s *fakeScreen) row(x, y, width int) string {
	var b strings.Builder
	for i := range width {
		if t := s.at(x+i, y); t != "" {
			b.WriteString(t)
		} else {
			b.WriteString(" ")
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func widgetGroups() []recyclerview.Group {
	names := []string{"alpha", "beta", "gamma"}
	counts := []int{4, 3, 5}
	groups := make([]recyclerview.Group, len(names))
	for g := range groups {
		records := make([]recyclerview.Record, counts[g])
		for r := range records {
			records[r] = recyclerview.Record{Type: 1, Payload: fmt.Sprintf("%s %d", names[g], r)}
		}
		groups[g] = recyclerview.Group{
			Key:           names[g],
			HeaderPayload: strings.ToUpper(names[g]),
			Records:       records,
		}
	}
	return groups
}

// newTestWidget builds a 20x6 widget over three groups of one-row
// entries: alpha with 4 records, beta with 3, gamma with 5.
func newTestWidget(t *testing.T) *Widget {
	t.Helper()
	list := recyclerview.NewList()
	require.NoError(t, list.SetGroups(widgetGroups()))
	return NewWidget(list, NewTextRenderer(list)).SetRect(0, 0, 20, 6)
}

// tallHeaderRenderer gives headers two rows so partial bands and the
// sticky push-out have something to bite on.
type tallHeaderRenderer struct {
	*TextRenderer
}

func (r tallHeaderRenderer) Height(entry recyclerview.FlatEntry, width int) int {
	if entry.Kind == recyclerview.KindHeader {
		return 2
	}
	return 1
}

func TestWidgetDraw(t *testing.T) {
	t.Parallel()

	t.Run("visible rows are painted through pooled slots", func(t *testing.T) {
		t.Parallel()

		w := newTestWidget(t)
		screen := newFakeScreen()
		w.Draw(screen)

		assert.Equal(t, "▾ ALPHA", screen.row(0, 0, 19))
		assert.Equal(t, "alpha 0", screen.row(0, 1, 19))
		assert.Equal(t, "alpha 3", screen.row(0, 4, 19))
		assert.Equal(t, "▾ BETA", screen.row(0, 5, 19))

		stats := w.List().PoolStats()
		assert.Equal(t, 2, stats[0].InUse, "two headers on screen")
		assert.Equal(t, 4, stats[1].InUse, "four records on screen")
	})

	t.Run("scrolling recycles slots without new allocations", func(t *testing.T) {
		t.Parallel()

		w := newTestWidget(t).SetStickyHeaders(false)
		screen := newFakeScreen()
		w.Draw(screen)

		w.ScrollBy(4)
		w.Draw(screen)

		assert.Equal(t, 4, w.ScrollRow())
		assert.Equal(t, "alpha 3", screen.row(0, 0, 19))
		assert.Equal(t, "▾ BETA", screen.row(0, 1, 19))
		assert.Equal(t, "▾ GAMMA", screen.row(0, 5, 19))

		// Departing slots covered every arrival, type by type.
		stats := w.List().PoolStats()
		assert.Equal(t, 2, stats[0].InUse+stats[0].Available)
		assert.Equal(t, 4, stats[1].InUse+stats[1].Available)
	})

	t.Run("collapsing a group rebinds slots across the rebuild", func(t *testing.T) {
		t.Parallel()

		w := newTestWidget(t).SetStickyHeaders(false)
		screen := newFakeScreen()
		w.Draw(screen)

		w.Select(0)
		require.True(t, w.ToggleSelected())
		w.Draw(screen)

		assert.Equal(t, 11, w.List().Len())
		assert.Equal(t, "▸ ALPHA", screen.row(0, 0, 19))
		assert.Equal(t, "▾ BETA", screen.row(0, 1, 19))
		assert.Equal(t, "beta 2", screen.row(0, 4, 19))
		assert.Equal(t, "▾ GAMMA", screen.row(0, 5, 19))

		stats := w.List().PoolStats()
		assert.Equal(t, 3, stats[0].InUse)
		assert.Equal(t, 3, stats[1].InUse)
		assert.Equal(t, 1, stats[1].Available)

		// Toggling a record is a no-op.
		w.Select(2)
		assert.False(t, w.ToggleSelected())

		w.Select(0)
		require.True(t, w.ToggleSelected())
		assert.Equal(t, 15, w.List().Len())
	})

	t.Run("the selected entry is drawn highlighted", func(t *testing.T) {
		t.Parallel()

		w := newTestWidget(t)
		screen := newFakeScreen()
		w.Select(2)
		w.Draw(screen)

		assert.Equal(t, DefaultStyles().SelectedRow, screen.style[[2]int{0, 2}])
		assert.Equal(t, DefaultStyles().Row, screen.style[[2]int{0, 1}])
	})
}

func TestWidgetSticky(t *testing.T) {
	t.Parallel()

	newTallWidget := func(t *testing.T) *Widget {
		t.Helper()
		list := recyclerview.NewList()
		require.NoError(t, list.SetGroups(widgetGroups()))
		renderer := tallHeaderRenderer{NewTextRenderer(list)}
		return NewWidget(list, renderer).SetRect(0, 0, 20, 6).SetScrollBar(false)
	}

	t.Run("no band while the live header is at the top", func(t *testing.T) {
		t.Parallel()

		w := newTallWidget(t)
		screen := newFakeScreen()
		w.Draw(screen)

		assert.Equal(t, "▾ ALPHA", screen.row(0, 0, 20))
		assert.Equal(t, "alpha 0", screen.row(0, 2, 20))
	})

	t.Run("header pins once its records scroll under it", func(t *testing.T) {
		t.Parallel()

		w := newTallWidget(t)
		screen := newFakeScreen()
		w.Draw(screen)

		w.ScrollTo(4)
		w.Draw(screen)

		// The band covers the header's full two rows at the top.
		assert.Equal(t, "▾ ALPHA", screen.row(0, 0, 20))
		assert.Equal(t, "", screen.row(0, 1, 20))
		assert.Equal(t, DefaultStyles().StickyHeader, screen.style[[2]int{19, 1}])
		assert.Equal(t, "▾ BETA", screen.row(0, 2, 20))
	})

	t.Run("the next header pushes the band out", func(t *testing.T) {
		t.Parallel()

		w := newTallWidget(t)
		screen := newFakeScreen()
		w.Draw(screen)

		w.ScrollTo(5)
		w.Draw(screen)

		// One band row left on screen, the title row already pushed off.
		assert.Equal(t, "", screen.row(0, 0, 20))
		assert.Equal(t, DefaultStyles().StickyHeader, screen.style[[2]int{0, 0}])
		assert.Equal(t, "▾ BETA", screen.row(0, 1, 20))

		w.ScrollTo(6)
		w.Draw(screen)

		// The successor is now the live header at the top, nothing pinned.
		assert.Equal(t, "▾ BETA", screen.row(0, 0, 20))
		assert.Equal(t, "beta 0", screen.row(0, 2, 20))
		assert.Equal(t, "▾ GAMMA", screen.row(0, 5, 20))
	})
}

func TestWidgetScrolling(t *testing.T) {
	t.Parallel()

	t.Run("helpers clamp to the scrollable range", func(t *testing.T) {
		t.Parallel()

		w := newTestWidget(t)
		screen := newFakeScreen()

		w.ScrollToEnd()
		w.Draw(screen)
		assert.Equal(t, 9, w.ScrollRow())

		w.ScrollBy(100)
		w.Draw(screen)
		assert.Equal(t, 9, w.ScrollRow())

		w.ScrollTo(-5)
		w.Draw(screen)
		assert.Equal(t, 0, w.ScrollRow())

		w.ScrollToIndex(9, 1)
		w.Draw(screen)
		assert.Equal(t, 4, w.ScrollRow(), "gamma header flush with the bottom edge")
	})

	t.Run("index lookup maps screen rows to entries", func(t *testing.T) {
		t.Parallel()

		w := newTestWidget(t)
		screen := newFakeScreen()
		w.Draw(screen)

		assert.Equal(t, 0, w.IndexAt(3, 0))
		assert.Equal(t, 5, w.IndexAt(0, 5))
		assert.Equal(t, -1, w.IndexAt(25, 2), "outside the widget")

		w.ScrollBy(4)
		w.Draw(screen)
		assert.Equal(t, 9, w.IndexAt(0, 5))
	})
}

func TestWidgetSelection(t *testing.T) {
	t.Parallel()

	t.Run("selection movement scrolls just enough", func(t *testing.T) {
		t.Parallel()

		w := newTestWidget(t).SetStickyHeaders(false)
		screen := newFakeScreen()
		w.Draw(screen)
		assert.Equal(t, -1, w.Selected())

		w.SelectNext()
		assert.Equal(t, 0, w.Selected())
		assert.Equal(t, 0, w.ScrollRow())

		for range 6 {
			w.SelectNext()
		}
		assert.Equal(t, 6, w.Selected())
		assert.Equal(t, 1, w.ScrollRow(), "scrolled one row to reveal the selection")

		for range 7 {
			w.SelectPrev()
		}
		assert.Equal(t, 0, w.Selected())
		assert.Equal(t, 0, w.ScrollRow())
	})

	t.Run("selection is bounded by the projection", func(t *testing.T) {
		t.Parallel()

		w := newTestWidget(t)
		w.Select(99)
		assert.Equal(t, -1, w.Selected())

		w.Select(14)
		assert.Equal(t, 14, w.Selected())
		w.SelectNext()
		assert.Equal(t, 14, w.Selected())

		w.Select(-1)
		assert.Equal(t, -1, w.Selected())
	})
}

// rogueRenderer paints outside its own band on purpose.
type rogueRenderer struct {
	*TextRenderer
}

func (r rogueRenderer) Draw(screen tcell.Screen, entry recyclerview.FlatEntry, cell *recyclerview.Cell, x, y, width, height int, selected bool) {
	screen.PutStrStyled(x, y, "row", tcell.StyleDefault)
	screen.PutStrStyled(x, y+1, "spill", tcell.StyleDefault)
}

func TestWidgetLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("dispose releases every held slot", func(t *testing.T) {
		t.Parallel()

		w := newTestWidget(t)
		screen := newFakeScreen()
		w.Draw(screen)

		w.Dispose()
		for _, stat := range w.List().PoolStats() {
			assert.Zero(t, stat.InUse)
		}
	})

	t.Run("width changes drop measured heights", func(t *testing.T) {
		t.Parallel()

		list := recyclerview.NewList()
		require.NoError(t, list.SetGroups(widgetGroups()))
		w := NewWidget(list, tallHeaderRenderer{NewTextRenderer(list)}).SetRect(0, 0, 20, 6)
		w.Draw(newFakeScreen())
		assert.True(t, list.Cache().Has("alpha/header"))

		// Same width keeps them, a new width invalidates.
		w.SetRect(2, 2, 20, 8)
		assert.True(t, list.Cache().Has("alpha/header"))
		w.SetRect(0, 0, 30, 6)
		assert.False(t, list.Cache().Has("alpha/header"))
	})

	t.Run("renderer overdraw is clipped to the entry band", func(t *testing.T) {
		t.Parallel()

		list := recyclerview.NewList()
		require.NoError(t, list.SetGroups(widgetGroups()))
		w := NewWidget(list, rogueRenderer{NewTextRenderer(list)}).
			SetRect(0, 0, 20, 6).
			SetStickyHeaders(false).
			SetScrollBar(false)
		screen := newFakeScreen()
		w.Draw(screen)

		// Every band shows its own row; no spill from the row above.
		for y := range 6 {
			assert.Equal(t, "row", screen.row(0, y, 20), "row %d", y)
		}
	})
}

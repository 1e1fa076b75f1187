package termlist

import (
	"github.com/gdamore/tcell/v3"

	"github.com/xqrs/recyclerview"
)

// measurePasses caps how many times a single Draw call re-measures after
// fresh heights shift the visible window.
const measurePasses = 3

// Widget drives a recyclerview.List on a terminal screen, with one
// layout unit per terminal row. It owns scroll position, selection, the
// pooled draw slots for visible entries, the pinned header band and the
// scroll bar column. The host owns the event loop: route key and mouse
// events to HandleKey and HandleMouse, call Draw once per frame, then
// flush the list's scheduler.
type Widget struct {
	list     *recyclerview.List
	renderer Renderer

	styles Styles
	glyphs thumbGlyphs

	x, y, width, height int

	scrollRow int
	pending   int
	selected  int

	overscan      int
	stickyHeaders bool
	scrollBar     bool

	// cells maps visible flat indices to their pooled slots. Bindings are
	// only trusted within a single flat generation.
	cells   map[int]*recyclerview.Cell
	cellGen uint64

	lastButtons tcell.ButtonMask
}

// NewWidget returns a widget drawing list through renderer. The widget
// does not take ownership of the list; disposing the widget releases its
// pooled slots but leaves the list usable.
func NewWidget(list *recyclerview.List, renderer Renderer) *Widget {
	// Terminal rows are the layout unit and most entries are one row
	// tall, so unmeasured entries are priced at one row.
	list.Positioner().SetDefaultEstimate(1)
	return &Widget{
		list:          list,
		renderer:      renderer,
		styles:        DefaultStyles(),
		glyphs:        defaultThumbGlyphs(),
		selected:      -1,
		stickyHeaders: true,
		scrollBar:     true,
		cells:         map[int]*recyclerview.Cell{},
	}
}

// List returns the underlying list.
func (w *Widget) List() *recyclerview.List {
	return w.list
}

// SetRect sets the widget's position and size. Changing the width
// invalidates all measured heights because rows wrap differently.
func (w *Widget) SetRect(x, y, width, height int) *Widget {
	if width != w.width {
		w.list.Cache().Clear()
		w.list.Positioner().InvalidateAll()
	}
	w.x, w.y, w.width, w.height = x, y, width, height
	return w
}

// GetRect returns the widget's position and size.
func (w *Widget) GetRect() (x, y, width, height int) {
	return w.x, w.y, w.width, w.height
}

// InRect returns whether the given screen coordinates fall inside the
// widget.
func (w *Widget) InRect(x, y int) bool {
	return x >= w.x && x < w.x+w.width && y >= w.y && y < w.y+w.height
}

// SetStyles sets the widget's color scheme.
func (w *Widget) SetStyles(styles Styles) *Widget {
	w.styles = styles
	return w
}

// SetStickyHeaders sets whether the active group's header stays pinned
// to the top row while its records scroll underneath.
func (w *Widget) SetStickyHeaders(sticky bool) *Widget {
	w.stickyHeaders = sticky
	return w
}

// SetScrollBar sets whether the rightmost column is reserved for a
// scroll bar.
func (w *Widget) SetScrollBar(visible bool) *Widget {
	w.scrollBar = visible
	return w
}

// SetOverscan sets how many extra rows beyond the viewport are prepared
// on each side, keeping slots warm for slow scrolling.
func (w *Widget) SetOverscan(rows int) *Widget {
	w.overscan = max(rows, 0)
	return w
}

// ScrollBy queues a relative scroll of the given number of rows. It is
// applied and clamped on the next Draw.
func (w *Widget) ScrollBy(rows int) *Widget {
	w.pending += rows
	return w
}

// ScrollTo scrolls so that the given content row is at the top of the
// viewport.
func (w *Widget) ScrollTo(row int) *Widget {
	w.scrollRow = max(row, 0)
	w.pending = 0
	return w
}

// ScrollToStart scrolls to the top of the list.
func (w *Widget) ScrollToStart() *Widget {
	return w.ScrollTo(0)
}

// ScrollToEnd scrolls so the last entry is flush with the bottom row.
func (w *Widget) ScrollToEnd() *Widget {
	content, _ := w.list.ContentExtent()
	return w.ScrollTo(int(content) - w.height)
}

// ScrollToIndex scrolls the entry at the given flat index to the given
// relative viewport position, 0 for the top edge through 1 for the
// bottom edge.
func (w *Widget) ScrollToIndex(index int, position float64) *Widget {
	return w.ScrollTo(int(w.list.OffsetForIndex(index, position)))
}

// ScrollRow returns the content row currently at the top of the
// viewport, excluding scrolls still pending.
func (w *Widget) ScrollRow() int {
	return w.scrollRow
}

// Select moves the selection to the given flat index, scrolling just
// enough to bring it into view. Pass -1 to clear the selection.
func (w *Widget) Select(index int) *Widget {
	if index < -1 || index >= w.list.Len() {
		return w
	}
	w.selected = index
	if index >= 0 {
		w.ensureVisible(index)
	}
	return w
}

// Selected returns the selected flat index, -1 when nothing is selected.
func (w *Widget) Selected() int {
	return w.selected
}

// SelectNext moves the selection down by one entry.
func (w *Widget) SelectNext() *Widget {
	if w.list.Len() == 0 {
		return w
	}
	return w.Select(min(w.selected+1, w.list.Len()-1))
}

// SelectPrev moves the selection up by one entry.
func (w *Widget) SelectPrev() *Widget {
	if w.list.Len() == 0 {
		return w
	}
	return w.Select(max(w.selected-1, 0))
}

// ToggleSelected collapses or expands the selected entry's group when
// the selection is on a header. It reports whether anything changed.
func (w *Widget) ToggleSelected() bool {
	entry, ok := w.list.EntryAt(w.selected)
	if !ok || entry.Kind != recyclerview.KindHeader {
		return false
	}
	w.list.SetCollapsed(entry.GroupKey, !w.list.IsCollapsed(entry.GroupKey))
	return true
}

func (w *Widget) ensureVisible(index int) {
	rect := w.list.LayoutFor(index)
	top := int(rect.MainOffset)
	bottom := top + int(rect.MainSize)
	switch {
	case top < w.scrollRow:
		w.ScrollTo(top)
	case bottom > w.scrollRow+w.height:
		w.ScrollTo(bottom - w.height)
	}
}

func (w *Widget) pageSize() int {
	return max(w.height-1, 1)
}

func (w *Widget) clampScroll() bool {
	content, _ := w.list.ContentExtent()
	row := min(max(w.scrollRow, 0), max(int(content)-w.height, 0))
	if row == w.scrollRow {
		return false
	}
	w.scrollRow = row
	return true
}

// Draw draws the widget onto the screen.
func (w *Widget) Draw(screen tcell.Screen) {
	if w.width <= 0 || w.height <= 0 || w.renderer == nil {
		return
	}
	contentWidth := w.width
	if w.scrollBar {
		contentWidth--
	}
	if contentWidth <= 0 {
		return
	}

	w.list.SetContainerExtent(float64(w.height), float64(contentWidth))

	w.scrollRow += w.pending
	w.pending = 0
	w.clampScroll()
	w.list.SetScrollPosition(float64(w.scrollRow), float64(w.height))

	// Measure the window, and when heights change, re-derive it so
	// entries scrolled in by the shift get measured too.
	start, end := w.list.VisibleRange(float64(w.overscan))
	for pass := 0; pass < measurePasses && start >= 0; pass++ {
		if !w.measure(start, end, contentWidth) {
			break
		}
		start, end = w.list.VisibleRange(float64(w.overscan))
	}
	if w.clampScroll() {
		w.list.SetScrollPosition(float64(w.scrollRow), float64(w.height))
		start, end = w.list.VisibleRange(float64(w.overscan))
	}

	w.reconcile(start, end)

	// Full width, so the scroll bar column is clean when no bar is drawn.
	newClipRegion(screen, w.x, w.y, w.width, w.height).fill(w.styles.Background)
	if start >= 0 {
		for i := start; i <= end; i++ {
			w.drawEntry(screen, i, contentWidth)
		}
	}
	if w.stickyHeaders {
		w.drawStickyHeader(screen, contentWidth)
	}
	if w.scrollBar {
		content, _ := w.list.ContentExtent()
		w.drawScrollBar(screen, w.x+w.width-1, w.y, w.height, content, float64(w.height), float64(w.scrollRow))
	}
}

// measure feeds renderer heights for the given window back into the
// list. It reports whether any height differed from the current layout.
func (w *Widget) measure(start, end, width int) bool {
	changed := false
	for i := start; i <= end; i++ {
		entry, ok := w.list.EntryAt(i)
		if !ok {
			continue
		}
		h := max(w.renderer.Height(entry, width), 1)
		if float64(h) == w.list.LayoutFor(i).MainSize {
			continue
		}
		w.list.RecordMeasurement(entry.Key, recyclerview.Rect{
			MainSize:  float64(h),
			CrossSize: float64(width),
		})
		changed = true
	}
	return changed
}

// reconcile releases slots that left the window and acquires slots for
// entries that entered it.
func (w *Widget) reconcile(start, end int) {
	if gen := w.list.Generation(); gen != w.cellGen {
		// Flat indices mean different entries after a rebuild.
		for _, cell := range w.cells {
			w.list.Release(cell)
		}
		clear(w.cells)
		w.cellGen = gen
	}
	for i, cell := range w.cells {
		if start < 0 || i < start || i > end {
			w.list.Release(cell)
			delete(w.cells, i)
		}
	}
	if start < 0 {
		return
	}
	for i := start; i <= end; i++ {
		if _, ok := w.cells[i]; ok {
			continue
		}
		if cell := w.list.GetOrCreate(i); cell != nil {
			w.cells[i] = cell
		}
	}
}

func (w *Widget) drawEntry(screen tcell.Screen, i, contentWidth int) {
	entry, ok := w.list.EntryAt(i)
	if !ok {
		return
	}
	rect := w.list.LayoutFor(i)
	rowY := w.y + int(rect.MainOffset) - w.scrollRow
	rowH := int(rect.MainSize)
	bandTop := max(rowY, w.y)
	bandBottom := min(rowY+rowH, w.y+w.height)
	if bandBottom <= bandTop {
		return
	}
	region := newClipRegion(screen, w.x, bandTop, contentWidth, bandBottom-bandTop)
	w.renderer.Draw(region, entry, w.cells[i], w.x, rowY, contentWidth, rowH, i == w.selected)
}

func (w *Widget) drawStickyHeader(screen tcell.Screen, contentWidth int) {
	hi := w.list.StickyHeaderFor(float64(w.scrollRow))
	if hi < 0 {
		return
	}
	rect := w.list.LayoutFor(hi)
	if int(rect.MainOffset) >= w.scrollRow {
		// The live header row is still at or below the viewport top.
		return
	}
	entry, ok := w.list.EntryAt(hi)
	if !ok {
		return
	}
	bandH := min(int(rect.MainSize), w.height)

	// The next group's header pushes the pinned band up as it approaches
	// the top of the viewport.
	pinY := w.y
	if b, ok := w.list.Flattener().Boundary(entry.Group + 1); ok {
		nextTop := w.y + int(w.list.LayoutFor(b.HeaderFlatIndex).MainOffset) - w.scrollRow
		if nextTop < pinY+bandH {
			pinY = nextTop - bandH
		}
	}
	visibleH := pinY + bandH - w.y
	if visibleH <= 0 {
		return
	}

	region := newClipRegion(screen, w.x, w.y, contentWidth, visibleH)
	region.fill(w.styles.StickyHeader)
	w.renderer.Draw(region, entry, nil, w.x, pinY, contentWidth, bandH, false)
}

// HandleKey processes a key event and reports whether it was consumed.
func (w *Widget) HandleKey(event *tcell.EventKey) bool {
	w.list.RecordInteraction()
	switch event.Key() {
	case tcell.KeyDown:
		w.SelectNext()
		return true
	case tcell.KeyUp:
		w.SelectPrev()
		return true
	case tcell.KeyPgDn:
		w.ScrollBy(w.pageSize())
		return true
	case tcell.KeyPgUp:
		w.ScrollBy(-w.pageSize())
		return true
	case tcell.KeyHome:
		w.ScrollToStart()
		return true
	case tcell.KeyEnd:
		w.ScrollToEnd()
		return true
	case tcell.KeyEnter:
		return w.ToggleSelected()
	case tcell.KeyRune:
		switch event.Str() {
		case "j":
			w.SelectNext()
			return true
		case "k":
			w.SelectPrev()
			return true
		case " ":
			return w.ToggleSelected()
		}
	}
	return false
}

// HandleMouse processes a mouse event and reports whether it was
// consumed. Wheel events scroll; a primary click selects, and on a
// header it also toggles the group's collapse state.
func (w *Widget) HandleMouse(event *tcell.EventMouse) bool {
	x, y := event.Position()
	if !w.InRect(x, y) {
		return false
	}
	w.list.RecordInteraction()

	buttons := event.Buttons()
	clicked := buttons&tcell.ButtonPrimary != 0 && w.lastButtons&tcell.ButtonPrimary == 0
	w.lastButtons = buttons

	switch {
	case buttons&tcell.WheelUp != 0:
		w.ScrollBy(-3)
		return true
	case buttons&tcell.WheelDown != 0:
		w.ScrollBy(3)
		return true
	case clicked:
		if index := w.IndexAt(x, y); index >= 0 {
			w.Select(index)
			w.ToggleSelected()
		}
		return true
	}
	return false
}

// IndexAt returns the flat index of the entry under the given screen
// coordinates, -1 when the point misses the widget or any entry.
func (w *Widget) IndexAt(x, y int) int {
	if !w.InRect(x, y) {
		return -1
	}
	return w.list.IndexForOffset(float64(w.scrollRow + y - w.y))
}

// Dispose releases every slot the widget holds. The list stays usable;
// call this when the widget is removed from the screen.
func (w *Widget) Dispose() {
	for _, cell := range w.cells {
		w.list.Release(cell)
	}
	clear(w.cells)
}

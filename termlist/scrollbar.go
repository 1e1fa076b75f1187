package termlist

import "github.com/gdamore/tcell/v3"

const subcell = 8

// thumbGlyphs hold the track symbol and the fractional block glyphs used
// for the thumb's partial end cells. Lower eighths grow up from the
// bottom of a cell, upper eighths hang from its top; only standard
// unicode symbols are used.
type thumbGlyphs struct {
	track string
	lower [8]string
	upper [8]string
}

func defaultThumbGlyphs() thumbGlyphs {
	return thumbGlyphs{
		track: "│",
		lower: [8]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"},
		upper: [8]string{"▔", "▔", "▀", "▀", "▀", "▀", "█", "█"},
	}
}

type scrollMetrics struct {
	trackCells int
	trackLen   int
	thumbLen   int
	thumbStart int
}

// computeScrollMetrics maps the engine's float geometry onto a track of
// whole cells measured in subcell units, so the thumb moves in 1/8-cell
// steps while staying proportional to viewport over content.
func computeScrollMetrics(trackCells int, contentExtent, viewportExtent, offset float64) scrollMetrics {
	trackLen := trackCells * subcell
	if trackLen <= 0 {
		return scrollMetrics{}
	}

	if contentExtent < 1 {
		contentExtent = 1
	}
	if viewportExtent < 1 {
		viewportExtent = 1
	}
	if viewportExtent > contentExtent {
		viewportExtent = contentExtent
	}
	maxOffset := contentExtent - viewportExtent
	if offset < 0 {
		offset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}

	if maxOffset == 0 {
		return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: trackLen}
	}

	thumbLen := min(max(int(float64(trackLen)*viewportExtent/contentExtent), subcell), trackLen)
	thumbTravel := max(trackLen-thumbLen, 0)
	thumbStart := int(float64(thumbTravel) * offset / maxOffset)
	return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: thumbLen, thumbStart: thumbStart}
}

// cellFill returns the thumb's coverage of one track cell as a cell-local
// start and length in subcell units.
func cellFill(m scrollMetrics, cellIndex int) (start, fillLen int) {
	if m.thumbLen == 0 {
		return 0, 0
	}
	cellStart := cellIndex * subcell
	cellEnd := cellStart + subcell
	thumbEnd := m.thumbStart + m.thumbLen
	start = max(m.thumbStart, cellStart)
	end := min(thumbEnd, cellEnd)
	if end <= start {
		return 0, 0
	}
	fillLen = min(end-start, subcell)
	start = min(max(start-cellStart, 0), subcell)
	return start, fillLen
}

func (w *Widget) scrollGlyph(start, fillLen int) (string, tcell.Style) {
	if fillLen <= 0 {
		return w.glyphs.track, w.styles.ScrollTrack
	}
	if fillLen >= subcell {
		return w.glyphs.lower[7], w.styles.ScrollThumb
	}
	ix := fillLen - 1
	if start == 0 {
		return w.glyphs.upper[ix], w.styles.ScrollThumb
	}
	return w.glyphs.lower[ix], w.styles.ScrollThumb
}

func (w *Widget) drawScrollBar(screen tcell.Screen, x, y, height int, contentExtent, viewportExtent, offset float64) {
	m := computeScrollMetrics(height, contentExtent, viewportExtent, offset)
	if m.trackLen == 0 || contentExtent <= viewportExtent {
		return
	}
	for cell := 0; cell < m.trackCells; cell++ {
		start, fillLen := cellFill(m, cell)
		glyph, style := w.scrollGlyph(start, fillLen)
		screen.Put(x, y+cell, glyph, style)
	}
}

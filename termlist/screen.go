package termlist

import (
	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

// clipRegion bounds drawing to a rectangle of the underlying screen.
// Renderers receive one scoped to their entry's visible row band, so
// overdraw cannot leak into neighboring entries or the scroll bar
// column. Methods not overridden here pass through.
type clipRegion struct {
	tcell.Screen
	x0, y0 int // inclusive
	x1, y1 int // exclusive
}

func newClipRegion(screen tcell.Screen, x, y, width, height int) *clipRegion {
	return &clipRegion{Screen: screen, x0: x, y0: y, x1: x + width, y1: y + height}
}

func (s *clipRegion) contains(x, y int) bool {
	return x >= s.x0 && x < s.x1 && y >= s.y0 && y < s.y1
}

// fill paints the whole region with spaces in the given style.
func (s *clipRegion) fill(style tcell.Style) {
	for y := s.y0; y < s.y1; y++ {
		for x := s.x0; x < s.x1; x++ {
			s.Screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func (s *clipRegion) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	if !s.contains(x, y) {
		return
	}
	s.Screen.SetContent(x, y, primary, combining, style)
}

func (s *clipRegion) Put(x int, y int, str string, style tcell.Style) (string, int) {
	if !s.contains(x, y) {
		return str, 0
	}
	return s.Screen.Put(x, y, str, style)
}

func (s *clipRegion) PutStr(x int, y int, str string) {
	s.PutStrStyled(x, y, str, tcell.StyleDefault)
}

// PutStrStyled writes str left to right, dropping grapheme clusters that
// do not fit entirely inside the region. Clusters are never split, so a
// wide glyph at the edge disappears rather than rendering half of it.
func (s *clipRegion) PutStrStyled(x int, y int, str string, style tcell.Style) {
	if y < s.y0 || y >= s.y1 {
		return
	}
	for gr := uniseg.NewGraphemes(str); gr.Next(); {
		cluster := gr.Str()
		cw := max(uniseg.StringWidth(cluster), 1)
		switch {
		case x >= s.x1:
			return
		case x >= s.x0 && x+cw <= s.x1:
			s.Screen.Put(x, y, cluster, style)
		}
		x += cw
	}
}

func (s *clipRegion) ShowCursor(x int, y int) {
	if !s.contains(x, y) {
		s.Screen.ShowCursor(-1, -1)
		return
	}
	s.Screen.ShowCursor(x, y)
}

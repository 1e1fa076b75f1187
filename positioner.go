package recyclerview

import (
	"math"
	"sort"
)

// DefaultEstimatedSize is the fallback main-axis size for entries that have
// no measurement and whose type has no samples yet. Hosts working in units
// where 50 is unreasonable (terminal rows, say) should call
// [Positioner.SetDefaultEstimate].
const DefaultEstimatedSize = 50

// Rect is an entry's layout slice along the scroll axis. MainOffset and
// MainSize run along the scroll axis; CrossOffset and CrossSize across it.
type Rect struct {
	MainOffset  float64
	CrossOffset float64
	MainSize    float64
	CrossSize   float64
}

// MainEnd returns the offset just past the entry.
func (r Rect) MainEnd() float64 {
	return r.MainOffset + r.MainSize
}

// Positioner lays the flat sequence out along the scroll axis. Offsets are
// prefix sums over per-entry sizes, memoized as a valid prefix: a mutation
// at index i discards only offsets at and after i, and the next query
// recomputes the missing suffix in one pass. Every entry's size resolves as
// its measured size if the cache has one, else its type's running average,
// else the default estimate.
type Positioner struct {
	cache   *MeasureCache
	entries []FlatEntry

	// rects[:valid] hold current offsets; the rest is stale and gets
	// recomputed on demand.
	rects []Rect
	valid int

	mainExtent  float64
	crossExtent float64
	estimate    float64
}

// NewPositioner returns a positioner resolving sizes through cache. A nil
// cache allocates a private one.
func NewPositioner(cache *MeasureCache) *Positioner {
	if cache == nil {
		cache = NewMeasureCache()
	}
	return &Positioner{cache: cache, estimate: DefaultEstimatedSize}
}

// Cache returns the measurement cache the positioner resolves sizes through.
func (p *Positioner) Cache() *MeasureCache {
	return p.cache
}

// SetData replaces the flat sequence and invalidates every offset.
func (p *Positioner) SetData(entries []FlatEntry) {
	p.entries = entries
	if cap(p.rects) >= len(entries) {
		p.rects = p.rects[:len(entries)]
	} else {
		p.rects = make([]Rect, len(entries))
	}
	p.valid = 0
}

// SetContainerExtent sets the container's main and cross extent. A change
// invalidates every offset, since cross extent feeds every produced rect.
func (p *Positioner) SetContainerExtent(main, cross float64) {
	if p.mainExtent == main && p.crossExtent == cross {
		return
	}
	p.mainExtent = main
	p.crossExtent = cross
	p.valid = 0
}

// SetDefaultEstimate sets the fallback size for unmeasured entries of types
// with no samples. A change invalidates every offset.
func (p *Positioner) SetDefaultEstimate(size float64) {
	size = math.Max(size, 0)
	if p.estimate == size {
		return
	}
	p.estimate = size
	p.valid = 0
}

// Count returns the number of entries in the current sequence.
func (p *Positioner) Count() int {
	return len(p.entries)
}

// EntryAt returns the entry at index i.
func (p *Positioner) EntryAt(i int) (FlatEntry, bool) {
	if i < 0 || i >= len(p.entries) {
		return FlatEntry{}, false
	}
	return p.entries[i], true
}

// sizeFor resolves the main-axis size for the entry at i. Sizes clamp at
// zero so offsets stay non-decreasing, which the range queries depend on.
func (p *Positioner) sizeFor(i int) float64 {
	entry := &p.entries[i]
	if rect, ok := p.cache.Get(entry.Key); ok {
		return math.Max(rect.MainSize, 0)
	}
	if avg, ok := p.cache.AverageSize(entry.Type); ok {
		return math.Max(avg, 0)
	}
	return p.estimate
}

// materialize extends the valid prefix through index upTo.
func (p *Positioner) materialize(upTo int) {
	if upTo >= len(p.entries) {
		upTo = len(p.entries) - 1
	}
	if p.valid > upTo {
		return
	}
	offset := 0.0
	if p.valid > 0 {
		offset = p.rects[p.valid-1].MainEnd()
	}
	for i := p.valid; i <= upTo; i++ {
		size := p.sizeFor(i)
		p.rects[i] = Rect{
			MainOffset: offset,
			MainSize:   size,
			CrossSize:  p.crossExtent,
		}
		offset += size
	}
	p.valid = upTo + 1
}

// LayoutFor returns the layout rect for index i. Out-of-range indices
// return the zero Rect rather than failing; callers probing boundaries
// should check i against Count first.
func (p *Positioner) LayoutFor(i int) Rect {
	if i < 0 || i >= len(p.entries) {
		return Rect{}
	}
	p.materialize(i)
	return p.rects[i]
}

// ContentExtent returns the total extent of the laid-out sequence: the sum
// of every entry's main-axis size, and the container's cross extent.
func (p *Positioner) ContentExtent() (main, cross float64) {
	if len(p.entries) == 0 {
		return 0, p.crossExtent
	}
	p.materialize(len(p.entries) - 1)
	return p.rects[len(p.entries)-1].MainEnd(), p.crossExtent
}

// VisibleRange returns the inclusive index range intersecting the window
// [scrollOffset-overscan, scrollOffset+viewportExtent+overscan). Both edges
// are half-open on the outer side: an entry whose end sits exactly on the
// lower bound is excluded, as is one whose start sits exactly on the upper
// bound. Returns (-1, -1) when no entry intersects the window.
func (p *Positioner) VisibleRange(scrollOffset, viewportExtent, overscan float64) (start, end int) {
	n := len(p.entries)
	if n == 0 {
		return -1, -1
	}
	p.materialize(n - 1)

	lower := scrollOffset - overscan
	upper := scrollOffset + viewportExtent + overscan

	// First entry whose end exceeds the lower bound.
	start = sort.Search(n, func(i int) bool {
		return p.rects[i].MainEnd() > lower
	})
	// First entry whose start reaches the upper bound; everything before it
	// still starts inside the window.
	cut := sort.Search(n, func(i int) bool {
		return p.rects[i].MainOffset >= upper
	})
	end = cut - 1

	if start >= n || end < start {
		return -1, -1
	}
	return start, end
}

// IndexForOffset returns the index of the entry covering offset: the first
// entry whose end exceeds it. Returns -1 when offset is at or past the end
// of the content.
func (p *Positioner) IndexForOffset(offset float64) int {
	n := len(p.entries)
	if n == 0 {
		return -1
	}
	p.materialize(n - 1)
	i := sort.Search(n, func(i int) bool {
		return p.rects[i].MainEnd() > offset
	})
	if i >= n {
		return -1
	}
	return i
}

// UpdateItemLayout records rect as the measured layout for the entry at
// index i: the type average learns rect's main size, the rect is stored
// under the entry's stable key, and offsets from i onward are invalidated.
// Offsets strictly before i are left untouched, which keeps corrections
// near the viewport cheap during scrolling.
func (p *Positioner) UpdateItemLayout(i int, rect Rect) {
	if i < 0 || i >= len(p.entries) {
		return
	}
	entry := &p.entries[i]
	p.cache.RecordMeasurement(entry.Type, rect.MainSize)
	p.cache.Set(entry.Key, rect)
	p.InvalidateFrom(i)
}

// InvalidateFrom discards cached offsets at and after index i.
func (p *Positioner) InvalidateFrom(i int) {
	if i < 0 {
		i = 0
	}
	if i < p.valid {
		p.valid = i
	}
}

// InvalidateAll discards every cached offset.
func (p *Positioner) InvalidateAll() {
	p.valid = 0
}

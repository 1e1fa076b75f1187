package recyclerview

import (
	"go.uber.org/zap"
)

// List wires the engine's components behind one facade: grouped data goes
// in, layout queries, recyclable cells, and viewability notifications come
// out. A List owns its measurement cache, positioner, flattener, pool, and
// a TurnScheduler for the viewability debounce; hosts that drive rendering
// per frame call Flush once per turn to run coalesced passes.
//
// A List is single-consumer like its parts. All methods must be called
// from the same goroutine.
type List struct {
	cache      *MeasureCache
	positioner *Positioner
	flattener  *Flattener
	pool       *Pool
	sched      *TurnScheduler
	trackers   []*Viewability

	scrollOffset   float64
	viewportExtent float64

	endReached          func()
	endReachedThreshold float64
	// Content extent at the last end-reached fire. Fires again only when
	// the extent has changed since, so growth re-arms the callback.
	lastFiredExtent float64

	logger *zap.Logger
}

// NewList returns an empty list.
func NewList() *List {
	cache := NewMeasureCache()
	positioner := NewPositioner(cache)
	return &List{
		cache:           cache,
		positioner:      positioner,
		flattener:       NewFlattener(positioner),
		pool:            NewPool(),
		sched:           NewTurnScheduler(),
		lastFiredExtent: -1,
		logger:          zap.NewNop(),
	}
}

// SetLogger sets the list's logger and propagates named children to the
// components.
func (l *List) SetLogger(logger *zap.Logger) *List {
	if logger == nil {
		logger = zap.NewNop()
	}
	l.logger = logger
	l.flattener.SetLogger(logger.Named("flatten"))
	l.pool.SetLogger(logger.Named("pool"))
	for _, v := range l.trackers {
		v.SetLogger(logger.Named("viewability"))
	}
	return l
}

// Cache returns the measurement cache.
func (l *List) Cache() *MeasureCache {
	return l.cache
}

// Positioner returns the layout component.
func (l *List) Positioner() *Positioner {
	return l.positioner
}

// Flattener returns the grouping component.
func (l *List) Flattener() *Flattener {
	return l.flattener
}

// Pool returns the cell pool.
func (l *List) Pool() *Pool {
	return l.pool
}

// Scheduler returns the scheduler viewability passes run on. Hosts pump it
// via Flush.
func (l *List) Scheduler() *TurnScheduler {
	return l.sched
}

// SetGroups replaces the list's data. The replacement is refused, with the
// list unchanged, when two entries would share a stable key; the error
// names both colliding paths.
func (l *List) SetGroups(groups []Group) error {
	if err := ValidateGroups(groups); err != nil {
		l.logger.Warn("rejected group replacement", zap.Error(err))
		return err
	}
	l.flattener.SetGroups(groups)
	l.lastFiredExtent = -1
	for _, v := range l.trackers {
		v.NoteDataReplaced()
	}
	l.checkEndReached()
	return nil
}

// SetCollapsed collapses or expands a group by key and reports whether the
// state changed.
func (l *List) SetCollapsed(groupKey string, collapsed bool) bool {
	if !l.flattener.SetCollapsed(groupKey, collapsed) {
		return false
	}
	for _, v := range l.trackers {
		v.NoteDataReplaced()
	}
	return true
}

// IsCollapsed reports whether the group with the given key is collapsed.
func (l *List) IsCollapsed(groupKey string) bool {
	return l.flattener.IsCollapsed(groupKey)
}

// SetFooters enables or disables footer entries.
func (l *List) SetFooters(enabled bool) {
	if l.flattener.Footers() == enabled {
		return
	}
	l.flattener.SetFooters(enabled)
	for _, v := range l.trackers {
		v.NoteDataReplaced()
	}
}

// SetContainerExtent sets the container's main and cross extent. The main
// extent also seeds the viewability viewport until the first
// SetScrollPosition.
func (l *List) SetContainerExtent(main, cross float64) {
	l.positioner.SetContainerExtent(main, cross)
	if l.viewportExtent == 0 {
		l.viewportExtent = main
	}
	for _, v := range l.trackers {
		v.NoteViewport(l.viewportExtent)
	}
}

// SetScrollPosition records the host's scroll state for this frame and
// feeds it to the attached viewability trackers and the end-reached check.
func (l *List) SetScrollPosition(offset, viewportExtent float64) {
	l.scrollOffset = offset
	l.viewportExtent = viewportExtent
	for _, v := range l.trackers {
		v.NoteScroll(offset)
		v.NoteViewport(viewportExtent)
	}
	l.checkEndReached()
}

// VisibleRange returns the inclusive entry range intersecting the current
// viewport widened by overscan on both sides, (-1, -1) when empty.
func (l *List) VisibleRange(overscan float64) (start, end int) {
	return l.positioner.VisibleRange(l.scrollOffset, l.viewportExtent, overscan)
}

// LayoutFor returns the layout rect for a flat index.
func (l *List) LayoutFor(i int) Rect {
	return l.positioner.LayoutFor(i)
}

// ContentExtent returns the laid-out content's main and cross extent.
func (l *List) ContentExtent() (main, cross float64) {
	return l.positioner.ContentExtent()
}

// IndexForOffset returns the index of the entry covering a main-axis
// offset, -1 past the end.
func (l *List) IndexForOffset(offset float64) int {
	return l.positioner.IndexForOffset(offset)
}

// Len returns the flat sequence length.
func (l *List) Len() int {
	return l.flattener.Len()
}

// EntryAt returns the flat entry at index i.
func (l *List) EntryAt(i int) (FlatEntry, bool) {
	return l.flattener.EntryAt(i)
}

// FlatIndexOf maps group and record position to a flat index, -1 when not
// currently materialized. A record index of -1 addresses the group's
// header.
func (l *List) FlatIndexOf(groupIndex, recordIndex int) int {
	return l.flattener.FlatIndexOf(groupIndex, recordIndex)
}

// CoordinatesOf maps a flat index back to source coordinates.
func (l *List) CoordinatesOf(flatIndex int) Coordinates {
	return l.flattener.CoordinatesOf(flatIndex)
}

// BoundaryFor returns the flat-sequence boundary of a group by key.
func (l *List) BoundaryFor(groupKey string) (GroupBoundary, bool) {
	return l.flattener.BoundaryFor(groupKey)
}

// BoundaryAtOffset returns the boundary of the group spanning a main-axis
// offset.
func (l *List) BoundaryAtOffset(offset float64) (GroupBoundary, bool) {
	return l.flattener.BoundaryAtOffset(offset)
}

// GetOrCreate returns a cell for the entry at flatIndex, recycling one of
// the entry's type when available.
func (l *List) GetOrCreate(flatIndex int) *Cell {
	entry, ok := l.flattener.EntryAt(flatIndex)
	if !ok {
		return nil
	}
	return l.pool.GetOrCreate(entry.Type, flatIndex)
}

// Release returns a cell to the pool.
func (l *List) Release(cell *Cell) {
	l.pool.Release(cell)
}

// PoolStats returns the per-type cell population.
func (l *List) PoolStats() map[RecordType]PoolStat {
	return l.pool.Stats()
}

// RecordMeasurement stores a measured layout for the entry with the given
// stable key. Measurements for keys not in the current projection are
// dropped; keys outlive index churn, so a late measurement either still
// applies or no longer matters.
func (l *List) RecordMeasurement(key string, rect Rect) {
	i := l.flattener.IndexOfKey(key)
	if i < 0 {
		l.logger.Debug("dropped measurement for unknown key", zap.String("key", key))
		return
	}
	l.positioner.UpdateItemLayout(i, rect)
}

// UpdateItemLayoutAt stores a measured layout by flat index. The index is
// only meaningful against the projection it was read from, so the call
// carries the generation it observed and is dropped when the projection
// has been rebuilt since.
func (l *List) UpdateItemLayoutAt(gen uint64, index int, rect Rect) {
	if gen != l.flattener.Generation() {
		l.logger.Debug("dropped stale measurement",
			zap.Uint64("generation", gen),
			zap.Uint64("current", l.flattener.Generation()),
			zap.Int("index", index))
		return
	}
	l.positioner.UpdateItemLayout(index, rect)
}

// Generation returns the current projection generation.
func (l *List) Generation() uint64 {
	return l.flattener.Generation()
}

// RecordInteraction reports a user interaction to the attached viewability
// trackers.
func (l *List) RecordInteraction() {
	for _, v := range l.trackers {
		v.RecordInteraction()
	}
}

// Viewability attaches a tracker with the given configuration and returns
// it. The tracker shares the list's scheduler, inherits its current scroll
// state, and runs an immediate pass so dwell starts counting at attach.
// Multiple trackers with different configurations may be attached.
func (l *List) Viewability(config ViewabilityConfig) *Viewability {
	v := NewViewability(l.positioner, config, l.sched).
		SetLogger(l.logger.Named("viewability"))
	v.scrollOffset = l.scrollOffset
	v.viewportExtent = l.viewportExtent
	l.trackers = append(l.trackers, v)
	v.Recompute()
	return v
}

// Flush runs the scheduled viewability passes. Hosts call it once per
// event-loop turn or frame.
func (l *List) Flush() {
	l.sched.Flush()
}

// Dispose tears down the attached viewability trackers.
func (l *List) Dispose() {
	for _, v := range l.trackers {
		v.Dispose()
	}
	l.trackers = nil
}

// OffsetForIndex returns the scroll offset that places the entry at index
// according to viewPosition: 0 aligns its start with the viewport start,
// 1 aligns its end with the viewport end, 0.5 centers it. The result is
// clamped to the scrollable range. Invalid indices return 0.
func (l *List) OffsetForIndex(index int, viewPosition float64) float64 {
	if index < 0 || index >= l.flattener.Len() {
		return 0
	}
	viewPosition = clampFraction(viewPosition)
	rect := l.positioner.LayoutFor(index)
	target := rect.MainOffset - viewPosition*(l.viewportExtent-rect.MainSize)

	content, _ := l.positioner.ContentExtent()
	limit := content - l.viewportExtent
	if limit < 0 {
		limit = 0
	}
	if target > limit {
		target = limit
	}
	if target < 0 {
		target = 0
	}
	return target
}

// StickyHeaderFor returns the flat index of the header whose group spans
// the given offset, -1 when none. Hosts draw that entry pinned over the
// viewport start.
func (l *List) StickyHeaderFor(offset float64) int {
	b, ok := l.flattener.BoundaryAtOffset(offset)
	if !ok {
		return -1
	}
	return b.HeaderFlatIndex
}

// SetEndReachedFunc sets the callback fired when the remaining content
// below the viewport drops to the threshold. It fires at most once per
// content extent and re-arms when the extent changes or the data is
// replaced.
func (l *List) SetEndReachedFunc(fn func()) *List {
	l.endReached = fn
	return l
}

// SetEndReachedThreshold sets the remaining-distance threshold for the
// end-reached callback.
func (l *List) SetEndReachedThreshold(d float64) *List {
	if d < 0 {
		d = 0
	}
	l.endReachedThreshold = d
	return l
}

func (l *List) checkEndReached() {
	if l.endReached == nil || l.flattener.Len() == 0 {
		return
	}
	content, _ := l.positioner.ContentExtent()
	if content == l.lastFiredExtent {
		return
	}
	remaining := content - (l.scrollOffset + l.viewportExtent)
	if remaining > l.endReachedThreshold {
		return
	}
	l.lastFiredExtent = content
	l.endReached()
}

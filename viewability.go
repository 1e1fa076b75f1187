package recyclerview

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// ViewabilityConfig controls when an on-screen entry counts as viewable.
// The fraction thresholds are in [0, 1] and each applies only when
// positive; with both zero, any positive overlap with the viewport
// qualifies. Values outside the range are clamped at construction.
type ViewabilityConfig struct {
	// MinViewTime is how long an entry must keep qualifying before it is
	// confirmed viewable. Zero confirms on the first qualifying pass.
	MinViewTime time.Duration

	// ItemVisibleFraction is the minimum visible share of the entry's own
	// extent: overlap divided by entry size.
	ItemVisibleFraction float64

	// ViewAreaCoverageFraction is the minimum share of the viewport the
	// entry must cover: overlap divided by viewport extent.
	ViewAreaCoverageFraction float64

	// WaitForInteraction suppresses all confirmations until the host
	// reports a user interaction.
	WaitForInteraction bool
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// trackedEntry is the per-index dwell state. An entry becomes a candidate
// on its first qualifying pass and is confirmed once it has kept
// qualifying for MinViewTime.
type trackedEntry struct {
	flatIndex      int
	confirmed      bool
	candidateSince time.Time
	lastSeen       time.Time
}

type viewSub struct {
	fn func(entered, exited []int)
}

// Viewability tracks which entries of the flat sequence count as seen.
// It consumes scroll and viewport notes, coalesces them through its
// scheduler into at most one pass per turn, and notifies subscribers with
// index deltas only: entries confirmed since the last pass and confirmed
// entries that stopped qualifying. A pass that changes nothing notifies
// nobody.
//
// Dwell is evaluated at pass time against the injected clock. There are
// no internal timers: a candidate short of MinViewTime is confirmed by
// whichever later pass finds it still qualifying, so hosts that need
// dwell promotion without input events should drive Recompute from their
// frame loop.
type Viewability struct {
	positioner *Positioner
	config     ViewabilityConfig
	sched      Scheduler
	now        func() time.Time

	scrollOffset   float64
	viewportExtent float64
	interacted     bool
	resetPending   bool

	tracked map[int]*trackedEntry
	subs    []*viewSub

	pendingCancel func()
	scheduled     bool
	disposed      bool

	logger *zap.Logger
}

// NewViewability returns a tracker over the positioner's laid-out
// sequence. A nil scheduler runs passes synchronously on every trigger.
func NewViewability(positioner *Positioner, config ViewabilityConfig, sched Scheduler) *Viewability {
	if sched == nil {
		sched = immediateScheduler{}
	}
	config.ItemVisibleFraction = clampFraction(config.ItemVisibleFraction)
	config.ViewAreaCoverageFraction = clampFraction(config.ViewAreaCoverageFraction)
	return &Viewability{
		positioner: positioner,
		config:     config,
		sched:      sched,
		now:        time.Now,
		tracked:    map[int]*trackedEntry{},
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger used for pass results.
func (v *Viewability) SetLogger(logger *zap.Logger) *Viewability {
	if logger == nil {
		logger = zap.NewNop()
	}
	v.logger = logger
	return v
}

// SetNowFunc replaces the clock used for dwell evaluation.
func (v *Viewability) SetNowFunc(now func() time.Time) *Viewability {
	if now != nil {
		v.now = now
	}
	return v
}

// Config returns the tracker's configuration with fractions clamped.
func (v *Viewability) Config() ViewabilityConfig {
	return v.config
}

// Subscribe registers fn for delta notifications and returns its
// unsubscribe function. Deltas are sorted ascending. The same fn value
// may be subscribed more than once; each subscription is independent.
func (v *Viewability) Subscribe(fn func(entered, exited []int)) (unsubscribe func()) {
	sub := &viewSub{fn: fn}
	v.subs = append(v.subs, sub)
	return func() {
		for i, s := range v.subs {
			if s == sub {
				v.subs = append(v.subs[:i], v.subs[i+1:]...)
				return
			}
		}
	}
}

// NoteScroll records a new scroll offset and schedules a pass on change.
func (v *Viewability) NoteScroll(offset float64) {
	if v.disposed || v.scrollOffset == offset {
		return
	}
	v.scrollOffset = offset
	v.schedule()
}

// NoteViewport records a new viewport extent and schedules a pass on
// change.
func (v *Viewability) NoteViewport(extent float64) {
	if v.disposed || v.viewportExtent == extent {
		return
	}
	v.viewportExtent = extent
	v.schedule()
}

// NoteDataReplaced tells the tracker the flat sequence was rebuilt.
// Tracked state keyed by the old indices is discarded on the next pass,
// emitting exits for everything that was confirmed.
func (v *Viewability) NoteDataReplaced() {
	if v.disposed {
		return
	}
	v.resetPending = true
	v.schedule()
}

// RecordInteraction reports the first user interaction, lifting the
// WaitForInteraction gate.
func (v *Viewability) RecordInteraction() {
	if v.disposed || v.interacted {
		return
	}
	v.interacted = true
	v.schedule()
}

// Recompute runs a pass immediately, cancelling any pending one. It is
// the hook for frame-driven hosts promoting dwell candidates without new
// input.
func (v *Viewability) Recompute() {
	if v.disposed {
		return
	}
	if v.pendingCancel != nil {
		v.pendingCancel()
		v.pendingCancel = nil
		v.scheduled = false
	}
	v.runPass()
}

// Dispose cancels any pending pass and detaches all subscribers. The
// tracker emits nothing afterwards. Dispose is idempotent.
func (v *Viewability) Dispose() {
	if v.disposed {
		return
	}
	v.disposed = true
	if v.pendingCancel != nil {
		v.pendingCancel()
		v.pendingCancel = nil
	}
	v.subs = nil
	v.tracked = map[int]*trackedEntry{}
}

// VisibleIndices returns the confirmed-viewable indices in ascending
// order.
func (v *Viewability) VisibleIndices() []int {
	out := make([]int, 0, len(v.tracked))
	for i, tr := range v.tracked {
		if tr.confirmed {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// IsViewable reports whether the entry at flatIndex is confirmed
// viewable.
func (v *Viewability) IsViewable(flatIndex int) bool {
	tr, ok := v.tracked[flatIndex]
	return ok && tr.confirmed
}

// FirstVisible returns the lowest confirmed-viewable index, -1 when none.
func (v *Viewability) FirstVisible() int {
	first := -1
	for i, tr := range v.tracked {
		if tr.confirmed && (first == -1 || i < first) {
			first = i
		}
	}
	return first
}

// LastVisible returns the highest confirmed-viewable index, -1 when none.
func (v *Viewability) LastVisible() int {
	last := -1
	for i, tr := range v.tracked {
		if tr.confirmed && i > last {
			last = i
		}
	}
	return last
}

// schedule arranges a pass through the scheduler, coalescing triggers so
// a burst of notes within one turn runs a single pass.
func (v *Viewability) schedule() {
	if v.disposed || v.scheduled {
		return
	}
	v.scheduled = true
	v.pendingCancel = v.sched.Schedule(func() {
		v.scheduled = false
		v.pendingCancel = nil
		v.runPass()
	})
}

// qualifies reports whether the entry at flatIndex clears the overlap
// thresholds at the tracker's current scroll state.
func (v *Viewability) qualifies(flatIndex int) bool {
	rect := v.positioner.LayoutFor(flatIndex)
	visStart := rect.MainOffset
	if v.scrollOffset > visStart {
		visStart = v.scrollOffset
	}
	visEnd := rect.MainEnd()
	if windowEnd := v.scrollOffset + v.viewportExtent; windowEnd < visEnd {
		visEnd = windowEnd
	}
	overlap := visEnd - visStart
	if overlap <= 0 {
		return false
	}
	if f := v.config.ItemVisibleFraction; f > 0 && overlap < f*rect.MainSize {
		return false
	}
	if f := v.config.ViewAreaCoverageFraction; f > 0 && overlap < f*v.viewportExtent {
		return false
	}
	return true
}

// runPass reconciles the tracked set against what currently qualifies and
// emits the resulting deltas.
func (v *Viewability) runPass() {
	if v.disposed {
		return
	}
	now := v.now()

	var entered, exited []int

	if v.resetPending {
		v.resetPending = false
		for i, tr := range v.tracked {
			if tr.confirmed {
				exited = append(exited, i)
			}
		}
		v.tracked = map[int]*trackedEntry{}
	}

	qualifying := map[int]bool{}
	if !v.config.WaitForInteraction || v.interacted {
		start, end := v.positioner.VisibleRange(v.scrollOffset, v.viewportExtent, 0)
		if start >= 0 {
			for i := start; i <= end; i++ {
				if v.qualifies(i) {
					qualifying[i] = true
				}
			}
		}
	}

	for i, tr := range v.tracked {
		if qualifying[i] {
			continue
		}
		delete(v.tracked, i)
		if tr.confirmed {
			exited = append(exited, i)
		}
	}
	for i := range qualifying {
		tr, ok := v.tracked[i]
		if !ok {
			tr = &trackedEntry{flatIndex: i, candidateSince: now}
			v.tracked[i] = tr
		}
		tr.lastSeen = now
		if !tr.confirmed && now.Sub(tr.candidateSince) >= v.config.MinViewTime {
			tr.confirmed = true
			entered = append(entered, i)
		}
	}

	if len(entered) == 0 && len(exited) == 0 {
		return
	}
	sort.Ints(entered)
	sort.Ints(exited)

	v.logger.Debug("viewability changed",
		zap.Ints("entered", entered),
		zap.Ints("exited", exited))

	subs := make([]*viewSub, len(v.subs))
	copy(subs, v.subs)
	for _, sub := range subs {
		sub.fn(entered, exited)
	}
}

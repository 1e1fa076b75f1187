package recyclerview

import (
	"sort"

	"go.uber.org/zap"
)

// Coordinates locate a flat index back in the grouped source data.
// GroupIndex and RecordIndex are -1 when the flat index is out of range;
// RecordIndex is -1 for headers and footers.
type Coordinates struct {
	GroupIndex  int
	RecordIndex int
	IsHeader    bool
	IsFooter    bool
}

// GroupBoundary describes one group's span in the flat sequence. Flat
// index fields are -1 when the corresponding entry does not exist: a group
// with no visible records has FirstRecordFlatIndex and LastRecordFlatIndex
// -1, a group without a footer has FooterFlatIndex -1. RecordCount is the
// number of record entries actually present in the sequence, so it is 0
// for a collapsed group regardless of the source data.
type GroupBoundary struct {
	GroupIndex           int
	HeaderFlatIndex      int
	FirstRecordFlatIndex int
	LastRecordFlatIndex  int
	FooterFlatIndex      int
	RecordCount          int
}

// Flattener projects grouped data onto the flat sequence the positioner
// and pool work over. Each group contributes a header, its records unless
// the group is collapsed, and optionally a footer. Every mutation rebuilds
// the projection and bumps the generation counter, so positional results
// captured before a rebuild can be told apart from current ones.
type Flattener struct {
	positioner *Positioner

	groups    []Group
	collapsed map[string]bool
	footers   bool

	entries    []FlatEntry
	boundaries []GroupBoundary
	keyToIndex map[string]int
	generation uint64

	logger *zap.Logger
}

// NewFlattener returns a flattener feeding the given positioner. The
// positioner may be nil for callers that only need the projection.
func NewFlattener(positioner *Positioner) *Flattener {
	return &Flattener{
		positioner: positioner,
		collapsed:  map[string]bool{},
		keyToIndex: map[string]int{},
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger used for projection rebuilds.
func (f *Flattener) SetLogger(logger *zap.Logger) *Flattener {
	if logger == nil {
		logger = zap.NewNop()
	}
	f.logger = logger
	return f
}

// SetGroups replaces the source data and rebuilds the projection.
// Collapsed state is keyed by group key and survives the replacement.
func (f *Flattener) SetGroups(groups []Group) {
	f.groups = groups
	f.flatten()
}

// SetCollapsed marks the group with the given key collapsed or expanded
// and reports whether the state changed. The projection is rebuilt only on
// a change. Keys that match no current group are still recorded, so the
// state applies if such a group arrives later.
func (f *Flattener) SetCollapsed(groupKey string, collapsed bool) bool {
	if f.collapsed[groupKey] == collapsed {
		return false
	}
	if collapsed {
		f.collapsed[groupKey] = true
	} else {
		delete(f.collapsed, groupKey)
	}
	f.flatten()
	return true
}

// IsCollapsed reports whether the group with the given key is collapsed.
func (f *Flattener) IsCollapsed(groupKey string) bool {
	return f.collapsed[groupKey]
}

// SetFooters enables or disables footer entries and rebuilds the
// projection on a change.
func (f *Flattener) SetFooters(enabled bool) {
	if f.footers == enabled {
		return
	}
	f.footers = enabled
	f.flatten()
}

// Footers reports whether footer entries are enabled.
func (f *Flattener) Footers() bool {
	return f.footers
}

// Generation returns the projection generation. It increases on every
// rebuild and never repeats within a flattener.
func (f *Flattener) Generation() uint64 {
	return f.generation
}

// Entries returns the current flat sequence. The slice is replaced, not
// mutated, on rebuilds; callers may hold it across mutations and compare.
func (f *Flattener) Entries() []FlatEntry {
	return f.entries
}

// Len returns the length of the flat sequence.
func (f *Flattener) Len() int {
	return len(f.entries)
}

// EntryAt returns the flat entry at index i.
func (f *Flattener) EntryAt(i int) (FlatEntry, bool) {
	if i < 0 || i >= len(f.entries) {
		return FlatEntry{}, false
	}
	return f.entries[i], true
}

// FlatIndexOf returns the flat index of the entry addressed by group and
// record position in the source data. A recordIndex of -1 addresses the
// group's header, present whether or not the group is collapsed. It
// returns -1 when either index is out of range or when the group is
// collapsed, so its records have no flat position.
func (f *Flattener) FlatIndexOf(groupIndex, recordIndex int) int {
	if groupIndex < 0 || groupIndex >= len(f.boundaries) {
		return -1
	}
	b := &f.boundaries[groupIndex]
	if recordIndex == -1 {
		return b.HeaderFlatIndex
	}
	if recordIndex < 0 || recordIndex >= b.RecordCount {
		return -1
	}
	return b.FirstRecordFlatIndex + recordIndex
}

// CoordinatesOf maps a flat index back to source coordinates.
func (f *Flattener) CoordinatesOf(flatIndex int) Coordinates {
	if flatIndex < 0 || flatIndex >= len(f.entries) {
		return Coordinates{GroupIndex: -1, RecordIndex: -1}
	}
	e := &f.entries[flatIndex]
	return Coordinates{
		GroupIndex:  e.GroupIndex,
		RecordIndex: e.RecordIndex,
		IsHeader:    e.Kind == KindHeader,
		IsFooter:    e.Kind == KindFooter,
	}
}

// BoundaryFor returns the boundary of the group with the given key.
func (f *Flattener) BoundaryFor(groupKey string) (GroupBoundary, bool) {
	for i := range f.boundaries {
		if f.groups[i].Key == groupKey {
			return f.boundaries[i], true
		}
	}
	return GroupBoundary{}, false
}

// Boundary returns the boundary addressed by a flat entry's group ref.
func (f *Flattener) Boundary(ref GroupRef) (GroupBoundary, bool) {
	if ref < 0 || int(ref) >= len(f.boundaries) {
		return GroupBoundary{}, false
	}
	return f.boundaries[ref], true
}

// BoundaryAtOffset returns the boundary of the group whose laid-out span
// contains the given main-axis offset. A group's span runs from its
// header's start to the end of its last entry, footer included when
// enabled. Requires a positioner.
func (f *Flattener) BoundaryAtOffset(offset float64) (GroupBoundary, bool) {
	if f.positioner == nil || len(f.boundaries) == 0 {
		return GroupBoundary{}, false
	}
	n := len(f.boundaries)
	i := sort.Search(n, func(i int) bool {
		return f.spanEnd(&f.boundaries[i]) > offset
	})
	if i >= n {
		return GroupBoundary{}, false
	}
	b := f.boundaries[i]
	if offset < f.positioner.LayoutFor(b.HeaderFlatIndex).MainOffset {
		return GroupBoundary{}, false
	}
	return b, true
}

// spanEnd returns the main-axis end of a group's last laid-out entry.
func (f *Flattener) spanEnd(b *GroupBoundary) float64 {
	last := b.HeaderFlatIndex
	if b.LastRecordFlatIndex >= 0 {
		last = b.LastRecordFlatIndex
	}
	if b.FooterFlatIndex >= 0 {
		last = b.FooterFlatIndex
	}
	return f.positioner.LayoutFor(last).MainEnd()
}

// IndexOfKey returns the flat index of the entry with the given stable
// key, or -1 when no current entry carries it.
func (f *Flattener) IndexOfKey(key string) int {
	if i, ok := f.keyToIndex[key]; ok {
		return i
	}
	return -1
}

// KeyToIndex returns the stable-key index for the current projection. The
// map is replaced, not mutated, on rebuilds.
func (f *Flattener) KeyToIndex() map[string]int {
	return f.keyToIndex
}

// flatten rebuilds the projection from the source data. Slices and the key
// index are freshly allocated each time so previously returned views stay
// intact.
func (f *Flattener) flatten() {
	size := 0
	for i := range f.groups {
		size += 2 + len(f.groups[i].Records)
	}
	entries := make([]FlatEntry, 0, size)
	boundaries := make([]GroupBoundary, 0, len(f.groups))
	keyToIndex := make(map[string]int, size)

	for gi := range f.groups {
		g := &f.groups[gi]
		ref := GroupRef(gi)
		b := GroupBoundary{
			GroupIndex:           gi,
			HeaderFlatIndex:      len(entries),
			FirstRecordFlatIndex: -1,
			LastRecordFlatIndex:  -1,
			FooterFlatIndex:      -1,
		}

		headerKey := headerKeyFor(g.Key)
		keyToIndex[headerKey] = len(entries)
		entries = append(entries, FlatEntry{
			Kind:        KindHeader,
			Key:         headerKey,
			GroupKey:    g.Key,
			GroupIndex:  gi,
			RecordIndex: -1,
			Type:        g.HeaderType,
			Payload:     g.HeaderPayload,
			Group:       ref,
		})

		if !f.collapsed[g.Key] {
			if len(g.Records) > 0 {
				b.FirstRecordFlatIndex = len(entries)
			}
			for ri := range g.Records {
				rec := &g.Records[ri]
				key := recordKeyFor(g, ri)
				keyToIndex[key] = len(entries)
				entries = append(entries, FlatEntry{
					Kind:        KindRecord,
					Key:         key,
					GroupKey:    g.Key,
					GroupIndex:  gi,
					RecordIndex: ri,
					Type:        rec.Type,
					Payload:     rec.Payload,
					Group:       ref,
				})
			}
			if len(g.Records) > 0 {
				b.LastRecordFlatIndex = len(entries) - 1
			}
			b.RecordCount = len(g.Records)

			// Collapsed groups keep their footer hidden along with
			// their records.
			if f.footers {
				footerKey := footerKeyFor(g.Key)
				keyToIndex[footerKey] = len(entries)
				b.FooterFlatIndex = len(entries)
				entries = append(entries, FlatEntry{
					Kind:        KindFooter,
					Key:         footerKey,
					GroupKey:    g.Key,
					GroupIndex:  gi,
					RecordIndex: -1,
					Type:        g.FooterType,
					Payload:     g.FooterPayload,
					Group:       ref,
				})
			}
		}

		boundaries = append(boundaries, b)
	}

	f.entries = entries
	f.boundaries = boundaries
	f.keyToIndex = keyToIndex
	f.generation++

	if f.positioner != nil {
		f.positioner.SetData(entries)
	}

	f.logger.Debug("rebuilt flat projection",
		zap.Int("groups", len(f.groups)),
		zap.Int("entries", len(entries)),
		zap.Uint64("generation", f.generation))
}

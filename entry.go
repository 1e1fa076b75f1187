package recyclerview

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind identifies the role an entry plays in the flat sequence.
type Kind int8

// Available entry kinds.
const (
	KindHeader Kind = iota
	KindRecord
	KindFooter
)

// RecordType identifies a stratum of records that share a cell pool and a
// running size average. Ids are dense and handed out by a [TypeRegistry];
// they index slices internally, so lookups never go through strings.
type RecordType int32

// TypeRegistry assigns RecordType ids to registered type names. Every list,
// pool, and cache involved in one data set should share a single registry so
// ids agree; registries are plain instances and carry no global state.
type TypeRegistry struct {
	names  []string
	byName map[string]RecordType
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{byName: make(map[string]RecordType)}
}

// Register returns the id for name, assigning the next free id on first use.
func (r *TypeRegistry) Register(name string) RecordType {
	if t, ok := r.byName[name]; ok {
		return t
	}
	t := RecordType(len(r.names))
	r.names = append(r.names, name)
	r.byName[name] = t
	return t
}

// Lookup returns the id registered for name, if any.
func (r *TypeRegistry) Lookup(name string) (RecordType, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Name returns the name registered for t, or the empty string.
func (r *TypeRegistry) Name(t RecordType) string {
	if t < 0 || int(t) >= len(r.names) {
		return ""
	}
	return r.names[t]
}

// Len returns the number of registered types.
func (r *TypeRegistry) Len() int {
	return len(r.names)
}

// Record is one host-supplied item within a group.
type Record struct {
	// Key is the record's stable identity across renders and data
	// replacements. When empty, a key is derived from the group key and the
	// record's position, which keeps measurements only as long as the record
	// keeps that position.
	Key string
	// Type selects the cell pool and size-average stratum.
	Type RecordType
	// Payload is opaque host data, handed back on the record's FlatEntry.
	Payload any
}

// Group is a named section holding an ordered run of records. A group always
// materializes a header entry; a footer entry follows its records when
// footers are enabled on the flattener.
type Group struct {
	// Key names the group and must be unique across the list.
	Key string
	// HeaderType and FooterType select the cell strata for the group's
	// header and footer entries.
	HeaderType RecordType
	FooterType RecordType
	// HeaderPayload and FooterPayload ride on the header and footer entries,
	// e.g. a title for rendering.
	HeaderPayload any
	FooterPayload any
	Records       []Record
}

// GroupRef addresses a group's boundary in the flattener's arena for the
// current flatten generation. It is an index, never a pointer, so a stale
// ref held across a rebuild aliases nothing; resolve it with
// [Flattener.Boundary].
type GroupRef int32

// FlatEntry is one addressable position in the flat sequence. The sequence
// order is the authoritative render order: a non-collapsed group appears as
// exactly one header, its records in original order, then an optional
// footer.
type FlatEntry struct {
	Kind Kind
	// Key is unique within the sequence and stable across renders.
	Key      string
	GroupKey string
	// GroupIndex is the group's position in the input list.
	GroupIndex int
	// RecordIndex is the record's position within its group, -1 for header
	// and footer entries.
	RecordIndex int
	Type        RecordType
	Payload     any
	Group       GroupRef
}

func headerKeyFor(groupKey string) string {
	return groupKey + "/header"
}

func footerKeyFor(groupKey string) string {
	return groupKey + "/footer"
}

func recordKeyFor(group *Group, recordIndex int) string {
	if key := group.Records[recordIndex].Key; key != "" {
		return key
	}
	return group.Key + "/" + strconv.Itoa(recordIndex)
}

// ErrDuplicateKey reports two positions resolving to the same stable key.
var ErrDuplicateKey = errors.New("duplicate stable key")

// ValidateGroups checks that every header, record, and footer across groups
// resolves to a unique stable key. Recycling and measurement both depend on
// key uniqueness, so a collision is a programmer error and is reported
// loudly rather than silently corrected. The error names both colliding
// positions.
func ValidateGroups(groups []Group) error {
	total := 0
	for i := range groups {
		total += len(groups[i].Records) + 2
	}
	seen := make(map[string]string, total)

	claim := func(key, path string) error {
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w %q: %s and %s", ErrDuplicateKey, key, prev, path)
		}
		seen[key] = path
		return nil
	}

	for gi := range groups {
		group := &groups[gi]
		groupPath := "groups[" + strconv.Itoa(gi) + "]"
		if err := claim(headerKeyFor(group.Key), groupPath+".header"); err != nil {
			return err
		}
		if err := claim(footerKeyFor(group.Key), groupPath+".footer"); err != nil {
			return err
		}
		for ri := range group.Records {
			path := groupPath + ".records[" + strconv.Itoa(ri) + "]"
			if err := claim(recordKeyFor(group, ri), path); err != nil {
				return err
			}
		}
	}
	return nil
}

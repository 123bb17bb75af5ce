package orchestrator

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// MapEntry is one region of the guest address space: spec.md §4.2.
type MapEntry struct {
	Start, End uint64
	Perms      string // rwx triple, e.g. "r-x"
	Label      string // backing file path or synthetic name ("[stack]", "[heap]", "[mmap]")
}

func (e MapEntry) size() uint64 { return e.End - e.Start }

// MemoryMapRegistry is the ordered, non-overlapping interval set
// describing the guest address space (spec.md §4.2). It is a total
// function over its inputs: Insert never fails, an empty range is simply
// ignored. Grounded on qiling/core.py's insert_map_info/show_map_info/
// __get_lib_base, reimplemented as a sorted-slice interval set rather
// than the original's three-pass rebuild, but preserving its observable
// split/coalesce behavior; adjacent entries coalesce when their labels
// match, regardless of perms.
type MemoryMapRegistry struct {
	entries []MapEntry
}

// NewMemoryMapRegistry returns an empty registry.
func NewMemoryMapRegistry() *MemoryMapRegistry {
	return &MemoryMapRegistry{}
}

// Insert adds [start, end) with the given perms/label, splitting any
// overlapping entries and then coalescing adjacent runs that share a
// label (spec.md §4.2). A zero-length range is ignored.
func (m *MemoryMapRegistry) Insert(start, end uint64, perms, label string) {
	if start >= end {
		return
	}

	var result []MapEntry
	inserted := false
	newEntry := MapEntry{Start: start, End: end, Perms: perms, Label: label}

	insertNew := func() {
		if inserted {
			return
		}
		result = append(result, newEntry)
		inserted = true
	}

	for _, cur := range m.entries {
		switch {
		case cur.End <= start:
			// entirely before the new range
			result = append(result, cur)
		case cur.Start >= end:
			// entirely after the new range
			insertNew()
			result = append(result, cur)
		default:
			// overlaps: split into prefix / (dropped middle, replaced by newEntry) / suffix
			if cur.Start < start {
				result = append(result, MapEntry{Start: cur.Start, End: start, Perms: cur.Perms, Label: cur.Label})
			}
			insertNew()
			if cur.End > end {
				result = append(result, MapEntry{Start: end, End: cur.End, Perms: cur.Perms, Label: cur.Label})
			}
		}
	}
	insertNew()

	sort.Slice(result, func(i, j int) bool { return result[i].Start < result[j].Start })
	m.entries = coalesce(result)
}

// coalesce merges adjacent entries whose end/start meet and whose labels
// match, in one left-to-right pass (spec.md §4.2).
func coalesce(entries []MapEntry) []MapEntry {
	if len(entries) == 0 {
		return entries
	}
	out := []MapEntry{entries[0]}
	for _, e := range entries[1:] {
		last := &out[len(out)-1]
		if last.End == e.Start && last.Label == e.Label {
			last.End = e.End
			last.Perms = e.Perms // conservatively take the incoming region's perms, matching the source
			continue
		}
		out = append(out, e)
	}
	return out
}

// LookupBaseByFilename returns the start address of the first (sorted)
// entry whose label's basename equals name, and whether one was found
// (qiling's __get_lib_base, which returned -1 for "absent").
func (m *MemoryMapRegistry) LookupBaseByFilename(name string) (uint64, bool) {
	for _, e := range m.entries {
		if path.Base(e.Label) == name {
			return e.Start, true
		}
	}
	return 0, false
}

// DefaultMmapSearchBase is where NextFreeRegion starts looking when the
// caller has no construction-time mmap_start hint, kept well above
// typical executable/library/stack placement so it doesn't collide with
// them in the common case.
const DefaultMmapSearchBase = 0x40000000

// NextFreeRegion returns the start of the first gap of at least size bytes
// at or above searchBase, for mmap(addr=0) (kernel-chosen address)
// requests. It does not reserve the gap; the caller is expected to Insert
// into it immediately.
func (m *MemoryMapRegistry) NextFreeRegion(size, searchBase uint64) uint64 {
	if searchBase == 0 {
		searchBase = DefaultMmapSearchBase
	}
	candidate := searchBase
	for _, e := range m.entries {
		if e.End <= candidate {
			continue
		}
		if e.Start > candidate && e.Start-candidate >= size {
			return candidate
		}
		candidate = e.End
	}
	return candidate
}

// Entries returns a defensive copy of the sorted entry list.
func (m *MemoryMapRegistry) Entries() []MapEntry {
	out := make([]MapEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Dump renders one line per region, "start-end perms label" (qiling's
// show_map_info, minus the nprint side effect — the orchestrator decides
// how to print this, keeping the registry a pure data structure).
func (m *MemoryMapRegistry) Dump() string {
	var b strings.Builder
	for _, e := range m.entries {
		fmt.Fprintf(&b, "%#08x-%#08x %s %s\n", e.Start, e.End, e.Perms, e.Label)
	}
	return b.String()
}

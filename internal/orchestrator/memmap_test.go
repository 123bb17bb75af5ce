package orchestrator

import "testing"

func TestMemMapCoalesce(t *testing.T) {
	m := NewMemoryMapRegistry()
	m.Insert(0x1000, 0x2000, "r-x", "a")
	m.Insert(0x3000, 0x4000, "r-x", "a")
	m.Insert(0x2000, 0x3000, "r-x", "a")

	got := m.Entries()
	if len(got) != 1 {
		t.Fatalf("expected 1 coalesced entry, got %d: %+v", len(got), got)
	}
	want := MapEntry{Start: 0x1000, End: 0x4000, Perms: "r-x", Label: "a"}
	if got[0] != want {
		t.Fatalf("got %+v, want %+v", got[0], want)
	}
}

func TestMemMapSplit(t *testing.T) {
	m := NewMemoryMapRegistry()
	m.Insert(0x1000, 0x5000, "r-x", "a")
	m.Insert(0x2000, 0x3000, "rw-", "b")

	got := m.Entries()
	want := []MapEntry{
		{Start: 0x1000, End: 0x2000, Perms: "r-x", Label: "a"},
		{Start: 0x2000, End: 0x3000, Perms: "rw-", Label: "b"},
		{Start: 0x3000, End: 0x5000, Perms: "r-x", Label: "a"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMemMapInvariants(t *testing.T) {
	m := NewMemoryMapRegistry()
	m.Insert(0x1000, 0x2000, "r-x", "a")
	m.Insert(0x1800, 0x2800, "rw-", "b")
	m.Insert(0x500, 0x600, "r--", "c")

	entries := m.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Start > entries[i].Start {
			t.Fatalf("entries not sorted: %+v", entries)
		}
		if entries[i-1].End > entries[i].Start {
			t.Fatalf("overlapping entries: %+v and %+v", entries[i-1], entries[i])
		}
		if entries[i-1].End == entries[i].Start && entries[i-1].Label == entries[i].Label {
			t.Fatalf("adjacent same-label entries should have coalesced: %+v and %+v", entries[i-1], entries[i])
		}
	}
}

func TestLookupBaseByFilename(t *testing.T) {
	m := NewMemoryMapRegistry()
	m.Insert(0x40000000, 0x40010000, "r-x", "/lib/libc.so")
	m.Insert(0x50000000, 0x50001000, "rw-", "[heap]")

	base, ok := m.LookupBaseByFilename("libc.so")
	if !ok || base != 0x40000000 {
		t.Fatalf("LookupBaseByFilename(libc.so) = (0x%x, %v), want (0x40000000, true)", base, ok)
	}

	if _, ok := m.LookupBaseByFilename("nope.so"); ok {
		t.Fatalf("expected not-found for nope.so")
	}
}

func TestEmptyRangeIgnored(t *testing.T) {
	m := NewMemoryMapRegistry()
	m.Insert(0x1000, 0x1000, "r-x", "a")
	if len(m.Entries()) != 0 {
		t.Fatalf("zero-length insert should be a no-op")
	}
}

func TestNextFreeRegionEmptyUsesSearchBase(t *testing.T) {
	m := NewMemoryMapRegistry()
	got := m.NextFreeRegion(0x1000, 0x50000000)
	if got != 0x50000000 {
		t.Fatalf("got 0x%x, want 0x50000000", got)
	}
}

func TestNextFreeRegionDefaultSearchBase(t *testing.T) {
	m := NewMemoryMapRegistry()
	got := m.NextFreeRegion(0x1000, 0)
	if got != DefaultMmapSearchBase {
		t.Fatalf("got 0x%x, want 0x%x", got, DefaultMmapSearchBase)
	}
}

func TestNextFreeRegionSkipsOverlap(t *testing.T) {
	m := NewMemoryMapRegistry()
	m.Insert(0x40000000, 0x40002000, "rw-", "a")

	got := m.NextFreeRegion(0x1000, 0x40000000)
	if got != 0x40002000 {
		t.Fatalf("got 0x%x, want 0x40002000", got)
	}
}

func TestNextFreeRegionFitsGapBetweenEntries(t *testing.T) {
	m := NewMemoryMapRegistry()
	m.Insert(0x40000000, 0x40001000, "rw-", "a")
	m.Insert(0x40002000, 0x40003000, "rw-", "b")

	got := m.NextFreeRegion(0x1000, 0x40000000)
	if got != 0x40001000 {
		t.Fatalf("got 0x%x, want 0x40001000 (the gap between a and b)", got)
	}
}

func TestNextFreeRegionTooSmallGapAdvancesPastIt(t *testing.T) {
	m := NewMemoryMapRegistry()
	m.Insert(0x40000000, 0x40001000, "rw-", "a")
	m.Insert(0x40001800, 0x40002000, "rw-", "b") // gap of 0x800, smaller than request
	m.Insert(0x40003000, 0x40004000, "rw-", "c")

	got := m.NextFreeRegion(0x1000, 0x40000000)
	if got != 0x40002000 {
		t.Fatalf("got 0x%x, want 0x40002000 (gap between b and c)", got)
	}
}

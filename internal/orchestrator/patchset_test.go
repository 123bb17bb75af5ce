package orchestrator

import (
	"bytes"
	"testing"
)

type fakeMem struct {
	writes map[uint64][]byte
}

func newFakeMem() *fakeMem { return &fakeMem{writes: make(map[uint64][]byte)} }

func (f *fakeMem) MemWrite(addr uint64, data []byte) error {
	f.writes[addr] = append([]byte(nil), data...)
	return nil
}

func TestPatchSetApplyBinIdempotent(t *testing.T) {
	ps := NewPatchSet()
	ps.Patch(0x10, []byte{0xAA, 0xBB}, "")

	mem := newFakeMem()
	if err := ps.ApplyBin(mem, 0x1000); err != nil {
		t.Fatalf("ApplyBin: %v", err)
	}
	if err := ps.ApplyBin(mem, 0x1000); err != nil { // second call must be a no-op
		t.Fatalf("ApplyBin (2nd): %v", err)
	}
	if !bytes.Equal(mem.writes[0x1010], []byte{0xAA, 0xBB}) {
		t.Fatalf("patch not applied at expected address: %+v", mem.writes)
	}
	if len(mem.writes) != 1 {
		t.Fatalf("expected exactly one write, got %d", len(mem.writes))
	}
}

type fakeLibBase struct {
	bases map[string]uint64
}

func (f *fakeLibBase) LookupBaseByFilename(name string) (uint64, bool) {
	b, ok := f.bases[name]
	return b, ok
}

func TestPatchSetApplyLibDeferred(t *testing.T) {
	ps := NewPatchSet()
	ps.Patch(0x8, []byte{0x01}, "libfoo.so")

	mem := newFakeMem()
	registry := &fakeLibBase{bases: map[string]uint64{}}

	// libfoo.so not mapped yet: ApplyLib should skip silently.
	if err := ps.ApplyLib(mem, registry); err != nil {
		t.Fatalf("ApplyLib: %v", err)
	}
	if len(mem.writes) != 0 {
		t.Fatalf("expected no writes before library is mapped, got %+v", mem.writes)
	}

	// Library becomes mapped; a later ApplyLib call (as the loader would
	// make after mapping it) must apply the deferred patch.
	registry.bases["libfoo.so"] = 0x40000000
	if err := ps.ApplyLib(mem, registry); err != nil {
		t.Fatalf("ApplyLib (after map): %v", err)
	}
	if !bytes.Equal(mem.writes[0x40000008], []byte{0x01}) {
		t.Fatalf("deferred lib patch not applied: %+v", mem.writes)
	}
}

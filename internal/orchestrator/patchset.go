package orchestrator

import "fmt"

// binPatch and libPatch mirror qiling's patch_bin/patch_lib tuple lists
// (qiling/core.py's self.patch_bin / self.patch_lib / self.patched_lib).
type binPatch struct {
	addr uint64
	data []byte
}

type libPatch struct {
	addr  uint64
	data  []byte
	label string
}

// PatchSet is the pending-writes buffer described in spec.md §4.3: a
// two-phase commit between "submit a patch" (which may happen before any
// image is mapped) and "apply the patch" (driven by the loader once a
// load base, or a named library's base, is known).
type PatchSet struct {
	bin           []binPatch
	lib           []libPatch
	binApplied    int // high-water mark into bin, so ApplyBin is idempotent
	appliedLabels map[string]bool
}

// NewPatchSet returns an empty patch set.
func NewPatchSet() *PatchSet {
	return &PatchSet{appliedLabels: make(map[string]bool)}
}

// Patch records a pending write. An empty label routes it to the binary
// patch list (applied at load_base+addr); a non-empty label routes it to
// the library patch list (applied at base_of(label)+addr), per spec.md
// §4.3.
func (p *PatchSet) Patch(addr uint64, data []byte, label string) {
	buf := append([]byte(nil), data...)
	if label == "" {
		p.bin = append(p.bin, binPatch{addr: addr, data: buf})
	} else {
		p.lib = append(p.lib, libPatch{addr: addr, data: buf, label: label})
	}
}

// memWriter is the subset of the CPU engine ApplyBin/ApplyLib need.
type memWriter interface {
	MemWrite(addr uint64, data []byte) error
}

// ApplyBin writes every binary patch at loadBase+addr. It only applies
// patches submitted since the last call, so calling it twice (as the
// source effectively does: once from shellcode()/load_exec() at
// construction, again from run() before the runner starts) is harmless
// by construction rather than by luck (see SPEC_FULL.md §12.1).
func (p *PatchSet) ApplyBin(e memWriter, loadBase uint64) error {
	for ; p.binApplied < len(p.bin); p.binApplied++ {
		bp := p.bin[p.binApplied]
		if err := e.MemWrite(loadBase+bp.addr, bp.data); err != nil {
			return fmt.Errorf("apply bin patch at 0x%x: %w", loadBase+bp.addr, err)
		}
	}
	return nil
}

// libBaseResolver resolves a label to its mapped base address.
type libBaseResolver interface {
	LookupBaseByFilename(name string) (uint64, bool)
}

// ApplyLib writes every library patch whose label is currently resolvable
// in registry, skipping (not failing) any whose library isn't mapped yet
// — it may be patched on a later call once that library loads, per
// spec.md §4.3's "deferred" semantics. A patch whose (label, address)
// pair was already applied isn't reapplied, making repeated ApplyLib
// calls idempotent per patch.
func (p *PatchSet) ApplyLib(e memWriter, registry libBaseResolver) error {
	for _, lp := range p.lib {
		if p.appliedLabels[fmt.Sprintf("%s@%d", lp.label, lp.addr)] {
			continue
		}
		base, ok := registry.LookupBaseByFilename(lp.label)
		if !ok {
			continue
		}
		if err := e.MemWrite(base+lp.addr, lp.data); err != nil {
			return fmt.Errorf("apply lib patch %s+0x%x: %w", lp.label, lp.addr, err)
		}
		p.appliedLabels[fmt.Sprintf("%s@%d", lp.label, lp.addr)] = true
	}
	return nil
}

// Package archprofile implements the Arch Profile component of spec.md
// §4.1: pure per-architecture register/stack descriptors, one instance per
// supported architecture, dispatched through a capability table rather
// than runtime type inspection (spec.md §9, "Dynamic dispatch -> tagged
// variants"). Grounded on the register-accessor surface
// internal/emulator/emulator.go exposes in the teacher (X/SetX/PC/SetPC/
// SP/SetSP/LR/SetLR), generalized from ARM64-only to the full declared
// architecture set and given the stack_push/pop/read/write primitives
// qiling/core.py delegates to self.archfunc.
package archprofile

import (
	"encoding/binary"
	"fmt"

	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/coreemu/coreemu/internal/emutype"
)

// Engine is the minimal slice of the CPU engine a Profile needs: register
// and memory access. The orchestrator's full engine handle satisfies it.
type Engine interface {
	RegRead(reg int) (uint64, error)
	RegWrite(reg int, val uint64) error
	MemRead(addr, size uint64) ([]byte, error)
	MemWrite(addr uint64, data []byte) error
}

// Profile is the Arch Profile: a closed, pure descriptor of how to talk
// registers and stack to the CPU engine for one architecture. All six
// supported architectures are instances of this same struct; nothing
// about it is virtual beyond the uc arch/mode codes and register ids
// baked in at construction, which is exactly the "capability table"
// §9 calls for.
type Profile struct {
	arch       emutype.Arch
	bits       int
	endian     emutype.Endian
	switchable bool
	ucArch     int
	ucModeBase int // mode bits that don't depend on endianness (e.g. MODE_ARM, MODE_THUMB, MODE_64)
	regPC      int
	regSP      int
}

// Arch returns the architecture tag.
func (p *Profile) Arch() emutype.Arch { return p.arch }

// BitWidth returns 32 or 64.
func (p *Profile) BitWidth() int { return p.bits }

// PointerSize returns the pointer width in bytes.
func (p *Profile) PointerSize() int { return p.bits / 8 }

// Endian returns the currently configured byte order.
func (p *Profile) Endian() emutype.Endian { return p.endian }

// SetEndian configures big-endian mode. Only architectures in
// emutype.EndianSwitchable honor this; others silently stay little-endian,
// matching spec.md §4.5 step 6 ("For non-switchable architectures, force
// endianness to little. For switchable ones, honor bigendian.").
func (p *Profile) SetEndian(e emutype.Endian) {
	if p.switchable {
		p.endian = e
	} else {
		p.endian = emutype.EndianLittle
	}
}

// byteOrder returns the binary.ByteOrder matching the profile's endian.
func (p *Profile) byteOrder() binary.ByteOrder {
	if p.endian == emutype.EndianBig {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// UnicornArch returns the uc.ARCH_* constant for engine construction.
func (p *Profile) UnicornArch() int { return p.ucArch }

// UnicornMode returns the uc.MODE_* bitmask for engine construction,
// folding in the endianness bit.
func (p *Profile) UnicornMode() int {
	mode := p.ucModeBase
	if p.endian == emutype.EndianBig {
		mode |= uc.MODE_BIG_ENDIAN
	} else {
		mode |= uc.MODE_LITTLE_ENDIAN
	}
	return mode
}

// RegPC returns the raw engine register id for the program counter
// (qiling's reg_pc property, kept for hook/introspection code that wants
// the id rather than the value).
func (p *Profile) RegPC() int { return p.regPC }

// RegSP returns the raw engine register id for the stack pointer.
func (p *Profile) RegSP() int { return p.regSP }

// GetPC reads the program counter.
func (p *Profile) GetPC(e Engine) (uint64, error) { return e.RegRead(p.regPC) }

// SetPC writes the program counter.
func (p *Profile) SetPC(e Engine, val uint64) error { return e.RegWrite(p.regPC, val) }

// GetSP reads the stack pointer.
func (p *Profile) GetSP(e Engine) (uint64, error) { return e.RegRead(p.regSP) }

// SetSP writes the stack pointer.
func (p *Profile) SetSP(e Engine, val uint64) error { return e.RegWrite(p.regSP, val) }

// StackPush pushes data onto the stack, growing it downward (true on all
// six supported architectures), and returns the new stack pointer.
// Unlike qiling's stack_push, which always pushes one pointer-sized
// machine word, this accepts arbitrary byte slices (needed for argv/env
// blobs during process setup) — width/endianness of integer pushes still
// come from the profile via PushWord, not the caller.
func (p *Profile) StackPush(e Engine, data []byte) (uint64, error) {
	sp, err := p.GetSP(e)
	if err != nil {
		return 0, fmt.Errorf("stack_push: read sp: %w", err)
	}
	sp -= uint64(len(data))
	if err := e.MemWrite(sp, data); err != nil {
		return 0, fmt.Errorf("stack_push: write: %w", err)
	}
	if err := p.SetSP(e, sp); err != nil {
		return 0, fmt.Errorf("stack_push: update sp: %w", err)
	}
	return sp, nil
}

// PushWord pushes one pointer-sized machine word (qiling's stack_push
// with a packed integer, which is the overwhelmingly common case).
func (p *Profile) PushWord(e Engine, val uint64) (uint64, error) {
	buf := make([]byte, p.PointerSize())
	if p.PointerSize() == 8 {
		p.byteOrder().PutUint64(buf, val)
	} else {
		p.byteOrder().PutUint32(buf, uint32(val))
	}
	return p.StackPush(e, buf)
}

// StackPop pops one pointer-sized machine word off the stack and returns
// it, advancing SP back up.
func (p *Profile) StackPop(e Engine) (uint64, error) {
	sp, err := p.GetSP(e)
	if err != nil {
		return 0, fmt.Errorf("stack_pop: read sp: %w", err)
	}
	sz := uint64(p.PointerSize())
	data, err := e.MemRead(sp, sz)
	if err != nil {
		return 0, fmt.Errorf("stack_pop: read: %w", err)
	}
	if err := p.SetSP(e, sp+sz); err != nil {
		return 0, fmt.Errorf("stack_pop: update sp: %w", err)
	}
	return p.decodeWord(data), nil
}

// StackRead reads one machine word at a byte offset from the current SP
// without moving SP (qiling's stack_read(offset)).
func (p *Profile) StackRead(e Engine, offset int64) (uint64, error) {
	sp, err := p.GetSP(e)
	if err != nil {
		return 0, fmt.Errorf("stack_read: read sp: %w", err)
	}
	addr := uint64(int64(sp) + offset)
	data, err := e.MemRead(addr, uint64(p.PointerSize()))
	if err != nil {
		return 0, fmt.Errorf("stack_read: read: %w", err)
	}
	return p.decodeWord(data), nil
}

// StackWrite writes one machine word at a byte offset from the current SP
// without moving SP (qiling's stack_write(offset, data)).
func (p *Profile) StackWrite(e Engine, offset int64, val uint64) error {
	sp, err := p.GetSP(e)
	if err != nil {
		return fmt.Errorf("stack_write: read sp: %w", err)
	}
	addr := uint64(int64(sp) + offset)
	buf := make([]byte, p.PointerSize())
	if p.PointerSize() == 8 {
		p.byteOrder().PutUint64(buf, val)
	} else {
		p.byteOrder().PutUint32(buf, uint32(val))
	}
	if err := e.MemWrite(addr, buf); err != nil {
		return fmt.Errorf("stack_write: write: %w", err)
	}
	return nil
}

func (p *Profile) decodeWord(data []byte) uint64 {
	if p.PointerSize() == 8 {
		return p.byteOrder().Uint64(data)
	}
	return uint64(p.byteOrder().Uint32(data))
}

// New resolves the Arch Profile for an architecture tag. Returns nil for
// an unrecognized tag; callers are expected to have already validated the
// tag against emuerr.ErrInvalidArch.
func New(a emutype.Arch) *Profile {
	switch a {
	case emutype.ArchX86:
		return newX86()
	case emutype.ArchX8664:
		return newX8664()
	case emutype.ArchARM:
		return newARM()
	case emutype.ArchARMThumb:
		return newARMThumb()
	case emutype.ArchARM64:
		return newARM64()
	case emutype.ArchMIPS32:
		return newMIPS32()
	default:
		return nil
	}
}

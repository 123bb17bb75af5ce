// Package disasm renders the instruction at a guest address as text for
// output=disasm mode (spec.md §4.5 "output" knob), dispatching to the
// architecture-appropriate decoder from golang.org/x/arch. Grounded on
// the teacher's cmd/galago/main.go disasm() helper (arm64asm.Decode,
// falling back to a raw ".word" dump on a decode error), generalized
// from a hardcoded ARM64-only helper to every architecture this
// orchestrator loads a decoder for.
//
// x86 and x86-64 use golang.org/x/arch/x86/x86asm; ARM and ARM-Thumb use
// golang.org/x/arch/arm/armasm; ARM64 uses golang.org/x/arch/arm64/arm64asm.
// golang.org/x/arch ships no MIPS decoder, so MIPS32 falls back to a raw
// ".word" rendering identical to the teacher's own decode-error
// fallback — a real decoder for it would need a different dependency
// entirely, not a gap in how this package uses x/arch.
package disasm

import (
	"fmt"

	"golang.org/x/arch/arm/armasm"
	"golang.org/x/arch/arm64/arm64asm"
	"golang.org/x/arch/x86/x86asm"

	"github.com/coreemu/coreemu/internal/emutype"
)

// Decode renders the instruction encoded in code (at address addr) as
// text, using the architecture-appropriate x/arch decoder.
func Decode(arch emutype.Arch, addr uint64, code []byte) string {
	switch arch {
	case emutype.ArchX86:
		return decodeX86(code, 32)
	case emutype.ArchX8664:
		return decodeX86(code, 64)
	case emutype.ArchARM:
		return decodeARM(code, armasm.ModeARM)
	case emutype.ArchARMThumb:
		return decodeARM(code, armasm.ModeThumb)
	case emutype.ArchARM64:
		return decodeARM64(code)
	default:
		return rawWord(code)
	}
}

func decodeARM(code []byte, mode armasm.Mode) string {
	inst, err := armasm.Decode(code, mode)
	if err != nil {
		return rawWord(code)
	}
	return inst.String()
}

func decodeX86(code []byte, mode int) string {
	inst, err := x86asm.Decode(code, mode)
	if err != nil {
		return rawWord(code)
	}
	return x86asm.GNUSyntax(inst, 0, nil)
}

func decodeARM64(code []byte) string {
	if len(code) < 4 {
		return rawWord(code)
	}
	inst, err := arm64asm.Decode(code)
	if err != nil {
		return rawWord(code)
	}
	return inst.String()
}

func rawWord(code []byte) string {
	if len(code) < 4 {
		return "???"
	}
	return fmt.Sprintf(".word 0x%08x", uint32(code[0])|uint32(code[1])<<8|uint32(code[2])<<16|uint32(code[3])<<24)
}

// Package macos registers the macOS OS Personality so (macos, arch)
// pairs resolve to a personality instead of ErrInvalidOsType, but its
// loader_file deliberately returns an explicit not-implemented error:
// macOS guest binaries are Mach-O, and this orchestrator's only concrete
// binary-format loader (internal/loader) implements ELF, the format
// spec.md §6 scopes loaders for out as an external collaborator.
// Shellcode mode and the runner's syscall trap-then-dispatch shape don't
// depend on the image format, so both are fully implemented, following
// internal/personality/freebsd's POSIX-family shape.
package macos

import (
	"fmt"

	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/coreemu/coreemu/internal/emutype"
	"github.com/coreemu/coreemu/internal/orchestrator"
	"github.com/coreemu/coreemu/internal/posix"
)

func init() {
	for _, arch := range []emutype.Arch{emutype.ArchX8664, emutype.ArchARM64} {
		orchestrator.RegisterPersonality(emutype.OSMacOS, arch, orchestrator.PersonalityFuncs{
			LoaderFile:      loadFile,
			LoaderShellcode: loadShellcode,
			Runner:          run,
		})
	}
}

const defaultStackSize = 8 * 1024 * 1024
const defaultStackTop = 0x7ffff000

func loadFile(e *orchestrator.Emulator) error {
	return fmt.Errorf("macos loader_file: Mach-O loading not implemented, only shellcode mode is supported for macos")
}

func loadShellcode(e *orchestrator.Emulator) error {
	const codeBase = 0x01000000
	const codeSize = 0x00100000
	if err := e.MemMapRegion(codeBase, codeSize, "rwx", "[shellcode]"); err != nil {
		return err
	}
	if err := e.MemWrite(codeBase, e.Shellcode()); err != nil {
		return err
	}
	size := e.StackSize()
	if size == 0 {
		size = defaultStackSize
	}
	top := e.StackAddress()
	if top == 0 {
		top = defaultStackTop
	}
	if err := e.MemMapRegion(top-size, size, "rw-", "[stack]"); err != nil {
		return err
	}
	if err := e.SetSP(top - 0x1000); err != nil {
		return err
	}
	return e.SetPC(codeBase)
}

func run(e *orchestrator.Emulator) error {
	switch e.ArchType() {
	case emutype.ArchX8664:
		if err := e.HookInsn(uc.X86_INS_SYSCALL, func(e *orchestrator.Emulator) {
			_ = posix.Dispatch(e)
		}); err != nil {
			return err
		}
	case emutype.ArchARM64:
		if err := e.HookInterrupt(func(e *orchestrator.Emulator, intno uint32) {
			_ = posix.Dispatch(e)
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("macos runner: unsupported architecture %s", e.ArchType())
	}
	return e.StartFrom(e.PC())
}

// Package freebsd implements the FreeBSD OS Personality. FreeBSD guest
// binaries are ELF, same as Linux, so loading reuses internal/loader
// unchanged; only the syscall numbering differs, which is why
// internal/posix's ABI/dispatch split exists (arch calling convention is
// shared, the number table is not). Grounded on internal/personality/linux,
// the sibling POSIX-family personality this is adapted from.
package freebsd

import (
	"fmt"

	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/coreemu/coreemu/internal/emutype"
	"github.com/coreemu/coreemu/internal/loader"
	"github.com/coreemu/coreemu/internal/orchestrator"
	"github.com/coreemu/coreemu/internal/posix"
)

func init() {
	for _, arch := range []emutype.Arch{emutype.ArchX8664, emutype.ArchARM64} {
		orchestrator.RegisterPersonality(emutype.OSFreeBSD, arch, orchestrator.PersonalityFuncs{
			LoaderFile:      loadFile,
			LoaderShellcode: loadShellcode,
			Runner:          run,
		})
	}
}

const defaultStackSize = 8 * 1024 * 1024
const defaultStackTop = 0x7ffff000

func loadFile(e *orchestrator.Emulator) error {
	files := e.Filename()
	if len(files) == 0 {
		return fmt.Errorf("freebsd loader_file: no filename set")
	}
	img, err := loader.Load(e, files[0], e.InterpBase())
	if err != nil {
		return err
	}
	if err := setupStack(e); err != nil {
		return err
	}
	return e.SetPC(img.Entry)
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
	if err := setupStack(e); err != nil {
		return err
	}
	return e.SetPC(codeBase)
}

func setupStack(e *orchestrator.Emulator) error {
	size := e.StackSize()
	if size == 0 {
		size = defaultStackSize
	}
	top := e.StackAddress()
	if top == 0 {
		top = defaultStackTop
	}
	base := top - size
	if err := e.MemMapRegion(base, size, "rw-", "[stack]"); err != nil {
		return err
	}
	return e.SetSP(top - 0x1000)
}

// FreeBSD's syscall trap instructions are identical to Linux's for the
// architectures registered above (x86-64 SYSCALL, ARM64 SVC); only the
// syscall numbering that internal/posix.Dispatch resolves differs per
// e.OSType(), so the runner itself is the same trap-then-dispatch shape.
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
		return fmt.Errorf("freebsd runner: unsupported architecture %s", e.ArchType())
	}
	return e.StartFrom(e.PC())
}

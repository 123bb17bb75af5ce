// Package linux implements the Linux OS Personality (spec.md §4.6) for
// every architecture this orchestrator supports: loader_file maps an ELF
// executable via internal/loader, loader_shellcode maps a bare code
// buffer, and the runner installs the architecture-appropriate syscall
// trap (x86-64 SYSCALL instruction, i386 INT 0x80, ARM/ARM64 SVC, MIPS
// syscall instruction via INTR) before driving the CPU engine. Grounded
// on the teacher's internal/emulator/emulator.go Run loop (map stack,
// set PC, call mu.Start) and internal/stubs/libc.go's syscall-trap-then-
// dispatch shape, generalized from ARM64/Android-only to the POSIX
// syscall ABIs internal/posix implements.
package linux

import (
	"fmt"

	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/coreemu/coreemu/internal/emutype"
	"github.com/coreemu/coreemu/internal/loader"
	"github.com/coreemu/coreemu/internal/orchestrator"
	"github.com/coreemu/coreemu/internal/posix"
)

func init() {
	for _, arch := range []emutype.Arch{
		emutype.ArchX86, emutype.ArchX8664,
		emutype.ArchARM, emutype.ArchARMThumb, emutype.ArchARM64,
		emutype.ArchMIPS32,
	} {
		orchestrator.RegisterPersonality(emutype.OSLinux, arch, orchestrator.PersonalityFuncs{
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
		return fmt.Errorf("linux loader_file: no filename set")
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

// setupStack maps a fixed-size stack region (construction-time
// StackAddress/StackSize override the defaults) and points SP at its top,
// leaving a red zone at the very top page the way a real kernel-placed
// stack does.
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

func run(e *orchestrator.Emulator) error {
	switch e.ArchType() {
	case emutype.ArchX8664:
		if err := e.HookInsn(uc.X86_INS_SYSCALL, func(e *orchestrator.Emulator) {
			_ = posix.Dispatch(e)
		}); err != nil {
			return err
		}
	case emutype.ArchX86:
		if err := e.HookInterrupt(func(e *orchestrator.Emulator, intno uint32) {
			if intno == 0x80 {
				_ = posix.Dispatch(e)
			}
		}); err != nil {
			return err
		}
	case emutype.ArchARM, emutype.ArchARMThumb, emutype.ArchARM64:
		if err := e.HookInterrupt(func(e *orchestrator.Emulator, intno uint32) {
			_ = posix.Dispatch(e)
		}); err != nil {
			return err
		}
	case emutype.ArchMIPS32:
		if err := e.HookInterrupt(func(e *orchestrator.Emulator, intno uint32) {
			_ = posix.Dispatch(e)
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("linux runner: unsupported architecture %s", e.ArchType())
	}

	return e.StartFrom(e.PC())
}

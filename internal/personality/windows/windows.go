// Package windows registers the Windows OS Personality. PE image loading
// and the Win32 API table are the per-OS loader/API implementations
// spec.md §6 scopes out as external collaborators this orchestrator only
// talks to through Emulator.SetAPI; this personality therefore supports
// shellcode mode fully (the common case for Windows guest emulation:
// running raw shellcode against a mapped stack) while loader_file
// reports not-implemented. The runner installs no syscall trap of its
// own — Windows API calls are ordinary CALL instructions to addresses a
// PE loader's import table would resolve, not interrupts — so API
// interception is left to whatever address hooks the caller registers
// via HookAddress before calling Run. Overrides stored with SetAPI are
// not consulted by this runner.
package windows

import (
	"fmt"

	"github.com/coreemu/coreemu/internal/emutype"
	"github.com/coreemu/coreemu/internal/orchestrator"
)

func init() {
	for _, arch := range []emutype.Arch{emutype.ArchX86, emutype.ArchX8664} {
		orchestrator.RegisterPersonality(emutype.OSWindows, arch, orchestrator.PersonalityFuncs{
			LoaderFile:      loadFile,
			LoaderShellcode: loadShellcode,
			Runner:          run,
		})
	}
}

const defaultStackSize = 1 * 1024 * 1024
const defaultStackTop = 0x00200000

func loadFile(e *orchestrator.Emulator) error {
	return fmt.Errorf("windows loader_file: PE loading not implemented, only shellcode mode is supported for windows")
}

func loadShellcode(e *orchestrator.Emulator) error {
	const codeBase = 0x00400000
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
	return e.StartFrom(e.PC())
}

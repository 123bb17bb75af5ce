// Package script implements optional JS-defined syscall/API overrides:
// a caller supplies a JS source file defining one function per syscall
// or API name it wants to intercept, and LoadOverrides registers each as
// a SyscallFunc/APIFunc via Emulator.SetSyscall/SetAPI (spec.md §4.6),
// running the JS function against a small bridge object exposing the
// emulator's register/memory accessors instead of requiring a compiled
// Go callback for every override.
//
// Grounded on SPEC_FULL.md's dependency table entry for
// github.com/dop251/goja: the teacher's own tree never wires a scripting
// engine to its stub layer despite carrying the dependency, so this is
// new wiring rather than an adaptation of an existing call site; the
// bridge object's shape (RegRead/RegWrite/MemRead/MemWrite/Pc/Sp) follows
// the same register/memory accessor surface internal/posix's builtins
// use, just exposed as JS-callable methods instead of Go calls.
package script

import (
	"fmt"
	"os"

	"github.com/dop251/goja"

	"github.com/coreemu/coreemu/internal/orchestrator"
)

// bridge is the object exposed to JS overrides as the single argument.
type bridge struct {
	e  *orchestrator.Emulator
	vm *goja.Runtime
}

func (b *bridge) RegRead(reg int) uint64 {
	v, _ := b.e.RegRead(reg)
	return v
}

func (b *bridge) RegWrite(reg int, val int64) { _ = b.e.RegWrite(reg, uint64(val)) }

func (b *bridge) MemRead(addr uint64, size uint64) goja.ArrayBuffer {
	data, _ := b.e.MemRead(addr, size)
	return b.vm.NewArrayBuffer(data)
}

func (b *bridge) MemWrite(addr uint64, data goja.ArrayBuffer) { _ = b.e.MemWrite(addr, data.Bytes()) }

func (b *bridge) Pc() uint64 { return b.e.PC() }
func (b *bridge) Sp() uint64 { return b.e.SP() }

// LoadOverrides reads a JS source file and, for every top-level function
// whose name matches a name in syscallNames or apiNames, registers a
// SyscallFunc/APIFunc on e that calls into the JS runtime, returning the
// function's numeric return value as the syscall/API result.
func LoadOverrides(e *orchestrator.Emulator, path string, syscallNames, apiNames []string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script: read %s: %w", path, err)
	}

	vm := goja.New()
	if _, err := vm.RunString(string(src)); err != nil {
		return fmt.Errorf("script: eval %s: %w", path, err)
	}

	b := &bridge{e: e, vm: vm}
	vm.Set("emu", b)

	for _, name := range syscallNames {
		name := name
		fnVal := vm.Get(name)
		if fnVal == nil || goja.IsUndefined(fnVal) {
			continue
		}
		fn, ok := goja.AssertFunction(fnVal)
		if !ok {
			continue
		}
		e.SetSyscall(name, func(e *orchestrator.Emulator) (uint64, error) {
			res, err := fn(goja.Undefined(), vm.ToValue(b))
			if err != nil {
				return 0, fmt.Errorf("script: %s: %w", name, err)
			}
			return uint64(res.ToInteger()), nil
		})
	}

	for _, name := range apiNames {
		name := name
		fnVal := vm.Get(name)
		if fnVal == nil || goja.IsUndefined(fnVal) {
			continue
		}
		fn, ok := goja.AssertFunction(fnVal)
		if !ok {
			continue
		}
		e.SetAPI(name, func(e *orchestrator.Emulator) (uint64, error) {
			res, err := fn(goja.Undefined(), vm.ToValue(b))
			if err != nil {
				return 0, fmt.Errorf("script: %s: %w", name, err)
			}
			return uint64(res.ToInteger()), nil
		})
	}

	return nil
}

// Hook Bridge (spec.md §4.4): a uniform, safe hook API layered over the
// raw Unicorn callback ABI. Grounded on the teacher's setupHooks/HookAdd
// usage in internal/emulator/emulator.go (single uc.HOOK_CODE registration
// with begin=1, end=0 meaning "any address", plus an addrHooks map keyed
// by address), generalized to every hook kind spec.md §4.4's table names
// and given real keyboard-interrupt protection: the teacher never needed
// it because its address hooks can't panic past Go's call stack into C,
// but a user-supplied callback can, so every wrapper here recovers and
// converts the panic into stop(UNEXPECTED) before returning to Unicorn.
package orchestrator

import (
	"fmt"

	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/coreemu/coreemu/internal/emutype"
)

// CodeHookFunc is the per-instruction / per-basic-block callback.
type CodeHookFunc func(e *Emulator, addr uint64, size uint32)

// InterruptHookFunc is the interrupt-class callback.
type InterruptHookFunc func(e *Emulator, intno uint32)

// AddressHookFunc fires only when execution reaches its registered
// address (spec.md §4.4 "single address": no parameters besides the
// emulator).
type AddressHookFunc func(e *Emulator)

// InsnHookFunc fires on a specific instruction class (e.g. the x86
// SYSCALL/SYSENTER opcode). No parameters besides the emulator.
type InsnHookFunc func(e *Emulator)

// MemHookFunc is the read/write/fetch (valid-access) callback.
type MemHookFunc func(e *Emulator, addr uint64, size int, value int64)

// MemFaultHookFunc is the invalid/unmapped-access callback. Returning true
// tells the engine the access was handled (e.g. the hook mapped the page
// and retried); returning false leaves it to the engine's default fault
// behavior (spec.md §7 "MemoryFault raised ... when no user hook consumes
// it").
type MemFaultHookFunc func(e *Emulator, addr uint64, size int, value int64) bool

// guard recovers a panic raised inside a user callback and converts it
// into the keyboard-interrupt-protection contract of spec.md §4.4: stash
// the error in internal_exception, call stop(UNEXPECTED), and return
// normally so nothing unwinds across the Unicorn callback boundary.
func (e *Emulator) guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("hook panic: %v", r)
			}
			e.internalException = err
			e.stop(emutype.StopUnexpected)
		}
	}()
	fn()
}

// HookCode registers a callback fired before every instruction in
// [begin, end). begin > end means "any address", matching the teacher's
// (1, 0) convention and spec.md §4.4's registration rule.
func (e *Emulator) HookCode(begin, end uint64, cb CodeHookFunc) error {
	_, err := e.mu.HookAdd(uc.HOOK_CODE, func(mu uc.Unicorn, addr uint64, size uint32) {
		e.guard(func() { cb(e, addr, size) })
	}, begin, end)
	return err
}

// HookBlock registers a callback fired once per basic block entered.
func (e *Emulator) HookBlock(begin, end uint64, cb CodeHookFunc) error {
	_, err := e.mu.HookAdd(uc.HOOK_BLOCK, func(mu uc.Unicorn, addr uint64, size uint32) {
		e.guard(func() { cb(e, addr, size) })
	}, begin, end)
	return err
}

// HookInterrupt registers a callback fired on CPU interrupt/exception
// delivery (e.g. x86 INT n, ARM SWI).
func (e *Emulator) HookInterrupt(cb InterruptHookFunc) error {
	_, err := e.mu.HookAdd(uc.HOOK_INTR, func(mu uc.Unicorn, intno uint32) {
		e.guard(func() { cb(e, intno) })
	}, 1, 0)
	return err
}

// HookAddress expresses spec.md §4.4's "single address" hook kind as
// begin = end = addr on the code hook, firing the callback with no
// per-instruction parameters.
func (e *Emulator) HookAddress(addr uint64, cb AddressHookFunc) error {
	_, err := e.mu.HookAdd(uc.HOOK_CODE, func(mu uc.Unicorn, a uint64, size uint32) {
		if a != addr {
			return
		}
		e.guard(func() { cb(e) })
	}, addr, addr)
	return err
}

// HookInsn registers a callback for a specific instruction-class hook
// (e.g. uc.X86_INS_SYSCALL). Go's variadic HookAdd extra-args slot carries
// the instruction id through to Unicorn.
func (e *Emulator) HookInsn(insnID int, cb InsnHookFunc) error {
	_, err := e.mu.HookAdd(uc.HOOK_INSN, func(mu uc.Unicorn) {
		e.guard(func() { cb(e) })
	}, 1, 0, insnID)
	return err
}

// HookMemRead, HookMemWrite and HookMemFetch register callbacks for valid
// memory accesses of the given kind in [begin, end).
func (e *Emulator) HookMemRead(begin, end uint64, cb MemHookFunc) error {
	return e.hookMemValid(uc.HOOK_MEM_READ, begin, end, cb)
}

func (e *Emulator) HookMemWrite(begin, end uint64, cb MemHookFunc) error {
	return e.hookMemValid(uc.HOOK_MEM_WRITE, begin, end, cb)
}

func (e *Emulator) HookMemFetch(begin, end uint64, cb MemHookFunc) error {
	return e.hookMemValid(uc.HOOK_MEM_FETCH, begin, end, cb)
}

func (e *Emulator) hookMemValid(kind int, begin, end uint64, cb MemHookFunc) error {
	_, err := e.mu.HookAdd(kind, func(mu uc.Unicorn, access int, addr uint64, size int, value int64) {
		e.guard(func() { cb(e, addr, size, value) })
	}, begin, end)
	return err
}

// HookMemReadInvalid, HookMemWriteInvalid, HookMemFetchInvalid and
// HookMemUnmapped register callbacks for faulting accesses. The combined
// uc.HOOK_MEM_INVALID kind covers every *_PROT and *_UNMAPPED variant in
// one registration, matching what a single "unmapped/invalid" hook kind
// in spec.md §4.4's table means in practice.
func (e *Emulator) HookMemReadInvalid(begin, end uint64, cb MemFaultHookFunc) error {
	return e.hookMemFault(uc.HOOK_MEM_READ_INVALID, begin, end, cb)
}

func (e *Emulator) HookMemWriteInvalid(begin, end uint64, cb MemFaultHookFunc) error {
	return e.hookMemFault(uc.HOOK_MEM_WRITE_INVALID, begin, end, cb)
}

func (e *Emulator) HookMemFetchInvalid(begin, end uint64, cb MemFaultHookFunc) error {
	return e.hookMemFault(uc.HOOK_MEM_FETCH_INVALID, begin, end, cb)
}

func (e *Emulator) HookMemUnmapped(begin, end uint64, cb MemFaultHookFunc) error {
	return e.hookMemFault(uc.HOOK_MEM_INVALID, begin, end, cb)
}

func (e *Emulator) hookMemFault(kind int, begin, end uint64, cb MemFaultHookFunc) error {
	var handled bool
	_, err := e.mu.HookAdd(kind, func(mu uc.Unicorn, access int, addr uint64, size int, value int64) bool {
		e.guard(func() { handled = cb(e, addr, size, value) })
		return handled
	}, begin, end)
	return err
}

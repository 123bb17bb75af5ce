// Package posix implements the POSIX syscall dispatch OS personalities
// (linux, freebsd, macos) drive from their runner: resolve a raw syscall
// number to a symbolic name, give any override installed via
// Emulator.SetSyscall first refusal, and otherwise run the built-in
// implementation against the orchestrator's fd table and guest memory.
// Grounded on the teacher's internal/stubs/libc.go (the override-map-
// first, built-in-fallback dispatch shape) but reimplemented for real
// syscall semantics instead of Android libc-mock behavior: read/write
// against the real fd table, exit/exit_group actually stopping the
// engine, mmap/brk/mprotect against the Memory Map Registry (munmap is
// acknowledged without unmapping anything).
package posix

import (
	"fmt"

	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/coreemu/coreemu/internal/emutype"
	"github.com/coreemu/coreemu/internal/orchestrator"
)

// ABI is the calling convention for reading syscall number and arguments
// off CPU registers; each supported (arch, bits) combination has one.
type ABI struct {
	NumReg  int
	ArgRegs []int
	RetReg  int
}

// x8664 uses the Linux/System V syscall ABI: rax=nr, rdi,rsi,rdx,r10,r8,r9.
var x8664ABI = ABI{
	NumReg:  uc.X86_REG_RAX,
	ArgRegs: []int{uc.X86_REG_RDI, uc.X86_REG_RSI, uc.X86_REG_RDX, uc.X86_REG_R10, uc.X86_REG_R8, uc.X86_REG_R9},
	RetReg:  uc.X86_REG_RAX,
}

// x86ABI is the int 0x80 32-bit ABI: eax=nr, ebx,ecx,edx,esi,edi,ebp.
var x86ABI = ABI{
	NumReg:  uc.X86_REG_EAX,
	ArgRegs: []int{uc.X86_REG_EBX, uc.X86_REG_ECX, uc.X86_REG_EDX, uc.X86_REG_ESI, uc.X86_REG_EDI, uc.X86_REG_EBP},
	RetReg:  uc.X86_REG_EAX,
}

// arm uses r7=nr, r0..r5 args, r0 return (EABI convention).
var armABI = ABI{
	NumReg:  uc.ARM_REG_R7,
	ArgRegs: []int{uc.ARM_REG_R0, uc.ARM_REG_R1, uc.ARM_REG_R2, uc.ARM_REG_R3, uc.ARM_REG_R4, uc.ARM_REG_R5},
	RetReg:  uc.ARM_REG_R0,
}

// arm64 uses x8=nr, x0..x5 args, x0 return.
var arm64ABI = ABI{
	NumReg:  uc.ARM64_REG_X8,
	ArgRegs: []int{uc.ARM64_REG_X0, uc.ARM64_REG_X1, uc.ARM64_REG_X2, uc.ARM64_REG_X3, uc.ARM64_REG_X4, uc.ARM64_REG_X5},
	RetReg:  uc.ARM64_REG_X0,
}

// mips uses $v0=nr, $a0..$a3 args, $v0 return.
var mipsABI = ABI{
	NumReg:  uc.MIPS_REG_V0,
	ArgRegs: []int{uc.MIPS_REG_A0, uc.MIPS_REG_A1, uc.MIPS_REG_A2, uc.MIPS_REG_A3},
	RetReg:  uc.MIPS_REG_V0,
}

// ABIFor returns the syscall calling convention for an architecture.
func ABIFor(arch emutype.Arch) (ABI, bool) {
	switch arch {
	case emutype.ArchX8664:
		return x8664ABI, true
	case emutype.ArchX86:
		return x86ABI, true
	case emutype.ArchARM, emutype.ArchARMThumb:
		return armABI, true
	case emutype.ArchARM64:
		return arm64ABI, true
	case emutype.ArchMIPS32:
		return mipsABI, true
	default:
		return ABI{}, false
	}
}

// args reads the syscall's argument registers off e.
func (a ABI) args(e *orchestrator.Emulator, n int) ([]uint64, error) {
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		if i >= len(a.ArgRegs) {
			return nil, fmt.Errorf("syscall needs %d args, ABI only carries %d in registers", n, len(a.ArgRegs))
		}
		v, err := e.RegRead(a.ArgRegs[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Dispatch reads the syscall number off e per its architecture's ABI,
// resolves it to a name via the OS family's syscall table (syscallName:
// FreeBSD's own, the Linux tables otherwise), gives any override
// installed through Emulator.SetSyscall first refusal, falls back to the
// built-in implementation, and writes the return value back.
//
// Unknown syscall numbers with neither an override nor a built-in return
// -ENOSYS without stopping the engine, matching how a real kernel
// responds to an unimplemented syscall.
func Dispatch(e *orchestrator.Emulator) error {
	abi, ok := ABIFor(e.ArchType())
	if !ok {
		return fmt.Errorf("posix dispatch: unsupported architecture %s", e.ArchType())
	}

	nr, err := e.RegRead(abi.NumReg)
	if err != nil {
		return err
	}

	name, known := syscallName(e.OSType(), e.ArchType(), uint32(nr))

	var ret uint64
	var callErr error

	if known {
		if cb, ok := e.Syscall(name); ok {
			ret, callErr = cb(e)
		} else if fn, ok := builtins[name]; ok {
			ret, callErr = fn(e, abi)
		} else {
			ret = negErrno(ENOSYS)
		}
	} else {
		ret = negErrno(ENOSYS)
	}

	if callErr != nil {
		return callErr
	}
	return e.RegWrite(abi.RetReg, ret)
}

// negErrno packs -errno the way a 64-bit two's-complement return register
// does (what libc's syscall wrapper checks against).
func negErrno(errno int) uint64 {
	return uint64(int64(-errno))
}

package posix

import "github.com/coreemu/coreemu/internal/emutype"

// linuxSyscallNumbers maps the x86-64 Linux syscall numbers this
// orchestrator resolves by name to their symbolic names. i386 (int 0x80)
// has its own table below; every other architecture (ARM, ARM-Thumb,
// ARM64, MIPS32) is resolved against this x86-64 numbering, not its own.
var linuxSyscallNumbers = map[uint32]string{
	0:   "read",
	1:   "write",
	2:   "open",
	3:   "close",
	9:   "mmap",
	10:  "mprotect",
	11:  "munmap",
	12:  "brk",
	60:  "exit",
	231: "exit_group",
	56:  "clone",
	57:  "fork",
}

// x86SyscallNumbers is the i386 int 0x80 table's numbering for the same
// syscall set (it differs from x86-64's almost everywhere).
var x86SyscallNumbers = map[uint32]string{
	1:   "exit",
	2:   "fork",
	3:   "read",
	4:   "write",
	5:   "open",
	6:   "close",
	45:  "brk",
	90:  "mmap",
	91:  "munmap",
	125: "mprotect",
	120: "clone",
	252: "exit_group",
}

func linuxSyscallName(arch emutype.Arch, nr uint32) (string, bool) {
	if arch == emutype.ArchX86 {
		name, ok := x86SyscallNumbers[nr]
		return name, ok
	}
	name, ok := linuxSyscallNumbers[nr]
	return name, ok
}

// syscallName dispatches to the OS family's numbering table; macOS shares
// the POSIX ABI calling convention internal/posix implements but isn't
// given its own table since this orchestrator doesn't yet load Mach-O
// images (see internal/personality/macos for the scope note).
func syscallName(os emutype.OS, arch emutype.Arch, nr uint32) (string, bool) {
	if os == emutype.OSFreeBSD {
		return freebsdSyscallName(nr)
	}
	return linuxSyscallName(arch, nr)
}

// Errno values this package's built-ins can return (linux/x86_64 values;
// shared across arches at the symbolic level since only the number the
// kernel assigns differs and this orchestrator never surfaces raw
// platform-specific errno tables to guest code beyond these few).
const (
	EBADF  = 9
	EINVAL = 22
	ENOSYS = 38
)

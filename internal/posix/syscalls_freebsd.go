package posix

// freebsdSyscallNumbers covers the same syscall set as
// linuxSyscallNumbers except clone and fork, numbered the way FreeBSD's
// kernel ABI does (the two diverge almost everywhere past the first few).
var freebsdSyscallNumbers = map[uint32]string{
	1:   "exit",
	3:   "read",
	4:   "write",
	5:   "open",
	6:   "close",
	17:  "brk",
	73:  "munmap",
	74:  "mprotect",
	477: "mmap",
	431: "exit_group",
}

func freebsdSyscallName(nr uint32) (string, bool) {
	name, ok := freebsdSyscallNumbers[nr]
	return name, ok
}

package posix

import (
	"os"

	"github.com/coreemu/coreemu/internal/orchestrator"
)

type builtinFunc func(e *orchestrator.Emulator, abi ABI) (uint64, error)

var builtins = map[string]builtinFunc{
	"read":       sysRead,
	"write":      sysWrite,
	"open":       sysOpen,
	"close":      sysClose,
	"exit":       sysExit,
	"exit_group": sysExitGroup,
	"brk":        sysBrk,
	"mmap":       sysMmap,
	"mprotect":   sysMprotect,
	"munmap":     sysMunmap,
}

func sysRead(e *orchestrator.Emulator, abi ABI) (uint64, error) {
	a, err := abi.args(e, 3)
	if err != nil {
		return 0, err
	}
	fd, buf, count := int(a[0]), a[1], a[2]

	f := e.FDs().Get(fd)
	if f == nil {
		return negErrno(EBADF), nil
	}
	data := make([]byte, count)
	n, err := f.Read(data)
	if n > 0 {
		if werr := e.MemWrite(buf, data[:n]); werr != nil {
			return negErrno(EINVAL), nil
		}
	}
	if err != nil && n == 0 {
		return 0, nil // EOF reads as a zero-length read, not an error, at this layer
	}
	return uint64(n), nil
}

func sysWrite(e *orchestrator.Emulator, abi ABI) (uint64, error) {
	a, err := abi.args(e, 3)
	if err != nil {
		return 0, err
	}
	fd, buf, count := int(a[0]), a[1], a[2]

	f := e.FDs().Get(fd)
	if f == nil {
		return negErrno(EBADF), nil
	}
	data, err := e.MemRead(buf, count)
	if err != nil {
		return negErrno(EINVAL), nil
	}
	n, err := f.Write(data)
	if err != nil {
		return negErrno(EINVAL), nil
	}
	return uint64(n), nil
}

func sysOpen(e *orchestrator.Emulator, abi ABI) (uint64, error) {
	a, err := abi.args(e, 3)
	if err != nil {
		return 0, err
	}
	pathAddr := a[0]

	path, err := readCString(e, pathAddr, 4096)
	if err != nil {
		return negErrno(EINVAL), nil
	}
	host := e.ResolveGuestPath(path)
	f, err := openHostFile(host)
	if err != nil {
		return negErrno(EBADF), nil
	}
	fd := e.FDs().Alloc(f)
	if fd < 0 {
		_ = f.Close()
		return negErrno(EBADF), nil
	}
	return uint64(fd), nil
}

func sysClose(e *orchestrator.Emulator, abi ABI) (uint64, error) {
	a, err := abi.args(e, 1)
	if err != nil {
		return 0, err
	}
	if err := e.FDs().Close(int(a[0])); err != nil {
		return negErrno(EBADF), nil
	}
	return 0, nil
}

func sysExit(e *orchestrator.Emulator, abi ABI) (uint64, error) {
	e.Stop()
	return 0, nil
}

func sysExitGroup(e *orchestrator.Emulator, abi ABI) (uint64, error) {
	e.Stop()
	return 0, nil
}

func sysBrk(e *orchestrator.Emulator, abi ABI) (uint64, error) {
	a, err := abi.args(e, 1)
	if err != nil {
		return 0, err
	}
	newBrk := a[0]
	if newBrk == 0 {
		return e.Brk(), nil
	}
	const pageSize = 0x1000
	if newBrk > e.Brk() {
		aligned := (newBrk + pageSize - 1) &^ (pageSize - 1)
		_ = e.MemMapRegion(e.Brk(), aligned-e.Brk(), "rw-", "[heap]")
	}
	e.SetBrk(newBrk)
	return e.Brk(), nil
}

func sysMmap(e *orchestrator.Emulator, abi ABI) (uint64, error) {
	a, err := abi.args(e, 6)
	if err != nil {
		return 0, err
	}
	length := a[1]
	const pageSize = 0x1000
	aligned := (length + pageSize - 1) &^ (pageSize - 1)
	if aligned == 0 {
		aligned = pageSize
	}
	addr := e.MemMap().NextFreeRegion(aligned, e.MmapStart())
	if err := e.MemMapRegion(addr, aligned, "rw-", "[mmap]"); err != nil {
		return negErrno(EINVAL), nil
	}
	return addr, nil
}

func sysMprotect(e *orchestrator.Emulator, abi ABI) (uint64, error) {
	a, err := abi.args(e, 3)
	if err != nil {
		return 0, err
	}
	addr := a[0]
	perms := permsFromProt(a[2])
	e.MemMap().Insert(addr, addr+a[1], perms, "")
	return 0, nil
}

func sysMunmap(e *orchestrator.Emulator, abi ABI) (uint64, error) {
	// Unicorn has no MemUnmap call in the Engine interface this package
	// relies on; honoring munmap fully would need direct uc.Unicorn
	// access this package deliberately doesn't have. Acknowledge the
	// call without faulting the guest, which is what most guests that
	// only unmap at exit actually depend on.
	return 0, nil
}

// permsFromProt renders the PROT_READ(1)/PROT_WRITE(2)/PROT_EXEC(4)
// bitmask as the Memory Map Registry's "rwx"-style string.
func permsFromProt(prot uint64) string {
	r, w, x := byte('-'), byte('-'), byte('-')
	if prot&0x1 != 0 {
		r = 'r'
	}
	if prot&0x2 != 0 {
		w = 'w'
	}
	if prot&0x4 != 0 {
		x = 'x'
	}
	return string([]byte{r, w, x})
}

// openHostFile opens the resolved host path read-write, creating it if it
// doesn't exist, matching the common case of a guest open() with unknown
// flags; the orchestrator doesn't decode the guest's O_* bitmask since it
// differs per architecture/libc and no built-in here needs that precision.
func openHostFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
}

func readCString(e *orchestrator.Emulator, addr uint64, max int) (string, error) {
	const chunk = 64
	var out []byte
	for len(out) < max {
		n := chunk
		if len(out)+n > max {
			n = max - len(out)
		}
		data, err := e.MemRead(addr+uint64(len(out)), uint64(n))
		if err != nil {
			return "", err
		}
		for _, b := range data {
			if b == 0 {
				return string(out), nil
			}
			out = append(out, b)
		}
	}
	return string(out), nil
}

package orchestrator

import "io"

// FDTableSize is the fixed slot count (spec.md §9 "Fd table as fixed
// array": "Keep the 256-slot shape for ABI fidelity").
const FDTableSize = 256

// fdSlot wraps one file descriptor's host-side backing. A nil slot.file
// together with used=false is an empty slot, distinct from a slot that
// is legitimately bound to nothing readable/writable (the option-type
// requirement in spec.md §9).
type fdSlot struct {
	used bool
	file fdFile
}

// fdFile is the minimal host-side handle a guest fd needs: ReadWriteCloser
// covers stdio (an *os.File) as well as in-memory capture buffers used in
// tests (spec.md §8 scenario 1, "stdout bound to a capture buffer").
type fdFile interface {
	io.Reader
	io.Writer
	io.Closer
}

// fdTable is the POSIX-family fixed-array fd table (spec.md §4.5 step 4,
// §9). It's owned by the emulator and only ever mutated on the
// engine-calling host thread (spec.md §5 "Shared-resource policy").
type fdTable struct {
	slots [FDTableSize]fdSlot
}

func newFDTable(stdin, stdout, stderr fdFile) *fdTable {
	t := &fdTable{}
	t.bind(0, stdin)
	t.bind(1, stdout)
	t.bind(2, stderr)
	return t
}

// bind occupies a specific fd number (used for the fixed 0/1/2 stdio
// bindings spec.md §4.5 step 4 requires).
func (t *fdTable) bind(fd int, f fdFile) {
	t.slots[fd] = fdSlot{used: true, file: f}
}

// Alloc finds the lowest free slot, binds f into it and returns its fd
// number, or -1 if the table is full.
func (t *fdTable) Alloc(f fdFile) int {
	for i := range t.slots {
		if !t.slots[i].used {
			t.slots[i] = fdSlot{used: true, file: f}
			return i
		}
	}
	return -1
}

// Get returns the file bound to fd, or nil if fd is out of range or the
// slot is empty.
func (t *fdTable) Get(fd int) fdFile {
	if fd < 0 || fd >= FDTableSize || !t.slots[fd].used {
		return nil
	}
	return t.slots[fd].file
}

// Close releases fd's slot, closing the underlying file if it's open.
func (t *fdTable) Close(fd int) error {
	if fd < 0 || fd >= FDTableSize || !t.slots[fd].used {
		return nil
	}
	f := t.slots[fd].file
	t.slots[fd] = fdSlot{}
	if f != nil {
		return f.Close()
	}
	return nil
}

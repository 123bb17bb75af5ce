// Construction options (spec.md §4.5 "Construction contract"): a named,
// compile-time-checked struct in place of the source's open keyword-
// argument bag (spec.md §9 "Open configuration bag -> enumerated options
// struct"). Every field in the §4.5 table has a home here; there is no
// escape hatch for unknown options because there is no map.
package orchestrator

import "io"

// Options enumerates every construction knob spec.md §4.5 names.
type Options struct {
	// Filename holds the guest image path(s); Filename[0] is the primary
	// image, the rest become argv[1..] candidates for multi-file loaders.
	// Required (as a non-empty slice) in image mode; spec.md §9 notes the
	// source's behavior when this isn't a sequence is undefined and asks
	// new implementations to just require a sequence.
	Filename []string
	Rootfs   string

	Argv []string
	Env  []string

	// Shellcoder selects shellcode mode when non-empty; Arch/OS must be set
	// explicitly in that mode since there's no image header to sniff.
	Shellcoder []byte

	OSType   string
	ArchType string

	BigEndian bool
	LibCache  bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Output  string
	Verbose int

	LogConsole bool
	LogDir     string
	LogSplit   bool

	MmapStart    uint64
	StackAddress uint64
	StackSize    uint64
	InterpBase   uint64

	DebugFile string

	// Debugger is the "kind:ip:port" spec consumed by run() (spec.md
	// §4.5 run() contract step 1). Empty means no debugger.
	Debugger string
}

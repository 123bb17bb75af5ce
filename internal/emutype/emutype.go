// Package emutype holds the small closed-set tagged values shared across
// the orchestrator, the arch profiles and the OS personalities, so that
// none of those packages need to import each other just to agree on what
// "arm64" or "linux" means. This is the Go replacement for qiling's loose
// QL_ARCH/QL_OS/QL_OUTPUT string constants (qiling/core.py's
// arch_convert/ostype_convert/output_convert calls) — a tagged variant
// dispatched through a capability table, per spec.md §9.
package emutype

import "strings"

// Arch is the closed set of architectures the orchestrator supports.
type Arch int

const (
	ArchUnknown Arch = iota
	ArchX86
	ArchX8664
	ArchARM
	ArchARMThumb
	ArchARM64
	ArchMIPS32
)

func (a Arch) String() string {
	switch a {
	case ArchX86:
		return "x86"
	case ArchX8664:
		return "x8664"
	case ArchARM:
		return "arm"
	case ArchARMThumb:
		return "arm_thumb"
	case ArchARM64:
		return "arm64"
	case ArchMIPS32:
		return "mips32"
	default:
		return "unknown"
	}
}

// ParseArch normalizes a user-supplied arch string the way the source's
// arch_convert() does (lower-case, a handful of aliases).
func ParseArch(s string) Arch {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x86":
		return ArchX86
	case "x8664", "x86_64", "amd64":
		return ArchX8664
	case "arm":
		return ArchARM
	case "arm_thumb", "armthumb", "thumb":
		return ArchARMThumb
	case "arm64", "aarch64":
		return ArchARM64
	case "mips32", "mips":
		return ArchMIPS32
	default:
		return ArchUnknown
	}
}

// EndianSwitchable is the set of architectures that can run in either
// endianness (ARM and MIPS32 cores support big-endian variants; x86 and
// ARM64 as qiling implements them do not).
var EndianSwitchable = map[Arch]bool{
	ArchARM:      true,
	ArchARMThumb: true,
	ArchMIPS32:   true,
}

// Endian is the byte order used to pack/unpack machine words and to
// configure the CPU engine.
type Endian int

const (
	EndianLittle Endian = iota
	EndianBig
)

// OS is the closed set of guest operating-system personalities.
type OS int

const (
	OSUnknown OS = iota
	OSLinux
	OSFreeBSD
	OSMacOS
	OSWindows
)

func (o OS) String() string {
	switch o {
	case OSLinux:
		return "linux"
	case OSFreeBSD:
		return "freebsd"
	case OSMacOS:
		return "macos"
	case OSWindows:
		return "windows"
	default:
		return "unknown"
	}
}

// ParseOS normalizes a user-supplied ostype string (ostype_convert()).
func ParseOS(s string) OS {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux":
		return OSLinux
	case "freebsd":
		return OSFreeBSD
	case "macos", "darwin":
		return OSMacOS
	case "windows", "win32":
		return OSWindows
	default:
		return OSUnknown
	}
}

// IsPosix reports whether the OS belongs to the POSIX family that shares
// an fd table / signal table / syscall-override map (spec.md §3, §4.6).
func (o OS) IsPosix() bool {
	return o == OSLinux || o == OSFreeBSD || o == OSMacOS
}

// HostPlatform is the host's own OS, used only for a handful of
// environment-dependent defaults (analogous to qiling's platform.setter
// mapping Python's platform.system() string).
type HostPlatform int

const (
	HostUnknown HostPlatform = iota
	HostLinux
	HostFreeBSD
	HostMacOS
	HostWindows
)

// HostPlatformFromGOOS maps runtime.GOOS to a HostPlatform tag.
func HostPlatformFromGOOS(goos string) HostPlatform {
	switch goos {
	case "linux":
		return HostLinux
	case "freebsd":
		return HostFreeBSD
	case "darwin":
		return HostMacOS
	case "windows":
		return HostWindows
	default:
		return HostUnknown
	}
}

// Output is the trace/log verbosity mode (QL_OUTPUT).
type Output int

const (
	OutputDefault Output = iota
	OutputOff
	OutputDisasm
	OutputDebug
	OutputDump
)

func (o Output) String() string {
	switch o {
	case OutputOff:
		return "off"
	case OutputDisasm:
		return "disasm"
	case OutputDebug:
		return "debug"
	case OutputDump:
		return "dump"
	default:
		return "default"
	}
}

// ParseOutput normalizes a user-supplied output string (output_convert()).
// ok is false for anything other than the five known modes.
func ParseOutput(s string) (out Output, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return OutputDefault, true
	case "off":
		return OutputOff, true
	case "disasm":
		return OutputDisasm, true
	case "debug":
		return OutputDebug, true
	case "dump":
		return OutputDump, true
	default:
		return OutputDefault, false
	}
}

// StopReason identifies why the orchestrator stopped the CPU engine.
// EXIT_GROUP is the default used by a normal exit syscall; Unexpected is
// reserved for the keyboard-interrupt/hook-panic channel (spec.md §4.4);
// Timeout and UntilAddr cover the two runner-enforced conditions implied
// by set_timeout/set_exit (spec.md §4.5, §5).
type StopReason int

const (
	StopExitGroup StopReason = iota
	StopUnexpected
	StopTimeout
	StopUntilAddr
)

func (r StopReason) String() string {
	switch r {
	case StopUnexpected:
		return "unexpected"
	case StopTimeout:
		return "timeout"
	case StopUntilAddr:
		return "until_addr"
	default:
		return "exit_group"
	}
}

// DebuggerKind is the closed set of supported remote-debugger backends.
type DebuggerKind int

const (
	DebuggerGDB DebuggerKind = iota
	DebuggerIDAPro
)

func (k DebuggerKind) String() string {
	if k == DebuggerIDAPro {
		return "idapro"
	}
	return "gdb"
}

// ParseDebuggerKind normalizes a debugger spec's "kind" component.
func ParseDebuggerKind(s string) (DebuggerKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gdb":
		return DebuggerGDB, true
	case "idapro", "ida":
		return DebuggerIDAPro, true
	default:
		return DebuggerGDB, false
	}
}

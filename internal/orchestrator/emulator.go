// Package orchestrator implements the Orchestrator (spec.md §4.5): the
// central Emulator type that owns the CPU engine, the Arch Profile, the
// Memory Map Registry, the Patch Set, the fd table and the OS personality
// dispatch. Grounded on the teacher's internal/emulator/emulator.go
// (Unicorn wrapper, register/memory accessors, Run/Stop/Close, the
// addrHooks + HookAdd pattern) generalized from a single hardcoded ARM64
// Android target to the full construction contract spec.md §4.5 names.
package orchestrator

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/coreemu/coreemu/internal/archprofile"
	"github.com/coreemu/coreemu/internal/emuerr"
	"github.com/coreemu/coreemu/internal/emutype"
	"github.com/coreemu/coreemu/internal/log"
)

// SyscallFunc is a POSIX syscall override installed via SetSyscall.
type SyscallFunc func(e *Emulator) (ret uint64, err error)

// APIFunc is a Windows API override installed via SetAPI.
type APIFunc func(e *Emulator) (ret uint64, err error)

// fsMapping is one entry in the guest-path-to-host-path mapper list
// (spec.md §4.6 add_fs_mapper, §6 "Host-path conventions").
type fsMapping struct {
	guestPrefix string
	hostTarget  string
}

// ThreadManager is the back-reference surface the orchestrator needs from
// the optional cooperative thread manager (spec.md §9 "Thread manager as
// collaborator": the orchestrator holds a reference to the manager, never
// to individual threads). Satisfied by internal/threadmgr.Manager.
type ThreadManager interface {
	// CurrentSink returns the log sink of the currently scheduled guest
	// thread, or nil if no thread is current.
	CurrentSink() *log.Logger
	// StopCurrent marks the currently scheduled thread stopped with reason.
	StopCurrent(reason emutype.StopReason)
}

// Emulator is the Orchestrator: the single stateful object a caller
// constructs and drives through run(). It is not safe for concurrent use
// from more than one host thread (spec.md §5 "single-threaded with
// respect to the CPU engine").
type Emulator struct {
	mu uc.Unicorn

	profile  *archprofile.Profile
	ostype   emutype.OS
	archtype emutype.Arch
	runtype  string // e.g. "linux/x8664", introspectable by runners

	filename []string
	rootfs   string
	argv     []string
	env      []string

	shellcoder []byte

	libcache bool

	memmap   *MemoryMapRegistry
	patch    *PatchSet
	loadBase uint64
	brk      uint64

	mmapStart    uint64
	stackAddress uint64
	stackSize    uint64
	interpBase   uint64

	fds *fdTable

	syscalls map[string]SyscallFunc
	apis     map[string]APIFunc
	fsmap    []fsMapping

	threads ThreadManager

	output  emutype.Output
	verbose int

	rootLog  *log.Logger
	logFile  *os.File
	logSplit bool

	timeoutMicros uint64
	exitAddr      uint64
	hasExitAddr   bool

	stopped           bool
	stopReason        emutype.StopReason
	internalException error

	debuggerSpec string
}

// New constructs the Orchestrator per spec.md §4.5's seven-step
// construction algorithm.
func New(opts Options) (*Emulator, error) {
	// Step 1: normalize string-form ostype/archtype to enum tags.
	ostype := emutype.ParseOS(opts.OSType)
	archtype := emutype.ParseArch(opts.ArchType)

	imageMode := len(opts.Shellcoder) == 0

	// Step 2: in image mode, require filename[0] and rootfs to exist.
	if imageMode {
		if len(opts.Filename) == 0 {
			return nil, emuerr.ErrFileNotFound
		}
		if _, err := os.Stat(opts.Filename[0]); err != nil {
			return nil, fmt.Errorf("%w: %s", emuerr.ErrFileNotFound, opts.Filename[0])
		}
		if opts.Rootfs == "" {
			return nil, emuerr.ErrFileNotFound
		}
		if _, err := os.Stat(opts.Rootfs); err != nil {
			return nil, fmt.Errorf("%w: %s", emuerr.ErrFileNotFound, opts.Rootfs)
		}
		if ostype == emutype.OSUnknown || archtype == emutype.ArchUnknown {
			detOS, detArch, err := detectImageHeader(opts.Filename[0])
			if err != nil {
				return nil, err
			}
			if ostype == emutype.OSUnknown {
				ostype = detOS
			}
			if archtype == emutype.ArchUnknown {
				archtype = detArch
			}
		}
	}

	// Step 5 (validated early so we fail before touching the engine):
	// reject unknown arch/ostype/output, and verbose/output constraints.
	if archtype == emutype.ArchUnknown {
		return nil, emuerr.ErrInvalidArch
	}
	if ostype == emutype.OSUnknown {
		return nil, emuerr.ErrInvalidOsType
	}
	output, ok := emutype.ParseOutput(opts.Output)
	if !ok {
		return nil, emuerr.ErrInvalidOutput
	}
	if opts.Verbose > 0 && output != emutype.OutputDebug && output != emutype.OutputDump {
		return nil, fmt.Errorf("%w: verbose > 0 requires output debug or dump", emuerr.ErrInvalidOutput)
	}
	if opts.Verbose < 0 || opts.Verbose > 99 {
		return nil, fmt.Errorf("%w: verbose must be 0..99", emuerr.ErrInvalidOutput)
	}

	// Step 3: configure logging.
	rootLog := log.New(output == emutype.OutputDebug || output == emutype.OutputDump)
	var logFile *os.File
	if opts.LogDir != "" && opts.Rootfs != "" {
		base := "emulator"
		if len(opts.Filename) > 0 {
			base = filepath.Base(opts.Filename[0])
		}
		path := filepath.Join(opts.Rootfs, opts.LogDir, fmt.Sprintf("%s_%d", base, os.Getpid()))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			fileLog, f, err := log.NewFile(path, opts.Verbose > 0)
			if err == nil {
				rootLog = fileLog
				logFile = f
			}
		}
	}

	// Step 6: resolve the Arch Profile and bit width / pointer size;
	// force endianness for non-switchable archs, honor bigendian for
	// switchable ones.
	profile := archprofile.New(archtype)
	if profile == nil {
		return nil, emuerr.ErrInvalidArch
	}
	if opts.BigEndian {
		profile.SetEndian(emutype.EndianBig)
	} else {
		profile.SetEndian(emutype.EndianLittle)
	}

	mu, err := uc.NewUnicorn(profile.UnicornArch(), profile.UnicornMode())
	if err != nil {
		return nil, fmt.Errorf("create cpu engine: %w", err)
	}

	e := &Emulator{
		mu:           mu,
		profile:      profile,
		ostype:       ostype,
		archtype:     archtype,
		filename:     append([]string(nil), opts.Filename...),
		rootfs:       opts.Rootfs,
		argv:         append([]string(nil), opts.Argv...),
		env:          append([]string(nil), opts.Env...),
		shellcoder:   append([]byte(nil), opts.Shellcoder...),
		libcache:     opts.LibCache,
		memmap:       NewMemoryMapRegistry(),
		patch:        NewPatchSet(),
		syscalls:     make(map[string]SyscallFunc),
		apis:         make(map[string]APIFunc),
		output:       output,
		verbose:      opts.Verbose,
		rootLog:      rootLog,
		logFile:      logFile,
		logSplit:     opts.LogSplit,
		debuggerSpec: opts.Debugger,
		mmapStart:    opts.MmapStart,
		stackAddress: opts.StackAddress,
		stackSize:    opts.StackSize,
		interpBase:   opts.InterpBase,
	}

	// Step 4: if POSIX family, allocate the fd table bound to effective
	// stdio. No signal-action table is allocated, here or in any
	// personality.
	if ostype.IsPosix() {
		stdin := wrapStdio(opts.Stdin, os.Stdin)
		stdout := wrapStdio(opts.Stdout, os.Stdout)
		stderr := wrapStdio(opts.Stderr, os.Stderr)
		e.fds = newFDTable(stdin, stdout, stderr)
	}

	// Step 7: shellcode mode applies pending patches then invokes the
	// OS-specific loader_shellcode; image mode invokes loader_file.
	if !imageMode {
		if err := e.shellcode(); err != nil {
			mu.Close()
			return nil, err
		}
	} else {
		if err := e.loadExec(); err != nil {
			mu.Close()
			return nil, err
		}
	}

	return e, nil
}

// detectImageHeader auto-detects ostype/archtype from a guest image's ELF
// header when neither was supplied explicitly (spec.md §4.5 step 2). This
// is deliberately a thin, stdlib-only machine-tag sniff rather than a
// full loader (the full segment/symbol/relocation loader lives in
// internal/loader and is only ever invoked later, from a personality's
// loader_file, once archtype/ostype are already settled) — keeping it
// here avoids a loader<->orchestrator import cycle (the full loader needs
// *Emulator to map segments; this doesn't need anything).
func detectImageHeader(path string) (emutype.OS, emutype.Arch, error) {
	f, err := elf.Open(path)
	if err != nil {
		return emutype.OSUnknown, emutype.ArchUnknown, fmt.Errorf("%w: %v", emuerr.ErrInvalidArch, err)
	}
	defer f.Close()

	var arch emutype.Arch
	switch f.Machine {
	case elf.EM_386:
		arch = emutype.ArchX86
	case elf.EM_X86_64:
		arch = emutype.ArchX8664
	case elf.EM_ARM:
		arch = emutype.ArchARM
	case elf.EM_AARCH64:
		arch = emutype.ArchARM64
	case elf.EM_MIPS:
		arch = emutype.ArchMIPS32
	default:
		return emutype.OSUnknown, emutype.ArchUnknown, fmt.Errorf("%w: unrecognized ELF machine %v", emuerr.ErrInvalidArch, f.Machine)
	}

	// ELF doesn't name a single OS the way PE/Mach-O headers do; every
	// machine this switch accepts is one this orchestrator only loads
	// for Linux guests, so that's the OS we report when the caller left
	// ostype unset.
	return emutype.OSLinux, arch, nil
}

type stdioFile struct {
	r interface{ Read([]byte) (int, error) }
	w interface{ Write([]byte) (int, error) }
	c *os.File
}

func (s *stdioFile) Read(p []byte) (int, error) {
	if s.r != nil {
		return s.r.Read(p)
	}
	return 0, fmt.Errorf("fd not readable")
}

func (s *stdioFile) Write(p []byte) (int, error) {
	if s.w != nil {
		return s.w.Write(p)
	}
	return 0, fmt.Errorf("fd not writable")
}

func (s *stdioFile) Close() error {
	if s.c != nil {
		return s.c.Close()
	}
	return nil
}

func wrapStdio(override any, fallback *os.File) fdFile {
	switch v := override.(type) {
	case nil:
		return &stdioFile{r: fallback, w: fallback, c: fallback}
	case interface {
		Read([]byte) (int, error)
		Write([]byte) (int, error)
	}:
		return &stdioFile{r: v, w: v}
	case interface{ Read([]byte) (int, error) }:
		return &stdioFile{r: v}
	case interface{ Write([]byte) (int, error) }:
		return &stdioFile{w: v}
	default:
		return &stdioFile{r: fallback, w: fallback, c: fallback}
	}
}

// shellcode applies pending binary patches then invokes the OS-specific
// loader_shellcode (spec.md §4.5 step 7).
func (e *Emulator) shellcode() error {
	funcs, ok := lookupPersonality(e.ostype, e.archtype)
	if !ok {
		return fmt.Errorf("%w: no personality registered for %s/%s", emuerr.ErrInvalidOsType, e.ostype, e.archtype)
	}
	e.runtype = e.ostype.String() + "/" + e.archtype.String()
	if err := e.patch.ApplyBin(e, e.loadBase); err != nil {
		return err
	}
	return funcs.LoaderShellcode(e)
}

// loadExec invokes the OS-specific loader_file (spec.md §4.5 step 7).
func (e *Emulator) loadExec() error {
	funcs, ok := lookupPersonality(e.ostype, e.archtype)
	if !ok {
		return fmt.Errorf("%w: no personality registered for %s/%s", emuerr.ErrInvalidOsType, e.ostype, e.archtype)
	}
	e.runtype = e.ostype.String() + "/" + e.archtype.String()
	return funcs.LoaderFile(e)
}

// Run implements the run() contract (spec.md §4.5).
func (e *Emulator) Run() (err error) {
	var dbg *wrappedDebuggerSession
	if e.debuggerSpec != "" {
		dbg, err = startDebugger(e, e.debuggerSpec)
		if err != nil {
			return err
		}
	}

	if err := e.patch.ApplyBin(e, e.loadBase); err != nil {
		return err
	}
	if err := e.patch.ApplyLib(e, e.memmap); err != nil {
		return err
	}

	funcs, ok := lookupPersonality(e.ostype, e.archtype)
	if !ok {
		return fmt.Errorf("%w: no personality registered for %s/%s", emuerr.ErrInvalidOsType, e.ostype, e.archtype)
	}
	if err := funcs.Runner(e); err != nil {
		return err
	}

	if dbg != nil {
		return dbg.driveToCompletion()
	}
	return nil
}

// stop is the internal stop primitive; exported as Stop.
func (e *Emulator) stop(reason emutype.StopReason) {
	if e.stopped {
		return
	}
	e.stopped = true
	e.stopReason = reason
	if e.threads != nil {
		e.threads.StopCurrent(reason)
	}
	e.mu.Stop()
}

// Stop stops emulation with the default EXIT_GROUP reason. Safe to call
// from a hook
// callback (spec.md §4.5, §5 "stop() is the sole cancellation primitive
// and is safe from any hook").
func (e *Emulator) Stop() { e.stop(emutype.StopExitGroup) }

// StopWithReason stops emulation recording a specific reason.
func (e *Emulator) StopWithReason(reason emutype.StopReason) { e.stop(reason) }

// InternalException returns the error stashed by the keyboard-interrupt
// protection channel (spec.md §4.4, §7), or nil if none.
func (e *Emulator) InternalException() error { return e.internalException }

// StopReason returns why the engine last stopped.
func (e *Emulator) StopReason() emutype.StopReason { return e.stopReason }

// SetTimeout sets the runner's execution budget in microseconds; 0 means
// unbounded (spec.md §4.5, §5).
func (e *Emulator) SetTimeout(micros uint64) { e.timeoutMicros = micros }

// SetExit sets the address the runner should stop at (spec.md §4.5
// set_exit, §5 "until_addr").
func (e *Emulator) SetExit(addr uint64) {
	e.exitAddr = addr
	e.hasExitAddr = true
}

// StartFrom runs the CPU engine from `from`, honoring timeout/exit-address
// exactly as spec.md §5 describes: timer expiry is a normal stop, not a
// fault. Called by OS/arch runners (spec.md §4.6's "runner owns the CPU
// engine's start/stop loop"), never directly by user code.
func (e *Emulator) StartFrom(from uint64) error {
	e.stopped = false
	until := uint64(0)
	if e.hasExitAddr {
		until = e.exitAddr
	}

	var err error
	if e.timeoutMicros > 0 {
		err = e.mu.StartWithOptions(from, until, &uc.UcOptions{Timeout: e.timeoutMicros})
	} else {
		err = e.mu.Start(from, until)
	}
	if err != nil {
		return err
	}
	if e.internalException != nil {
		return e.internalException
	}
	return nil
}

// Profile returns the Arch Profile.
func (e *Emulator) Profile() *archprofile.Profile { return e.profile }

// OSType returns the guest OS personality tag.
func (e *Emulator) OSType() emutype.OS { return e.ostype }

// ArchType returns the guest architecture tag.
func (e *Emulator) ArchType() emutype.Arch { return e.archtype }

// Runtype returns the "os/arch" string set once a personality has been
// dispatched (spec.md §4.6 "runtype is remembered on the orchestrator").
func (e *Emulator) Runtype() string { return e.runtype }

// Rootfs, Filename, Argv, Env expose the construction-time identity
// fields OS personalities and loaders need.
// Shellcode returns the raw bytes passed as Options.Shellcoder.
func (e *Emulator) Shellcode() []byte { return e.shellcoder }

func (e *Emulator) Rootfs() string     { return e.rootfs }
func (e *Emulator) Filename() []string { return e.filename }
func (e *Emulator) Argv() []string     { return e.argv }
func (e *Emulator) Env() []string      { return e.env }

// SetLoadBase records the address the primary image was mapped at, so
// later ApplyBin calls (e.g. from run()) target the right base.
func (e *Emulator) SetLoadBase(base uint64) { e.loadBase = base }

// MmapStart, StackAddress, StackSize and InterpBase expose the
// construction-time placement hints (spec.md §4.5 construction table);
// 0 means "let the loader/personality pick a default".
func (e *Emulator) MmapStart() uint64    { return e.mmapStart }
func (e *Emulator) StackAddress() uint64 { return e.stackAddress }
func (e *Emulator) StackSize() uint64    { return e.stackSize }
func (e *Emulator) InterpBase() uint64   { return e.interpBase }
func (e *Emulator) LoadBase() uint64     { return e.loadBase }

// Brk returns the current program break (0 until a loader or the brk
// syscall sets one).
func (e *Emulator) Brk() uint64 { return e.brk }

// SetBrk updates the program break.
func (e *Emulator) SetBrk(addr uint64) { e.brk = addr }

// MemMap returns the Memory Map Registry.
func (e *Emulator) MemMap() *MemoryMapRegistry { return e.memmap }

// Patch returns the Patch Set.
func (e *Emulator) Patch() *PatchSet { return e.patch }

// FDs returns the POSIX fd table, or nil for a non-POSIX personality.
func (e *Emulator) FDs() *fdTable { return e.fds }

// SetSyscall installs a POSIX syscall override by symbolic name (spec.md
// §4.6 set_syscall; id-to-name resolution is done by the posix layer
// before dispatch, since only it knows the per-arch syscall table).
func (e *Emulator) SetSyscall(name string, cb SyscallFunc) { e.syscalls[name] = cb }

// Syscall looks up a previously installed syscall override.
func (e *Emulator) Syscall(name string) (SyscallFunc, bool) {
	cb, ok := e.syscalls[name]
	return cb, ok
}

// SetAPI installs a Windows API override (spec.md §4.6 set_api).
func (e *Emulator) SetAPI(name string, cb APIFunc) { e.apis[name] = cb }

// API looks up a previously installed Windows API override.
func (e *Emulator) API(name string) (APIFunc, bool) {
	cb, ok := e.apis[name]
	return cb, ok
}

// AddFSMapper appends a guest-prefix-to-host-target mapping; first match
// wins on lookup (spec.md §4.6 add_fs_mapper, §6).
func (e *Emulator) AddFSMapper(guestPrefix, hostTarget string) {
	e.fsmap = append(e.fsmap, fsMapping{guestPrefix: guestPrefix, hostTarget: hostTarget})
}

// ResolveGuestPath translates a guest path through the fs-mapper list,
// falling back to rootfs-relative when nothing matches (spec.md §6
// "Host-path conventions").
func (e *Emulator) ResolveGuestPath(guestPath string) string {
	for _, m := range e.fsmap {
		if rel, ok := cutPrefix(guestPath, m.guestPrefix); ok {
			return filepath.Join(m.hostTarget, rel)
		}
	}
	return filepath.Join(e.rootfs, guestPath)
}

func cutPrefix(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return "", false
	}
	return s[len(prefix):], true
}

// SetThreadManager attaches the optional cooperative thread manager
// (spec.md §9 "Thread manager as collaborator").
func (e *Emulator) SetThreadManager(tm ThreadManager) { e.threads = tm }

// MemRead and MemWrite delegate to the CPU engine (spec.md §4.5 "Memory
// accessors").
func (e *Emulator) MemRead(addr, size uint64) ([]byte, error) { return e.mu.MemRead(addr, size) }
func (e *Emulator) MemWrite(addr uint64, data []byte) error   { return e.mu.MemWrite(addr, data) }

// MemMapRegion maps a new memory region into the engine and registers it
// in the Memory Map Registry.
func (e *Emulator) MemMapRegion(addr, size uint64, perms, label string) error {
	if err := e.mu.MemMap(addr, size); err != nil {
		return err
	}
	e.memmap.Insert(addr, addr+size, perms, label)
	return nil
}

// RegRead and RegWrite delegate to the CPU engine.
func (e *Emulator) RegRead(reg int) (uint64, error)    { return e.mu.RegRead(reg) }
func (e *Emulator) RegWrite(reg int, val uint64) error { return e.mu.RegWrite(reg, val) }

// PC, SetPC, SP, SetSP are Arch-Profile-delegated register accessors.
func (e *Emulator) PC() uint64 {
	v, _ := e.profile.GetPC(e)
	return v
}

func (e *Emulator) SetPC(v uint64) error { return e.profile.SetPC(e, v) }

func (e *Emulator) SP() uint64 {
	v, _ := e.profile.GetSP(e)
	return v
}

func (e *Emulator) SetSP(v uint64) error { return e.profile.SetSP(e, v) }

// Pack encodes a machine word using the current Arch Profile's bit width
// and endianness (spec.md §4.5 "Integer pack/unpack helpers").
func (e *Emulator) Pack(word uint64) ([]byte, error) {
	return packWidth(word, e.profile.BitWidth(), e.profile.Endian())
}

// Unpack decodes an unsigned machine word.
func (e *Emulator) Unpack(data []byte) (uint64, error) {
	return unpackWidth(data, e.profile.BitWidth(), e.profile.Endian())
}

// Unpacks decodes a signed machine word, sign-extended to int64.
func (e *Emulator) Unpacks(data []byte) (int64, error) {
	u, err := e.Unpack(data)
	if err != nil {
		return 0, err
	}
	switch e.profile.BitWidth() {
	case 32:
		return int64(int32(uint32(u))), nil
	default:
		return int64(u), nil
	}
}

func packWidth(word uint64, bits int, endian emutype.Endian) ([]byte, error) {
	order := byteOrderFor(endian)
	switch bits {
	case 32:
		buf := make([]byte, 4)
		order.PutUint32(buf, uint32(word))
		return buf, nil
	case 64:
		buf := make([]byte, 8)
		order.PutUint64(buf, word)
		return buf, nil
	default:
		return nil, fmt.Errorf("%w: archbit=%d", emuerr.ErrPackWidthUnsupported, bits)
	}
}

func unpackWidth(data []byte, bits int, endian emutype.Endian) (uint64, error) {
	order := byteOrderFor(endian)
	switch bits {
	case 32:
		if len(data) < 4 {
			return 0, fmt.Errorf("unpack: need 4 bytes, got %d", len(data))
		}
		return uint64(order.Uint32(data)), nil
	case 64:
		if len(data) < 8 {
			return 0, fmt.Errorf("unpack: need 8 bytes, got %d", len(data))
		}
		return order.Uint64(data), nil
	default:
		return 0, fmt.Errorf("%w: archbit=%d", emuerr.ErrPackWidthUnsupported, bits)
	}
}

func byteOrderFor(endian emutype.Endian) binary.ByteOrder {
	if endian == emutype.EndianBig {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// UnpackNative32Signed decodes a 32-bit signed integer in host byte
// order, unconditionally, regardless of the guest's Arch Profile
// endianness (spec.md §4.5: "A native-order 32-bit signed unpack is also
// exposed, used by syscall ABIs that are always host-order"). All
// supported build targets for this engine are little-endian hosts.
func UnpackNative32Signed(data []byte) int32 {
	return int32(binary.LittleEndian.Uint32(data))
}

// Nprint is the Thread-Aware Logger's unconditional write path (spec.md
// §4.7's nprint): routes to the current thread's sink if a thread manager
// is active, otherwise the root sink; suppressed entirely when output is
// off. Sinks are always flushed (zap.Logger.Sync) after writing.
func (e *Emulator) Nprint(category, name, detail string) {
	if e.output == emutype.OutputOff {
		return
	}
	sink := e.rootLog
	if e.threads != nil {
		if s := e.threads.CurrentSink(); s != nil {
			sink = s
		}
	}
	sink.Trace(e.PC(), category, name, detail)
	_ = sink.Sync()
}

// Dprint is the Thread-Aware Logger's debug-severity path (spec.md §4.7's
// dprint): validates the verbose/output constraint, then emits only if
// verbose >= level and output is debug or dump.
func (e *Emulator) Dprint(level int, category, name, detail string) error {
	if e.verbose > 0 && e.output != emutype.OutputDebug && e.output != emutype.OutputDump {
		return emuerr.ErrInvalidOutput
	}
	if e.verbose < level {
		return nil
	}
	if e.output != emutype.OutputDebug && e.output != emutype.OutputDump {
		return nil
	}
	e.Nprint(category, name, detail)
	return nil
}

// Output returns the configured trace/log verbosity mode.
func (e *Emulator) Output() emutype.Output { return e.output }

// Verbose returns the configured verbosity level (0..99).
func (e *Emulator) Verbose() int { return e.verbose }

// RootLogger returns the root log sink, for components (the thread
// manager, the debugger bridge) that need to derive per-thread or
// per-session sinks from it.
func (e *Emulator) RootLogger() *log.Logger { return e.rootLog }

// LogSplit reports whether per-thread log files were requested
// (spec.md §4.5 log_split).
func (e *Emulator) LogSplit() bool { return e.logSplit }

// Close releases the CPU engine and any open log file.
func (e *Emulator) Close() error {
	err := e.mu.Close()
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
	return err
}

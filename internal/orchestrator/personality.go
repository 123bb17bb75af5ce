// OS Personality Dispatch (spec.md §4.6): a registry of per-(os,arch)
// entry points. Grounded on the teacher's internal/stubs/registry.go
// self-registration pattern (subpackages call a package-level Register
// function from init()), adapted so the registry itself lives here
// instead of in a separate parent package — internal/personality/<os>
// subpackages import this package to register, which would otherwise
// cycle back through a shared parent type.
package orchestrator

import (
	"github.com/coreemu/coreemu/internal/emuerr"
	"github.com/coreemu/coreemu/internal/emutype"
)

// PersonalityFuncs is the three required entry points spec.md §6 names
// for every supported (ostype, arch) pair.
type PersonalityFuncs struct {
	LoaderFile      func(e *Emulator) error
	LoaderShellcode func(e *Emulator) error
	Runner          func(e *Emulator) error
}

type personalityKey struct {
	os   emutype.OS
	arch emutype.Arch
}

var personalityRegistry = map[personalityKey]PersonalityFuncs{}

// RegisterPersonality installs the loader/runner triple for one
// (os, arch) pair. Called from the personality subpackages' init()
// functions.
func RegisterPersonality(os emutype.OS, arch emutype.Arch, funcs PersonalityFuncs) {
	personalityRegistry[personalityKey{os: os, arch: arch}] = funcs
}

func lookupPersonality(os emutype.OS, arch emutype.Arch) (PersonalityFuncs, bool) {
	funcs, ok := personalityRegistry[personalityKey{os: os, arch: arch}]
	return funcs, ok
}

// DebuggerSession is the lifecycle surface run() needs from a started
// debugger bridge (spec.md §4.5 run() contract step 4: "drive its
// run-to-completion").
type DebuggerSession interface {
	DriveToCompletion() error
}

// debuggerStarterFunc is registered by internal/debugger so orchestrator
// never has to import it directly (which would cycle, since the debugger
// bridge needs *Emulator to read/write guest state).
type debuggerStarterFunc func(e *Emulator, spec string) (DebuggerSession, error)

var debuggerStarter debuggerStarterFunc

// RegisterDebugger installs the debugger-bridge starter. Called from
// internal/debugger's init().
func RegisterDebugger(fn func(e *Emulator, spec string) (DebuggerSession, error)) {
	debuggerStarter = fn
}

func startDebugger(e *Emulator, spec string) (*wrappedDebuggerSession, error) {
	if debuggerStarter == nil {
		return nil, emuerr.ErrDebuggerUnsupported
	}
	s, err := debuggerStarter(e, spec)
	if err != nil {
		return nil, err
	}
	return &wrappedDebuggerSession{s}, nil
}

type wrappedDebuggerSession struct {
	DebuggerSession
}

func (w *wrappedDebuggerSession) driveToCompletion() error {
	if w == nil || w.DebuggerSession == nil {
		return nil
	}
	return w.DriveToCompletion()
}

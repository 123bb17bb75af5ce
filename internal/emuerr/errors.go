// Package emuerr defines the sentinel errors the orchestrator surfaces to
// callers. They are designed for errors.Is/errors.As, not a bespoke
// exception hierarchy, matching the wrapped-stdlib-error style the teacher
// uses throughout internal/emulator/emulator.go ("%w" everywhere).
package emuerr

import "errors"

// Construction-time errors (spec.md §7).
var (
	ErrFileNotFound            = errors.New("target binary or rootfs not found")
	ErrInvalidArch             = errors.New("invalid or unsupported architecture")
	ErrInvalidOsType           = errors.New("invalid or unsupported os type")
	ErrInvalidOutput           = errors.New("invalid output mode or verbose/output constraint violated")
	ErrDebuggerUnsupported     = errors.New("debugger backend not supported")
	ErrRemoteDebugSessionEnded = errors.New("remote debugging session ended")
	ErrMemoryFault             = errors.New("unhandled memory fault")
	ErrPackWidthUnsupported    = errors.New("pack/unpack called with unsupported archbit")
)

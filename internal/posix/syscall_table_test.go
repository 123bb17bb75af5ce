package posix

import (
	"testing"

	"github.com/coreemu/coreemu/internal/emutype"
)

func TestSyscallNameLinuxX8664(t *testing.T) {
	name, ok := syscallName(emutype.OSLinux, emutype.ArchX8664, 1)
	if !ok || name != "write" {
		t.Fatalf("got (%q, %v), want (write, true)", name, ok)
	}
}

func TestSyscallNameLinuxX86DivergesFromX8664(t *testing.T) {
	// Syscall 1 means "write" on x86-64 but "exit" on i386 int 0x80.
	name, ok := syscallName(emutype.OSLinux, emutype.ArchX86, 1)
	if !ok || name != "exit" {
		t.Fatalf("got (%q, %v), want (exit, true)", name, ok)
	}
}

func TestSyscallNameFreeBSDUsesItsOwnTable(t *testing.T) {
	name, ok := syscallName(emutype.OSFreeBSD, emutype.ArchX8664, 477)
	if !ok || name != "mmap" {
		t.Fatalf("got (%q, %v), want (mmap, true)", name, ok)
	}
	// Linux's number 9 (mmap on x86-64) must not resolve under FreeBSD.
	if _, ok := syscallName(emutype.OSFreeBSD, emutype.ArchX8664, 9); ok {
		t.Fatalf("expected FreeBSD table to not share Linux's mmap number")
	}
}

func TestSyscallNameMacOSFallsBackToLinuxTable(t *testing.T) {
	name, ok := syscallName(emutype.OSMacOS, emutype.ArchX8664, 0)
	if !ok || name != "read" {
		t.Fatalf("got (%q, %v), want (read, true)", name, ok)
	}
}

func TestSyscallNameUnknownNumber(t *testing.T) {
	if _, ok := syscallName(emutype.OSLinux, emutype.ArchX8664, 0xffff); ok {
		t.Fatalf("expected unknown syscall number to miss")
	}
}

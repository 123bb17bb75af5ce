package osconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/coreemu/coreemu/internal/emutype"
)

func TestPathForPosixVsWindows(t *testing.T) {
	if got := PathFor("/opt/coreemu", emutype.OSLinux); got != filepath.Join("/opt/coreemu", "posix", "configuration.cfg") {
		t.Fatalf("got %q", got)
	}
	if got := PathFor("/opt/coreemu", emutype.OSWindows); got != filepath.Join("/opt/coreemu", "windows", "configuration.cfg") {
		t.Fatalf("got %q", got)
	}
}

func TestLoadMissingFileReturnsZeroConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.cfg"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Config{}) {
		t.Fatalf("expected zero Config, got %+v", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "configuration.cfg")
	const doc = `
mmap_start: 0x40080000
stack_address: 0x7ffff000
stack_size: 0x200000
library_search_path:
  - /lib
  - /usr/lib
default_syscall_table: linux
`
	if err := writeFile(path, doc); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		MmapStart:           0x40080000,
		StackAddress:        0x7ffff000,
		StackSize:           0x200000,
		LibrarySearchPath:   []string{"/lib", "/usr/lib"},
		DefaultSyscallTable: "linux",
	}
	if cfg.MmapStart != want.MmapStart || cfg.StackAddress != want.StackAddress ||
		cfg.StackSize != want.StackSize || cfg.DefaultSyscallTable != want.DefaultSyscallTable ||
		len(cfg.LibrarySearchPath) != len(want.LibrarySearchPath) {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadInvalidYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "configuration.cfg")
	if err := writeFile(path, "mmap_start: [not a number"); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0644)
}

// Package osconfig loads the per-OS configuration file spec.md §6 names
// ("Configuration files": one well-known path per OS family, rooted in
// the framework's install directory — posix/configuration.cfg,
// windows/configuration.cfg). The OS Personality Dispatch component
// (spec.md §4.6) owns resolving which path applies to a given OS tag;
// this package owns parsing whatever YAML document lives there into a
// Config (default placement addresses, library search order, default
// syscall table). No personality or loader in this module calls Load.
//
// Grounded on the pack's only config-file precedent of the shape this
// spec calls for (a small keyed document read once at startup): none of
// the example repos ship a literal "configuration.cfg", so this uses
// gopkg.in/yaml.v3 — the config-parsing library already in the
// dependency stack — rather than inventing an INI parser.
package osconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coreemu/coreemu/internal/emutype"
)

// Config is the per-OS-family configuration document.
type Config struct {
	// MmapStart is the default search base for anonymous mmap placement
	// (overridden by Options.MmapStart when the caller sets one).
	MmapStart uint64 `yaml:"mmap_start"`
	// StackAddress/StackSize are the default guest stack placement.
	StackAddress uint64 `yaml:"stack_address"`
	StackSize    uint64 `yaml:"stack_size"`
	// LibrarySearchPath lists rootfs-relative directories the loader
	// searches, in order, when resolving a shared-library dependency by
	// name (spec.md §6 "filesystem mapper" collaborator feeds off this).
	LibrarySearchPath []string `yaml:"library_search_path"`
	// DefaultSyscallTable names which internal/posix numbering table a
	// personality should default to when an architecture supports more
	// than one ABI convention (e.g. a 32-bit compat mode).
	DefaultSyscallTable string `yaml:"default_syscall_table"`
}

// PathFor returns the well-known config path for an OS family, rooted at
// installDir (the framework's install directory).
func PathFor(installDir string, os_ emutype.OS) string {
	family := "posix"
	if os_ == emutype.OSWindows {
		family = "windows"
	}
	return filepath.Join(installDir, family, "configuration.cfg")
}

// Load reads and parses the configuration file at path. A missing file
// is not an error: it returns the zero Config, letting every knob fall
// back to its personality's hardcoded default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("osconfig: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("osconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}

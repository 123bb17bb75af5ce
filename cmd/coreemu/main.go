// Command coreemu is the CLI front-end for the Emulator Orchestrator:
// run a guest binary or shellcode buffer under emulation, optionally
// attaching a remote debugger or a live dashboard. Grounded on the
// teacher's cmd/galago/main.go (cobra root command + subcommand shape,
// flag set, colorized trace output), generalized from galago's single
// "extract keys from an ARM64 .so" purpose to the construction contract
// spec.md §4.5 names: arbitrary os/arch, image or shellcode mode. Only
// part of the construction knobs are exposed as flags (rootfs, os, arch,
// endianness, shellcode, output, verbose, debugger, timeout); env, log
// routing, libcache and the address-space placement options are not.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/coreemu/coreemu/internal/dashboard"
	_ "github.com/coreemu/coreemu/internal/debugger"
	"github.com/coreemu/coreemu/internal/disasm"
	"github.com/coreemu/coreemu/internal/orchestrator"
	_ "github.com/coreemu/coreemu/internal/personality/freebsd"
	_ "github.com/coreemu/coreemu/internal/personality/linux"
	_ "github.com/coreemu/coreemu/internal/personality/macos"
	_ "github.com/coreemu/coreemu/internal/personality/windows"
	"github.com/coreemu/coreemu/internal/script"
	"github.com/coreemu/coreemu/internal/ui/colorize"
)

var opts struct {
	rootfs      string
	osType      string
	archType    string
	bigEndian   bool
	shellcode   string
	scriptFile  string
	output      string
	verbose     int
	debugger    string
	timeoutMS   uint64
	dashboardOn bool
}

func main() {
	root := &cobra.Command{
		Use:   "coreemu [binary]",
		Short: "Run a guest binary or shellcode buffer under CPU emulation",
		Long: `coreemu constructs an Emulator Orchestrator over a guest image (or raw
shellcode), maps the simulated root filesystem, dispatches the OS
personality appropriate for its (os, arch), and runs it to completion or
to a chosen stopping condition.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBinary,
	}

	root.Flags().StringVar(&opts.rootfs, "rootfs", "", "simulated root filesystem directory")
	root.Flags().StringVar(&opts.osType, "os", "", "guest OS (linux, freebsd, macos, windows); auto-detected from the image when omitted")
	root.Flags().StringVar(&opts.archType, "arch", "", "guest architecture (x86, x8664, arm, arm_thumb, arm64, mips32); auto-detected from the image when omitted")
	root.Flags().BoolVar(&opts.bigEndian, "big-endian", false, "run an endian-switchable architecture (arm, mips32) big-endian")
	root.Flags().StringVar(&opts.shellcode, "shellcode", "", "path to a raw shellcode buffer (enables shellcode mode; requires --os and --arch)")
	root.Flags().StringVar(&opts.scriptFile, "script", "", "JS file defining syscall/API overrides (internal/script)")
	root.Flags().StringVar(&opts.output, "output", "default", "output mode: default, off, disasm, debug, dump")
	root.Flags().IntVarP(&opts.verbose, "verbose", "v", 0, "verbosity level (0..99); requires --output debug or dump")
	root.Flags().StringVar(&opts.debugger, "debugger", "", `attach a debugger: "kind:ip:port" or "ip:port" (kind defaults to gdb)`)
	root.Flags().Uint64Var(&opts.timeoutMS, "timeout-ms", 0, "stop after this many milliseconds of guest execution (0 = unbounded)")
	root.Flags().BoolVar(&opts.dashboardOn, "dashboard", false, "show a live TUI alongside the normal output")

	infoCmd := &cobra.Command{
		Use:   "info <binary>",
		Short: "Show a guest image's detected architecture and OS without running it",
		Args:  cobra.ExactArgs(1),
		RunE:  showInfo,
	}
	root.AddCommand(infoCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBinary(cmd *cobra.Command, args []string) error {
	o := orchestrator.Options{
		Rootfs:    opts.rootfs,
		OSType:    opts.osType,
		ArchType:  opts.archType,
		BigEndian: opts.bigEndian,
		Output:    opts.output,
		Verbose:   opts.verbose,
		Debugger:  opts.debugger,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}

	if opts.shellcode != "" {
		data, err := os.ReadFile(opts.shellcode)
		if err != nil {
			return fmt.Errorf("read shellcode: %w", err)
		}
		o.Shellcoder = data
	} else {
		if len(args) == 0 {
			return fmt.Errorf("a binary path is required unless --shellcode is set")
		}
		o.Filename = args
		o.Argv = args
	}

	e, err := orchestrator.New(o)
	if err != nil {
		return err
	}
	defer e.Close()

	if opts.timeoutMS > 0 {
		e.SetTimeout(opts.timeoutMS * 1000)
	}

	if opts.scriptFile != "" {
		if err := script.LoadOverrides(e, opts.scriptFile, defaultSyscallNames, nil); err != nil {
			return err
		}
	}

	if opts.dashboardOn {
		go func() { _ = dashboard.Run(dashboard.New(e)) }()
	}

	if opts.output == "disasm" {
		if err := e.HookCode(1, 0, func(e *orchestrator.Emulator, addr uint64, size uint32) {
			code, err := e.MemRead(addr, uint64(size))
			if err != nil {
				return
			}
			insn := disasm.Decode(e.ArchType(), addr, code)
			fmt.Println(colorize.Address(addr), colorize.Instruction(insn))
		}); err != nil {
			return err
		}
	}

	if err := e.Run(); err != nil {
		fmt.Fprintln(os.Stderr, colorize.Error(err.Error()))
		return err
	}
	return nil
}

// defaultSyscallNames lists the override-eligible syscall names a script
// file may define; kept short and explicit rather than discovered at
// runtime so a typo in a script silently installs nothing instead of
// crashing.
var defaultSyscallNames = []string{
	"read", "write", "open", "close", "exit", "exit_group",
	"brk", "mmap", "mprotect", "munmap",
}

func showInfo(cmd *cobra.Command, args []string) error {
	// Image mode requires an existing rootfs; info has no --rootfs flag,
	// so the image's own directory serves as one.
	o := orchestrator.Options{
		Filename: args,
		Rootfs:   filepath.Dir(args[0]),
		Output:   "off",
	}
	e, err := orchestrator.New(o)
	if err != nil {
		return err
	}
	defer e.Close()

	fmt.Printf("runtype: %s\n", e.Runtype())
	fmt.Printf("os:      %s\n", e.OSType())
	fmt.Printf("arch:    %s\n", e.ArchType())
	fmt.Printf("entry:   %s\n", colorize.Address(e.PC()))
	fmt.Println(e.MemMap().Dump())
	return nil
}

// Package debugger implements the debugger bridge spec.md §4.5/§6
// consumes only through orchestrator.DebuggerSession: parse a
// "kind:ip:port" (or "ip:port", kind defaulting to gdb) spec, bind a
// listener, and drive a remote-debugging session until the peer
// disconnects or the emulator stops. The concrete wire protocols (GDB's
// Remote Serial Protocol, IDA Pro's debugger-server protocol) are named
// in spec.md §6 as external collaborators referenced only by interface;
// this package implements the bridge lifecycle spec.md actually scopes
// (listen, accept, relay register reads and stop requests to the emulator,
// detect disconnect -> RemoteDebugSessionEnded) rather than a full RSP
// packet-format implementation. Grounded on the teacher's cmd/galago
// flag parsing for a "kind:ip:port"-shaped spec string, generalized from
// a single hardcoded backend to the extensible enumeration spec.md names.
package debugger

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"

	"golang.org/x/net/netutil"

	"github.com/coreemu/coreemu/internal/emuerr"
	emulog "github.com/coreemu/coreemu/internal/log"
	"github.com/coreemu/coreemu/internal/orchestrator"
)

func init() {
	orchestrator.RegisterDebugger(start)
}

// Kind is one of the supported debugger backends.
type Kind string

const (
	KindGDB    Kind = "gdb"
	KindIDAPro Kind = "idapro"
)

func parseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindGDB, KindIDAPro:
		return Kind(s), true
	default:
		return "", false
	}
}

// spec is a parsed "kind:ip:port" debugger string.
type spec struct {
	kind Kind
	ip   string
	port int
}

// parseSpec implements spec.md §4.5 run() step 1: kind defaults to gdb
// when the string has only two colon-separated fields ("ip:port").
func parseSpec(s string) (spec, error) {
	parts := strings.Split(s, ":")
	var kindStr, ip, portStr string
	switch len(parts) {
	case 2:
		kindStr, ip, portStr = string(KindGDB), parts[0], parts[1]
	case 3:
		kindStr, ip, portStr = parts[0], parts[1], parts[2]
	default:
		return spec{}, fmt.Errorf("%w: malformed debugger spec %q", emuerr.ErrDebuggerUnsupported, s)
	}

	kind, ok := parseKind(kindStr)
	if !ok {
		return spec{}, fmt.Errorf("%w: %q", emuerr.ErrDebuggerUnsupported, kindStr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return spec{}, fmt.Errorf("%w: bad port %q", emuerr.ErrDebuggerUnsupported, portStr)
	}
	return spec{kind: kind, ip: ip, port: port}, nil
}

// Session is a started debugger bridge, satisfying orchestrator.DebuggerSession.
type Session struct {
	kind     Kind
	listener net.Listener
	emu      *orchestrator.Emulator
	sink     *emulog.Logger
}

// start is registered with the orchestrator as the debugger-session
// starter (spec.md §4.5 run() step 1).
func start(e *orchestrator.Emulator, specStr string) (orchestrator.DebuggerSession, error) {
	sp, err := parseSpec(specStr)
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(sp.ip, strconv.Itoa(sp.port)))
	if err != nil {
		return nil, fmt.Errorf("debugger bridge: listen: %w", err)
	}
	// A debugger bridge serves exactly one controlling session at a time
	// (spec.md's model is one debugger attached to one emulator); cap the
	// listener so a second connection attempt blocks instead of racing
	// the first session for the emulator.
	limited := netutil.LimitListener(ln, 1)

	return &Session{kind: sp.kind, listener: limited, emu: e, sink: e.RootLogger().WithCategory("debugger")}, nil
}

// DriveToCompletion implements orchestrator.DebuggerSession: accept one
// peer connection and relay line-oriented register/stop commands
// against the emulator until the peer disconnects, at which point it
// returns ErrRemoteDebugSessionEnded per spec.md §7.
func (s *Session) DriveToCompletion() error {
	defer s.listener.Close()

	conn, err := s.listener.Accept()
	if err != nil {
		return fmt.Errorf("debugger bridge: accept: %w", err)
	}
	defer conn.Close()

	s.sink.TraceSimple("debugger", string(s.kind), "session started")

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		resp := s.handle(line)
		if _, err := conn.Write([]byte(resp + "\n")); err != nil {
			break
		}
	}

	s.sink.TraceSimple("debugger", string(s.kind), "session ended")
	return emuerr.ErrRemoteDebugSessionEnded
}

// handle answers a minimal command set common to both backends: read PC,
// read SP, read a register, or stop the emulator. A full RSP/idapro
// packet decoder belongs to the external debugger-server collaborator
// spec.md §6 scopes out, not this bridge.
func (s *Session) handle(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return "ERR empty command"
	}
	switch strings.ToLower(fields[0]) {
	case "pc":
		return fmt.Sprintf("%#x", s.emu.PC())
	case "sp":
		return fmt.Sprintf("%#x", s.emu.SP())
	case "reg":
		if len(fields) < 2 {
			return "ERR reg needs a register id"
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return "ERR bad register id"
		}
		v, err := s.emu.RegRead(id)
		if err != nil {
			return "ERR " + err.Error()
		}
		return fmt.Sprintf("%#x", v)
	case "stop":
		s.emu.Stop()
		return "OK"
	default:
		return "ERR unknown command " + fields[0]
	}
}

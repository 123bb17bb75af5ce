package debugger

import (
	"errors"
	"testing"

	"github.com/coreemu/coreemu/internal/emuerr"
)

func TestParseSpecTwoFieldDefaultsToGDB(t *testing.T) {
	sp, err := parseSpec("127.0.0.1:1234")
	if err != nil {
		t.Fatalf("parseSpec: %v", err)
	}
	if sp.kind != KindGDB || sp.ip != "127.0.0.1" || sp.port != 1234 {
		t.Fatalf("got %+v", sp)
	}
}

func TestParseSpecThreeFieldExplicitKind(t *testing.T) {
	sp, err := parseSpec("idapro:0.0.0.0:5555")
	if err != nil {
		t.Fatalf("parseSpec: %v", err)
	}
	if sp.kind != KindIDAPro || sp.ip != "0.0.0.0" || sp.port != 5555 {
		t.Fatalf("got %+v", sp)
	}
}

func TestParseSpecUnknownKind(t *testing.T) {
	if _, err := parseSpec("msvc:127.0.0.1:1234"); !errors.Is(err, emuerr.ErrDebuggerUnsupported) {
		t.Fatalf("expected ErrDebuggerUnsupported, got %v", err)
	}
}

func TestParseSpecBadPort(t *testing.T) {
	if _, err := parseSpec("127.0.0.1:notaport"); !errors.Is(err, emuerr.ErrDebuggerUnsupported) {
		t.Fatalf("expected ErrDebuggerUnsupported, got %v", err)
	}
}

func TestParseSpecMalformed(t *testing.T) {
	if _, err := parseSpec("just-a-hostname"); !errors.Is(err, emuerr.ErrDebuggerUnsupported) {
		t.Fatalf("expected ErrDebuggerUnsupported, got %v", err)
	}
}

func TestHandleUnknownCommand(t *testing.T) {
	s := &Session{}
	if got := s.handle("frobnicate"); got != "ERR unknown command frobnicate" {
		t.Fatalf("got %q", got)
	}
}

func TestHandleEmptyCommand(t *testing.T) {
	s := &Session{}
	if got := s.handle(""); got != "ERR empty command" {
		t.Fatalf("got %q", got)
	}
}

func TestHandleRegMissingID(t *testing.T) {
	s := &Session{}
	if got := s.handle("reg"); got != "ERR reg needs a register id" {
		t.Fatalf("got %q", got)
	}
}

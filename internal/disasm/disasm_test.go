package disasm

import (
	"strings"
	"testing"

	"github.com/coreemu/coreemu/internal/emutype"
)

func TestDecodeX8664(t *testing.T) {
	// 0xc3 == RET
	got := Decode(emutype.ArchX8664, 0, []byte{0xc3})
	if !strings.Contains(strings.ToUpper(got), "RET") {
		t.Fatalf("got %q, want something containing RET", got)
	}
}

func TestDecodeARM64(t *testing.T) {
	// NOP little-endian encoding: 0xd503201f
	got := Decode(emutype.ArchARM64, 0, []byte{0x1f, 0x20, 0x03, 0xd5})
	if !strings.Contains(strings.ToUpper(got), "NOP") {
		t.Fatalf("got %q, want something containing NOP", got)
	}
}

func TestDecodeARMFallsBackOnGarbage(t *testing.T) {
	got := Decode(emutype.ArchARM, 0, []byte{0xff, 0xff, 0xff, 0xff})
	if !strings.HasPrefix(got, ".word") {
		t.Fatalf("got %q, want a raw-word fallback", got)
	}
}

func TestDecodeMIPSAlwaysRawWord(t *testing.T) {
	got := Decode(emutype.ArchMIPS32, 0, []byte{0x00, 0x00, 0x00, 0x00})
	if got != ".word 0x00000000" {
		t.Fatalf("got %q, want raw word rendering (no x/arch MIPS decoder)", got)
	}
}

func TestDecodeTooShortIsUnknown(t *testing.T) {
	got := Decode(emutype.ArchARM64, 0, []byte{0x01, 0x02})
	if got != "???" {
		t.Fatalf("got %q, want ???", got)
	}
}

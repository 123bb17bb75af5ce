package archprofile

import (
	"testing"

	"github.com/coreemu/coreemu/internal/emutype"
)

// fakeEngine is a minimal in-memory Engine for exercising stack/register
// primitives without a real Unicorn handle, in the style of the teacher's
// direct register/memory assertions in internal/emulator/emulator_test.go.
type fakeEngine struct {
	regs map[int]uint64
	mem  map[uint64]byte
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{regs: make(map[int]uint64), mem: make(map[uint64]byte)}
}

func (f *fakeEngine) RegRead(reg int) (uint64, error)    { return f.regs[reg], nil }
func (f *fakeEngine) RegWrite(reg int, val uint64) error { f.regs[reg] = val; return nil }

func (f *fakeEngine) MemRead(addr, size uint64) ([]byte, error) {
	out := make([]byte, size)
	for i := uint64(0); i < size; i++ {
		out[i] = f.mem[addr+i]
	}
	return out, nil
}

func (f *fakeEngine) MemWrite(addr uint64, data []byte) error {
	for i, b := range data {
		f.mem[addr+uint64(i)] = b
	}
	return nil
}

func TestStackPushPopRoundTrip(t *testing.T) {
	p := New(emutype.ArchARM64)
	e := newFakeEngine()
	p.SetSP(e, 0x80000000)

	if _, err := p.PushWord(e, 0x1122334455667788); err != nil {
		t.Fatalf("PushWord: %v", err)
	}
	sp, _ := p.GetSP(e)
	if sp != 0x80000000-8 {
		t.Fatalf("sp after push = 0x%x, want 0x%x", sp, 0x80000000-8)
	}

	got, err := p.StackPop(e)
	if err != nil {
		t.Fatalf("StackPop: %v", err)
	}
	if got != 0x1122334455667788 {
		t.Fatalf("StackPop = 0x%x, want 0x1122334455667788", got)
	}
	sp, _ = p.GetSP(e)
	if sp != 0x80000000 {
		t.Fatalf("sp after pop = 0x%x, want restored 0x%x", sp, 0x80000000)
	}
}

func TestStackReadWriteDoesNotMoveSP(t *testing.T) {
	p := New(emutype.ArchX8664)
	e := newFakeEngine()
	p.SetSP(e, 0x7fff0000)

	if err := p.StackWrite(e, 8, 0xdeadbeef); err != nil {
		t.Fatalf("StackWrite: %v", err)
	}
	sp, _ := p.GetSP(e)
	if sp != 0x7fff0000 {
		t.Fatalf("StackWrite moved sp to 0x%x", sp)
	}

	got, err := p.StackRead(e, 8)
	if err != nil {
		t.Fatalf("StackRead: %v", err)
	}
	if got != 0xdeadbeef {
		t.Fatalf("StackRead = 0x%x, want 0xdeadbeef", got)
	}
}

func TestEndianSwitchability(t *testing.T) {
	arm := New(emutype.ArchARM)
	arm.SetEndian(emutype.EndianBig)
	if arm.Endian() != emutype.EndianBig {
		t.Fatalf("ARM should honor bigendian=true")
	}

	arm64 := New(emutype.ArchARM64)
	arm64.SetEndian(emutype.EndianBig)
	if arm64.Endian() != emutype.EndianLittle {
		t.Fatalf("ARM64 is not endian-switchable, must stay little")
	}
}

func TestPackWordEndianness(t *testing.T) {
	// 32-bit big-endian: 0x01020304 packs as [01 02 03 04].
	be := New(emutype.ArchARM)
	be.SetEndian(emutype.EndianBig)
	e := newFakeEngine()
	be.SetSP(e, 0x1000)
	addr, err := be.PushWord(e, 0x01020304)
	if err != nil {
		t.Fatalf("PushWord: %v", err)
	}
	data, _ := e.MemRead(addr, 4)
	want := []byte{0x01, 0x02, 0x03, 0x04}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("big-endian pack mismatch: got %x want %x", data, want)
		}
	}

	// 64-bit little-endian: 0x0102030405060708 packs reversed.
	le := New(emutype.ArchX8664)
	e2 := newFakeEngine()
	le.SetSP(e2, 0x2000)
	addr2, err := le.PushWord(e2, 0x0102030405060708)
	if err != nil {
		t.Fatalf("PushWord: %v", err)
	}
	data2, _ := e2.MemRead(addr2, 8)
	want2 := []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	for i := range want2 {
		if data2[i] != want2[i] {
			t.Fatalf("little-endian pack mismatch: got %x want %x", data2, want2)
		}
	}
}

// Package loader implements the generic ELF image loader OS personalities
// call from loader_file (spec.md §4.6). Grounded on the teacher's
// internal/emulator/elf.go (PT_LOAD segment mapping, relocation-offset
// computation for PIE images, PLT import-symbol resolution), generalized
// from a hardcoded ARM64-only loader to every architecture this
// orchestrator supports and stripped of its Cocos2d-x/JNI/C++-vtable
// specific heuristics (FindEntryPoint's priority list, initStringGlobals,
// VTables) which have no meaning outside that teacher's reverse-
// engineering use case (see DESIGN.md for the drop rationale).
package loader

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/coreemu/coreemu/internal/orchestrator"
)

// DefaultBase is the load address used to relocate position-independent
// (vaddr==0) images when the caller doesn't request a specific base.
const DefaultBase = 0x00400000

// relativeReloc maps an ELF machine to the machine-specific R_*_RELATIVE
// relocation type, the only relocation kind this loader resolves itself;
// everything else (GOT/PLT entries for symbols actually called) is left
// to the personality's syscall/API override layer to patch lazily.
var relativeReloc = map[elf.Machine]uint32{
	elf.EM_AARCH64: 1027, // R_AARCH64_RELATIVE
	elf.EM_X86_64:  8,    // R_X86_64_RELATIVE
	elf.EM_386:     8,    // R_386_RELATIVE
	elf.EM_ARM:     23,   // R_ARM_RELATIVE
}

// Segment is one mapped PT_LOAD segment.
type Segment struct {
	VAddr  uint64
	Offset uint64
	Size   uint64 // file size
	MemSz  uint64 // memory size (>= Size; remainder is zero-filled .bss)
	Flags  elf.ProgFlag
}

func (s Segment) IsExecutable() bool { return s.Flags&elf.PF_X != 0 }
func (s Segment) IsWritable() bool   { return s.Flags&elf.PF_W != 0 }
func (s Segment) IsReadable() bool   { return s.Flags&elf.PF_R != 0 }

// Image is the parsed, mapped result of loading one ELF file.
type Image struct {
	Path     string
	Machine  elf.Machine
	Entry    uint64
	Symbols  map[string]uint64 // symbol name -> resolved virtual address
	Imports  map[string]uint64 // external symbol name -> PLT stub address
	Segments []Segment
	BaseAddr uint64
	EndAddr  uint64
}

// FindSymbol returns a symbol's address, or 0 if unknown.
func (img *Image) FindSymbol(name string) uint64 { return img.Symbols[name] }

// Load opens path, maps its PT_LOAD segments into e starting at loadBase
// (0 auto-selects: the file's own vaddr for a fixed-position executable,
// DefaultBase for a PIE/shared image), resolves RELATIVE relocations, and
// registers the mapped range in e's Memory Map Registry under label
// filepath-basename(path).
func Load(e *orchestrator.Emulator, path string, loadBase uint64) (*Image, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ELF: %w", err)
	}
	defer f.Close()

	fileBase := ^uint64(0)
	fileEnd := uint64(0)
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		if prog.Vaddr < fileBase {
			fileBase = prog.Vaddr
		}
		if end := prog.Vaddr + prog.Memsz; end > fileEnd {
			fileEnd = end
		}
	}
	if fileBase == ^uint64(0) {
		return nil, fmt.Errorf("%s: no PT_LOAD segments", path)
	}

	var relocOffset uint64
	switch {
	case loadBase != 0:
		relocOffset = loadBase - fileBase
	case fileBase < 0x10000:
		relocOffset = DefaultBase - fileBase
	default:
		relocOffset = 0
	}

	img := &Image{
		Path:     path,
		Machine:  f.Machine,
		Entry:    f.Entry + relocOffset,
		Symbols:  make(map[string]uint64),
		Imports:  make(map[string]uint64),
		BaseAddr: fileBase + relocOffset,
		EndAddr:  fileEnd + relocOffset,
	}

	if syms, err := f.DynamicSymbols(); err == nil {
		addSymbols(img.Symbols, syms, relocOffset)
	}
	if syms, err := f.Symbols(); err == nil {
		addSymbols(img.Symbols, syms, relocOffset)
	}

	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	// mapErr accumulates one segment's MemMapRegion failure without
	// aborting the rest: a single bad region (e.g. overlapping an
	// already-mapped range) shouldn't hide mapping problems in the
	// segments after it.
	var mapErr error
	const pageSize = 0x1000
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		loadVAddr := prog.Vaddr + relocOffset
		seg := Segment{VAddr: loadVAddr, Offset: prog.Off, Size: prog.Filesz, MemSz: prog.Memsz, Flags: prog.Flags}
		img.Segments = append(img.Segments, seg)

		alignedAddr := loadVAddr &^ (pageSize - 1)
		alignedEnd := (loadVAddr + prog.Memsz + pageSize - 1) &^ (pageSize - 1)

		perms := "r--"
		if seg.IsWritable() {
			perms = "rw-"
		}
		if seg.IsExecutable() {
			perms = perms[:2] + "x"
		}
		if err := e.MemMapRegion(alignedAddr, alignedEnd-alignedAddr, perms, basename(path)); err != nil {
			mapErr = multierr.Append(mapErr, fmt.Errorf("map segment at 0x%x: %w", alignedAddr, err))
			continue
		}

		if prog.Filesz > 0 && prog.Off+prog.Filesz <= uint64(len(fileData)) {
			if err := e.MemWrite(loadVAddr, fileData[prog.Off:prog.Off+prog.Filesz]); err != nil {
				mapErr = multierr.Append(mapErr, fmt.Errorf("write segment at 0x%x: %w", loadVAddr, err))
			}
		}
		if prog.Memsz > prog.Filesz {
			bssStart := loadVAddr + prog.Filesz
			zeros := make([]byte, prog.Memsz-prog.Filesz)
			if err := e.MemWrite(bssStart, zeros); err != nil {
				mapErr = multierr.Append(mapErr, fmt.Errorf("zero bss at 0x%x: %w", bssStart, err))
			}
		}
	}
	if mapErr != nil {
		return nil, mapErr
	}

	addPLTSymbols(f, relocOffset, img.Symbols, img.Imports)

	if err := applyRelativeRelocations(e, f, relocOffset); err != nil {
		return nil, fmt.Errorf("apply relocations: %w", err)
	}

	e.SetLoadBase(img.BaseAddr)
	e.SetBrk((img.EndAddr + pageSize - 1) &^ (pageSize - 1))
	return img, nil
}

func addSymbols(dst map[string]uint64, syms []elf.Symbol, relocOffset uint64) {
	for _, sym := range syms {
		if sym.Value == 0 || sym.Name == "" {
			continue
		}
		addr := sym.Value + relocOffset
		dst[sym.Name] = addr
		if idx := strings.IndexByte(sym.Name, '@'); idx != -1 {
			dst[sym.Name[:idx]] = addr
		}
	}
}

// addPLTSymbols records the PLT stub address of every external dynamic
// symbol (value==0), so a personality's syscall/API override layer can
// hook calls to an unresolved libc function at its call site. The PLT
// header/entry sizes below are AArch64's, so other machines get no
// Imports entries.
func addPLTSymbols(f *elf.File, relocOffset uint64, symbols, imports map[string]uint64) {
	if f.Machine != elf.EM_AARCH64 {
		return
	}
	pltSec := f.Section(".plt")
	relaPlt := f.Section(".rela.plt")
	if pltSec == nil || relaPlt == nil {
		return
	}
	dynSyms, err := f.DynamicSymbols()
	if err != nil {
		return
	}
	relaData, err := relaPlt.Data()
	if err != nil {
		return
	}

	pltBase := pltSec.Addr + relocOffset
	const pltHeaderSize, pltEntrySize = 32, 16

	entryIdx := 0
	for i := 0; i+24 <= len(relaData); i += 24 {
		rInfo := binary.LittleEndian.Uint64(relaData[i+8:])
		symIdx := int(rInfo>>32) - 1 // Go's DynamicSymbols() drops STN_UNDEF at index 0
		if symIdx >= 0 && symIdx < len(dynSyms) {
			sym := dynSyms[symIdx]
			if sym.Name != "" && sym.Value == 0 {
				pltAddr := pltBase + pltHeaderSize + uint64(entryIdx)*pltEntrySize
				symbols[sym.Name] = pltAddr
				imports[sym.Name] = pltAddr
			}
		}
		entryIdx++
	}
}

// applyRelativeRelocations resolves R_*_RELATIVE entries (the only
// relocation kind a position-independent image needs fixed up before its
// entry point runs; everything else targets symbols this orchestrator's
// syscall/API override layer intercepts at the call site instead of at
// load time).
func applyRelativeRelocations(e *orchestrator.Emulator, f *elf.File, relocOffset uint64) error {
	relType, ok := relativeReloc[f.Machine]
	if !ok {
		return nil
	}
	for _, sec := range f.Sections {
		if sec.Type != elf.SHT_RELA || (sec.Name != ".rela.dyn" && sec.Name != ".rela.plt") {
			continue
		}
		data, err := sec.Data()
		if err != nil {
			continue
		}
		for i := 0; i+24 <= len(data); i += 24 {
			rOffset := binary.LittleEndian.Uint64(data[i:])
			rInfo := binary.LittleEndian.Uint64(data[i+8:])
			rAddend := int64(binary.LittleEndian.Uint64(data[i+16:]))
			if uint32(rInfo&0xFFFFFFFF) != relType {
				continue
			}
			resolved := relocOffset + uint64(rAddend)
			buf := make([]byte, 8)
			binary.LittleEndian.PutUint64(buf, resolved)
			_ = e.MemWrite(rOffset+relocOffset, buf)
		}
	}
	return nil
}

func basename(path string) string {
	if i := strings.LastIndexByte(path, '/'); i != -1 {
		return path[i+1:]
	}
	return path
}

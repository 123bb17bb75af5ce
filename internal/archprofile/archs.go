package archprofile

import (
	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/coreemu/coreemu/internal/emutype"
)

func newX86() *Profile {
	return &Profile{
		arch:       emutype.ArchX86,
		bits:       32,
		endian:     emutype.EndianLittle,
		switchable: false,
		ucArch:     uc.ARCH_X86,
		ucModeBase: uc.MODE_32,
		regPC:      uc.X86_REG_EIP,
		regSP:      uc.X86_REG_ESP,
	}
}

func newX8664() *Profile {
	return &Profile{
		arch:       emutype.ArchX8664,
		bits:       64,
		endian:     emutype.EndianLittle,
		switchable: false,
		ucArch:     uc.ARCH_X86,
		ucModeBase: uc.MODE_64,
		regPC:      uc.X86_REG_RIP,
		regSP:      uc.X86_REG_RSP,
	}
}

func newARM() *Profile {
	return &Profile{
		arch:       emutype.ArchARM,
		bits:       32,
		endian:     emutype.EndianLittle,
		switchable: true,
		ucArch:     uc.ARCH_ARM,
		ucModeBase: uc.MODE_ARM,
		regPC:      uc.ARM_REG_PC,
		regSP:      uc.ARM_REG_SP,
	}
}

func newARMThumb() *Profile {
	return &Profile{
		arch:       emutype.ArchARMThumb,
		bits:       32,
		endian:     emutype.EndianLittle,
		switchable: true,
		ucArch:     uc.ARCH_ARM,
		ucModeBase: uc.MODE_THUMB,
		regPC:      uc.ARM_REG_PC,
		regSP:      uc.ARM_REG_SP,
	}
}

func newARM64() *Profile {
	return &Profile{
		arch:       emutype.ArchARM64,
		bits:       64,
		endian:     emutype.EndianLittle,
		switchable: false,
		ucArch:     uc.ARCH_ARM64,
		ucModeBase: uc.MODE_ARM,
		regPC:      uc.ARM64_REG_PC,
		regSP:      uc.ARM64_REG_SP,
	}
}

func newMIPS32() *Profile {
	return &Profile{
		arch:       emutype.ArchMIPS32,
		bits:       32,
		endian:     emutype.EndianLittle,
		switchable: true,
		ucArch:     uc.ARCH_MIPS,
		ucModeBase: uc.MODE_MIPS32,
		regPC:      uc.MIPS_REG_PC,
		regSP:      uc.MIPS_REG_SP,
	}
}

package loader

import (
	"bytes"
	"debug/elf"
	"fmt"

	"github.com/pkg/errors"
)

var machineMap = map[elf.Machine]string{
	elf.EM_386:     "x86",
	elf.EM_X86_64:  "x86_64",
	elf.EM_ARM:     "arm",
	elf.EM_AARCH64: "arm64",
	elf.EM_MIPS:    "mips",
	elf.EM_PPC:     "ppc",
	elf.EM_PPC64:   "ppc64",
	elf.EM_RISCV:   "riscv",
}

var elfMagic = []byte{0x7f, 0x45, 0x4c, 0x46}

func MatchElf(buf []byte) bool {
	return bytes.HasPrefix(buf, elfMagic)
}

// ParseHeader decodes the file header at offset 0 and checks that the
// section header table it describes lies inside buf.
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, errors.Wrapf(ErrMalformedHeader, "file is %d bytes, header needs %d", len(buf), HeaderSize)
	}
	if !MatchElf(buf) {
		return nil, errors.Wrapf(ErrMalformedHeader, "bad magic % x", buf[:len(elfMagic)])
	}
	if class := elf.Class(buf[elf.EI_CLASS]); class != elf.ELFCLASS64 {
		return nil, errors.Wrapf(ErrMalformedHeader, "unsupported class %s", class)
	}
	if data := elf.Data(buf[elf.EI_DATA]); data != elf.ELFDATA2LSB {
		return nil, errors.Wrapf(ErrMalformedHeader, "unsupported byte order %s", data)
	}
	h := &Header{}
	if err := unpack(buf[:HeaderSize], h); err != nil {
		return nil, errors.Wrapf(ErrMalformedHeader, "decode: %v", err)
	}
	if h.Shnum > 0 && h.Shentsize < SectionHeaderSize {
		return nil, errors.Wrapf(ErrMalformedHeader, "section header entry size %d < %d", h.Shentsize, SectionHeaderSize)
	}
	size := uint64(len(buf))
	end := h.Shoff + uint64(h.Shnum)*uint64(h.Shentsize)
	if h.Shoff > size || end > size {
		return nil, errors.Wrapf(ErrMalformedHeader, "section header table [0x%x, 0x%x) exceeds file size 0x%x", h.Shoff, end, size)
	}
	if h.Shnum > 0 && h.Shstrndx >= h.Shnum {
		return nil, errors.Wrapf(ErrMalformedHeader, "section name table index %d out of range (%d sections)", h.Shstrndx, h.Shnum)
	}
	return h, nil
}

func (h *Header) ObjectType() elf.Type { return elf.Type(h.Type) }

func (h *Header) Relocatable() bool { return h.ObjectType() == elf.ET_REL }

// Arch returns a short architecture name, or the ELF machine name if it is not one we know.
func (h *Header) Arch() string {
	if name, ok := machineMap[elf.Machine(h.Machine)]; ok {
		return name
	}
	return elf.Machine(h.Machine).String()
}

func (h *Header) String() string {
	return fmt.Sprintf("%s %s, %d sections at 0x%x", h.Arch(), h.ObjectType(), h.Shnum, h.Shoff)
}

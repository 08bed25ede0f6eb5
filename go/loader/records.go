package loader

import (
	"bytes"
	"debug/elf"
	"encoding/binary"

	"github.com/lunixbochs/struc"
)

// Fixed ELF64 record sizes.
const (
	HeaderSize        = 64
	SectionHeaderSize = 64
	SymbolSize        = 24
)

// Header is the ELF64 file header. Every field is decoded individually with
// an explicit width and little-endian order.
type Header struct {
	Ident     []byte `struc:"[16]byte"`
	Type      uint16 `struc:"uint16,little"`
	Machine   uint16 `struc:"uint16,little"`
	Version   uint32 `struc:"uint32,little"`
	Entry     uint64 `struc:"uint64,little"`
	Phoff     uint64 `struc:"uint64,little"`
	Shoff     uint64 `struc:"uint64,little"`
	Flags     uint32 `struc:"uint32,little"`
	Ehsize    uint16 `struc:"uint16,little"`
	Phentsize uint16 `struc:"uint16,little"`
	Phnum     uint16 `struc:"uint16,little"`
	Shentsize uint16 `struc:"uint16,little"`
	Shnum     uint16 `struc:"uint16,little"`
	Shstrndx  uint16 `struc:"uint16,little"`
}

// SectionHeader is one ELF64 section header table entry.
type SectionHeader struct {
	NameOff   uint32 `struc:"uint32,little"`
	Type      uint32 `struc:"uint32,little"`
	Flags     uint64 `struc:"uint64,little"`
	Addr      uint64 `struc:"uint64,little"`
	Offset    uint64 `struc:"uint64,little"`
	Size      uint64 `struc:"uint64,little"`
	Link      uint32 `struc:"uint32,little"`
	Info      uint32 `struc:"uint32,little"`
	Addralign uint64 `struc:"uint64,little"`
	Entsize   uint64 `struc:"uint64,little"`
}

// SymbolEntry is one ELF64 symbol table record.
type SymbolEntry struct {
	NameOff uint32 `struc:"uint32,little"`
	Info    uint8  `struc:"uint8"`
	Other   uint8  `struc:"uint8"`
	Shndx   uint16 `struc:"uint16,little"`
	Value   uint64 `struc:"uint64,little"`
	Size    uint64 `struc:"uint64,little"`
}

// Type is the low nibble of Info.
func (s SymbolEntry) Type() elf.SymType { return elf.ST_TYPE(s.Info) }

func (s SymbolEntry) Bind() elf.SymBind { return elf.ST_BIND(s.Info) }

// unpack decodes a record from an already bounds-checked view.
func unpack(view []byte, rec interface{}) error {
	return struc.UnpackWithOrder(bytes.NewReader(view), rec, binary.LittleEndian)
}

// sliceAt returns buf[off:off+size] if that range lies within buf.
func sliceAt(buf []byte, off, size uint64) ([]byte, bool) {
	n := uint64(len(buf))
	if off > n || size > n-off {
		return nil, false
	}
	return buf[off : off+size : off+size], true
}

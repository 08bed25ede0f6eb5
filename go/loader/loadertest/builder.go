// Package loadertest synthesizes small ELF64 relocatable objects for tests.
package loadertest

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"

	"github.com/lunixbochs/struc"

	"github.com/lunixbochs/rawcode/go/loader"
)

type Section struct {
	Name  string
	Type  elf.SectionType
	Flags elf.SectionFlag
	Data  []byte
	Link  uint32
}

type Symbol struct {
	Name  string
	Type  elf.SymType
	Bind  elf.SymBind
	Shndx uint16
	Value uint64
	Size  uint64
}

func Ident() []byte {
	id := make([]byte, elf.EI_NIDENT)
	copy(id, elf.ELFMAG)
	id[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	id[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	id[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	return id
}

func Pack(t testing.TB, w *bytes.Buffer, rec interface{}) {
	t.Helper()
	if err := struc.PackWithOrder(w, rec, binary.LittleEndian); err != nil {
		t.Fatal(err)
	}
}

// BuildObject lays out a relocatable x86_64 object: header, section payloads
// in order, the section name table, then the section header table. A null
// section is prepended and .shstrtab appended, so the first section passed
// in lands at offset 64.
func BuildObject(t testing.TB, secs []Section) []byte {
	t.Helper()
	all := append([]Section{{}}, secs...)
	all = append(all, Section{Name: ".shstrtab", Type: elf.SHT_STRTAB})

	var shstr bytes.Buffer
	shstr.WriteByte(0)
	nameOff := make([]uint32, len(all))
	for i, s := range all {
		if s.Name == "" {
			continue
		}
		nameOff[i] = uint32(shstr.Len())
		shstr.WriteString(s.Name)
		shstr.WriteByte(0)
	}
	all[len(all)-1].Data = shstr.Bytes()

	var out bytes.Buffer
	out.Write(make([]byte, loader.HeaderSize))
	offsets := make([]uint64, len(all))
	for i, s := range all {
		if i == 0 {
			continue
		}
		offsets[i] = uint64(out.Len())
		out.Write(s.Data)
	}
	for out.Len()%8 != 0 {
		out.WriteByte(0)
	}
	shoff := uint64(out.Len())
	for i, s := range all {
		sh := loader.SectionHeader{}
		if i > 0 {
			sh = loader.SectionHeader{
				NameOff:   nameOff[i],
				Type:      uint32(s.Type),
				Flags:     uint64(s.Flags),
				Offset:    offsets[i],
				Size:      uint64(len(s.Data)),
				Link:      s.Link,
				Addralign: 1,
			}
			if s.Type == elf.SHT_SYMTAB {
				sh.Entsize = loader.SymbolSize
				sh.Addralign = 8
			}
		}
		Pack(t, &out, &sh)
	}

	var hdr bytes.Buffer
	Pack(t, &hdr, &loader.Header{
		Ident:     Ident(),
		Type:      uint16(elf.ET_REL),
		Machine:   uint16(elf.EM_X86_64),
		Version:   uint32(elf.EV_CURRENT),
		Shoff:     shoff,
		Ehsize:    loader.HeaderSize,
		Shentsize: loader.SectionHeaderSize,
		Shnum:     uint16(len(all)),
		Shstrndx:  uint16(len(all) - 1),
	})
	buf := out.Bytes()
	copy(buf, hdr.Bytes())
	return buf
}

// BuildSymbols packs a symbol table, with its leading null entry, and the
// string table its names live in.
func BuildSymbols(t testing.TB, syms []Symbol) (symtab, strtab []byte) {
	t.Helper()
	var names, table bytes.Buffer
	names.WriteByte(0)
	Pack(t, &table, &loader.SymbolEntry{})
	for _, s := range syms {
		ent := loader.SymbolEntry{
			NameOff: uint32(names.Len()),
			Info:    elf.ST_INFO(s.Bind, s.Type),
			Shndx:   s.Shndx,
			Value:   s.Value,
			Size:    s.Size,
		}
		names.WriteString(s.Name)
		names.WriteByte(0)
		Pack(t, &table, &ent)
	}
	return table.Bytes(), names.Bytes()
}

func Seq(n int, start byte) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = start + byte(i)
	}
	return p
}

// StandardObject mirrors what a small C compile produces:
// "", .text, .rodata.str1.1, .symtab, .strtab, .shstrtab
// with .text 32 bytes at offset 64.
func StandardObject(t testing.TB) []byte {
	t.Helper()
	symtab, strtab := BuildSymbols(t, []Symbol{
		{Name: "demo.c", Type: elf.STT_FILE, Bind: elf.STB_LOCAL, Shndx: uint16(elf.SHN_ABS)},
		{Name: "main", Type: elf.STT_FUNC, Bind: elf.STB_GLOBAL, Shndx: 1, Value: 0x0, Size: 0x10},
		{Name: "g_var", Type: elf.STT_OBJECT, Bind: elf.STB_GLOBAL, Shndx: 2, Value: 0x40, Size: 4},
		{Name: "helper", Type: elf.STT_FUNC, Bind: elf.STB_LOCAL, Shndx: 1, Value: 0x10, Size: 0x10},
	})
	return BuildObject(t, []Section{
		{Name: ".text", Type: elf.SHT_PROGBITS, Flags: elf.SHF_ALLOC | elf.SHF_EXECINSTR, Data: Seq(32, 0x90)},
		{Name: ".rodata.str1.1", Type: elf.SHT_PROGBITS, Flags: elf.SHF_ALLOC | elf.SHF_MERGE | elf.SHF_STRINGS, Data: []byte("hello\x00world\x00")},
		{Name: ".symtab", Type: elf.SHT_SYMTAB, Data: symtab, Link: 4},
		{Name: ".strtab", Type: elf.SHT_STRTAB, Data: strtab},
	})
}

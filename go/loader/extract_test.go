package loader_test

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"

	"github.com/lunixbochs/rawcode/go/loader"
	"github.com/lunixbochs/rawcode/go/loader/loadertest"
)

func TestExtractText(t *testing.T) {
	buf := loadertest.StandardObject(t)
	obj, err := loader.Open(buf)
	if err != nil {
		t.Fatal(err)
	}
	text, ok, err := obj.Extract(loader.TextSection)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal(".text not found")
	}
	if !bytes.Equal(text.Data, buf[64:64+32]) {
		t.Fatalf("text mismatch: % x", text.Data)
	}
	// the payload is a copy
	text.Data[0] = 0xcc
	if buf[64] == 0xcc {
		t.Fatal("extracted payload aliases the object buffer")
	}
}

func TestExtractExactStrtab(t *testing.T) {
	buf := loadertest.StandardObject(t)
	obj, err := loader.Open(buf)
	if err != nil {
		t.Fatal(err)
	}
	ex, ok, err := obj.Extract(loader.Exact(".strtab"))
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	s := obj.Section(".strtab")
	if !bytes.Equal(ex.Data, buf[s.Offset:s.Offset+s.Size]) {
		t.Fatal(".strtab payload does not match its file range")
	}
	if ex.Section.Name != ".strtab" {
		t.Fatalf("matched %q", ex.Section.Name)
	}
}

func TestExtractNotFound(t *testing.T) {
	obj, err := loader.Open(loadertest.StandardObject(t))
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range []loader.Matcher{loader.Exact(".data"), loader.Exact(".tex"), loader.Prefix(".bss"), loader.Exact(".TEXT")} {
		ex, ok, err := obj.Extract(m)
		if err != nil {
			t.Fatal(err)
		}
		if ok || ex.Data != nil {
			t.Fatalf("expected not found, got %q (%d bytes)", ex.Section.Name, len(ex.Data))
		}
	}
}

func TestExtractEmptySection(t *testing.T) {
	buf := loadertest.BuildObject(t, []loadertest.Section{
		{Name: ".text", Type: elf.SHT_PROGBITS, Data: loadertest.Seq(4, 0)},
		{Name: ".rodata", Type: elf.SHT_PROGBITS},
	})
	obj, err := loader.Open(buf)
	if err != nil {
		t.Fatal(err)
	}
	ex, ok, err := obj.Rodata()
	if err != nil {
		t.Fatal(err)
	}
	if !ok || ex.Data == nil || len(ex.Data) != 0 {
		t.Fatalf("expected empty but present section, got ok=%v data=%v", ok, ex.Data)
	}
}

func TestExtractRodataAlternateSpelling(t *testing.T) {
	ro := loadertest.Seq(8, 0x41)
	buf := loadertest.BuildObject(t, []loadertest.Section{
		{Name: ".text", Type: elf.SHT_PROGBITS, Data: loadertest.Seq(16, 0x90)},
		{Name: ".data", Type: elf.SHT_PROGBITS, Data: loadertest.Seq(4, 0)},
		{Name: ".data.ro1", Type: elf.SHT_PROGBITS, Data: ro},
	})
	obj, err := loader.Open(buf)
	if err != nil {
		t.Fatal(err)
	}
	ex, ok, err := obj.Rodata()
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if ex.Section.Name != ".data.ro1" || !bytes.Equal(ex.Data, ro) {
		t.Fatalf("got %q % x", ex.Section.Name, ex.Data)
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	buf := loadertest.BuildObject(t, []loadertest.Section{
		{Name: ".text.startup", Type: elf.SHT_PROGBITS, Data: loadertest.Seq(8, 1)},
		{Name: ".text", Type: elf.SHT_PROGBITS, Data: loadertest.Seq(8, 2)},
		{Name: ".data.ro", Type: elf.SHT_PROGBITS, Data: loadertest.Seq(2, 3)},
		{Name: ".rodata", Type: elf.SHT_PROGBITS, Data: loadertest.Seq(2, 4)},
	})
	obj, err := loader.Open(buf)
	if err != nil {
		t.Fatal(err)
	}
	text, _, err := obj.Text()
	if err != nil {
		t.Fatal(err)
	}
	if text.Section.Name != ".text.startup" {
		t.Errorf("text matched %q", text.Section.Name)
	}
	ro, _, err := obj.Rodata()
	if err != nil {
		t.Fatal(err)
	}
	if ro.Section.Name != ".data.ro" {
		t.Errorf("rodata matched %q", ro.Section.Name)
	}
}

func TestExtractOutOfBounds(t *testing.T) {
	buf := loadertest.StandardObject(t)
	h, err := loader.ParseHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	// grow .text's size (header 1, size field at +0x20) past the file
	binary.LittleEndian.PutUint64(buf[h.Shoff+loader.SectionHeaderSize+0x20:], uint64(len(buf)))
	obj, err := loader.Open(buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := obj.Text(); !errors.Is(err, loader.ErrSectionOutOfBounds) {
		t.Fatalf("expected ErrSectionOutOfBounds, got %v", err)
	}
}

func TestMatchers(t *testing.T) {
	for _, c := range []struct {
		m    loader.Matcher
		name string
		want bool
	}{
		{loader.TextSection, ".text", true},
		{loader.TextSection, ".text.main", true},
		{loader.TextSection, ".rela.text", false},
		{loader.RodataSection, ".rodata", true},
		{loader.RodataSection, ".rodata.cst8", true},
		{loader.RodataSection, ".data.ro", true},
		{loader.RodataSection, ".data.rel.ro", false},
		{loader.RodataSection, ".data", false},
		{loader.Exact(".symtab"), ".symtab", true},
		{loader.Exact(".symtab"), ".symtab_shndx", false},
	} {
		if got := c.m(c.name); got != c.want {
			t.Errorf("%q: got %v, want %v", c.name, got, c.want)
		}
	}
}

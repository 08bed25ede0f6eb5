package cmd

import (
	"debug/elf"
	"fmt"
	"io"
	"strings"

	"github.com/mgutz/ansi"

	"github.com/lunixbochs/rawcode/go/loader"
	"github.com/lunixbochs/rawcode/go/models"
)

var (
	chText   = ansi.ColorCode("green+b")
	chRodata = ansi.ColorCode("yellow+b")
	chName   = ansi.ColorCode("cyan")
	chAddr   = ansi.ColorCode("default+b")
)

func colorize(s, color string, enabled bool) string {
	if !enabled {
		return s
	}
	return color + s + ansi.Reset
}

func colorPad(s, color string, pad int, enabled bool) string {
	length := len(s)
	s = colorize(s, color, enabled)
	if length < pad {
		s += strings.Repeat(" ", pad-length)
	}
	return s
}

var flagLetters = []struct {
	flag   elf.SectionFlag
	letter byte
}{
	{elf.SHF_WRITE, 'W'},
	{elf.SHF_ALLOC, 'A'},
	{elf.SHF_EXECINSTR, 'X'},
	{elf.SHF_MERGE, 'M'},
	{elf.SHF_STRINGS, 'S'},
	{elf.SHF_INFO_LINK, 'I'},
	{elf.SHF_GROUP, 'G'},
	{elf.SHF_TLS, 'T'},
}

// sectionFlags abbreviates flags the way readelf does.
func sectionFlags(f elf.SectionFlag) string {
	var out []byte
	for _, l := range flagLetters {
		if f&l.flag != 0 {
			out = append(out, l.letter)
		}
	}
	return string(out)
}

// PrintSections lists the section table, marking the sections text and
// read-only data extraction would pick.
func PrintSections(w io.Writer, obj *loader.Object, color bool) {
	text, rodata := -1, -1
	for _, s := range obj.Sections {
		if text < 0 && loader.TextSection(s.Name) {
			text = s.Index
		}
		if rodata < 0 && loader.RodataSection(s.Name) {
			rodata = s.Index
		}
	}
	pad := 4
	for _, s := range obj.Sections {
		if len(s.Name) > pad {
			pad = len(s.Name)
		}
	}
	fmt.Fprintf(w, "%s (%s)\n", obj.Header, obj.Header.ObjectType())
	for _, s := range obj.Sections {
		name, mark := s.Name, ""
		switch s.Index {
		case text:
			name, mark = colorPad(s.Name, chText, pad, color), " [text]"
		case rodata:
			name, mark = colorPad(s.Name, chRodata, pad, color), " [rodata]"
		default:
			name = colorPad(s.Name, "", pad, false)
		}
		fmt.Fprintf(w, "[%2d] %s %-14s %-3s off=0x%06x size=0x%06x%s\n",
			s.Index, name, s.SectionType(), sectionFlags(s.SectionFlags()), s.Offset, s.Size, mark)
	}
}

// PrintSymbols writes one line per function symbol, in table order.
func PrintSymbols(w io.Writer, syms models.SymbolTable, color bool) {
	for _, s := range syms {
		addr := colorize(fmt.Sprintf("0x%x", s.Start), chAddr, color)
		fmt.Fprintf(w, "Function: %s at %s\n", colorize(s.Name, chName, color), addr)
	}
}

// PrintStrings lists the NUL-terminated strings in data with their
// addresses from base, quoting each and truncating it to limit.
func PrintStrings(w io.Writer, base uint64, data []byte, limit int) {
	start := 0
	for i, b := range data {
		if b != 0 {
			continue
		}
		if i > start {
			fmt.Fprintf(w, "0x%x: %s\n", base+uint64(start), models.Repr(data[start:i], limit))
		}
		start = i + 1
	}
	if start < len(data) {
		fmt.Fprintf(w, "0x%x: %s\n", base+uint64(start), models.Repr(data[start:], limit))
	}
}

func PrintHex(w io.Writer, base uint64, data []byte) {
	for _, line := range models.HexDump(base, data) {
		fmt.Fprintln(w, line)
	}
}

// PrintArtifacts summarizes an extracted unit.
func PrintArtifacts(w io.Writer, a *loader.Artifacts, color bool) {
	fmt.Fprintf(w, "arch: %s\n", a.Arch)
	fmt.Fprintf(w, "text: %s, %d bytes\n", colorize(a.TextName, chText, color), len(a.Text))
	if a.Rodata != nil {
		fmt.Fprintf(w, "rodata: %s, %d bytes at 0x%x\n", colorize(a.RodataName, chRodata, color), len(a.Rodata.Data), a.Rodata.Base)
	} else {
		fmt.Fprintln(w, "rodata: none")
	}
	PrintSymbols(w, a.Symbols, color)
}

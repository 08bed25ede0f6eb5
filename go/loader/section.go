package loader

import (
	"debug/elf"

	"github.com/pkg/errors"
)

// Section is a resolved section header: its table index, its name from the
// section name table, and the raw header fields.
type Section struct {
	Index int
	Name  string
	SectionHeader
}

func (s *Section) SectionType() elf.SectionType { return elf.SectionType(s.Type) }

func (s *Section) SectionFlags() elf.SectionFlag { return elf.SectionFlag(s.Flags) }

// ResolveSections decodes every section header and names it through the
// section name table. Table order is preserved.
func ResolveSections(buf []byte, h *Header) ([]Section, error) {
	if h.Shnum == 0 {
		return nil, nil
	}
	headers := make([]SectionHeader, h.Shnum)
	for i := range headers {
		off := h.Shoff + uint64(i)*uint64(h.Shentsize)
		view, ok := sliceAt(buf, off, SectionHeaderSize)
		if !ok {
			return nil, errors.Wrapf(ErrMalformedHeader, "section header %d at 0x%x outside file", i, off)
		}
		if err := unpack(view, &headers[i]); err != nil {
			return nil, errors.Wrapf(ErrMalformedHeader, "section header %d: %v", i, err)
		}
	}
	shstr := headers[h.Shstrndx]
	data, ok := sliceAt(buf, shstr.Offset, shstr.Size)
	if !ok {
		return nil, errors.Wrapf(ErrSectionOutOfBounds, "section name table [0x%x+0x%x)", shstr.Offset, shstr.Size)
	}
	names := StringTable(data)
	sections := make([]Section, len(headers))
	for i, sh := range headers {
		name, err := names.Lookup(sh.NameOff)
		if err != nil {
			return nil, errors.WithMessagef(err, "section %d", i)
		}
		sections[i] = Section{Index: i, Name: name, SectionHeader: sh}
	}
	return sections, nil
}

package loader

import (
	"github.com/lunixbochs/rawcode/go/models"
)

// Object is a parsed relocatable object held in memory. It borrows buf;
// everything it hands out (section payloads, symbols) is copied, so buf can
// be dropped as soon as extraction is done.
type Object struct {
	Header   *Header
	Sections []Section

	buf    []byte
	byName map[string]int
}

func Open(buf []byte) (*Object, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}
	sections, err := ResolveSections(buf, h)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int, len(sections))
	for i, s := range sections {
		if _, ok := byName[s.Name]; !ok {
			byName[s.Name] = i
		}
	}
	return &Object{Header: h, Sections: sections, buf: buf, byName: byName}, nil
}

// Section returns the first section named exactly name, or nil.
func (o *Object) Section(name string) *Section {
	if i, ok := o.byName[name]; ok {
		return &o.Sections[i]
	}
	return nil
}

func (o *Object) Extract(match Matcher) (Extracted, bool, error) {
	return ExtractSection(o.buf, o.Sections, match)
}

func (o *Object) Text() (Extracted, bool, error) {
	return o.Extract(TextSection)
}

func (o *Object) Rodata() (Extracted, bool, error) {
	return o.Extract(RodataSection)
}

func (o *Object) SymbolTable() (*SymbolTable, error) {
	return NewSymbolTable(o.buf, o.Section(".symtab"), o.Section(".strtab"))
}

func (o *Object) FunctionSymbols() (models.SymbolTable, error) {
	return DecodeFunctionSymbols(o.buf, o.Section(".symtab"), o.Section(".strtab"))
}

package loader

import (
	"debug/elf"

	"github.com/pkg/errors"

	"github.com/lunixbochs/rawcode/go/models"
)

// SymbolTable is a bounds-checked view of a symbol table and its string
// table. It never modifies the underlying buffer, so it can be walked any
// number of times.
type SymbolTable struct {
	entries []byte
	names   StringTable
}

func NewSymbolTable(buf []byte, symtab, strtab *Section) (*SymbolTable, error) {
	if symtab == nil || strtab == nil {
		return nil, errors.WithStack(ErrMissingSymbolTables)
	}
	if symtab.Size%SymbolSize != 0 {
		return nil, errors.Wrapf(ErrTruncatedSymbolTable, "%s is 0x%x bytes, entries are %d", symtab.Name, symtab.Size, SymbolSize)
	}
	entries, ok := sliceAt(buf, symtab.Offset, symtab.Size)
	if !ok {
		return nil, errors.Wrapf(ErrSectionOutOfBounds, "%s [0x%x+0x%x)", symtab.Name, symtab.Offset, symtab.Size)
	}
	names, ok := sliceAt(buf, strtab.Offset, strtab.Size)
	if !ok {
		return nil, errors.Wrapf(ErrSectionOutOfBounds, "%s [0x%x+0x%x)", strtab.Name, strtab.Offset, strtab.Size)
	}
	return &SymbolTable{entries: entries, names: StringTable(names)}, nil
}

func (t *SymbolTable) Len() int {
	return len(t.entries) / SymbolSize
}

func (t *SymbolTable) Entry(i int) (SymbolEntry, error) {
	var ent SymbolEntry
	if i < 0 || i >= t.Len() {
		return ent, errors.Errorf("symbol index %d out of range (%d symbols)", i, t.Len())
	}
	view, _ := sliceAt(t.entries, uint64(i)*SymbolSize, SymbolSize)
	if err := unpack(view, &ent); err != nil {
		return ent, errors.Wrapf(ErrTruncatedSymbolTable, "symbol %d: %v", i, err)
	}
	return ent, nil
}

func (t *SymbolTable) Name(ent SymbolEntry) (string, error) {
	return t.names.Lookup(ent.NameOff)
}

// Each calls fn for every entry in table order. Returning an error from fn stops the walk.
func (t *SymbolTable) Each(fn func(i int, ent SymbolEntry) error) error {
	for i := 0; i < t.Len(); i++ {
		ent, err := t.Entry(i)
		if err != nil {
			return err
		}
		if err := fn(i, ent); err != nil {
			return err
		}
	}
	return nil
}

// Functions returns every STT_FUNC symbol, in table order.
func (t *SymbolTable) Functions() (models.SymbolTable, error) {
	var syms models.SymbolTable
	err := t.Each(func(i int, ent SymbolEntry) error {
		if ent.Type() != elf.STT_FUNC {
			return nil
		}
		name, err := t.Name(ent)
		if err != nil {
			return errors.WithMessagef(err, "symbol %d", i)
		}
		syms = append(syms, models.Symbol{
			Name:    name,
			Start:   ent.Value,
			Size:    ent.Size,
			Section: ent.Shndx,
			Global:  ent.Bind() != elf.STB_LOCAL,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return syms, nil
}

// DecodeFunctionSymbols returns the (name, address) pairs of every function
// symbol in symtab, resolving names through strtab.
func DecodeFunctionSymbols(buf []byte, symtab, strtab *Section) (models.SymbolTable, error) {
	t, err := NewSymbolTable(buf, symtab, strtab)
	if err != nil {
		return nil, err
	}
	return t.Functions()
}

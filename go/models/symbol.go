package models

import "fmt"

// Symbol is a function recovered from an object's symbol table.
// Start is the symbol value, which for a relocatable object is the offset
// into the defining section.
type Symbol struct {
	Name    string
	Start   uint64
	Size    uint64
	Section uint16
	Global  bool
}

func (s Symbol) End() uint64 {
	return s.Start + s.Size
}

func (s Symbol) Contains(addr uint64) bool {
	return s.Start <= addr && (s.End() > addr || s.Size == 0)
}

type SymbolTable []Symbol

// Lookup returns the first symbol named name.
func (t SymbolTable) Lookup(name string) (Symbol, bool) {
	for _, sym := range t {
		if sym.Name == name {
			return sym, true
		}
	}
	return Symbol{}, false
}

// Symbolicate finds the closest symbol at or below addr that contains it.
func (t SymbolTable) Symbolicate(addr uint64) (result Symbol, distance uint64, ok bool) {
	var min int64 = -1
	for _, sym := range t {
		if !sym.Contains(addr) {
			continue
		}
		dist := int64(addr - sym.Start)
		if dist < min || min == -1 {
			result = sym
			min = dist
		}
	}
	if min >= 0 {
		return result, uint64(min), true
	}
	return Symbol{}, 0, false
}

func (t SymbolTable) Describe(addr uint64) string {
	sym, dist, ok := t.Symbolicate(addr)
	if !ok {
		return fmt.Sprintf("0x%x", addr)
	}
	if dist == 0 {
		return sym.Name
	}
	return fmt.Sprintf("%s+0x%x", sym.Name, dist)
}

package loader

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrMalformedHeader      = errors.New("malformed object header")
	ErrNameOutOfBounds      = errors.New("name offset outside string table")
	ErrSectionOutOfBounds   = errors.New("section data outside file")
	ErrMissingSymbolTables  = errors.New("object has no .symtab or .strtab")
	ErrTruncatedSymbolTable = errors.New("symbol table size is not a multiple of the entry size")
	ErrNoText               = errors.New("no .text section found")
	ErrIO                   = errors.New("object file i/o failure")
)

// IOError records a failed filesystem operation on an object file.
// It matches ErrIO with errors.Is.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

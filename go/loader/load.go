package loader

import (
	"fmt"
	"io/ioutil"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/lunixbochs/rawcode/go/models"
)

// Artifacts is everything the host needs to run a compiled unit.
type Artifacts struct {
	Arch string

	TextName string
	Text     []byte

	// RodataName is empty and Rodata nil when the object has no read-only data.
	RodataName string
	Rodata     *models.Rodata

	Symbols models.SymbolTable
}

// ReadFile loads a whole object file into memory.
func ReadFile(path string) ([]byte, error) {
	p, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(&IOError{Op: "read", Path: path, Err: err})
	}
	return p, nil
}

// Extract pulls the text, read-only data and function symbols out of buf.
// config may be nil.
func Extract(buf []byte, config *models.Config) (*Artifacts, error) {
	logger := config.Logger()
	obj, err := Open(buf)
	if err != nil {
		return nil, err
	}
	level.Debug(logger).Log("msg", "parsed header", "header", obj.Header)
	for _, s := range obj.Sections {
		level.Debug(logger).Log("msg", "section", "index", s.Index, "name", s.Name,
			"off", fmt.Sprintf("0x%x", s.Offset), "size", s.Size)
	}

	text, ok, err := obj.Text()
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, errors.WithStack(ErrNoText)
	}
	level.Debug(logger).Log("msg", "extracted text", "section", text.Section.Name, "size", len(text.Data))
	a := &Artifacts{
		Arch:     obj.Header.Arch(),
		TextName: text.Section.Name,
		Text:     text.Data,
	}

	rodata, ok, err := obj.Rodata()
	if err != nil {
		return nil, err
	} else if ok {
		base := config.Base()
		a.RodataName = rodata.Section.Name
		a.Rodata = &models.Rodata{Data: rodata.Data, Base: base}
		level.Debug(logger).Log("msg", "extracted rodata", "section", rodata.Section.Name,
			"size", len(rodata.Data), "base", fmt.Sprintf("0x%x", base))
	}

	a.Symbols, err = obj.FunctionSymbols()
	if err != nil {
		return nil, err
	}
	level.Debug(logger).Log("msg", "decoded function symbols", "count", len(a.Symbols))
	return a, nil
}

// LoadFile reads and extracts the object at path. If store is non-nil the
// read-only data is installed into it, replacing whatever the previous unit
// left there; an object without read-only data installs an empty payload.
func LoadFile(path string, config *models.Config, store *models.RodataStore) (*Artifacts, error) {
	buf, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := Extract(buf, config)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	if store != nil {
		if a.Rodata != nil {
			store.Store(append([]byte{}, a.Rodata.Data...), a.Rodata.Base)
		} else {
			store.Store([]byte{}, config.Base())
		}
	}
	return a, nil
}

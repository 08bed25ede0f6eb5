package loader

import (
	"strings"

	"github.com/pkg/errors"
)

// Matcher selects sections by name. Names are compared case-sensitively.
type Matcher func(name string) bool

func Exact(name string) Matcher {
	return func(s string) bool { return s == name }
}

func Prefix(prefixes ...string) Matcher {
	return func(s string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(s, p) {
				return true
			}
		}
		return false
	}
}

var (
	TextSection = Prefix(".text")
	// compilers emit either spelling depending on configuration
	RodataSection = Prefix(".rodata", ".data.ro")
)

// Extracted is a section payload copied out of the object buffer.
type Extracted struct {
	Section Section
	Data    []byte
}

// ExtractSection copies the payload of the first section in table order that
// match accepts. found is false if no section matches; a matching section of
// size zero is found with an empty, non-nil Data.
func ExtractSection(buf []byte, sections []Section, match Matcher) (ex Extracted, found bool, err error) {
	for _, s := range sections {
		if !match(s.Name) {
			continue
		}
		view, ok := sliceAt(buf, s.Offset, s.Size)
		if !ok {
			return Extracted{}, false, errors.Wrapf(ErrSectionOutOfBounds, "%s [0x%x+0x%x) in %d byte file", s.Name, s.Offset, s.Size, len(buf))
		}
		data := make([]byte, len(view))
		copy(data, view)
		return Extracted{Section: s, Data: data}, true, nil
	}
	return Extracted{}, false, nil
}

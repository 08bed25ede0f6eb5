package loader

import (
	"bytes"

	"github.com/pkg/errors"
)

// StringTable is a run of NUL-terminated strings addressed by byte offset.
type StringTable []byte

// Lookup returns the string starting at off. An offset past the end of the
// table, or a string with no terminator inside it, is ErrNameOutOfBounds.
func (t StringTable) Lookup(off uint32) (string, error) {
	if uint64(off) >= uint64(len(t)) {
		return "", errors.Wrapf(ErrNameOutOfBounds, "offset 0x%x, table is 0x%x bytes", off, len(t))
	}
	end := bytes.IndexByte(t[off:], 0)
	if end < 0 {
		return "", errors.Wrapf(ErrNameOutOfBounds, "unterminated name at offset 0x%x", off)
	}
	return string(t[off : int(off)+end]), nil
}

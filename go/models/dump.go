package models

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Repr quotes p, escaping non-printable bytes. strsize > 0 truncates the result.
func Repr(p []byte, strsize int) string {
	tmp := make([]string, len(p))
	for i, b := range p {
		if b >= 0x20 && b <= 0x7e {
			tmp[i] = string(b)
		} else {
			tmp[i] = fmt.Sprintf("\\x%02x", b)
		}
	}
	out := strings.Join(tmp, "")
	if strsize > 0 && len(out) > strsize {
		for i := len(tmp) - 1; i >= 0 && len(out) > strsize-3; i-- {
			out = strings.Join(tmp[:i], "")
		}
		return "\"" + out + "\"..."
	}
	return "\"" + out + "\""
}

func printable(p []byte) string {
	o := make([]byte, len(p))
	for i, c := range p {
		if c >= 0x20 && c <= 0x7e {
			o[i] = c
		} else {
			o[i] = '.'
		}
	}
	return string(o)
}

// HexDump formats mem as lines of 16 bytes addressed from base, in groups
// of four bytes with a printable tail.
func HexDump(base uint64, mem []byte) []string {
	const lineSize, group = 16, 4
	var out []string
	for i := 0; i < len(mem); i += lineSize {
		end := i + lineSize
		if end > len(mem) {
			end = len(mem)
		}
		line := mem[i:end]
		blocks := make([]string, 0, lineSize/group)
		for j := 0; j < lineSize; j += group {
			if j >= len(line) {
				blocks = append(blocks, strings.Repeat(" ", group*2))
				continue
			}
			k := j + group
			if k > len(line) {
				k = len(line)
			}
			block := hex.EncodeToString(line[j:k])
			blocks = append(blocks, block+strings.Repeat(" ", group*2-len(block)))
		}
		out = append(out, fmt.Sprintf("0x%08x: %s [%s]", base+uint64(i), strings.Join(blocks, " "), printable(line)))
	}
	return out
}

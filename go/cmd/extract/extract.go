package extract

import (
	"io/ioutil"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/lunixbochs/rawcode/go/cmd"
	"github.com/lunixbochs/rawcode/go/loader"
)

func New() *cmd.Cmd {
	c := cmd.NewCmd("extract", "[-rodata | -section <name> | -prefix <prefix>] [-hex | -strings] [-o <file>] <object>")
	rodata := c.Flags.Bool("rodata", false, "extract read-only data instead of text")
	section := c.Flags.String("section", "", "extract the section with this exact name")
	prefix := c.Flags.String("prefix", "", "extract the first section whose name starts with this")
	hexdump := c.Flags.Bool("hex", false, "print a hex dump instead of raw bytes")
	strs := c.Flags.Bool("strings", false, "list the NUL-terminated strings in the payload")
	strlen := c.Flags.Int("strlen", 64, "truncate -strings output to this many characters")
	out := c.Flags.String("o", "", "write to file instead of stdout")
	c.Run = func(args []string) error {
		match, what, base := loader.TextSection, "text", uint64(0)
		switch {
		case *section != "":
			match, what = loader.Exact(*section), *section
		case *prefix != "":
			match, what = loader.Prefix(*prefix), *prefix+"*"
		case *rodata:
			match, what, base = loader.RodataSection, "rodata", c.Config.RodataBase
		}
		buf, err := loader.ReadFile(args[0])
		if err != nil {
			return err
		}
		obj, err := loader.Open(buf)
		if err != nil {
			return err
		}
		ex, ok, err := obj.Extract(match)
		if err != nil {
			return err
		} else if !ok {
			return errors.Errorf("%s: no %s section", args[0], what)
		}
		level.Debug(c.Config.Logger()).Log("msg", "extracted", "section", ex.Section.Name, "size", len(ex.Data))

		if *strs {
			cmd.PrintStrings(c.Stdout, base, ex.Data, *strlen)
			return nil
		}
		if *hexdump {
			cmd.PrintHex(c.Stdout, base, ex.Data)
			return nil
		}
		if *out != "" {
			if err := ioutil.WriteFile(*out, ex.Data, 0644); err != nil {
				return errors.WithStack(&loader.IOError{Op: "write", Path: *out, Err: err})
			}
			return nil
		}
		_, err = c.Stdout.Write(ex.Data)
		return errors.WithStack(err)
	}
	return c
}

func Main(args []string) { New().Main(args) }

func init() { cmd.Register("extract", "copy a section payload out of an object", Main) }

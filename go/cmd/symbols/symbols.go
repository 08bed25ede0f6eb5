package symbols

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/lunixbochs/rawcode/go/cmd"
	"github.com/lunixbochs/rawcode/go/loader"
)

func New() *cmd.Cmd {
	c := cmd.NewCmd("symbols", "[-addr <addr>] <object>")
	addr := c.Flags.String("addr", "", "symbolicate an address within the text section")
	c.Run = func(args []string) error {
		buf, err := loader.ReadFile(args[0])
		if err != nil {
			return err
		}
		obj, err := loader.Open(buf)
		if err != nil {
			return err
		}
		syms, err := obj.FunctionSymbols()
		if err != nil {
			return err
		}
		if *addr == "" {
			cmd.PrintSymbols(c.Stdout, syms, c.Config.Color)
			return nil
		}
		n, err := strconv.ParseUint(*addr, 0, 64)
		if err != nil {
			return errors.Wrapf(err, "bad address %q", *addr)
		}
		fmt.Fprintln(c.Stdout, syms.Describe(n))
		return nil
	}
	return c
}

func Main(args []string) { New().Main(args) }

func init() { cmd.Register("symbols", "list function symbols in an object", Main) }

package sections

import (
	"github.com/lunixbochs/rawcode/go/cmd"
	"github.com/lunixbochs/rawcode/go/loader"
)

func New() *cmd.Cmd {
	c := cmd.NewCmd("sections", "<object>")
	c.Run = func(args []string) error {
		buf, err := loader.ReadFile(args[0])
		if err != nil {
			return err
		}
		obj, err := loader.Open(buf)
		if err != nil {
			return err
		}
		cmd.PrintSections(c.Stdout, obj, c.Config.Color)
		return nil
	}
	return c
}

func Main(args []string) { New().Main(args) }

func init() { cmd.Register("sections", "list the section table of an object", Main) }

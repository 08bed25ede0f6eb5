package bundle

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	rcob "github.com/lunixbochs/rawcode/go/bundle"
	"github.com/lunixbochs/rawcode/go/cmd"
	"github.com/lunixbochs/rawcode/go/loader"
	"github.com/lunixbochs/rawcode/go/models"
)

// OutputPath returns the default bundle name for an input file.
func OutputPath(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + ".rcob"
}

// WriteFile extracts the object at path and writes its bundle to out.
func WriteFile(path, out string, config *models.Config, store *models.RodataStore) (*loader.Artifacts, error) {
	a, err := loader.LoadFile(path, config, store)
	if err != nil {
		return nil, err
	}
	if err := create(out, a, rcob.Write); err != nil {
		return nil, err
	}
	level.Info(config.Logger()).Log("msg", "wrote bundle", "path", out, "text", len(a.Text), "symbols", len(a.Symbols))
	return a, nil
}

// create writes a to a new file at out. A partially written file is removed.
func create(out string, a *loader.Artifacts, write func(io.Writer, *loader.Artifacts) error) (err error) {
	f, err := os.Create(out)
	if err != nil {
		return errors.WithStack(&loader.IOError{Op: "create", Path: out, Err: err})
	}
	defer func() {
		if err != nil {
			os.Remove(out)
		}
	}()
	if err := write(f, a); err != nil {
		f.Close()
		return errors.WithMessage(err, out)
	}
	if err := f.Close(); err != nil {
		return errors.WithStack(&loader.IOError{Op: "close", Path: out, Err: err})
	}
	return nil
}

func dump(c *cmd.Cmd, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.WithStack(&loader.IOError{Op: "open", Path: path, Err: err})
	}
	defer f.Close()
	_, a, err := rcob.Read(f)
	if err != nil {
		return errors.WithMessage(err, path)
	}
	cmd.PrintArtifacts(c.Stdout, a, c.Config.Color)
	return nil
}

func New() *cmd.Cmd {
	c := cmd.NewCmd("bundle", "[-o <file>] [-dump] <object|bundle>")
	out := c.Flags.String("o", "", "output path (default <object>.rcob)")
	dumpFlag := c.Flags.Bool("dump", false, "print the contents of an existing bundle")
	c.Run = func(args []string) error {
		if *dumpFlag {
			return dump(c, args[0])
		}
		path := *out
		if path == "" {
			path = OutputPath(args[0])
		}
		_, err := WriteFile(args[0], path, c.Config, nil)
		return err
	}
	return c
}

func Main(args []string) { New().Main(args) }

func init() { cmd.Register("bundle", "package an object's text, rodata and symbols", Main) }

package build

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/lunixbochs/rawcode/go/cmd"
	"github.com/lunixbochs/rawcode/go/cmd/bundle"
	"github.com/lunixbochs/rawcode/go/compile"
	"github.com/lunixbochs/rawcode/go/loader"
	"github.com/lunixbochs/rawcode/go/models"
)

// Build compiles src to a relocatable object, extracts it and writes the
// bundle to out. The extracted read-only data replaces whatever store held.
func Build(ctx context.Context, cc compile.Compiler, src, out string, config *models.Config, store *models.RodataStore) (*loader.Artifacts, error) {
	dir, err := ioutil.TempDir("", "rawcode")
	if err != nil {
		return nil, errors.WithStack(&loader.IOError{Op: "mkdir", Path: os.TempDir(), Err: err})
	}
	defer os.RemoveAll(dir)
	obj := filepath.Join(dir, filepath.Base(bundle.OutputPath(src))+".o")
	if err := cc.Compile(ctx, src, obj); err != nil {
		return nil, err
	}
	return bundle.WriteFile(obj, out, config, store)
}

func New() *cmd.Cmd {
	c := cmd.NewCmd("build", "[-o <file>] <source.c>")
	out := c.Flags.String("o", "", "output path (default <source>.rcob)")
	c.Run = func(args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		path := *out
		if path == "" {
			path = bundle.OutputPath(args[0])
		}
		store := models.NewRodataStore()
		a, err := Build(ctx, compile.NewTCC(c.Config), args[0], path, c.Config, store)
		if err != nil {
			return err
		}
		cmd.PrintArtifacts(c.Stdout, a, c.Config.Color)
		// what the host is handed comes from the store, not the artifacts
		r, ok := store.Take()
		if !ok {
			return errors.New("read-only data was not stored")
		}
		fmt.Fprintf(c.Stdout, "stored rodata: %d bytes at 0x%x\n", len(r.Data), r.Base)
		return nil
	}
	return c
}

func Main(args []string) { New().Main(args) }

func init() { cmd.Register("build", "compile C source and bundle the result", Main) }

package compile

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/lunixbochs/rawcode/go/models"
)

var ErrCompile = errors.New("compilation failed")

// Compiler turns one C source file into one relocatable object.
type Compiler interface {
	Compile(ctx context.Context, src, out string) error
}

// Error carries the compiler's diagnostics. It matches ErrCompile.
type Error struct {
	Src         string
	Diagnostics string
	Err         error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("compile %s: %v", e.Src, e.Err)
	if d := strings.TrimSpace(e.Diagnostics); d != "" {
		msg += "\n" + d
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrCompile }

var _ Compiler = (*TCC)(nil)

// TCC drives a tcc-compatible command line: <bin> -c <src> -o <out> -I<dir>...
type TCC struct {
	Bin          string
	IncludePaths []string
	Logger       log.Logger
}

func NewTCC(config *models.Config) *TCC {
	bin := models.DefaultCompiler
	var includes []string
	if config != nil {
		if config.Compiler != "" {
			bin = config.Compiler
		}
		includes = config.SearchPaths()
	}
	return &TCC{Bin: bin, IncludePaths: includes, Logger: config.Logger()}
}

func (c *TCC) args(src, out string) []string {
	args := []string{"-c", src, "-o", out}
	for _, dir := range c.IncludePaths {
		args = append(args, "-I"+dir)
	}
	return args
}

func (c *TCC) Compile(ctx context.Context, src, out string) error {
	logger := c.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	args := c.args(src, out)
	level.Debug(logger).Log("msg", "compiling", "bin", c.Bin, "args", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, c.Bin, args...)
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.WithStack(&Error{Src: src, Diagnostics: stderr.String(), Err: err})
	}
	return nil
}

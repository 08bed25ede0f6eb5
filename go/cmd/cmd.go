package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/lunixbochs/rawcode/go/models"
)

type strslice []string

func (s *strslice) String() string {
	return fmt.Sprintf("%v", *s)
}

func (s *strslice) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// Cmd is one subcommand: a flag set carrying the shared options plus a Run
// function that receives the positional arguments.
type Cmd struct {
	Name     string
	Synopsis string
	Config   *models.Config
	Flags    *flag.FlagSet
	Stdout   io.Writer

	// number of positional arguments Run requires
	NArgs int
	Run   func(args []string) error

	includes strslice
	verbose  *bool
	color    *bool
	logfile  *string
	compiler *string
	base     *uint64
	logOut   io.Closer
}

func NewCmd(name, synopsis string) *Cmd {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	c := &Cmd{Name: name, Synopsis: synopsis, Flags: fs, Stdout: os.Stdout, NArgs: 1}
	c.verbose = fs.Bool("v", false, "verbose output")
	c.color = fs.Bool("color", false, "colorize listings")
	c.logfile = fs.String("log", "", "redirect log output to file (default stderr)")
	c.compiler = fs.String("cc", models.DefaultCompiler, "compiler binary (tcc command line)")
	c.base = fs.Uint64("base", models.DefaultRodataBase, "address the host maps read-only data at")
	fs.Var(&c.includes, "I", "append header search directory")
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] %s\n\nOptions:\n", c.Name, c.Synopsis)
		var flags []*flag.Flag
		fs.VisitAll(func(f *flag.Flag) { flags = append(flags, f) })
		models.PrintFlags(os.Stderr, flags)
	}
	return c
}

// Parse reads flags from argv (argv[0] is the command name) and builds Config.
func (c *Cmd) Parse(argv []string) ([]string, error) {
	if len(argv) > 0 {
		c.Name = argv[0]
	}
	if err := c.Flags.Parse(argv[1:]); err != nil {
		return nil, err
	}
	args := c.Flags.Args()
	if len(args) < c.NArgs {
		c.Flags.Usage()
		return nil, errors.Errorf("expected %d argument(s), got %d", c.NArgs, len(args))
	}
	c.Config = &models.Config{
		Verbose:      *c.verbose,
		Color:        *c.color,
		Compiler:     *c.compiler,
		IncludePaths: c.includes,
	}
	c.Config.SetRodataBase(*c.base)
	if *c.logfile != "" {
		out, err := os.OpenFile(*c.logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open log file")
		}
		c.Config.Output = out
		c.logOut = out
	}
	c.Config.Init()
	return args, nil
}

// Close releases the log file opened by Parse, if any.
func (c *Cmd) Close() error {
	if c.logOut == nil {
		return nil
	}
	err := c.logOut.Close()
	c.logOut = nil
	return errors.WithStack(err)
}

// Execute parses argv and runs the command, returning a process exit code.
func (c *Cmd) Execute(argv []string) int {
	args, err := c.Parse(argv)
	defer c.Close()
	if err == flag.ErrHelp {
		return 0
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := c.Run(args); err != nil {
		PrintError(err)
		return 1
	}
	return 0
}

// Main is suitable for Register.
func (c *Cmd) Main(argv []string) {
	os.Exit(c.Execute(argv))
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// innermostStack returns the deepest stack trace recorded along err's cause chain.
func innermostStack(err error) errors.StackTrace {
	var st errors.StackTrace
	for err != nil {
		if t, ok := err.(stackTracer); ok {
			st = t.StackTrace()
		}
		c, ok := err.(interface{ Cause() error })
		if !ok {
			break
		}
		err = c.Cause()
	}
	return st
}

// PrintError prints err and, when one was recorded, an aligned stack trace
// ending at main.main.
func PrintError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	var locs, funcs []string
	width := 0
	for _, f := range innermostStack(err) {
		loc := fmt.Sprintf("%s:%d", f, f)
		fn := fmt.Sprintf("%n", f)
		locs, funcs = append(locs, loc), append(funcs, fn)
		if len(loc) > width {
			width = len(loc)
		}
		if fn == "main" {
			break
		}
	}
	for i := range locs {
		fmt.Fprintf(os.Stderr, "%-*s | %s()\n", width, locs[i], funcs[i])
	}
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type command struct {
	name, desc string
	main       func(args []string)
}

var registry = struct {
	byName map[string]*command
	order  []string
	width  int
}{byName: make(map[string]*command)}

// Register adds a subcommand. Commands are listed in registration order.
func Register(name, desc string, main func(args []string)) {
	if len(name) > registry.width {
		registry.width = len(name)
	}
	registry.byName[name] = &command{name, desc, main}
	registry.order = append(registry.order, name)
}

func usage(w io.Writer, prog string) {
	fmt.Fprintln(w, "Commands:")
	for _, name := range registry.order {
		fmt.Fprintf(w, "  %-*s  %s\n", registry.width, name, registry.byName[name].desc)
	}
	fmt.Fprintf(w, "\nExample: %s build -I /tinycc-headers -o demo.rcob demo.c\n\n", prog)
}

// Main dispatches os.Args[1] to a registered subcommand. The subcommand sees
// "<prog> <name>" as its argv[0].
func Main() {
	if len(os.Args) < 2 {
		usage(os.Stderr, os.Args[0])
		os.Exit(1)
	}
	c, ok := registry.byName[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Command '%s' not found.\n\n", os.Args[1])
		usage(os.Stderr, os.Args[0])
		os.Exit(1)
	}
	argv := append([]string{strings.Join(os.Args[:2], " ")}, os.Args[2:]...)
	c.main(argv)
}

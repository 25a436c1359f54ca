package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/doodlepad/internal/appstate"
)

// listCmd prints one of the engine's catalogues.
type listCmd struct {
	*root
	fs     *flag.FlagSet
	name   string
	stdout io.Writer
	show   func(c *listCmd) error
}

func parseListCmd(name string, args []string, r *root, show func(c *listCmd) error) (*listCmd, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cmd := &listCmd{root: r, fs: fs, name: name, stdout: os.Stdout, show: show}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func parseColorsCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("colors", args, r, (*listCmd).printColors)
}

func parseWidthsCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("widths", args, r, (*listCmd).printWidths)
}

func parseExamplesCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("examples", args, r, (*listCmd).printExamples)
}

func parseKeysCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("keys", args, r, (*listCmd).printKeys)
}

func (c *listCmd) Run() error {
	return c.show(c)
}

func (c *listCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *listCmd) Template() string {
	return c.name + ".txt"
}

// engine builds a throwaway engine so listings reflect the configuration.
func (c *listCmd) engine() (*appstate.Engine, error) {
	opts, err := c.engineOptions()
	if err != nil {
		return nil, err
	}
	return appstate.New(opts...)
}

func (c *listCmd) printColors() error {
	e, err := c.engine()
	if err != nil {
		return err
	}
	defer e.Close()
	palette := e.Palette()
	if len(palette) == 0 {
		fmt.Fprintln(c.stdout, "no colors available")
		return nil
	}
	current := e.Tools().Color
	fmt.Fprintln(c.stdout, "available palette colors (* marks the default color):")
	for idx, entry := range palette {
		marker := " "
		if entry.Color == current {
			marker = "*"
		}
		hex := fmt.Sprintf("#%02X%02X%02X", entry.Color.R, entry.Color.G, entry.Color.B)
		name := entry.Name
		if name == "" {
			name = hex
		}
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
		fmt.Fprintf(c.stdout, "%s %2d: %-12s %s %s\n", marker, idx, name, hex, block)
	}
	return nil
}

func (c *listCmd) printWidths() error {
	e, err := c.engine()
	if err != nil {
		return err
	}
	defer e.Close()
	widths := e.Thicknesses()
	if len(widths) == 0 {
		fmt.Fprintln(c.stdout, "no widths available")
		return nil
	}
	current := e.Tools().Thickness
	fmt.Fprintln(c.stdout, "available thicknesses (* marks the default; key selects it):")
	for idx, t := range widths {
		marker := " "
		if t.Width == current {
			marker = "*"
		}
		shortcut := " "
		if idx < 9 {
			shortcut = fmt.Sprint(idx + 1)
		}
		fmt.Fprintf(c.stdout, "%s %s %-8s %3dpx\n", marker, shortcut, t.Label, t.Width)
	}
	return nil
}

func (c *listCmd) printExamples() error {
	if c.config == nil || len(c.config.Examples) == 0 {
		fmt.Fprintln(c.stdout, "no examples configured (add an [examples] section to the config)")
		return nil
	}
	for idx, ex := range c.config.Examples {
		fmt.Fprintf(c.stdout, "%2d: %s\n    %s\n", idx, ex.Description, ex.URL)
	}
	return nil
}

func (c *listCmd) printKeys() error {
	for _, b := range appstate.Bindings() {
		keys := make([]string, 0, len(b.Keys))
		for _, k := range b.Keys {
			keys = append(keys, k.String())
		}
		note := ""
		if b.Accessible {
			note = "  (keyboard pen mode)"
		}
		fmt.Fprintf(c.stdout, "%-16s %s%s\n", b.Action, strings.Join(keys, ", "), note)
	}
	return nil
}

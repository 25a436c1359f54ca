package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/mobile/event/touch"

	"github.com/example/doodlepad/internal/appstate"
	"github.com/example/doodlepad/internal/input"
	"github.com/example/doodlepad/internal/tools"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// replayCmd drives an engine from a command script without opening a window.
type replayCmd struct {
	*root
	fs          *flag.FlagSet
	file        string
	execs       commandList
	output      string
	pdf         bool
	toClipboard bool
	width       int
	height      int
	announce    bool
	stdin       io.Reader
	stdout      io.Writer
}

func (c *replayCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseReplayCmd(args []string, r *root) (*replayCmd, error) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	c := &replayCmd{root: r, fs: fs, stdin: os.Stdin, stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "script to replay (default stdin)")
	fs.Var(&c.execs, "e", "execute a command instead of reading a script (may be specified multiple times)")
	fs.StringVar(&c.output, "output", "", "save to this file instead of the download folder")
	fs.BoolVar(&c.pdf, "pdf", false, "also save a PDF next to the PNG")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "also copy the drawing to the clipboard on save")
	fs.IntVar(&c.width, "width", 0, "surface width in pixels")
	fs.IntVar(&c.height, "height", 0, "surface height in pixels")
	fs.BoolVar(&c.announce, "announce", false, "print accessibility announcements")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.file != "" && len(c.execs) > 0 {
		return nil, fmt.Errorf("-file and -e cannot be combined")
	}
	if (c.width == 0) != (c.height == 0) {
		return nil, fmt.Errorf("-width and -height must be given together")
	}
	return c, nil
}

func (c *replayCmd) Run() error {
	extra := []appstate.Option{appstate.WithPersister(savePipeline(c.root, c.output, c.pdf, c.toClipboard))}
	if c.width > 0 {
		extra = append(extra, appstate.WithSize(c.width, c.height))
	}
	if c.announce {
		extra = append(extra, appstate.WithAnnouncer(appstate.AnnouncerFunc(func(msg string) {
			fmt.Fprintf(c.stdout, "announce: %s\n", msg)
		})))
	}
	opts, err := c.engineOptions(extra...)
	if err != nil {
		return err
	}
	e, err := appstate.New(opts...)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	defer e.Close()
	p := newPlayer(e)

	if len(c.execs) > 0 {
		for i, line := range c.execs {
			if err := p.exec(line); err != nil {
				return fmt.Errorf("command %d: %w", i+1, err)
			}
		}
	} else {
		in := c.stdin
		if c.file != "" && c.file != "-" {
			f, err := os.Open(c.file)
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}
			defer f.Close()
			in = f
		}
		if err := p.run(in); err != nil {
			return err
		}
	}
	if p.saves == 0 && c.output != "" {
		return p.exec("save")
	}
	return nil
}

// player executes script lines against an engine.
type player struct {
	e     *appstate.Engine
	norm  *input.Normalizer
	saves int
}

func newPlayer(e *appstate.Engine) *player {
	return &player{e: e, norm: input.New(e.Bounds())}
}

func (p *player) run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		if err := p.exec(sc.Text()); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

func (p *player) exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]
	e := p.e
	switch name {
	case "tool":
		if len(args) != 1 {
			return fmt.Errorf("usage: tool <pencil|brush|eraser|shapes|text>")
		}
		t, ok := tools.ParseTool(args[0])
		if !ok {
			return fmt.Errorf("unknown tool %q", args[0])
		}
		e.SelectTool(t)
	case "shape":
		if len(args) != 1 {
			return fmt.Errorf("usage: shape <line|rectangle|circle|triangle>")
		}
		s, ok := tools.ParseShape(args[0])
		if !ok {
			return fmt.Errorf("unknown shape %q", args[0])
		}
		e.SelectShape(s)
	case "color":
		if len(args) != 1 {
			return fmt.Errorf("usage: color <name|#rrggbb>")
		}
		if !e.SelectColorName(args[0]) {
			return fmt.Errorf("unknown color %q", args[0])
		}
	case "thickness":
		if len(args) != 1 {
			return fmt.Errorf("usage: thickness <label|width>")
		}
		return p.thickness(args[0])
	case "down", "move", "up":
		x, y, err := ints2(args)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		phase := map[string]input.Phase{"down": input.PhaseDown, "move": input.PhaseMove, "up": input.PhaseUp}[name]
		return e.Pointer(input.Event{Phase: phase, X: x, Y: y})
	case "touch":
		return p.touch(args)
	case "key":
		if len(args) != 1 {
			return fmt.Errorf("usage: key <shortcut>")
		}
		k, err := appstate.ParseShortcut(args[0])
		if err != nil {
			return err
		}
		action, _ := e.KeyAction(k)
		handled, err := e.HandleKey(k)
		if action == "save" {
			p.saves++
		}
		if err != nil {
			return err
		}
		if !handled {
			return fmt.Errorf("key %q is not bound", args[0])
		}
	case "type":
		text := strings.TrimSpace(line[len(fields[0]):])
		if !e.TypeString(text) {
			return fmt.Errorf("type: no text is being composed")
		}
	case "blur":
		return e.Blur()
	case "undo":
		return e.Undo()
	case "redo":
		return e.Redo()
	case "clear":
		p.norm.Reset()
		return e.Clear()
	case "save":
		p.saves++
		return e.Save()
	case "accessible":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return fmt.Errorf("usage: accessible <on|off>")
		}
		return e.SetAccessible(args[0] == "on")
	default:
		return fmt.Errorf("unknown command %q", name)
	}
	return nil
}

func (p *player) thickness(arg string) error {
	if w, err := strconv.Atoi(arg); err == nil {
		if !p.e.SelectThickness(w) {
			return fmt.Errorf("thickness %d is not in the palette", w)
		}
		return nil
	}
	for _, t := range p.e.Thicknesses() {
		if strings.EqualFold(t.Label, arg) {
			p.e.SelectThickness(t.Width)
			return nil
		}
	}
	return fmt.Errorf("unknown thickness %q", arg)
}

func (p *player) touch(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: touch <begin|move|end> <seq> <x> <y>")
	}
	types := map[string]touch.Type{"begin": touch.TypeBegin, "move": touch.TypeMove, "end": touch.TypeEnd}
	typ, ok := types[strings.ToLower(args[0])]
	if !ok {
		return fmt.Errorf("unknown touch phase %q", args[0])
	}
	seq, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("touch sequence: %w", err)
	}
	x, y, err := ints2(args[2:])
	if err != nil {
		return fmt.Errorf("touch: %w", err)
	}
	ev, ok := p.norm.Touch(touch.Event{X: float32(x), Y: float32(y), Sequence: touch.Sequence(seq), Type: typ})
	if !ok {
		return nil
	}
	return p.e.Pointer(ev)
}

func ints2(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected x y, got %d values", len(args))
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q", args[0])
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q", args[1])
	}
	return x, y, nil
}

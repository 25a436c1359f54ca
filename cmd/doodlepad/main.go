package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/example/doodlepad/internal/appstate"
	"github.com/example/doodlepad/internal/config"
	"github.com/example/doodlepad/internal/history"
	"github.com/example/doodlepad/internal/notify"
	"github.com/example/doodlepad/internal/theme"
	"github.com/example/doodlepad/internal/tools"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	configPath  string
	verbose     bool
	saveAlerts  bool
	copyAlerts  bool
	clearAlerts bool
	themeName   string
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:     program,
		notifier:    r.notifier,
		config:      r.config,
		configPath:  r.configPath,
		verbose:     r.verbose,
		saveAlerts:  r.saveAlerts,
		copyAlerts:  r.copyAlerts,
		clearAlerts: r.clearAlerts,
		themeName:   r.themeName,
		activeTheme: r.activeTheme,
	}
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func loadConfig(path string) *config.Config {
	cfg, err := config.NewLoader(version, path).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		return config.New()
	}
	return cfg
}

func newRoot() *root {
	cfg := loadConfig(configPathOverride)
	r := &root{
		fs:         flag.NewFlagSet("doodlepad", flag.ExitOnError),
		program:    "doodlepad",
		notifier:   notify.New(notify.LoadPreferences()),
		config:     cfg,
		configPath: configPathOverride,
	}
	r.fs.BoolVar(&r.verbose, "verbose", false, "log engine activity to stderr")
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "path to the configuration file")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a drawing")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.clearAlerts, "notify-clear", cfg.Notify.Clear, "show a desktop notification after clearing the surface")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Names(), ", ")+")")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.configPath != configPathOverride {
		r.reloadConfig()
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventClear, r.clearAlerts)
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "replay":
		cmd, err = parseReplayCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "widths":
		cmd, err = parseWidthsCmd(subArgs, r)
	case "examples":
		cmd, err = parseExamplesCmd(subArgs, r)
	case "keys":
		cmd, err = parseKeysCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// reloadConfig reads the file named by -config. Notification flags given on
// the command line keep their values.
func (r *root) reloadConfig() {
	r.config = loadConfig(r.configPath)
	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["notify-save"] {
		r.saveAlerts = r.config.Notify.Save
	}
	if !set["notify-copy"] {
		r.copyAlerts = r.config.Notify.Copy
	}
	if !set["notify-clear"] {
		r.clearAlerts = r.config.Notify.Clear
	}
}

func (r *root) resolveTheme() *theme.Theme {
	themeName := r.themeName
	if themeName == "" {
		themeName = os.Getenv("DOODLEPAD_THEME")
	}
	if themeName == "" && r.config != nil {
		themeName = r.config.Theme
	}
	if r.config != nil {
		if t, ok := r.config.Themes[themeName]; ok {
			return t
		}
	}
	t, err := theme.NewLoader().Load(themeName)
	if err != nil {
		if themeName != "" && themeName != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", themeName, err)
		}
		return theme.Default()
	}
	return t
}

// engineOptions turns the loaded configuration into engine options. Options
// appended by the caller win.
func (r *root) engineOptions(extra ...appstate.Option) ([]appstate.Option, error) {
	cfg := r.config
	if cfg == nil {
		cfg = config.New()
	}
	codec, err := history.CodecByName(cfg.HistoryCodec)
	if err != nil {
		return nil, err
	}
	opts := []appstate.Option{
		appstate.WithHistoryCodec(codec),
		appstate.WithHistoryLimit(cfg.HistoryLimit),
		appstate.WithPenStep(cfg.PenStep, cfg.PenStepLarge),
		appstate.WithAccessibility(cfg.Accessibility),
	}
	if r.activeTheme != nil {
		opts = append(opts, appstate.WithTheme(r.activeTheme))
	}
	if r.verbose {
		opts = append(opts, appstate.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		opts = append(opts, appstate.WithSize(cfg.Width, cfg.Height))
	}
	if len(cfg.Palette) > 0 {
		opts = append(opts, appstate.WithPalette(cfg.Palette))
	}
	if len(cfg.Thicknesses) > 0 {
		opts = append(opts, appstate.WithThicknesses(tools.ThicknessesFromWidths(cfg.Thicknesses)))
	}
	if cfg.DefaultColor != "" {
		opts = append(opts, appstate.WithDefaultColor(cfg.DefaultColor))
	}
	if cfg.DefaultThickness > 0 {
		opts = append(opts, appstate.WithDefaultThickness(cfg.DefaultThickness))
	}
	if len(cfg.Examples) > 0 {
		examples := make([]appstate.Example, 0, len(cfg.Examples))
		for _, ex := range cfg.Examples {
			examples = append(examples, appstate.Example{ImageURL: ex.URL, Description: ex.Description})
		}
		opts = append(opts, appstate.WithExamples(examples))
	}
	if r.notifier != nil {
		opts = append(opts, appstate.WithClearListener(r.notifier))
	}
	return append(opts, extra...), nil
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		log.Printf("%s: %v", r.program, err)
		os.Exit(1)
	}
}

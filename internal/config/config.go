package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/example/doodlepad/internal/theme"
	"github.com/example/doodlepad/internal/tools"
)

// Notify holds notification settings.
type Notify struct {
	Save  bool
	Copy  bool
	Clear bool
}

// Example is an inspiration image shown next to the drawing surface.
type Example struct {
	Description string
	URL         string
}

// Config holds the application configuration. Zero values mean "use the
// built-in default".
type Config struct {
	Theme   string
	SaveDir string

	Width  int
	Height int

	Thicknesses      []int
	DefaultThickness int
	DefaultColor     string

	PenStep       int
	PenStepLarge  int
	Accessibility bool

	HistoryLimit int
	HistoryCodec string

	Notify   Notify
	Palette  []tools.PaletteColor
	Examples []Example
	Themes   map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:  "", // empty falls back to the environment, then the default theme
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
// Parse(c.String()) reproduces c.
func (c *Config) String() string {
	var sb strings.Builder

	root := []struct {
		key, value string
	}{
		{"theme", c.Theme},
		{"save_dir", c.SaveDir},
		{"width", itoa(c.Width)},
		{"height", itoa(c.Height)},
		{"thicknesses", joinInts(c.Thicknesses)},
		{"default_thickness", itoa(c.DefaultThickness)},
		{"default_color", c.DefaultColor},
		{"pen_step", itoa(c.PenStep)},
		{"pen_step_large", itoa(c.PenStepLarge)},
		{"history_limit", itoa(c.HistoryLimit)},
		{"history_codec", c.HistoryCodec},
	}
	for _, kv := range root {
		if kv.value != "" {
			fmt.Fprintf(&sb, "%s = %s\n", kv.key, kv.value)
		}
	}
	if c.Accessibility {
		sb.WriteString("accessibility = true\n")
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "clear = %v\n", c.Notify.Clear)
	sb.WriteString("\n")

	if len(c.Palette) > 0 {
		sb.WriteString("[palette]\n")
		for _, p := range c.Palette {
			fmt.Fprintf(&sb, "%s = %s\n", p.Name, theme.Hex(p.Color))
		}
		sb.WriteString("\n")
	}

	if len(c.Examples) > 0 {
		sb.WriteString("[examples]\n")
		for _, e := range c.Examples {
			fmt.Fprintf(&sb, "%s = %s\n", e.Description, e.URL)
		}
		sb.WriteString("\n")
	}

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)
	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = theme.Format(&sb, c.Themes[name], ":")
		sb.WriteString("\n")
	}

	return sb.String()
}

func itoa(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

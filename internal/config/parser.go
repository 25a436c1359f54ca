package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/doodlepad/internal/theme"
	"github.com/example/doodlepad/internal/tools"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			currentTheme = nil
			if strings.HasPrefix(currentSection, "theme.") {
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := unquote(strings.TrimSpace(parts[1]))

		var err error
		switch {
		case currentTheme != nil:
			err = theme.Set(currentTheme, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "palette":
			err = addPaletteColor(cfg, key, value)
		case currentSection == "examples":
			cfg.Examples = append(cfg.Examples, Example{Description: key, URL: value})
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, section, err)
		}
	}

	return cfg, scanner.Err()
}

func unquote(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, "\"") && strings.HasSuffix(v, "\"") {
		return v[1 : len(v)-1]
	}
	return v
}

func setRootField(cfg *Config, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "width":
		cfg.Width, err = positiveInt(key, value)
	case "height":
		cfg.Height, err = positiveInt(key, value)
	case "thicknesses":
		cfg.Thicknesses, err = intList(key, value)
	case "default_thickness":
		cfg.DefaultThickness, err = positiveInt(key, value)
	case "default_color":
		cfg.DefaultColor = value
	case "pen_step":
		cfg.PenStep, err = positiveInt(key, value)
	case "pen_step_large":
		cfg.PenStepLarge, err = positiveInt(key, value)
	case "history_limit":
		cfg.HistoryLimit, err = strconv.Atoi(value)
		if err != nil || cfg.HistoryLimit < 0 {
			err = fmt.Errorf("invalid history_limit %q", value)
		}
	case "history_codec":
		cfg.HistoryCodec = strings.ToLower(value)
	case "accessibility":
		cfg.Accessibility, err = strconv.ParseBool(value)
		if err != nil {
			err = fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	case "clear":
		n.Clear = b
	}
	return nil
}

func addPaletteColor(cfg *Config, name, value string) error {
	col, err := theme.ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for %s: %w", name, err)
	}
	if col.A != 255 {
		return fmt.Errorf("palette color %s must be opaque", name)
	}
	cfg.Palette = append(cfg.Palette, tools.PaletteColor{Name: name, Color: col})
	return nil
}

func positiveInt(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive integer", key, value)
	}
	return v, nil
}

func intList(key, value string) ([]int, error) {
	var out []int
	for _, f := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' }) {
		v, err := positiveInt(key, f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

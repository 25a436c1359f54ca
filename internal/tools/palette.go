package tools

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"golang.org/x/image/colornames"
)

// PaletteColor is a named drawing color.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

// DefaultPalette returns the built-in drawing colors.
func DefaultPalette() []PaletteColor {
	return []PaletteColor{
		{"Black", color.RGBA{0, 0, 0, 255}},
		{"White", color.RGBA{255, 255, 255, 255}},
		{"Red", color.RGBA{255, 0, 0, 255}},
		{"Lime", color.RGBA{0, 255, 0, 255}},
		{"Blue", color.RGBA{0, 0, 255, 255}},
		{"Yellow", color.RGBA{255, 255, 0, 255}},
		{"Cyan", color.RGBA{0, 255, 255, 255}},
		{"Magenta", color.RGBA{255, 0, 255, 255}},
		{"Maroon", color.RGBA{128, 0, 0, 255}},
		{"Green", color.RGBA{0, 128, 0, 255}},
		{"Navy", color.RGBA{0, 0, 128, 255}},
		{"Olive", color.RGBA{128, 128, 0, 255}},
		{"Teal", color.RGBA{0, 128, 128, 255}},
		{"Purple", color.RGBA{128, 0, 128, 255}},
		{"Silver", color.RGBA{192, 192, 192, 255}},
		{"Gray", color.RGBA{128, 128, 128, 255}},
	}
}

const defaultColorIndex = 0

// Thickness is one entry of the thickness palette.
type Thickness struct {
	Label string
	Width int
}

// DefaultThicknesses returns the built-in thickness palette.
func DefaultThicknesses() []Thickness {
	return []Thickness{
		{"small", 2},
		{"medium", 5},
		{"large", 10},
		{"huge", 20},
	}
}

// Medium is the width of the default "medium" thickness.
const Medium = 5

// ThicknessesFromWidths labels a list of widths, sorted and deduplicated.
// Non-positive widths are dropped.
func ThicknessesFromWidths(widths []int) []Thickness {
	seen := map[int]bool{}
	var clean []int
	for _, w := range widths {
		if w < 1 || seen[w] {
			continue
		}
		seen[w] = true
		clean = append(clean, w)
	}
	sort.Ints(clean)
	labels := map[int]string{}
	for _, t := range DefaultThicknesses() {
		labels[t.Width] = t.Label
	}
	out := make([]Thickness, 0, len(clean))
	for _, w := range clean {
		label := labels[w]
		if label == "" {
			label = fmt.Sprintf("%dpx", w)
		}
		out = append(out, Thickness{Label: label, Width: w})
	}
	return out
}

// LookupColor resolves a palette name, an x/image color name or a #RRGGBB hex
// value. The result is always opaque.
func LookupColor(palette []PaletteColor, s string) (color.RGBA, bool) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, false
	}
	for _, entry := range palette {
		if strings.EqualFold(entry.Name, spec) {
			return entry.Color, true
		}
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, true
	}
	if strings.HasPrefix(spec, "#") && len(spec) == 7 {
		var r, g, b uint8
		if _, err := fmt.Sscanf(spec, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{r, g, b, 255}, true
		}
	}
	return color.RGBA{}, false
}

// ColorName returns the palette name for c or its hex form.
func ColorName(palette []PaletteColor, c color.RGBA) string {
	for _, entry := range palette {
		if entry.Color == c {
			return entry.Name
		}
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

package config

import (
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/drawings
width = 640
height = 480
thicknesses = 1, 3, 6
default_thickness = 3
default_color = navy
pen_step = 4
pen_step_large = 40
history_limit = 50
history_codec = FLATE
accessibility = true

[notify]
save = true
copy = false
clear = true

[palette]
Ink = #101010
Sky = #87CEEB

[examples]
A smiling sun = https://example.org/sun.png?size=large

[theme.my_custom_theme]
Background = #111111
Caret = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" || cfg.SaveDir != "/tmp/drawings" {
		t.Errorf("unexpected root strings %q %q", cfg.Theme, cfg.SaveDir)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}
	if !reflect.DeepEqual(cfg.Thicknesses, []int{1, 3, 6}) || cfg.DefaultThickness != 3 {
		t.Errorf("unexpected thicknesses %v default %d", cfg.Thicknesses, cfg.DefaultThickness)
	}
	if cfg.PenStep != 4 || cfg.PenStepLarge != 40 || !cfg.Accessibility {
		t.Errorf("unexpected pen settings %d %d %v", cfg.PenStep, cfg.PenStepLarge, cfg.Accessibility)
	}
	if cfg.HistoryLimit != 50 || cfg.HistoryCodec != "flate" {
		t.Errorf("unexpected history settings %d %q", cfg.HistoryLimit, cfg.HistoryCodec)
	}
	if cfg.Notify != (Notify{Save: true, Clear: true}) {
		t.Errorf("unexpected notify %+v", cfg.Notify)
	}
	if len(cfg.Palette) != 2 || cfg.Palette[1].Name != "Sky" || cfg.Palette[1].Color != (color.RGBA{0x87, 0xCE, 0xEB, 255}) {
		t.Errorf("unexpected palette %+v", cfg.Palette)
	}
	if len(cfg.Examples) != 1 || cfg.Examples[0].URL != "https://example.org/sun.png?size=large" || cfg.Examples[0].Description != "A smiling sun" {
		t.Errorf("unexpected examples %+v", cfg.Examples)
	}
	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background != (color.RGBA{0x11, 0x11, 0x11, 255}) {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"width = -3",
		"thicknesses = 2, x",
		"accessibility = maybe",
		"[notify]\nsave = sometimes",
		"[palette]\nGhost = #FFFFFF80",
		"[theme.x]\nBackground = red",
	}
	for _, in := range tests {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/drawings
thicknesses = 2, 4
history_codec = png
accessibility = true

[notify]
save = true
copy = false
clear = true

[palette]
Ink = #000000

[examples]
House = https://example.org/house.png

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}
	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, cfg.String())
	}
	if !reflect.DeepEqual(cfg, cfg2) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", cfg, cfg2)
	}
}

func TestLoaderPrefersOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.rc")
	if err := os.WriteFile(path, []byte("width = 320\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewLoader("1.0.0", path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != 320 {
		t.Fatalf("width = %d, want 320", cfg.Width)
	}
}

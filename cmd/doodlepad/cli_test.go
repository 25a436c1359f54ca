package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/example/doodlepad/internal/config"
	"github.com/example/doodlepad/internal/notify"
	"github.com/example/doodlepad/internal/persist"
	"github.com/example/doodlepad/internal/tools"
)

func TestRootUnknownCommandIsUsageError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	r := newRoot()
	err := r.Run([]string{"paint"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	help := uerr.Error()
	for _, want := range []string{"Usage: doodlepad", "replay", "-notify-clear", "-theme"} {
		if !strings.Contains(help, want) {
			t.Fatalf("help missing %q:\n%s", want, help)
		}
	}
}

func TestThemePrecedence(t *testing.T) {
	cfg := config.New()
	cfg.Theme = "dark"
	r := &root{program: "doodlepad", config: cfg}

	t.Setenv("DOODLEPAD_THEME", "")
	if got := r.resolveTheme().Name; got != "Dark" {
		t.Fatalf("config theme: got %q", got)
	}
	t.Setenv("DOODLEPAD_THEME", "high_contrast")
	if got := r.resolveTheme().Name; got != "High Contrast" {
		t.Fatalf("env should beat config: got %q", got)
	}
	r.themeName = "default"
	if got := r.resolveTheme().Name; got != "Default" {
		t.Fatalf("flag should beat env: got %q", got)
	}
	r.themeName = "no-such-theme"
	if got := r.resolveTheme().Name; got != "Default" {
		t.Fatalf("unknown theme should fall back to default: got %q", got)
	}
}

func TestEngineOptionsFollowConfig(t *testing.T) {
	cfg := config.New()
	cfg.Width, cfg.Height = 120, 90
	cfg.Thicknesses = []int{3, 9}
	cfg.DefaultThickness = 9
	cfg.DefaultColor = "navy"
	cfg.HistoryCodec = "flate"
	cmd := &listCmd{root: &root{program: "doodlepad", config: cfg}}
	e, err := cmd.engine()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	defer e.Close()
	if b := e.Bounds(); b.Dx() != 120 || b.Dy() != 90 {
		t.Fatalf("bounds = %v", b)
	}
	st := e.Tools()
	if st.Thickness != 9 || tools.ColorName(e.Palette(), st.Color) != "Navy" {
		t.Fatalf("state = %+v", st)
	}
	if n := len(e.Thicknesses()); n != 2 {
		t.Fatalf("thicknesses = %d", n)
	}

	cfg.HistoryCodec = "zip"
	if _, err := cmd.engine(); err == nil {
		t.Fatalf("unknown history codec should be rejected")
	}
}

func TestListings(t *testing.T) {
	cfg := config.New()
	cfg.Examples = []config.Example{{Description: "A lighthouse", URL: "https://example.com/lighthouse.png"}}
	r := &root{program: "doodlepad", config: cfg}
	cases := []struct {
		parse func([]string, *root) (*listCmd, error)
		want  []string
	}{
		{parseColorsCmd, []string{"* ", "Black", "#0000FF"}},
		{parseWidthsCmd, []string{"* 2 medium", "5px"}},
		{parseExamplesCmd, []string{"A lighthouse", "https://example.com/lighthouse.png"}},
		{parseKeysCmd, []string{"undo", "ctrl+z", "ctrl+y", "pen-toggle", "(keyboard pen mode)"}},
	}
	for _, tc := range cases {
		cmd, err := tc.parse(nil, r)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		var out bytes.Buffer
		cmd.stdout = &out
		if err := cmd.Run(); err != nil {
			t.Fatalf("%s: %v", cmd.name, err)
		}
		for _, want := range tc.want {
			if !strings.Contains(out.String(), want) {
				t.Fatalf("%s output missing %q:\n%s", cmd.name, want, out.String())
			}
		}
	}
}

func TestListRejectsArguments(t *testing.T) {
	_, err := parseKeysCmd([]string{"extra"}, testRoot())
	var uerr *UsageError
	if !errors.As(err, &uerr) || !strings.Contains(uerr.Error(), "keyboard shortcuts") {
		t.Fatalf("expected keys usage, got %v", err)
	}
}

func TestSavePipeline(t *testing.T) {
	chain, ok := savePipeline(testRoot(), "out/drawing.png", true, true).(persist.Multi)
	if !ok || len(chain) != 3 {
		t.Fatalf("pipeline = %#v", chain)
	}
	if f, ok := chain[0].(persist.File); !ok || f.Path != "out/drawing.png" {
		t.Fatalf("first = %#v", chain[0])
	}
	if p, ok := chain[1].(persist.PDF); !ok || p.Path != "out/drawing.pdf" {
		t.Fatalf("second = %#v", chain[1])
	}
	if _, ok := chain[2].(persist.Clipboard); !ok {
		t.Fatalf("third = %#v", chain[2])
	}

	cfg := config.New()
	cfg.SaveDir = "/tmp/drawings"
	r := &root{config: cfg, notifier: notify.New(notify.DefaultPreferences())}
	n, ok := savePipeline(r, "", false, false).(persist.Notifying)
	if !ok {
		t.Fatalf("notifier should wrap the pipeline")
	}
	if d, ok := n.Persister.(persist.Download); !ok || d.Dir != "/tmp/drawings" {
		t.Fatalf("inner = %#v", n.Persister)
	}
}

package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/doodlepad/internal/config"
)

func testRoot() *root {
	return &root{program: "doodlepad", config: config.New()}
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return img
}

func TestReplayBlueLine(t *testing.T) {
	out := filepath.Join(t.TempDir(), "line.png")
	cmd, err := parseReplayCmd([]string{
		"-output", out,
		"-e", "color blue",
		"-e", "thickness medium",
		"-e", "down 10 10",
		"-e", "move 200 10",
		"-e", "up 200 10",
	}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	img := decodePNG(t, out)
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Fatalf("size = %v, want 800x600", b)
	}
	blue := color.RGBA{0, 0, 255, 255}
	for _, x := range []int{10, 105, 200} {
		if c := color.RGBAModel.Convert(img.At(x, 10)); c != blue {
			t.Fatalf("pixel (%d,10) = %v, want blue", x, c)
		}
	}
	if _, _, _, a := img.At(400, 300).RGBA(); a != 0 {
		t.Fatalf("untouched pixels should stay transparent")
	}
}

func TestReplayScriptFromStdin(t *testing.T) {
	out := filepath.Join(t.TempDir(), "script.png")
	cmd, err := parseReplayCmd([]string{"-output", out, "-width", "100", "-height", "80", "-announce"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var stdout bytes.Buffer
	cmd.stdout = &stdout
	cmd.stdin = strings.NewReader(strings.Join([]string{
		"# a rectangle drawn with a finger, then undone and redone",
		"tool shapes",
		"shape rectangle",
		"touch begin 1 10 10",
		"touch begin 2 50 50",
		"touch move 1 60 40",
		"touch end 2 50 50",
		"touch end 1 60 40",
		"undo",
		"redo",
		"",
		"tool text",
		"down 20 60",
		"up 20 60",
		"type ok",
		"key enter",
		"save",
	}, "\n"))
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	img := decodePNG(t, out)
	if _, _, _, a := img.At(10, 25).RGBA(); a == 0 {
		t.Fatalf("rectangle edge missing")
	}
	if _, _, _, a := img.At(35, 25).RGBA(); a != 0 {
		t.Fatalf("rectangle should not be filled")
	}
	for _, want := range []string{"announce: shapes tool", "announce: undo", "announce: redo", "announce: text added", "announce: saved"} {
		if !strings.Contains(stdout.String(), want) {
			t.Fatalf("missing %q in output:\n%s", want, stdout.String())
		}
	}
}

func TestReplaySavesOnceForAnySaveShortcut(t *testing.T) {
	for _, shortcut := range []string{"ctrl+s", "cmd+s", "meta+s"} {
		t.Run(shortcut, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "keyed.png")
			cmd, err := parseReplayCmd([]string{
				"-output", out, "-announce",
				"-e", "down 5 5",
				"-e", "up 30 5",
				"-e", "key " + shortcut,
			}, testRoot())
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			var stdout bytes.Buffer
			cmd.stdout = &stdout
			if err := cmd.Run(); err != nil {
				t.Fatalf("run: %v", err)
			}
			if n := strings.Count(stdout.String(), "announce: saved"); n != 1 {
				t.Fatalf("saved %d times:\n%s", n, stdout.String())
			}
			decodePNG(t, out)
		})
	}
}

func TestReplayErrors(t *testing.T) {
	cases := []struct {
		name string
		cmds []string
		want string
	}{
		{"unknown command", []string{"paint 1 2"}, "unknown command"},
		{"unknown tool", []string{"tool crayon"}, "unknown tool"},
		{"bad coordinates", []string{"down x 1"}, "invalid x"},
		{"typing without text tool", []string{"type hello"}, "no text is being composed"},
		{"thickness outside palette", []string{"thickness 7"}, "not in the palette"},
		{"unbound key", []string{"key ctrl+k"}, "not bound"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args := []string{}
			for _, c := range tc.cmds {
				args = append(args, "-e", c)
			}
			cmd, err := parseReplayCmd(args, testRoot())
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			err = cmd.Run()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParseReplayRejectsFileWithCommands(t *testing.T) {
	_, err := parseReplayCmd([]string{"-file", "x.txt", "-e", "undo"}, testRoot())
	if err == nil || !strings.Contains(err.Error(), "cannot be combined") {
		t.Fatalf("expected combination error, got %v", err)
	}
	_, err = parseReplayCmd([]string{"extra"}, testRoot())
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "touch <begin|move|end>") {
		t.Fatalf("replay help not rendered:\n%s", uerr.Error())
	}
}

func TestReplayMissingScript(t *testing.T) {
	cmd, err := parseReplayCmd([]string{"-file", filepath.Join(t.TempDir(), "missing.txt")}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

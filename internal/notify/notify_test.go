package notify

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/doodlepad/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func recorder(n *Notifier) *[]sent {
	var out []sent
	n.WithSender(func(title, body string, opts platform.Options) error {
		out = append(out, sent{title, body, opts})
		return nil
	})
	return &out
}

func TestDisabledEventsAreSilent(t *testing.T) {
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Save("x.png")
	n.Copy("", nil)
	n.Cleared()
	if len(*got) != 0 {
		t.Fatalf("expected no notifications, got %v", *got)
	}
}

func TestSaveUsesFileAsIcon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	got := recorder(n)
	n.Save(path)
	if len(*got) != 1 {
		t.Fatalf("expected one notification, got %d", len(*got))
	}
	s := (*got)[0]
	if s.title != "Doodlepad" || !strings.HasPrefix(s.body, "Saved ") || !strings.HasSuffix(s.body, "out.png") {
		t.Fatalf("unexpected notification %+v", s)
	}
	if s.opts.IconPath != path || s.opts.AppName != "Doodlepad" {
		t.Fatalf("unexpected options %+v", s.opts)
	}
}

func TestCopyPreviewIsRemoved(t *testing.T) {
	n := New(DefaultPreferences())
	n.Enable(EventCopy, true)
	got := recorder(n)
	n.Copy("", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if len(*got) != 1 {
		t.Fatalf("expected one notification, got %d", len(*got))
	}
	s := (*got)[0]
	if s.body != "Copied drawing to clipboard" {
		t.Fatalf("body = %q", s.body)
	}
	if s.opts.IconPath == "" {
		t.Fatalf("expected a preview icon")
	}
	if _, err := os.Stat(s.opts.IconPath); !os.IsNotExist(err) {
		t.Fatalf("preview was not cleaned up: %v", err)
	}
}

func TestClearedAndEnvTemplates(t *testing.T) {
	t.Setenv("DOODLEPAD_NOTIFY_CLEAR_TEXT", "Wiped the %s")
	t.Setenv("DOODLEPAD_NOTIFY_TITLE", "Pad")
	n := New(LoadPreferences())
	n.Enable(EventClear, true)
	got := recorder(n)
	n.Cleared()
	if len(*got) != 1 || (*got)[0].body != "Wiped the drawing" || (*got)[0].title != "Pad" {
		t.Fatalf("unexpected notifications %+v", *got)
	}
}

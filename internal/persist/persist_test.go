package persist

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
	"time"

	"github.com/example/doodlepad/internal/notify"
	"github.com/example/doodlepad/internal/platform"
)

func sampleExport(t *testing.T) Export {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 30, 20))
	img.SetRGBA(5, 5, color.RGBA{0, 0, 255, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return Export{
		Image:   img,
		PNG:     buf.Bytes(),
		Session: "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0",
		Time:    time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC),
	}
}

func TestDownloadName(t *testing.T) {
	dir := t.TempDir()
	e := sampleExport(t)
	d := Download{Dir: dir}
	want := filepath.Join(dir, "doodlepad-20240309-140506000-0f1e2d3c.png")
	if got := d.Target(e); got != want {
		t.Fatalf("Target = %q, want %q", got, want)
	}
	if err := d.Save(e); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(data, e.PNG) {
		t.Fatalf("written bytes differ from the export")
	}
}

func TestDownloadSameSecondKeepsBoth(t *testing.T) {
	dir := t.TempDir()
	d := Download{Dir: dir}
	first := sampleExport(t)
	second := sampleExport(t)
	second.Time = first.Time.Add(250 * time.Millisecond)
	second.PNG = append([]byte(nil), first.PNG...)
	second.PNG[len(second.PNG)-1] ^= 0xff
	if d.Target(first) == d.Target(second) {
		t.Fatalf("saves in the same second share %q", d.Target(first))
	}
	for _, e := range []Export{first, second} {
		if err := d.Save(e); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d files, want 2", len(entries))
	}
	data, err := os.ReadFile(d.Target(first))
	if err != nil || !bytes.Equal(data, first.PNG) {
		t.Fatalf("first save was overwritten (err=%v)", err)
	}
	if got := filepath.Base(d.Target(second)); got != "doodlepad-20240309-140506250-0f1e2d3c.png" {
		t.Fatalf("second name = %q", got)
	}
}

func TestFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.png")
	if err := (File{Path: path}).Save(sampleExport(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file missing: %v", err)
	}
	if err := (File{}).Save(sampleExport(t)); err == nil {
		t.Fatalf("expected an error without a path")
	}
}

func TestPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := (PDF{Path: path}).Save(sampleExport(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", data[:8])
	}
	if _, err := RenderPDF(Export{}); err == nil {
		t.Fatalf("expected an error for an empty export")
	}
}

func TestMultiJoinsErrors(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	m := Multi{
		Func(func(Export) error { calls++; return nil }),
		Func(func(Export) error { calls++; return boom }),
		File{Path: filepath.Join(t.TempDir(), "a.png")},
	}
	err := m.Save(sampleExport(t))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if !strings.HasSuffix(m.Target(sampleExport(t)), "a.png") {
		t.Fatalf("Target = %q", m.Target(sampleExport(t)))
	}
}

func TestNotifyingReportsSave(t *testing.T) {
	var bodies []string
	n := notify.New(notify.DefaultPreferences()).WithSender(func(_, body string, _ platform.Options) error {
		bodies = append(bodies, body)
		return nil
	})
	n.Enable(notify.EventSave, true)
	path := filepath.Join(t.TempDir(), "out.png")
	p := Notifying{Persister: File{Path: path}, Notifier: n}
	if err := p.Save(sampleExport(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(bodies) != 1 || !strings.HasSuffix(bodies[0], "out.png") {
		t.Fatalf("unexpected notifications %v", bodies)
	}

	failing := Notifying{Persister: Func(func(Export) error { return errors.New("disk full") }), Notifier: n}
	if err := failing.Save(sampleExport(t)); err == nil {
		t.Fatalf("expected the wrapped error")
	}
	if len(bodies) != 1 {
		t.Fatalf("failed save should not notify")
	}
}

func TestClipboardRejectsEmptyExport(t *testing.T) {
	err := Clipboard{}.Save(Export{})
	if err == nil || !strings.Contains(err.Error(), "empty export") {
		t.Fatalf("expected empty export error, got %v", err)
	}
}

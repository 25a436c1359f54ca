// Package persist delivers finished drawings to their destination: the
// download folder, a fixed file, a PDF, or the clipboard.
package persist

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Export is one saved drawing. PNG holds the encoded Image so persisters
// never re-encode.
type Export struct {
	Image   *image.RGBA
	PNG     []byte
	Session string
	Time    time.Time
}

// Persister stores an Export. Save is called exactly once per save request.
type Persister interface {
	Save(Export) error
}

// Func adapts a function to the Persister interface.
type Func func(Export) error

func (f Func) Save(e Export) error { return f(e) }

// Targeter is implemented by persisters that write to a path, so callers can
// report where a drawing ended up.
type Targeter interface {
	Target(Export) string
}

// Multi saves to every persister in order and joins their errors.
type Multi []Persister

func (m Multi) Save(e Export) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Save(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Target returns the first path reported by a wrapped persister.
func (m Multi) Target(e Export) string {
	for _, p := range m {
		if t, ok := p.(Targeter); ok {
			if path := t.Target(e); path != "" {
				return path
			}
		}
	}
	return ""
}

// File writes the PNG to a fixed path.
type File struct {
	Path string
}

func (f File) Target(Export) string { return f.Path }

func (f File) Save(e Export) error {
	return writeFile(f.Path, e.PNG)
}

// Download writes the PNG into a download folder under a time-stamped name,
// the way a browser offers a file download.
type Download struct {
	// Dir is the destination. Empty selects DownloadDir().
	Dir    string
	Prefix string
}

// Target returns the file path Save writes e to.
func (d Download) Target(e Export) string {
	dir := d.Dir
	if dir == "" {
		dir = DownloadDir()
	}
	return filepath.Join(dir, DefaultName(d.Prefix, e, ".png"))
}

func (d Download) Save(e Export) error {
	return writeFile(d.Target(e), e.PNG)
}

// DefaultName builds "<prefix>-<timestamp>[-<session>]<ext>". The timestamp
// carries milliseconds so saves within the same second get distinct names.
func DefaultName(prefix string, e Export, ext string) string {
	if prefix == "" {
		prefix = "doodlepad"
	}
	ts := e.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	name := prefix + "-" + strings.Replace(ts.Format("20060102-150405.000"), ".", "", 1)
	if s := shortSession(e.Session); s != "" {
		name += "-" + s
	}
	return name + ext
}

func shortSession(s string) string {
	s = strings.ReplaceAll(s, "-", "")
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}

// DownloadDir returns ~/Downloads when it exists, otherwise the working
// directory.
func DownloadDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, "Downloads")
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return dir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func writeFile(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("save: no output path")
	}
	if len(data) == 0 {
		return fmt.Errorf("save %s: empty image", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

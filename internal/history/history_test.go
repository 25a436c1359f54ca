package history

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func newSurface() *image.RGBA { return image.NewRGBA(image.Rect(0, 0, 16, 12)) }

func mark(img *image.RGBA, x, y int, c color.RGBA) { img.SetRGBA(x, y, c) }

func codecs() []Codec { return []Codec{PNGCodec{}, FlateCodec{}} }

func TestRoundTripToBlank(t *testing.T) {
	for _, codec := range codecs() {
		t.Run(codec.Name(), func(t *testing.T) {
			surface := newSurface()
			m, err := New(codec, surface)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			for i := 0; i < 5; i++ {
				mark(surface, i, i, color.RGBA{uint8(40 * i), 0, 0, 255})
				if err := m.Record(surface); err != nil {
					t.Fatalf("Record: %v", err)
				}
			}
			if m.Len() != 6 || m.Index() != 5 {
				t.Fatalf("len=%d index=%d", m.Len(), m.Index())
			}
			for i := 0; i < 5; i++ {
				ok, err := m.Undo(surface)
				if err != nil || !ok {
					t.Fatalf("undo %d: ok=%v err=%v", i, ok, err)
				}
			}
			if !bytes.Equal(surface.Pix, newSurface().Pix) {
				t.Fatalf("surface not blank after undoing every commit")
			}
			if ok, err := m.Undo(surface); ok || err != nil {
				t.Fatalf("undo at the oldest entry: ok=%v err=%v", ok, err)
			}
		})
	}
}

func TestRedoIsPixelExact(t *testing.T) {
	for _, codec := range codecs() {
		t.Run(codec.Name(), func(t *testing.T) {
			surface := newSurface()
			m, err := New(codec, surface)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			// Translucent premultiplied values must survive the codec.
			mark(surface, 3, 3, color.RGBA{0, 0, 1, 2})
			mark(surface, 4, 3, color.RGBA{0, 0, 101, 200})
			mark(surface, 5, 3, color.RGBA{9, 9, 9, 9})
			if err := m.Record(surface); err != nil {
				t.Fatalf("Record: %v", err)
			}
			want := append([]uint8(nil), surface.Pix...)
			if ok, err := m.Undo(surface); !ok || err != nil {
				t.Fatalf("Undo: ok=%v err=%v", ok, err)
			}
			if ok, err := m.Redo(surface); !ok || err != nil {
				t.Fatalf("Redo: ok=%v err=%v", ok, err)
			}
			if !bytes.Equal(surface.Pix, want) {
				t.Fatalf("redo did not restore the committed pixels")
			}
			if ok, _ := m.Redo(surface); ok {
				t.Fatalf("redo at the newest entry should be a no-op")
			}
		})
	}
}

func TestRecordTruncatesRedoTail(t *testing.T) {
	surface := newSurface()
	m, err := New(nil, surface)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a := color.RGBA{255, 0, 0, 255}
	b := color.RGBA{0, 255, 0, 255}
	c := color.RGBA{0, 0, 255, 255}
	mark(surface, 1, 1, a)
	m.Record(surface)
	mark(surface, 2, 2, b)
	m.Record(surface)
	if _, err := m.Undo(surface); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	mark(surface, 3, 3, c)
	m.Record(surface)
	if m.CanRedo() {
		t.Fatalf("redo tail survived a new record")
	}
	if ok, _ := m.Redo(surface); ok {
		t.Fatalf("redo should be a no-op")
	}
	if m.Len() != 3 {
		t.Fatalf("len = %d, want 3", m.Len())
	}
	if got := surface.RGBAAt(2, 2); got == b {
		t.Fatalf("entry B is still visible")
	}
	if got := surface.RGBAAt(3, 3); got != c {
		t.Fatalf("entry C missing: %+v", got)
	}
}

func TestLimitDropsOldest(t *testing.T) {
	surface := newSurface()
	m, err := New(FlateCodec{}, surface, WithLimit(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 5; i++ {
		mark(surface, i, 0, color.RGBA{255, 255, 255, 255})
		if err := m.Record(surface); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if m.Len() != 3 || m.Index() != 2 {
		t.Fatalf("len=%d index=%d, want 3 and 2", m.Len(), m.Index())
	}
	m.Undo(surface)
	m.Undo(surface)
	if m.CanUndo() {
		t.Fatalf("expected the oldest retained entry to be the base")
	}
	if got := surface.RGBAAt(2, 0); got.A != 255 {
		t.Fatalf("base should be the state after the third commit")
	}
	if got := surface.RGBAAt(3, 0); got.A != 0 {
		t.Fatalf("base should not contain the fourth commit")
	}
}

func TestResetCollapses(t *testing.T) {
	surface := newSurface()
	m, _ := New(nil, surface)
	mark(surface, 0, 0, color.RGBA{1, 2, 3, 255})
	m.Record(surface)
	if err := m.Reset(newSurface()); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if m.Len() != 1 || m.CanUndo() || m.CanRedo() {
		t.Fatalf("reset left len=%d", m.Len())
	}
}

func TestRestoreRejectsSizeMismatch(t *testing.T) {
	m, _ := New(nil, newSurface())
	if err := m.Restore(image.NewRGBA(image.Rect(0, 0, 4, 4))); err == nil {
		t.Fatalf("expected a size mismatch error")
	}
}

func TestCodecByName(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{"", "png", false},
		{"PNG", "png", false},
		{"flate", "flate", false},
		{"gzip", "", true},
	}
	for _, tt := range tests {
		c, err := CodecByName(tt.in)
		if tt.err {
			if err == nil {
				t.Errorf("CodecByName(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || c.Name() != tt.want {
			t.Errorf("CodecByName(%q) = %v, %v", tt.in, c, err)
		}
	}
}

func TestCurrentTracksCursor(t *testing.T) {
	for _, codec := range codecs() {
		t.Run(codec.Name(), func(t *testing.T) {
			surface := newSurface()
			m, err := New(codec, surface)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if m.Codec().Name() != codec.Name() {
				t.Fatalf("Codec() = %q, want %q", m.Codec().Name(), codec.Name())
			}
			blank := m.Current()
			if blank.Bytes() == 0 || blank.Bytes() >= len(surface.Pix) {
				t.Fatalf("blank snapshot is %d bytes for %d pixels bytes", blank.Bytes(), len(surface.Pix))
			}
			for x := 0; x < 16; x++ {
				mark(surface, x, x%12, color.RGBA{uint8(x * 13), uint8(255 - x*7), uint8(x * 3), 255})
			}
			if err := m.Record(surface); err != nil {
				t.Fatalf("Record: %v", err)
			}
			drawn := m.Current()
			if drawn.Bytes() == blank.Bytes() {
				t.Fatalf("current snapshot did not move after Record")
			}
			if _, err := m.Undo(surface); err != nil {
				t.Fatalf("Undo: %v", err)
			}
			if m.Current().Bytes() != blank.Bytes() {
				t.Fatalf("current after undo = %d bytes, want %d", m.Current().Bytes(), blank.Bytes())
			}
		})
	}
}

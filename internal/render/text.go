package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	regularOnce sync.Once
	regularFont *opentype.Font
	regularErr  error
)

func parseRegular() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regularFont, regularErr = opentype.Parse(goregular.TTF)
	})
	return regularFont, regularErr
}

// Faces caches font faces by point size. Each surface owner keeps its own
// Faces so text resources are never shared between engines.
type Faces struct {
	font  *opentype.Font
	faces map[float64]font.Face
}

// NewFaces parses the Go Regular font.
func NewFaces() (*Faces, error) {
	f, err := parseRegular()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Faces{font: f, faces: map[float64]font.Face{}}, nil
}

// Face returns the face for size, creating it on first use.
func (f *Faces) Face(size float64) (font.Face, error) {
	if size <= 0 {
		size = 12
	}
	size = math.Round(size*100) / 100
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face %.1fpt: %w", size, err)
	}
	f.faces[size] = face
	return face, nil
}

// Measure returns the bounding box of text with its top-left corner at the
// origin. baseline is the offset from the top to the text baseline.
func (f *Faces) Measure(text string, size float64) (width, height, baseline int, err error) {
	face, err := f.Face(size)
	if err != nil {
		return 0, 0, 0, err
	}
	drawer := &font.Drawer{Face: face}
	width = drawer.MeasureString(text).Ceil()
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	return width, ascent + descent, ascent, nil
}

// Draw renders text with its top-left corner at (x, y).
func (f *Faces) Draw(img *image.RGBA, x, y int, text string, col color.Color, size float64) error {
	face, err := f.Face(size)
	if err != nil {
		return err
	}
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
	return nil
}

// Close releases every cached face.
func (f *Faces) Close() error {
	var first error
	for size, face := range f.faces {
		if err := face.Close(); err != nil && first == nil {
			first = err
		}
		delete(f.faces, size)
	}
	return first
}

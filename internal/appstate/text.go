package appstate

import (
	"fmt"
	"image"
	"strings"
	"unicode"

	"github.com/example/doodlepad/internal/tools"
)

type composition struct {
	at   image.Point
	text []rune
}

// textSize maps the thickness to a font size so the thickness buttons also
// size text.
func textSize(st tools.State) float64 { return 12 + 2*float64(st.Thickness) }

// Composition reports the pending text and where it will be placed.
func (e *Engine) Composition() (image.Point, string, bool) {
	if e.text == nil {
		return image.Point{}, "", false
	}
	return e.text.at, string(e.text.text), true
}

func (e *Engine) beginText(p image.Point) error {
	if e.text != nil {
		if err := e.CommitText(); err != nil {
			return err
		}
	}
	e.text = &composition{at: p}
	e.mode = ModeComposing
	e.renderComposition()
	e.announcef("typing at %d, %d", p.X, p.Y)
	return nil
}

// TypeRune appends r to the pending text. It reports false when nothing is
// being composed or r is not printable.
func (e *Engine) TypeRune(r rune) bool {
	if e.text == nil || !unicode.IsPrint(r) {
		return false
	}
	e.text.text = append(e.text.text, r)
	e.renderComposition()
	return true
}

// TypeString appends every printable rune of s.
func (e *Engine) TypeString(s string) bool {
	typed := false
	for _, r := range s {
		if e.TypeRune(r) {
			typed = true
		}
	}
	return typed
}

// Backspace removes the last pending rune.
func (e *Engine) Backspace() bool {
	if e.text == nil || len(e.text.text) == 0 {
		return false
	}
	e.text.text = e.text.text[:len(e.text.text)-1]
	e.renderComposition()
	return true
}

// CommitText rasterises the pending text in the current color and records
// it. Blank text is discarded without touching history.
func (e *Engine) CommitText() error {
	if e.text == nil {
		return nil
	}
	c := e.text
	e.text = nil
	e.mode = ModeIdle
	s := string(c.text)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	st := e.tools.State()
	if err := e.faces.Draw(e.surface, c.at.X, c.at.Y, s, st.Color, textSize(st)); err != nil {
		return fmt.Errorf("draw text: %w", err)
	}
	e.announce("text added")
	return e.commit("text")
}

// CancelText drops the pending text.
func (e *Engine) CancelText() bool {
	if e.text == nil {
		return false
	}
	e.text = nil
	e.mode = ModeIdle
	e.announce("text discarded")
	return true
}

func (e *Engine) renderComposition() {
	copy(e.overlay.Pix, e.surface.Pix)
	c := e.text
	st := e.tools.State()
	size := textSize(st)
	s := string(c.text)
	if err := e.faces.Draw(e.overlay, c.at.X, c.at.Y, s, st.Color, size); err != nil {
		e.log.Error("render pending text", "err", err)
		return
	}
	w, h, _, err := e.faces.Measure(s, size)
	if err != nil {
		return
	}
	caret := image.Rect(c.at.X+w, c.at.Y, c.at.X+w+1, c.at.Y+h).Intersect(e.overlay.Bounds())
	for y := caret.Min.Y; y < caret.Max.Y; y++ {
		for x := caret.Min.X; x < caret.Max.X; x++ {
			e.overlay.SetRGBA(x, y, e.theme.Caret)
		}
	}
}

// beforeSwitch ends whatever the outgoing tool had in flight so nothing is
// lost when the user picks another tool.
func (e *Engine) beforeSwitch(from, to tools.Tool) {
	if err := e.settle(); err != nil {
		e.log.Error("finish before tool switch", "from", from, "to", to, "err", err)
	}
	e.vpen.down = false
}

func (e *Engine) toolChanged(prev, next tools.State) {
	if !e.ready {
		return
	}
	switch {
	case e.text != nil:
		e.renderComposition()
	case e.mode == ModePreviewing:
		e.renderPreview(next)
	}
	var parts []string
	switch {
	case prev.Tool != next.Tool && next.Tool == tools.Shapes:
		parts = append(parts, fmt.Sprintf("shapes tool, %s", next.Shape))
	case prev.Tool != next.Tool:
		parts = append(parts, fmt.Sprintf("%s tool", next.Tool))
	case prev.Shape != next.Shape:
		parts = append(parts, fmt.Sprintf("%s shape", next.Shape))
	}
	if prev.Color != next.Color {
		parts = append(parts, "color "+e.tools.ColorName())
	}
	if prev.Thickness != next.Thickness {
		parts = append(parts, "thickness "+e.tools.ThicknessLabel())
	}
	if len(parts) > 0 {
		e.announce(strings.Join(parts, ", "))
	}
}

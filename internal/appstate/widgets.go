package appstate

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/doodlepad/internal/render"
	"github.com/example/doodlepad/internal/theme"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button is an interactive toolbar element. Draw runs on the paint goroutine
// and must only read immutable fields; Activate runs on the event goroutine.
type Button interface {
	Draw(dst *image.RGBA, r image.Rectangle, state ButtonState)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states until the
// button is laid out somewhere else.
type CacheButton struct {
	Button
	rect  image.Rectangle
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, r image.Rectangle, state ButtonState) {
	if r != cb.rect {
		cb.rect = r
		cb.cache = [3]*image.RGBA{}
	}
	if cb.cache[state] == nil {
		img := image.NewRGBA(r)
		cb.Button.Draw(img, r, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, r, cb.cache[state], r.Min, draw.Src)
}

func buttonFill(th *theme.Theme, state ButtonState) color.RGBA {
	switch state {
	case StateHover:
		return th.ButtonBackgroundHover
	case StatePressed:
		return th.ButtonBackgroundPress
	}
	return th.ButtonBackground
}

func drawLabel(dst *image.RGBA, x, y int, s string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func labelWidth(s string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(s).Ceil()
}

func outline(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	pts := []render.Vec{
		{X: float64(r.Min.X) + 0.5, Y: float64(r.Min.Y) + 0.5},
		{X: float64(r.Max.X) - 0.5, Y: float64(r.Min.Y) + 0.5},
		{X: float64(r.Max.X) - 0.5, Y: float64(r.Max.Y) - 0.5},
		{X: float64(r.Min.X) + 0.5, Y: float64(r.Max.Y) - 0.5},
	}
	render.Polyline(dst, pts, true, render.Pen{Color: col, Width: 1})
}

// LabelButton is a full-width toolbar row with a text label.
type LabelButton struct {
	label    string
	theme    *theme.Theme
	onSelect func()
}

func (lb *LabelButton) Draw(dst *image.RGBA, r image.Rectangle, state ButtonState) {
	draw.Draw(dst, r, &image.Uniform{buttonFill(lb.theme, state)}, image.Point{}, draw.Src)
	outline(dst, r, lb.theme.ButtonBorder)
	drawLabel(dst, r.Min.X+4, r.Min.Y+14, lb.label, lb.theme.ButtonText)
}

func (lb *LabelButton) Activate() {
	if lb.onSelect != nil {
		lb.onSelect()
	}
}

// SwatchButton selects a palette color.
type SwatchButton struct {
	color    color.RGBA
	theme    *theme.Theme
	onSelect func()
}

func (sb *SwatchButton) Draw(dst *image.RGBA, r image.Rectangle, state ButtonState) {
	draw.Draw(dst, r, &image.Uniform{sb.color}, image.Point{}, draw.Src)
	switch state {
	case StatePressed:
		outline(dst, r, sb.theme.ButtonBorder)
		outline(dst, r.Inset(1), color.RGBA{255, 255, 255, 255})
	case StateHover:
		draw.Draw(dst, r, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
	}
}

func (sb *SwatchButton) Activate() {
	if sb.onSelect != nil {
		sb.onSelect()
	}
}

// ThicknessButton shows a thickness label beside a sample stroke.
type ThicknessButton struct {
	label    string
	width    int
	theme    *theme.Theme
	onSelect func()
}

func (tb *ThicknessButton) Draw(dst *image.RGBA, r image.Rectangle, state ButtonState) {
	draw.Draw(dst, r, &image.Uniform{buttonFill(tb.theme, state)}, image.Point{}, draw.Src)
	drawLabel(dst, r.Min.X+4, r.Min.Y+14, tb.label, tb.theme.ButtonText)
	y := float64(r.Min.Y+r.Max.Y) / 2
	from := float64(r.Min.X + 4 + labelWidth(tb.label) + 6)
	to := float64(r.Max.X - 6)
	if to > from {
		pen := render.Pen{Color: tb.theme.ButtonText, Width: min(tb.width, r.Dy()-4)}
		render.Segment(dst, render.Vec{X: from, Y: y}, render.Vec{X: to, Y: y}, pen)
	}
}

func (tb *ThicknessButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect()
	}
}

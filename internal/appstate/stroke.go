package appstate

import (
	"image"
	"math"

	"github.com/example/doodlepad/internal/render"
	"github.com/example/doodlepad/internal/tools"
)

func strokePen(st tools.State) render.Pen {
	pen := render.Pen{Color: st.Color, Width: st.Width()}
	switch st.Tool {
	case tools.Brush:
		pen.Tip = render.TipSoft
	case tools.Eraser:
		pen.Mode = render.ModeErase
	}
	return pen
}

func (e *Engine) press(p image.Point) error {
	if e.gesture.active {
		if err := e.release(e.gesture.last); err != nil {
			return err
		}
	}
	st := e.tools.State()
	switch st.Tool {
	case tools.Text:
		return e.beginText(p)
	case tools.Shapes:
		e.gesture = gesture{active: true, start: p, last: p}
		e.mode = ModePreviewing
		e.renderPreview(st)
	default:
		e.gesture = gesture{active: true, start: p, last: p}
		e.mode = ModeDrawing
		render.Segment(e.surface, render.V(p), render.V(p), strokePen(st))
	}
	return nil
}

func (e *Engine) move(p image.Point) {
	if !e.gesture.active {
		return
	}
	st := e.tools.State()
	switch e.mode {
	case ModeDrawing:
		if p == e.gesture.last {
			return
		}
		render.Segment(e.surface, render.V(e.gesture.last), render.V(p), strokePen(st))
		e.gesture.last = p
	case ModePreviewing:
		e.gesture.last = p
		e.renderPreview(st)
	}
}

func (e *Engine) release(p image.Point) error {
	if !e.gesture.active {
		return nil
	}
	st := e.tools.State()
	what := "stroke"
	switch e.mode {
	case ModeDrawing:
		if p != e.gesture.last {
			render.Segment(e.surface, render.V(e.gesture.last), render.V(p), strokePen(st))
		}
	case ModePreviewing:
		what = st.Shape.String()
		e.drawShape(st, e.gesture.start, p)
	}
	e.gesture = gesture{}
	e.vpen.down = false
	e.mode = ModeIdle
	return e.commit(what)
}

// renderPreview redraws the overlay as the committed surface plus a dashed
// outline of the shape being dragged.
func (e *Engine) renderPreview(st tools.State) {
	copy(e.overlay.Pix, e.surface.Pix)
	pts, closed := shapeOutline(st.Shape, e.gesture.start, e.gesture.last)
	w := float64(st.Thickness)
	pen := render.Pen{Color: st.Color, Width: st.Thickness}
	render.Dashed(e.overlay, pts, closed, math.Max(6, 2*w), math.Max(4, w), pen)
}

func (e *Engine) drawShape(st tools.State, start, end image.Point) {
	pen := render.Pen{Color: st.Color, Width: st.Thickness}
	if st.Shape == tools.Circle {
		render.Ring(e.surface, render.V(start), render.V(start).Dist(render.V(end)), pen)
		return
	}
	pts, closed := shapeOutline(st.Shape, start, end)
	render.Polyline(e.surface, pts, closed, pen)
}

// shapeOutline returns the vertices of s spanned by a drag from start to end.
// Circles are centred on start with a radius reaching end.
func shapeOutline(s tools.Shape, start, end image.Point) ([]render.Vec, bool) {
	a, b := render.V(start), render.V(end)
	switch s {
	case tools.Rectangle:
		return []render.Vec{a, {X: b.X, Y: a.Y}, b, {X: a.X, Y: b.Y}}, true
	case tools.Circle:
		return render.CirclePoints(a, a.Dist(b)), true
	case tools.Triangle:
		left, right := math.Min(a.X, b.X), math.Max(a.X, b.X)
		apex := render.Vec{X: math.Floor((left+right)/2) + 0.5, Y: b.Y}
		return []render.Vec{apex, {X: left, Y: a.Y}, {X: right, Y: a.Y}}, true
	default:
		return []render.Vec{a, b}, false
	}
}

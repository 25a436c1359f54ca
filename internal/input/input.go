// Package input turns mouse and single-contact touch events into one stream of
// surface-local pointer events.
package input

import (
	"image"

	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"
)

// Phase identifies where an event sits within a pointer gesture.
type Phase int

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
)

func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseMove:
		return "move"
	case PhaseUp:
		return "up"
	default:
		return "unknown"
	}
}

// Event is a canonical pointer event in surface coordinates.
type Event struct {
	Phase Phase
	X, Y  int
}

// Point returns the event position.
func (e Event) Point() image.Point { return image.Pt(e.X, e.Y) }

type source int

const (
	sourceNone source = iota
	sourceMouse
	sourceTouch
)

// Normalizer tracks the gesture in progress and maps window coordinates onto
// the drawing surface. Coordinates outside the surface are clamped so drags
// that leave it keep producing usable points.
type Normalizer struct {
	bounds image.Rectangle
	origin image.Point
	zoom   float64

	active  source
	primary touch.Sequence
	// contacts holds every touch sequence currently down.
	contacts map[touch.Sequence]struct{}
}

// New returns a Normalizer for a surface with the given bounds.
func New(bounds image.Rectangle) *Normalizer {
	return &Normalizer{
		bounds:   bounds,
		zoom:     1,
		contacts: make(map[touch.Sequence]struct{}),
	}
}

// SetViewport configures where the surface is drawn in window space. Window
// positions map to surface pixels as (p - origin) / zoom.
func (n *Normalizer) SetViewport(origin image.Point, zoom float64) {
	if zoom <= 0 {
		zoom = 1
	}
	n.origin = origin
	n.zoom = zoom
}

// Active reports whether a gesture is in progress.
func (n *Normalizer) Active() bool { return n.active != sourceNone }

// ScrollSuppressed reports whether the host must swallow platform scroll and
// zoom gestures because a touch gesture is drawing.
func (n *Normalizer) ScrollSuppressed() bool { return n.active == sourceTouch }

// Mouse converts a mouse event. Only the left button draws and moves are
// reported only while it is held.
func (n *Normalizer) Mouse(e mouse.Event) (Event, bool) {
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft || n.active != sourceNone {
			return Event{}, false
		}
		n.active = sourceMouse
		return n.event(PhaseDown, e.X, e.Y), true
	case mouse.DirNone:
		if n.active != sourceMouse {
			return Event{}, false
		}
		return n.event(PhaseMove, e.X, e.Y), true
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft || n.active != sourceMouse {
			return Event{}, false
		}
		n.active = sourceNone
		return n.event(PhaseUp, e.X, e.Y), true
	}
	return Event{}, false
}

// Touch converts a touch event. The first contact of a gesture is the only
// one that draws; while a second contact is down its moves are dropped.
func (n *Normalizer) Touch(e touch.Event) (Event, bool) {
	switch e.Type {
	case touch.TypeBegin:
		n.contacts[e.Sequence] = struct{}{}
		if n.active != sourceNone {
			return Event{}, false
		}
		n.active = sourceTouch
		n.primary = e.Sequence
		return n.event(PhaseDown, e.X, e.Y), true
	case touch.TypeMove:
		if n.active != sourceTouch || e.Sequence != n.primary || len(n.contacts) > 1 {
			return Event{}, false
		}
		return n.event(PhaseMove, e.X, e.Y), true
	case touch.TypeEnd:
		delete(n.contacts, e.Sequence)
		if n.active != sourceTouch || e.Sequence != n.primary {
			return Event{}, false
		}
		n.active = sourceNone
		return n.event(PhaseUp, e.X, e.Y), true
	}
	return Event{}, false
}

// Reset forgets any gesture in progress.
func (n *Normalizer) Reset() {
	n.active = sourceNone
	n.contacts = make(map[touch.Sequence]struct{})
}

func (n *Normalizer) event(phase Phase, wx, wy float32) Event {
	x := int((float64(wx) - float64(n.origin.X)) / n.zoom)
	y := int((float64(wy) - float64(n.origin.Y)) / n.zoom)
	p := Clamp(image.Pt(x, y), n.bounds)
	return Event{Phase: phase, X: p.X, Y: p.Y}
}

// Clamp returns the pixel of r nearest to p.
func Clamp(p image.Point, r image.Rectangle) image.Point {
	if r.Empty() {
		return r.Min
	}
	if p.X < r.Min.X {
		p.X = r.Min.X
	}
	if p.X >= r.Max.X {
		p.X = r.Max.X - 1
	}
	if p.Y < r.Min.Y {
		p.Y = r.Min.Y
	}
	if p.Y >= r.Max.Y {
		p.Y = r.Max.Y - 1
	}
	return p
}

package appstate

import (
	"image"

	"github.com/example/doodlepad/internal/input"
)

// virtualPen is the keyboard-driven pointer used in accessibility mode.
type virtualPen struct {
	pos  image.Point
	down bool
}

// Accessible reports whether keyboard pen control is on.
func (e *Engine) Accessible() bool { return e.accessible }

// SetAccessible turns keyboard pen control on or off. Turning it off lifts
// the pen.
func (e *Engine) SetAccessible(on bool) error {
	if on == e.accessible {
		return nil
	}
	if !on && e.vpen.down {
		if err := e.TogglePen(); err != nil {
			return err
		}
	}
	e.accessible = on
	if on {
		e.announcef("keyboard drawing on, pen at %d, %d", e.vpen.pos.X, e.vpen.pos.Y)
	} else {
		e.announce("keyboard drawing off")
	}
	return nil
}

// Pen returns the virtual pen position and whether it is down.
func (e *Engine) Pen() (image.Point, bool) { return e.vpen.pos, e.vpen.down }

// MovePen moves the virtual pen by (dx, dy), clamped to the surface. While
// the pen is down the move draws exactly as a pointer drag would.
func (e *Engine) MovePen(dx, dy int) error {
	next := input.Clamp(e.vpen.pos.Add(image.Pt(dx, dy)), e.surface.Bounds())
	e.vpen.pos = next
	if e.vpen.down {
		if err := e.Pointer(input.Event{Phase: input.PhaseMove, X: next.X, Y: next.Y}); err != nil {
			return err
		}
	}
	state := "up"
	if e.vpen.down {
		state = "down"
	}
	e.announcef("pen at %d, %d, %s", next.X, next.Y, state)
	return nil
}

// TogglePen presses or lifts the virtual pen at its current position. With
// the text tool pressing opens a composition and the pen stays up.
func (e *Engine) TogglePen() error {
	p := e.vpen.pos
	if e.vpen.down {
		e.vpen.down = false
		err := e.Pointer(input.Event{Phase: input.PhaseUp, X: p.X, Y: p.Y})
		e.announcef("pen up at %d, %d", p.X, p.Y)
		return err
	}
	if err := e.Pointer(input.Event{Phase: input.PhaseDown, X: p.X, Y: p.Y}); err != nil {
		return err
	}
	if e.mode == ModeComposing {
		return nil
	}
	e.vpen.down = true
	e.announcef("pen down at %d, %d", p.X, p.Y)
	return nil
}

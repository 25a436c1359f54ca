// Package theme holds the presentation colors of a drawing window. A Theme
// is a plain value owned by one window; loading or editing it never affects
// another instance.
package theme

import (
	"image/color"
)

// Theme defines the colors used around and on top of the drawing surface.
type Theme struct {
	Name string

	// Window
	Background color.RGBA // behind the surface
	Foreground color.RGBA // general text

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA

	// Surface
	CheckerLight color.RGBA // transparent pixels show a checkerboard
	CheckerDark  color.RGBA

	// Overlays
	PenCursor     color.RGBA // virtual pen while up
	PenCursorDown color.RGBA // virtual pen while drawing
	Caret         color.RGBA // text composition caret
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		StatusBackground:      color.RGBA{235, 235, 235, 255},
		StatusText:            color.RGBA{0, 0, 0, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
		PenCursor:             color.RGBA{0, 120, 215, 255},
		PenCursorDown:         color.RGBA{215, 40, 40, 255},
		Caret:                 color.RGBA{0, 0, 0, 255},
	}
}

// Clone returns an independent copy of t.
func (t *Theme) Clone() *Theme {
	if t == nil {
		return Default()
	}
	c := *t
	return &c
}

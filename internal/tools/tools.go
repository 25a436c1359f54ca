// Package tools holds the active drawing tool, shape, color and thickness.
//
// Every selection is total: input that does not name a valid option is
// ignored and the previous state is kept. Callers learn whether a selection
// applied from the returned bool.
package tools

import (
	"image/color"
	"strings"
)

// Tool is a drawing tool.
type Tool int

const (
	Pencil Tool = iota
	Brush
	Eraser
	Shapes
	Text
)

var toolNames = []string{"pencil", "brush", "eraser", "shapes", "text"}

func (t Tool) String() string {
	if t.Valid() {
		return toolNames[t]
	}
	return "unknown"
}

// Valid reports whether t names a tool.
func (t Tool) Valid() bool { return t >= Pencil && t <= Text }

// Multiplier returns the factor applied to the thickness for this tool.
func (t Tool) Multiplier() int {
	switch t {
	case Brush:
		return 2
	case Eraser:
		return 4
	default:
		return 1
	}
}

// ParseTool returns the tool with the given name.
func ParseTool(s string) (Tool, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range toolNames {
		if n == s {
			return Tool(i), true
		}
	}
	return 0, false
}

// Shape is a parametric shape drawn by the shapes tool.
type Shape int

const (
	Line Shape = iota
	Rectangle
	Circle
	Triangle
)

var shapeNames = []string{"line", "rectangle", "circle", "triangle"}

func (s Shape) String() string {
	if s.Valid() {
		return shapeNames[s]
	}
	return "unknown"
}

// Valid reports whether s names a shape.
func (s Shape) Valid() bool { return s >= Line && s <= Triangle }

// ParseShape returns the shape with the given name.
func ParseShape(s string) (Shape, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "rect" {
		return Rectangle, true
	}
	for i, n := range shapeNames {
		if n == s {
			return Shape(i), true
		}
	}
	return 0, false
}

// State is a snapshot of the tool selection.
type State struct {
	Tool      Tool
	Shape     Shape
	Color     color.RGBA
	Thickness int
}

// Width returns the effective stroke width for the active tool.
func (s State) Width() int { return s.Thickness * s.Tool.Multiplier() }

// Machine owns the tool State and validates every transition.
type Machine struct {
	state       State
	palette     []PaletteColor
	thicknesses []Thickness

	beforeSwitch func(from, to Tool)
	onChange     func(prev, next State)
}

// Option configures a Machine.
type Option func(*Machine)

// WithPalette replaces the color palette. An empty palette is ignored.
func WithPalette(p []PaletteColor) Option {
	return func(m *Machine) {
		if len(p) > 0 {
			m.palette = append([]PaletteColor(nil), p...)
		}
	}
}

// WithThicknesses replaces the thickness palette. An empty palette is ignored.
func WithThicknesses(t []Thickness) Option {
	return func(m *Machine) {
		if len(t) > 0 {
			m.thicknesses = append([]Thickness(nil), t...)
		}
	}
}

// WithBeforeSwitch registers fn to run before the active tool changes.
func WithBeforeSwitch(fn func(from, to Tool)) Option {
	return func(m *Machine) { m.beforeSwitch = fn }
}

// WithChangeListener registers fn to run after any state change.
func WithChangeListener(fn func(prev, next State)) Option {
	return func(m *Machine) { m.onChange = fn }
}

// New creates a Machine with the pencil selected, the first palette color and
// the medium thickness (or the nearest configured one).
func New(opts ...Option) *Machine {
	m := &Machine{
		palette:     DefaultPalette(),
		thicknesses: DefaultThicknesses(),
	}
	for _, o := range opts {
		o(m)
	}
	m.state = State{
		Tool:      Pencil,
		Shape:     Line,
		Color:     m.palette[defaultColorIndex].Color,
		Thickness: m.nearestThickness(Medium),
	}
	return m
}

// State returns the current selection.
func (m *Machine) State() State { return m.state }

// Palette returns a copy of the color palette.
func (m *Machine) Palette() []PaletteColor {
	return append([]PaletteColor(nil), m.palette...)
}

// Thicknesses returns a copy of the thickness palette.
func (m *Machine) Thicknesses() []Thickness {
	return append([]Thickness(nil), m.thicknesses...)
}

// SelectTool activates t. Selecting Shapes resets the shape to Line.
func (m *Machine) SelectTool(t Tool) bool {
	if !t.Valid() {
		return false
	}
	next := m.state
	next.Tool = t
	if t == Shapes {
		next.Shape = Line
	}
	m.apply(next)
	return true
}

// SelectShape activates the shapes tool with shape s.
func (m *Machine) SelectShape(s Shape) bool {
	if !s.Valid() {
		return false
	}
	next := m.state
	next.Tool = Shapes
	next.Shape = s
	m.apply(next)
	return true
}

// SelectColor sets the drawing color. Translucent colors are rejected.
func (m *Machine) SelectColor(c color.RGBA) bool {
	if c.A != 255 {
		return false
	}
	next := m.state
	next.Color = c
	m.apply(next)
	return true
}

// SelectColorName resolves name with LookupColor and selects it.
func (m *Machine) SelectColorName(name string) bool {
	c, ok := LookupColor(m.palette, name)
	if !ok {
		return false
	}
	return m.SelectColor(c)
}

// SelectThickness sets the thickness if width is one of the palette widths.
func (m *Machine) SelectThickness(width int) bool {
	for _, t := range m.thicknesses {
		if t.Width == width {
			next := m.state
			next.Thickness = width
			m.apply(next)
			return true
		}
	}
	return false
}

// SelectThicknessIndex selects the idx-th thickness (zero based).
func (m *Machine) SelectThicknessIndex(idx int) bool {
	if idx < 0 || idx >= len(m.thicknesses) {
		return false
	}
	return m.SelectThickness(m.thicknesses[idx].Width)
}

// ThicknessLabel returns the label of the current thickness.
func (m *Machine) ThicknessLabel() string {
	for _, t := range m.thicknesses {
		if t.Width == m.state.Thickness {
			return t.Label
		}
	}
	return ""
}

// ColorName returns the name of the current color.
func (m *Machine) ColorName() string { return ColorName(m.palette, m.state.Color) }

func (m *Machine) apply(next State) {
	prev := m.state
	if next == prev {
		return
	}
	if next.Tool != prev.Tool && m.beforeSwitch != nil {
		m.beforeSwitch(prev.Tool, next.Tool)
	}
	m.state = next
	if m.onChange != nil {
		m.onChange(prev, next)
	}
}

func (m *Machine) nearestThickness(width int) int {
	best := m.thicknesses[0].Width
	for _, t := range m.thicknesses {
		if abs(t.Width-width) < abs(best-width) {
			best = t.Width
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Package appstate hosts the drawing engine and its desktop window.
//
// An Engine owns one fixed-size transparent surface and its undo history. It
// routes canonical pointer events through the active tool, drives the same
// pipeline from the keyboard for users without a pointing device, and hands
// finished drawings to a Persister. Engine methods are synchronous and must
// be called from a single goroutine.
package appstate

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/doodlepad/internal/history"
	"github.com/example/doodlepad/internal/input"
	"github.com/example/doodlepad/internal/persist"
	"github.com/example/doodlepad/internal/render"
	"github.com/example/doodlepad/internal/theme"
	"github.com/example/doodlepad/internal/tools"
)

// Default surface size.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Mode is the engine's interaction state.
type Mode int

const (
	ModeIdle Mode = iota
	// ModeDrawing is a freehand stroke in progress.
	ModeDrawing
	// ModePreviewing is a shape drag in progress.
	ModePreviewing
	// ModeComposing is a pending text composition. It ends only on commit
	// or cancel, never on pointer release.
	ModeComposing
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDrawing:
		return "drawing"
	case ModePreviewing:
		return "previewing"
	case ModeComposing:
		return "composing"
	}
	return "unknown"
}

// ClearListener is told whenever the surface is cleared.
type ClearListener interface {
	Cleared()
}

// ClearListenerFunc adapts a function to ClearListener.
type ClearListenerFunc func()

func (f ClearListenerFunc) Cleared() { f() }

// Announcer receives short status messages for assistive technology.
type Announcer interface {
	Announce(msg string)
}

// AnnouncerFunc adapts a function to Announcer.
type AnnouncerFunc func(msg string)

func (f AnnouncerFunc) Announce(msg string) { f(msg) }

// Example is a read-only inspiration image.
type Example struct {
	ImageURL    string
	Description string
}

type gesture struct {
	active      bool
	start, last image.Point
}

// Engine is a drawing session.
type Engine struct {
	id  uuid.UUID
	log *slog.Logger

	surface *image.RGBA
	overlay *image.RGBA
	history *history.Manager
	tools   *tools.Machine
	faces   *render.Faces
	theme   *theme.Theme

	persister persist.Persister
	onClear   ClearListener
	announcer Announcer
	examples  []Example

	mode       Mode
	gesture    gesture
	text       *composition
	vpen       virtualPen
	accessible bool
	status     string
	ready      bool

	size             image.Point
	codec            history.Codec
	limit            int
	palette          []tools.PaletteColor
	thicknesses      []tools.Thickness
	defaultColor     string
	defaultThickness int
	penStep          int
	penStepLarge     int
	now              func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithSize sets the surface size in pixels.
func WithSize(width, height int) Option {
	return func(e *Engine) { e.size = image.Pt(width, height) }
}

// WithPersister sets the destination used by Save. The default writes a PNG
// into the download folder.
func WithPersister(p persist.Persister) Option { return func(e *Engine) { e.persister = p } }

// WithClearListener registers l to be told about every Clear.
func WithClearListener(l ClearListener) Option { return func(e *Engine) { e.onClear = l } }

// WithAnnouncer registers the receiver of status messages.
func WithAnnouncer(a Announcer) Option { return func(e *Engine) { e.announcer = a } }

// WithExamples sets the inspiration images. The slice is copied.
func WithExamples(ex []Example) Option {
	return func(e *Engine) { e.examples = append([]Example(nil), ex...) }
}

// WithLogger sets the structured logger. Engines are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithTheme sets the presentation colors. The theme is copied so later edits
// by the caller do not leak into the engine.
func WithTheme(t *theme.Theme) Option { return func(e *Engine) { e.theme = t.Clone() } }

// WithPalette replaces the drawing colors.
func WithPalette(p []tools.PaletteColor) Option { return func(e *Engine) { e.palette = p } }

// WithThicknesses replaces the thickness palette.
func WithThicknesses(t []tools.Thickness) Option { return func(e *Engine) { e.thicknesses = t } }

// WithDefaultColor selects the starting color by name or hex value.
func WithDefaultColor(name string) Option { return func(e *Engine) { e.defaultColor = name } }

// WithDefaultThickness selects the starting thickness by width.
func WithDefaultThickness(width int) Option { return func(e *Engine) { e.defaultThickness = width } }

// WithHistoryCodec sets the snapshot encoding.
func WithHistoryCodec(c history.Codec) Option {
	return func(e *Engine) {
		if c != nil {
			e.codec = c
		}
	}
}

// WithHistoryLimit bounds the number of undo entries kept.
func WithHistoryLimit(n int) Option { return func(e *Engine) { e.limit = n } }

// WithPenStep sets how far the arrow keys move the virtual pen, without and
// with Shift held.
func WithPenStep(step, large int) Option {
	return func(e *Engine) {
		if step > 0 {
			e.penStep = step
		}
		if large > 0 {
			e.penStepLarge = large
		}
	}
}

// WithAccessibility starts the engine with keyboard pen control enabled.
func WithAccessibility(on bool) Option { return func(e *Engine) { e.accessible = on } }

// New creates an Engine with a blank surface and a single history entry.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		id:           uuid.New(),
		log:          slog.New(nopHandler{}),
		theme:        theme.Default(),
		size:         image.Pt(DefaultWidth, DefaultHeight),
		codec:        history.PNGCodec{},
		penStep:      10,
		penStepLarge: 50,
		now:          time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	if e.size.X <= 0 || e.size.Y <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", e.size.X, e.size.Y)
	}
	e.log = e.log.With("session", e.id.String())

	bounds := image.Rectangle{Max: e.size}
	e.surface = image.NewRGBA(bounds)
	e.overlay = image.NewRGBA(bounds)

	faces, err := render.NewFaces()
	if err != nil {
		return nil, err
	}
	e.faces = faces
	hist, err := history.New(e.codec, e.surface, history.WithLimit(e.limit))
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	e.history = hist

	toolOpts := []tools.Option{
		tools.WithBeforeSwitch(e.beforeSwitch),
		tools.WithChangeListener(e.toolChanged),
	}
	if len(e.palette) > 0 {
		toolOpts = append(toolOpts, tools.WithPalette(e.palette))
	}
	if len(e.thicknesses) > 0 {
		toolOpts = append(toolOpts, tools.WithThicknesses(e.thicknesses))
	}
	e.tools = tools.New(toolOpts...)
	if e.defaultColor != "" && !e.tools.SelectColorName(e.defaultColor) {
		e.log.Warn("ignoring unknown default color", "color", e.defaultColor)
	}
	if e.defaultThickness != 0 && !e.tools.SelectThickness(e.defaultThickness) {
		e.log.Warn("ignoring default thickness outside the palette", "width", e.defaultThickness)
	}
	if e.persister == nil {
		e.persister = persist.Download{}
	}
	e.vpen.pos = image.Pt(e.size.X/2, e.size.Y/2)
	e.ready = true
	e.log.Debug("engine created", "width", e.size.X, "height", e.size.Y, "codec", e.codec.Name())
	return e, nil
}

// Close releases font resources.
func (e *Engine) Close() error { return e.faces.Close() }

// ID returns the session identifier.
func (e *Engine) ID() string { return e.id.String() }

// Bounds returns the surface rectangle.
func (e *Engine) Bounds() image.Rectangle { return e.surface.Bounds() }

// Surface returns the committed surface. Callers must not modify it.
func (e *Engine) Surface() *image.RGBA { return e.surface }

// Frame returns what a viewer should see: the committed surface, or while a
// shape is dragged or text is composed, a copy of it with the uncommitted
// overlay drawn on top. Callers must not modify it.
func (e *Engine) Frame() *image.RGBA {
	if e.mode == ModePreviewing || e.mode == ModeComposing {
		return e.overlay
	}
	return e.surface
}

// Mode returns the interaction state.
func (e *Engine) Mode() Mode { return e.mode }

// Tools returns the current tool selection.
func (e *Engine) Tools() tools.State { return e.tools.State() }

// Palette returns the drawing colors.
func (e *Engine) Palette() []tools.PaletteColor { return e.tools.Palette() }

// Thicknesses returns the thickness palette.
func (e *Engine) Thicknesses() []tools.Thickness { return e.tools.Thicknesses() }

// Examples returns a copy of the inspiration images.
func (e *Engine) Examples() []Example { return append([]Example(nil), e.examples...) }

// Theme returns the engine's presentation colors.
func (e *Engine) Theme() *theme.Theme { return e.theme }

// Status returns the most recent announcement.
func (e *Engine) Status() string { return e.status }

// HistoryLen returns the number of history entries, including the blank one.
func (e *Engine) HistoryLen() int { return e.history.Len() }

// CanUndo reports whether Undo would change the surface.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would change the surface.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// SelectTool activates t. Invalid tools are ignored.
func (e *Engine) SelectTool(t tools.Tool) bool { return e.tools.SelectTool(t) }

// SelectShape activates the shapes tool with s.
func (e *Engine) SelectShape(s tools.Shape) bool { return e.tools.SelectShape(s) }

// SelectColor sets the drawing color. Translucent colors are ignored.
func (e *Engine) SelectColor(c color.RGBA) bool { return e.tools.SelectColor(c) }

// SelectColorName sets the drawing color by name or hex value.
func (e *Engine) SelectColorName(name string) bool { return e.tools.SelectColorName(name) }

// SelectThickness sets the thickness by width.
func (e *Engine) SelectThickness(width int) bool { return e.tools.SelectThickness(width) }

// SelectThicknessIndex sets the thickness by palette position.
func (e *Engine) SelectThicknessIndex(idx int) bool { return e.tools.SelectThicknessIndex(idx) }

// Pointer applies one canonical pointer event. Positions outside the surface
// are clamped, so a release off the surface commits at the edge.
func (e *Engine) Pointer(ev input.Event) error {
	p := input.Clamp(ev.Point(), e.surface.Bounds())
	switch ev.Phase {
	case input.PhaseDown:
		return e.press(p)
	case input.PhaseMove:
		e.move(p)
	case input.PhaseUp:
		return e.release(p)
	}
	return nil
}

// settle resolves anything in flight before a whole-surface operation: a
// pending text is committed and an active gesture is released in place.
func (e *Engine) settle() error {
	if e.text != nil {
		if err := e.CommitText(); err != nil {
			return err
		}
	}
	if e.gesture.active {
		return e.release(e.gesture.last)
	}
	return nil
}

// Blur handles loss of focus: pending text is committed and an active
// gesture ends where it is.
func (e *Engine) Blur() error { return e.settle() }

// Undo restores the previous history entry. At the oldest entry it only
// announces that there is nothing to undo. A pending text composition is
// discarded instead.
func (e *Engine) Undo() error {
	if e.text != nil {
		e.CancelText()
		return nil
	}
	if err := e.settle(); err != nil {
		return err
	}
	ok, err := e.history.Undo(e.surface)
	if err != nil {
		e.log.Error("undo failed", "err", err)
		return fmt.Errorf("undo: %w", err)
	}
	if !ok {
		e.announce("nothing to undo")
		return nil
	}
	e.announce("undo")
	return nil
}

// Redo restores the next history entry. At the newest entry it only
// announces that there is nothing to redo.
func (e *Engine) Redo() error {
	if err := e.settle(); err != nil {
		return err
	}
	ok, err := e.history.Redo(e.surface)
	if err != nil {
		e.log.Error("redo failed", "err", err)
		return fmt.Errorf("redo: %w", err)
	}
	if !ok {
		e.announce("nothing to redo")
		return nil
	}
	e.announce("redo")
	return nil
}

// Export encodes the committed surface as PNG.
func (e *Engine) Export() (persist.Export, error) {
	img := image.NewRGBA(e.surface.Bounds())
	copy(img.Pix, e.surface.Pix)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return persist.Export{}, fmt.Errorf("encode png: %w", err)
	}
	return persist.Export{Image: img, PNG: buf.Bytes(), Session: e.id.String(), Time: e.now()}, nil
}

// Save settles pending work and hands the surface to the persister exactly
// once.
func (e *Engine) Save() error { return e.handOff(e.persister, "save", "saved") }

// Copy hands the surface to p the same way Save does, announcing a copy.
func (e *Engine) Copy(p persist.Persister) error { return e.handOff(p, "copy", "copied") }

func (e *Engine) handOff(p persist.Persister, verb, done string) error {
	if err := e.settle(); err != nil {
		return err
	}
	exp, err := e.Export()
	if err != nil {
		return err
	}
	if err := p.Save(exp); err != nil {
		e.log.Error(verb+" failed", "err", err)
		e.announce(verb + " failed")
		return fmt.Errorf("%s: %w", verb, err)
	}
	e.log.Info(done, "bytes", len(exp.PNG))
	e.announce(done)
	return nil
}

// Clear wipes the surface and collapses history to one blank entry. Pending
// text and any active gesture are dropped. It cannot be undone; callers
// confirm before calling.
func (e *Engine) Clear() error {
	e.text = nil
	e.gesture = gesture{}
	e.vpen.down = false
	e.mode = ModeIdle
	clear(e.surface.Pix)
	if err := e.history.Reset(e.surface); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	if e.onClear != nil {
		e.onClear.Cleared()
	}
	e.log.Info("cleared")
	e.announce("cleared")
	return nil
}

func (e *Engine) commit(what string) error {
	if err := e.history.Record(e.surface); err != nil {
		e.log.Error("record failed", "what", what, "err", err)
		return fmt.Errorf("record %s: %w", what, err)
	}
	cur := e.history.Current()
	e.log.Debug("committed", "what", what, "entries", e.history.Len(), "bytes", cur.Bytes(), "codec", e.history.Codec().Name())
	return nil
}

func (e *Engine) announcef(format string, args ...any) {
	e.announce(fmt.Sprintf(format, args...))
}

func (e *Engine) announce(msg string) {
	e.status = msg
	e.log.Debug("announce", "msg", msg)
	if e.announcer != nil {
		e.announcer.Announce(msg)
	}
}

// nopHandler discards every record; Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

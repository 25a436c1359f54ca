package appstate

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/doodlepad/internal/input"
	"github.com/example/doodlepad/internal/persist"
	"github.com/example/doodlepad/internal/render"
	"github.com/example/doodlepad/internal/tools"
)

const minToolbarWidth = 96

// Window shows an Engine in a desktop window with a toolbar and a status
// line. All engine calls happen on the window's event goroutine.
type Window struct {
	engine  *Engine
	title   string
	copier  persist.Persister
	onClose func()

	norm         *input.Normalizer
	items        []toolbarItem
	toolbarWidth int
	width        int
	height       int
	zoom         float64
	hover        int

	confirmClear bool
	message      string
	messageUntil time.Time
	exampleIdx   int

	closeOnce sync.Once
}

type toolbarItem struct {
	button *CacheButton
	swatch bool
	// gap adds spacing above the item to start a new group.
	gap     bool
	active  func() bool
	visible func() bool
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithTitle sets the window title.
func WithTitle(title string) WindowOption { return func(w *Window) { w.title = title } }

// WithCopier sets the destination of the copy action. Without one the copy
// button is hidden.
func WithCopier(p persist.Persister) WindowOption { return func(w *Window) { w.copier = p } }

// WithOnClose registers a callback invoked once when the window closes.
func WithOnClose(fn func()) WindowOption { return func(w *Window) { w.onClose = fn } }

// NewWindow wraps e in a window.
func NewWindow(e *Engine, opts ...WindowOption) *Window {
	w := &Window{
		engine: e,
		title:  "Doodlepad",
		norm:   input.New(e.Bounds()),
		zoom:   1,
		hover:  -1,
	}
	for _, o := range opts {
		o(w)
	}
	w.buildToolbar()
	b := e.Bounds()
	w.resize(b.Dx()+w.toolbarWidth, b.Dy()+statusHeight)
	return w
}

func always() bool { return true }

func (w *Window) buildToolbar() {
	e := w.engine
	th := e.Theme()
	add := func(b Button, swatch, gap bool, active, visible func() bool) {
		if active == nil {
			active = func() bool { return false }
		}
		if visible == nil {
			visible = always
		}
		w.items = append(w.items, toolbarItem{button: &CacheButton{Button: b}, swatch: swatch, gap: gap, active: active, visible: visible})
	}
	labels := []string{w.title}

	toolKeys := map[tools.Tool]string{tools.Pencil: "P", tools.Brush: "B", tools.Eraser: "E", tools.Shapes: "S", tools.Text: "T"}
	for i, t := range []tools.Tool{tools.Pencil, tools.Brush, tools.Eraser, tools.Shapes, tools.Text} {
		label := fmt.Sprintf("%s:%s", toolKeys[t], t)
		labels = append(labels, label)
		add(&LabelButton{label: label, theme: th, onSelect: func() { e.SelectTool(t) }}, false, i == 0,
			func() bool { return e.Tools().Tool == t }, nil)
	}
	shapeKeys := map[tools.Shape]string{tools.Line: "L", tools.Rectangle: "R", tools.Circle: "C", tools.Triangle: "V"}
	for i, s := range []tools.Shape{tools.Line, tools.Rectangle, tools.Circle, tools.Triangle} {
		label := fmt.Sprintf(" %s:%s", shapeKeys[s], s)
		labels = append(labels, label)
		add(&LabelButton{label: label, theme: th, onSelect: func() { e.SelectShape(s) }}, false, i == 0,
			func() bool { st := e.Tools(); return st.Tool == tools.Shapes && st.Shape == s },
			func() bool { return e.Tools().Tool == tools.Shapes })
	}
	for i, pc := range e.Palette() {
		c := pc.Color
		add(&SwatchButton{color: c, theme: th, onSelect: func() { e.SelectColor(c) }}, true, i == 0,
			func() bool { return e.Tools().Color == c }, nil)
	}
	for i, tk := range e.Thicknesses() {
		idx, width := i, tk.Width
		label := fmt.Sprintf("%d", i+1)
		add(&ThicknessButton{label: label, width: width, theme: th, onSelect: func() { e.SelectThicknessIndex(idx) }}, false, i == 0,
			func() bool { return e.Tools().Thickness == width }, nil)
	}
	type action struct {
		label string
		run   func()
	}
	actions := []action{
		{"Undo", func() { w.report(e.Undo()) }},
		{"Redo", func() { w.report(e.Redo()) }},
		{"Save", func() { w.report(e.Save()) }},
	}
	if w.copier != nil {
		actions = append(actions, action{"Copy", func() { w.report(e.Copy(w.copier)) }})
	}
	actions = append(actions,
		action{"Clear", w.requestClear},
		action{"A11y", func() { w.report(e.SetAccessible(!e.Accessible())) }},
	)
	if len(e.Examples()) > 0 {
		actions = append(actions, action{"Idea", w.nextExample})
	}
	for i, a := range actions {
		labels = append(labels, a.label)
		add(&LabelButton{label: a.label, theme: th, onSelect: a.run}, false, i == 0, nil, nil)
	}

	w.toolbarWidth = minToolbarWidth
	for _, l := range labels {
		if lw := labelWidth(l) + 8; lw > w.toolbarWidth {
			w.toolbarWidth = lw
		}
	}
}

// layout places the visible toolbar items top to bottom. Swatches flow in
// rows; everything else takes a full row.
func (w *Window) layout() []cell {
	var cells []cell
	y := 22
	x := 4
	inSwatches := false
	for i, it := range w.items {
		if !it.visible() {
			continue
		}
		if it.gap {
			if inSwatches {
				y += swatchSize + 2
				inSwatches = false
			}
			y += 6
			x = 4
		}
		var r image.Rectangle
		if it.swatch {
			if x+swatchSize > w.toolbarWidth {
				x = 4
				y += swatchSize + 2
			}
			r = image.Rect(x, y, x+swatchSize, y+swatchSize)
			x += swatchSize + 2
			inSwatches = true
		} else {
			if inSwatches {
				y += swatchSize + 2
				inSwatches = false
			}
			r = image.Rect(0, y, w.toolbarWidth, y+rowHeight)
			y += rowHeight
		}
		state := StateDefault
		switch {
		case it.active():
			state = StatePressed
		case i == w.hover:
			state = StateHover
		}
		cells = append(cells, cell{button: it.button, rect: r, state: state})
	}
	return cells
}

func (w *Window) itemAt(p image.Point) int {
	for _, c := range w.layout() {
		if !p.In(c.rect) {
			continue
		}
		for i, it := range w.items {
			if it.button == c.button {
				return i
			}
		}
	}
	return -1
}

func (w *Window) resize(width, height int) {
	w.width, w.height = width, height
	b := w.engine.Bounds()
	w.zoom = fitZoom(b, width, height, w.toolbarWidth)
	w.norm.SetViewport(imageRect(b, w.zoom, w.toolbarWidth).Min, w.zoom)
}

func (w *Window) report(err error) {
	if err != nil {
		log.Printf("doodlepad: %v", err)
		w.flash(err.Error())
	}
}

func (w *Window) flash(msg string) {
	w.message = msg
	w.messageUntil = time.Now().Add(2 * time.Second)
}

// requestClear clears on the second request in a row.
func (w *Window) requestClear() {
	if !w.confirmClear {
		w.confirmClear = true
		w.flash("Clear again to erase everything")
		return
	}
	w.confirmClear = false
	w.messageUntil = time.Time{}
	w.norm.Reset()
	w.report(w.engine.Clear())
}

func (w *Window) nextExample() {
	ex := w.engine.Examples()
	if len(ex) == 0 {
		return
	}
	x := ex[w.exampleIdx%len(ex)]
	w.exampleIdx++
	w.engine.announcef("idea: %s (%s)", x.Description, x.ImageURL)
}

// handleMouse routes a mouse event and reports whether a repaint is needed.
// A drag that started on the canvas keeps going to the canvas even when the
// pointer crosses the toolbar.
func (w *Window) handleMouse(e mouse.Event) bool {
	if w.message != "" && time.Now().Before(w.messageUntil) && e.Direction == mouse.DirPress && !w.confirmClear {
		w.messageUntil = time.Time{}
		return true
	}
	if e.Button.IsWheel() {
		return w.handleWheel(e)
	}
	p := image.Pt(int(e.X), int(e.Y))
	if !w.norm.Active() && p.X < w.toolbarWidth {
		idx := w.itemAt(p)
		changed := idx != w.hover
		w.hover = idx
		if idx >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
			if !w.isClear(idx) {
				w.confirmClear = false
			}
			w.items[idx].button.Activate()
			return true
		}
		return changed
	}
	if w.hover != -1 {
		w.hover = -1
	}
	if !w.norm.Active() && p.Y >= w.height-statusHeight {
		return false
	}
	ev, ok := w.norm.Mouse(e)
	if !ok {
		return false
	}
	w.confirmClear = false
	w.report(w.engine.Pointer(ev))
	return true
}

// handleWheel steps through the thickness palette. Wheel input is swallowed
// while a finger is drawing.
func (w *Window) handleWheel(e mouse.Event) bool {
	if w.norm.ScrollSuppressed() || e.Direction != mouse.DirStep {
		return false
	}
	ths := w.engine.Thicknesses()
	cur := w.engine.Tools().Thickness
	for i, t := range ths {
		if t.Width != cur {
			continue
		}
		switch e.Button {
		case mouse.ButtonWheelUp:
			return w.engine.SelectThicknessIndex(i + 1)
		case mouse.ButtonWheelDown:
			return w.engine.SelectThicknessIndex(i - 1)
		}
	}
	return false
}

func (w *Window) isClear(idx int) bool {
	lb, ok := w.items[idx].button.Button.(*LabelButton)
	return ok && lb.label == "Clear"
}

func (w *Window) handleTouch(e touch.Event) bool {
	ev, ok := w.norm.Touch(e)
	if !ok {
		return false
	}
	w.report(w.engine.Pointer(ev))
	return true
}

// handleKey applies window shortcuts and then the engine's. It reports
// whether the window should close.
func (w *Window) handleKey(e key.Event) (quit bool) {
	if e.Direction == key.DirRelease {
		return false
	}
	ctrl := e.Modifiers&(key.ModControl|key.ModMeta) != 0
	_, _, composing := w.engine.Composition()
	switch {
	case ctrl && e.Code == key.CodeD:
		w.requestClear()
		return false
	case ctrl && e.Code == key.CodeC && w.copier != nil:
		w.confirmClear = false
		w.report(w.engine.Copy(w.copier))
		return false
	case ctrl && e.Code == key.CodeQ:
		return true
	case !ctrl && !composing && (e.Rune == 'q' || e.Rune == 'Q'):
		return true
	}
	w.confirmClear = false
	if _, err := w.engine.HandleKey(e); err != nil {
		w.report(err)
	}
	return false
}

func (w *Window) snapshot() paintState {
	frame := w.engine.Frame()
	img := image.NewRGBA(frame.Bounds())
	copy(img.Pix, frame.Pix)
	pen, down := w.engine.Pen()
	st := w.engine.Tools()
	summary := st.Tool.String()
	if st.Tool == tools.Shapes {
		summary += " " + st.Shape.String()
	}
	summary += fmt.Sprintf(" | %s | %d", tools.ColorName(w.engine.Palette(), st.Color), st.Thickness)
	if w.engine.Accessible() {
		summary += fmt.Sprintf(" | pen %d,%d", pen.X, pen.Y)
	}
	return paintState{
		width:        w.width,
		height:       w.height,
		title:        w.title,
		toolbarWidth: w.toolbarWidth,
		zoom:         w.zoom,
		frame:        img,
		cells:        w.layout(),
		status:       w.engine.Status(),
		summary:      summary,
		accessible:   w.engine.Accessible(),
		pen:          pen,
		penDown:      down,
		message:      w.message,
		messageUntil: w.messageUntil,
	}
}

func (w *Window) notifyClose() {
	w.closeOnce.Do(func() {
		if w.onClose != nil {
			w.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (w *Window) Run() { driver.Main(w.Main) }

// Main runs the event loop on screen s until the window closes.
func (w *Window) Main(s screen.Screen) {
	win, err := s.NewWindow(&screen.NewWindowOptions{Width: w.width, Height: w.height, Title: w.title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer win.Release()
	defer w.notifyClose()

	faces, err := render.NewFaces()
	if err != nil {
		log.Printf("fonts: %v", err)
		return
	}
	defer faces.Close()
	p := &painter{theme: w.engine.Theme(), faces: faces}

	paints := startPaintLoop(func(ctx context.Context, st paintState) {
		p.drawFrame(ctx, s, win, st)
	})
	defer paints.stop()

	for {
		switch e := win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				w.norm.Reset()
				w.report(w.engine.Blur())
				win.Send(paint.Event{})
			}
		case size.Event:
			w.resize(e.WidthPx, e.HeightPx)
			win.Send(paint.Event{})
		case paint.Event:
			paints.request(w.snapshot())
		case mouse.Event:
			if w.handleMouse(e) {
				win.Send(paint.Event{})
			}
		case touch.Event:
			if w.handleTouch(e) {
				win.Send(paint.Event{})
			}
		case key.Event:
			if w.handleKey(e) {
				return
			}
			win.Send(paint.Event{})
		case error:
			log.Print(e)
		}
	}
}

package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/doodlepad/internal/render"
	"github.com/example/doodlepad/internal/theme"
)

const (
	statusHeight = 22
	rowHeight    = 20
	swatchSize   = 16
	messageSize  = 28
)

// frameDropThreshold bounds how many in-flight paints may be cancelled in a
// row before one is allowed to finish.
const frameDropThreshold = 10

type cell struct {
	button *CacheButton
	rect   image.Rectangle
	state  ButtonState
}

type paintState struct {
	width, height int
	title         string
	toolbarWidth  int
	zoom          float64
	frame         *image.RGBA
	cells         []cell
	status        string
	summary       string
	accessible    bool
	pen           image.Point
	penDown       bool
	message       string
	messageUntil  time.Time
}

// paintLoop renders frames on its own goroutine. Only the latest requested
// frame is kept, and a newer request cancels the one being drawn.
type paintLoop struct {
	draw   func(context.Context, paintState)
	frames chan paintState
	done   chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	drops  int
}

func startPaintLoop(draw func(context.Context, paintState)) *paintLoop {
	l := &paintLoop{draw: draw, frames: make(chan paintState, 1), done: make(chan struct{})}
	go l.run()
	return l
}

func (l *paintLoop) run() {
	defer close(l.done)
	for st := range l.frames {
		ctx, cancel := context.WithCancel(context.Background())
		l.mu.Lock()
		l.cancel = cancel
		l.mu.Unlock()
		l.draw(ctx, st)
		l.mu.Lock()
		l.cancel = nil
		if ctx.Err() == nil {
			l.drops = 0
		}
		l.mu.Unlock()
		cancel()
	}
}

// request queues st, replacing any frame not yet started. Must be called
// from a single goroutine.
func (l *paintLoop) request(st paintState) {
	l.mu.Lock()
	if l.cancel != nil && l.drops < frameDropThreshold {
		l.cancel()
		l.drops++
	}
	l.mu.Unlock()
	select {
	case <-l.frames:
	default:
	}
	l.frames <- st
}

func (l *paintLoop) interrupt() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.mu.Unlock()
}

// stop cancels the frame in flight and returns once the loop has exited, so
// the faces and window it draws with can be released afterwards.
func (l *paintLoop) stop() {
	l.interrupt()
	close(l.frames)
	<-l.done
}

func fitZoom(img image.Rectangle, winW, winH, toolbarWidth int) float64 {
	availW := winW - toolbarWidth
	availH := winH - statusHeight
	if availW <= 0 || availH <= 0 || img.Dx() == 0 || img.Dy() == 0 {
		return 1
	}
	zx := float64(availW) / float64(img.Dx())
	zy := float64(availH) / float64(img.Dy())
	if zx < zy {
		return zx
	}
	return zy
}

// imageRect anchors the canvas just right of the toolbar.
func imageRect(img image.Rectangle, zoom float64, toolbarWidth int) image.Rectangle {
	w := int(float64(img.Dx()) * zoom)
	h := int(float64(img.Dy()) * zoom)
	return image.Rect(toolbarWidth, 0, toolbarWidth+w, h)
}

// drawCheckerboard fills rect of dst with squares of the given size so
// transparent pixels are visible.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// painter owns everything the paint goroutine touches.
type painter struct {
	theme    *theme.Theme
	faces    *render.Faces
	backdrop *image.RGBA
}

func (p *painter) drawBackdrop(dst *image.RGBA) {
	b := dst.Bounds()
	if p.backdrop == nil || p.backdrop.Bounds() != b {
		p.backdrop = image.NewRGBA(b)
		drawCheckerboard(p.backdrop, b, 8, p.theme.CheckerLight, p.theme.CheckerDark)
	}
	draw.Draw(dst, b, p.backdrop, image.Point{}, draw.Src)
}

func (p *painter) drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	p.compose(ctx, b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// compose renders st into dst. It stops early once ctx is cancelled.
func (p *painter) compose(ctx context.Context, dst *image.RGBA, st paintState) {
	th := p.theme
	p.drawBackdrop(dst)
	if ctx.Err() != nil {
		return
	}

	img := st.frame
	target := imageRect(img.Bounds(), st.zoom, st.toolbarWidth)
	xdraw.NearestNeighbor.Scale(dst, target, img, img.Bounds(), draw.Over, nil)
	if st.accessible {
		p.drawPen(dst, target, st)
	}
	if ctx.Err() != nil {
		return
	}

	bar := image.Rect(0, 0, st.toolbarWidth, st.height-statusHeight)
	draw.Draw(dst, bar, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	drawLabel(dst, 4, 15, st.title, th.ButtonText)
	for _, c := range st.cells {
		c.button.Draw(dst, c.rect, c.state)
	}
	if ctx.Err() != nil {
		return
	}

	status := image.Rect(0, st.height-statusHeight, st.width, st.height)
	draw.Draw(dst, status, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)
	drawLabel(dst, 6, status.Min.Y+15, st.summary, th.StatusText)
	if st.status != "" {
		x := max(st.width-labelWidth(st.status)-6, 12+labelWidth(st.summary))
		drawLabel(dst, x, status.Min.Y+15, st.status, th.StatusText)
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		p.drawMessage(dst, st)
	}
}

func (p *painter) drawPen(dst *image.RGBA, target image.Rectangle, st paintState) {
	col := p.theme.PenCursor
	if st.penDown {
		col = p.theme.PenCursorDown
	}
	cx := float64(target.Min.X) + (float64(st.pen.X)+0.5)*st.zoom
	cy := float64(target.Min.Y) + (float64(st.pen.Y)+0.5)*st.zoom
	pen := render.Pen{Color: col, Width: 2}
	render.Ring(dst, render.Vec{X: cx, Y: cy}, 6, pen)
	render.Segment(dst, render.Vec{X: cx - 10, Y: cy}, render.Vec{X: cx + 10, Y: cy}, pen)
	render.Segment(dst, render.Vec{X: cx, Y: cy - 10}, render.Vec{X: cx, Y: cy + 10}, pen)
}

func (p *painter) drawMessage(dst *image.RGBA, st paintState) {
	w, h, _, err := p.faces.Measure(st.message, messageSize)
	if err != nil {
		log.Printf("measure message: %v", err)
		return
	}
	x := (st.width - w) / 2
	y := (st.height - h) / 2
	rect := image.Rect(x-8, y-8, x+w+8, y+h+8)
	draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
	outline(dst, rect, p.theme.Foreground)
	outline(dst, rect.Inset(1), p.theme.Foreground)
	if err := p.faces.Draw(dst, x, y, st.message, p.theme.Foreground, messageSize); err != nil {
		log.Printf("draw message: %v", err)
	}
}

package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

var blue = color.RGBA{0, 0, 255, 255}

func TestSegmentHorizontal(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	Segment(img, V(image.Pt(5, 10)), V(image.Pt(30, 10)), Pen{Color: blue, Width: 5})
	for x := 5; x <= 30; x++ {
		for y := 8; y <= 12; y++ {
			if got := img.RGBAAt(x, y); got != blue {
				t.Fatalf("pixel (%d,%d) = %+v, want blue", x, y, got)
			}
		}
	}
	if got := img.RGBAAt(17, 14); got.A != 0 {
		t.Fatalf("pixel outside the stroke painted: %+v", got)
	}
	// Round cap extends past the end point.
	if got := img.RGBAAt(32, 10); got != blue {
		t.Fatalf("expected round cap at (32,10), got %+v", got)
	}
	if got := img.RGBAAt(32, 8); got.A != 0 {
		t.Fatalf("cap corner should stay clear, got %+v", got)
	}
}

func TestSegmentDot(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	p := V(image.Pt(4, 4))
	Segment(img, p, p, Pen{Color: blue, Width: 1})
	if got := img.RGBAAt(4, 4); got != blue {
		t.Fatalf("expected a dot, got %+v", got)
	}
	if got := img.RGBAAt(5, 4); got.A != 0 {
		t.Fatalf("width 1 dot should be a single pixel, got %+v", got)
	}
}

func TestSoftTipFallsOff(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	Segment(img, V(image.Pt(5, 20)), V(image.Pt(35, 20)), Pen{Color: blue, Width: 10, Tip: TipSoft})
	centre := img.RGBAAt(20, 20).A
	near := img.RGBAAt(20, 22).A
	edge := img.RGBAAt(20, 24).A
	outside := img.RGBAAt(20, 26).A
	if centre != 255 {
		t.Fatalf("centre alpha = %d, want 255", centre)
	}
	if !(centre > near && near > edge && edge > 0) {
		t.Fatalf("alpha should decrease away from the centre: %d %d %d", centre, near, edge)
	}
	if outside != 0 {
		t.Fatalf("alpha beyond the edge = %d", outside)
	}
}

func TestEraseRevealsTransparency(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	fill := color.RGBA{200, 40, 40, 255}
	draw.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	Segment(img, V(image.Pt(5, 15)), V(image.Pt(25, 15)), Pen{Width: 6, Mode: ModeErase})
	if got := img.RGBAAt(15, 15); got != (color.RGBA{}) {
		t.Fatalf("erased pixel = %+v, want transparent", got)
	}
	if got := img.RGBAAt(15, 25); got != fill {
		t.Fatalf("pixel outside the eraser changed: %+v", got)
	}
}

func TestDashedLeavesGaps(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 10))
	pts := []Vec{V(image.Pt(0, 5)), V(image.Pt(99, 5))}
	Dashed(img, pts, false, 6, 6, Pen{Color: blue, Width: 1})
	painted, clear := 0, 0
	for x := 0; x < 100; x++ {
		if img.RGBAAt(x, 5).A != 0 {
			painted++
		} else {
			clear++
		}
	}
	if painted == 0 || clear == 0 {
		t.Fatalf("expected alternating dashes, painted=%d clear=%d", painted, clear)
	}
}

func TestRing(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	c := V(image.Pt(30, 30))
	Ring(img, c, 20, Pen{Color: blue, Width: 2})
	if got := img.RGBAAt(50, 30); got != blue {
		t.Fatalf("ring missing at radius, got %+v", got)
	}
	if got := img.RGBAAt(30, 30); got.A != 0 {
		t.Fatalf("ring interior painted: %+v", got)
	}
}

func TestFacesDrawAndMeasure(t *testing.T) {
	faces, err := NewFaces()
	if err != nil {
		t.Fatalf("NewFaces: %v", err)
	}
	t.Cleanup(func() { faces.Close() })
	w, h, baseline, err := faces.Measure("Hi", 20)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if w <= 0 || h <= 0 || baseline <= 0 || baseline > h {
		t.Fatalf("unexpected metrics w=%d h=%d baseline=%d", w, h, baseline)
	}
	img := image.NewRGBA(image.Rect(0, 0, 80, 40))
	if err := faces.Draw(img, 4, 4, "Hi", blue, 20); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	inked := false
	for y := 4; y < 4+h && !inked; y++ {
		for x := 4; x < 4+w; x++ {
			if img.RGBAAt(x, y).A != 0 {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Fatalf("expected text pixels inside the measured box")
	}
}

// Package render rasterises strokes, shape outlines and text onto RGBA
// surfaces. Coordinates are pixel positions; a position addresses the centre
// of its pixel.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Vec is a position in surface space.
type Vec struct {
	X, Y float64
}

// V converts an integer pixel position to a Vec at the pixel centre.
func V(p image.Point) Vec { return Vec{float64(p.X) + 0.5, float64(p.Y) + 0.5} }

func (v Vec) sub(o Vec) Vec     { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }

// Dist returns the distance between v and o.
func (v Vec) Dist(o Vec) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

// Tip selects how coverage falls off across the width of a stroke.
type Tip int

const (
	// TipHard covers every pixel within half the width at full strength.
	TipHard Tip = iota
	// TipSoft fades linearly from full strength on the centre line to
	// nothing at the edge.
	TipSoft
)

// Mode selects how a stroke combines with the destination.
type Mode int

const (
	// ModeOver paints the color over existing pixels.
	ModeOver Mode = iota
	// ModeErase removes existing pixels in proportion to coverage
	// (destination-out), leaving transparency behind.
	ModeErase
)

// Pen describes how to stroke a path.
type Pen struct {
	Color color.RGBA
	Width int
	Tip   Tip
	Mode  Mode
}

// Segment strokes the segment a-b with round caps. A zero-length segment
// produces a round dot.
func Segment(dst *image.RGBA, a, b Vec, pen Pen) {
	mask, r := capsule(a, b, pen.Width, pen.Tip, dst.Bounds())
	if mask == nil {
		return
	}
	composite(dst, r, mask, pen)
}

// Polyline strokes consecutive segments of pts. When closed the last point is
// joined back to the first.
func Polyline(dst *image.RGBA, pts []Vec, closed bool, pen Pen) {
	for _, s := range edges(pts, closed) {
		Segment(dst, s[0], s[1], pen)
	}
}

// Dashed strokes pts with alternating drawn and skipped runs of dash and gap
// pixels measured along the path.
func Dashed(dst *image.RGBA, pts []Vec, closed bool, dash, gap float64, pen Pen) {
	if dash <= 0 {
		Polyline(dst, pts, closed, pen)
		return
	}
	if gap < 0 {
		gap = 0
	}
	period := dash + gap
	travelled := 0.0
	for _, s := range edges(pts, closed) {
		a, b := s[0], s[1]
		length := a.Dist(b)
		if length == 0 {
			continue
		}
		d := b.sub(a)
		t := 0.0
		for t < length {
			phase := math.Mod(travelled+t, period)
			if phase < dash {
				end := math.Min(length, t+dash-phase)
				Segment(dst, lerp(a, d, t/length), lerp(a, d, end/length), pen)
				t = end
			} else {
				t = math.Min(length, t+period-phase)
			}
		}
		travelled += length
	}
}

// Ring strokes a circle of radius r around c. A zero radius produces a dot.
func Ring(dst *image.RGBA, c Vec, r float64, pen Pen) {
	half := float64(maxInt(pen.Width, 1)) / 2
	outer := r + half
	rect := image.Rect(
		int(math.Floor(c.X-outer)), int(math.Floor(c.Y-outer)),
		int(math.Ceil(c.X+outer))+1, int(math.Ceil(c.Y+outer))+1,
	).Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	mask := image.NewAlpha(rect)
	covered := false
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			d := math.Abs(V(image.Pt(x, y)).Dist(c) - r)
			if cov := coverage(d, half, pen.Tip); cov > 0 {
				mask.SetAlpha(x, y, color.Alpha{A: cov})
				covered = true
			}
		}
	}
	if covered {
		composite(dst, rect, mask, pen)
	}
}

// CirclePoints approximates a circle with a closed polygon.
func CirclePoints(c Vec, r float64) []Vec {
	n := int(2 * math.Pi * r / 4)
	if n < 24 {
		n = 24
	}
	pts := make([]Vec, n)
	for i := range pts {
		angle := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Vec{c.X + math.Cos(angle)*r, c.Y + math.Sin(angle)*r}
	}
	return pts
}

// capsule builds the coverage mask for the segment a-b, clipped to clip.
func capsule(a, b Vec, width int, tip Tip, clip image.Rectangle) (*image.Alpha, image.Rectangle) {
	half := float64(maxInt(width, 1)) / 2
	rect := image.Rect(
		int(math.Floor(math.Min(a.X, b.X)-half)), int(math.Floor(math.Min(a.Y, b.Y)-half)),
		int(math.Ceil(math.Max(a.X, b.X)+half))+1, int(math.Ceil(math.Max(a.Y, b.Y)+half))+1,
	).Intersect(clip)
	if rect.Empty() {
		return nil, rect
	}
	ab := b.sub(a)
	lenSq := ab.dot(ab)
	mask := image.NewAlpha(rect)
	covered := false
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			p := V(image.Pt(x, y))
			t := 0.0
			if lenSq > 0 {
				t = clamp01(p.sub(a).dot(ab) / lenSq)
			}
			d := p.Dist(lerp(a, ab, t))
			if cov := coverage(d, half, tip); cov > 0 {
				mask.SetAlpha(x, y, color.Alpha{A: cov})
				covered = true
			}
		}
	}
	if !covered {
		return nil, rect
	}
	return mask, rect
}

// coverage returns the mask strength for a pixel d away from the centre line.
// The centre pixel is always covered so thin strokes never vanish.
func coverage(d, half float64, tip Tip) uint8 {
	if d >= half && d > 0.5 {
		return 0
	}
	if tip == TipSoft {
		f := 1 - d/half
		if f <= 0 {
			return 0
		}
		return uint8(math.Round(f * 255))
	}
	return 255
}

func composite(dst *image.RGBA, r image.Rectangle, mask *image.Alpha, pen Pen) {
	if pen.Mode == ModeErase {
		eraseMask(dst, r, mask)
		return
	}
	draw.DrawMask(dst, r, image.NewUniform(pen.Color), image.Point{}, mask, r.Min, draw.Over)
}

// eraseMask scales the premultiplied destination by (1 - mask), the
// destination-out Porter-Duff operator which image/draw does not provide.
func eraseMask(dst *image.RGBA, r image.Rectangle, mask *image.Alpha) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m := uint32(mask.AlphaAt(x, y).A)
			if m == 0 {
				continue
			}
			i := dst.PixOffset(x, y)
			keep := 255 - m
			for c := 0; c < 4; c++ {
				dst.Pix[i+c] = uint8((uint32(dst.Pix[i+c])*keep + 127) / 255)
			}
		}
	}
}

func edges(pts []Vec, closed bool) [][2]Vec {
	if len(pts) == 0 {
		return nil
	}
	if len(pts) == 1 {
		return [][2]Vec{{pts[0], pts[0]}}
	}
	out := make([][2]Vec, 0, len(pts))
	for i := 1; i < len(pts); i++ {
		out = append(out, [2]Vec{pts[i-1], pts[i]})
	}
	if closed && len(pts) > 2 {
		out = append(out, [2]Vec{pts[len(pts)-1], pts[0]})
	}
	return out
}

func lerp(a, d Vec, t float64) Vec { return Vec{a.X + d.X*t, a.Y + d.Y*t} }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

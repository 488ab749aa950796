package core

import "math"

// Size describes the dimensions of a grid or view.
type Size struct {
	W int
	H int
}

// Rect is an axis-aligned rectangle in grid coordinates.
type Rect struct {
	X, Y int
	W, H int
}

// Inset returns the rectangle of a w x h area surrounded by margin cells on
// every side, i.e. the visible part of a margin-padded grid.
func Inset(w, h, margin int) Rect {
	return Rect{X: margin, Y: margin, W: w, H: h}
}

// Intersect clips r to o.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Color selects how live cells are painted: a single palette index, or
// Multicolor to recolor every live cell independently at render time.
type Color uint8

// Multicolor is the sentinel color selection for per-cell random colors.
const Multicolor Color = math.MaxUint8

// IsMulticolor reports whether c is the multicolor sentinel.
func (c Color) IsMulticolor() bool { return c == Multicolor }

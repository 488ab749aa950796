// Package render turns a grid view and a color selection into colored
// frames for the render sinks.
package render

import (
	"image/color"

	"life-matrix/pkg/core"
)

// Palette holds the display colors. Entry 0 is the background.
type Palette []color.RGBA

// NewPalette returns n colors: black followed by n-1 random colors.
func NewPalette(rng *core.RNG, n int) Palette {
	if n < 2 {
		n = 2
	}
	p := make(Palette, n)
	p[0] = color.RGBA{A: 255}
	for i := 1; i < n; i++ {
		p[i] = color.RGBA{R: rng.Uint8n(255) + 1, G: rng.Uint8n(255) + 1, B: rng.Uint8n(255) + 1, A: 255}
	}
	return p
}

// Frame is a composed image of palette indices in row-major order.
type Frame struct {
	W, H  int
	Index []uint8
}

// At returns the palette index at (x, y).
func (f Frame) At(x, y int) uint8 { return f.Index[y*f.W+x] }

// Composer assigns palette indices to the live cells of a view. It owns the
// randomness used for multicolor frames.
type Composer struct {
	palette Palette
	rng     *core.RNG
}

// NewComposer returns a Composer for the palette.
func NewComposer(p Palette, rng *core.RNG) *Composer {
	return &Composer{palette: p, rng: rng}
}

// Palette returns the composer's colors.
func (c *Composer) Palette() Palette { return c.palette }

// Compose paints every live cell of v with sel, or with an independent
// random non-background color when sel is core.Multicolor. Dead cells use
// index 0. dst is reused when it has the right size.
func (c *Composer) Compose(dst Frame, v core.View, sel core.Color) Frame {
	size := v.Size()
	if dst.W != size.W || dst.H != size.H || len(dst.Index) != size.W*size.H {
		dst = Frame{W: size.W, H: size.H, Index: make([]uint8, size.W*size.H)}
	}
	last := len(c.palette) - 1
	fixed := uint8(sel)
	if !sel.IsMulticolor() && int(fixed) > last {
		fixed = uint8(last)
	}
	i := 0
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			switch {
			case !v.Alive(x, y):
				dst.Index[i] = 0
			case sel.IsMulticolor():
				dst.Index[i] = 1 + c.rng.Uint8n(uint8(last))
			default:
				dst.Index[i] = fixed
			}
			i++
		}
	}
	return dst
}

// RGBA converts the frame into RGBA pixels.
func (c *Composer) RGBA(buf []byte, f Frame) []byte {
	if len(buf) != 4*len(f.Index) {
		buf = make([]byte, 4*len(f.Index))
	}
	fillPaletteRGBA(buf, f.Index, c.palette)
	return buf
}

package render

import "image/color"

// fillPaletteRGBA converts palette indices into RGBA pixels in buf. Indices
// past the end of the palette use the last entry. When the palette is empty
// the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		for i := range cells {
			base := i * 4
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
		}
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Bits reduces a color to one bit per channel, as driven on a HUB75 panel.
func Bits(c color.RGBA) (r, g, b int) {
	bit := func(v uint8) int {
		if v >= 128 {
			return 1
		}
		return 0
	}
	r, g, b = bit(c.R), bit(c.G), bit(c.B)
	if c != (color.RGBA{A: c.A}) && r == 0 && g == 0 && b == 0 {
		// Dim colors still light the brightest channel so live cells never vanish.
		switch {
		case c.R >= c.G && c.R >= c.B:
			r = 1
		case c.G >= c.B:
			g = 1
		default:
			b = 1
		}
	}
	return r, g, b
}

package rle

import (
	"fmt"

	"life-matrix/pkg/core"
)

// DefaultOffset is the start column/row, in visible matrix coordinates, used
// on an axis with neither an explicit offset nor a declared extent.
const DefaultOffset = 5

// maxRun caps a single run count so absurd inputs cannot overflow.
const maxRun = 1 << 24

// Decode walks an RLE body and calls emit for each run of cells. x and y are
// relative to the pattern's top-left corner. Digits accumulate a run count
// that the next letter consumes (default 1). 'b' is a dead run, any other
// letter a live run. '$' moves down one row and back to column 0, discarding
// a pending count. Other characters, including the '!' terminator, are
// ignored.
func Decode(body string, emit func(x, y, n int, alive bool)) {
	x, y := 0, 0
	count := 0
	take := func() int {
		n := count
		count = 0
		if n == 0 {
			return 1
		}
		return n
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case isDigit(c):
			if count < maxRun {
				count = count*10 + int(c-'0')
			}
		case c == '$':
			count = 0
			y++
			x = 0
		case isLetter(c):
			n := take()
			emit(x, y, n, c != 'b')
			x += n
		}
	}
}

// Origin returns the grid coordinates of the pattern's top-left corner on a
// grid of size g whose visible area is surrounded by margin cells.
//
// Per axis: an explicit #X offset wins; otherwise a declared extent centers
// the pattern on the grid; otherwise DefaultOffset is used.
func Origin(p *Pattern, g core.Size, margin int) (x, y int) {
	x = origin(p.Offset.HasX, p.Offset.X, p.Width, g.W, margin)
	y = origin(p.Offset.HasY, p.Offset.Y, p.Height, g.H, margin)
	return x, y
}

func origin(explicit bool, offset, extent, dim, margin int) int {
	switch {
	case explicit:
		return margin + offset
	case extent > 0:
		return (dim - extent) / 2
	default:
		return margin + DefaultOffset
	}
}

// Place writes the pattern onto g. It returns ErrTooLarge, leaving g
// untouched, when the declared extent exceeds the grid on either axis.
// Cells that fall outside the grid are dropped.
func Place(g *core.Grid, p *Pattern, margin int) error {
	if p.Width > g.W || p.Height > g.H {
		return fmt.Errorf("%w: %dx%d does not fit %dx%d", ErrTooLarge, p.Width, p.Height, g.W, g.H)
	}
	ox, oy := Origin(p, g.Size(), margin)
	Decode(p.Body, func(x, y, n int, alive bool) {
		row := oy + y
		if row < 0 || row >= g.H {
			return
		}
		var v uint8
		if alive {
			v = 1
		}
		start := max(ox+x, 0)
		end := min(ox+x+n, g.W)
		for col := start; col < end; col++ {
			g.Set(col, row, v)
		}
	})
	return nil
}

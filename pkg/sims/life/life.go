// Package life implements Conway's Game of Life (B3/S23) on a bounded grid.
package life

import (
	"life-matrix/pkg/core"
)

// Next returns the generation following g. Neighbors are counted among the
// eight surrounding cells, clipped at the grid boundary (no wrapping). g is
// never modified.
func Next(g *core.Grid) *core.Grid {
	w, h := g.W, g.H
	cur := g.Cells()
	out := core.NewGrid(w, h)
	nxt := out.Cells()
	for y := 0; y < h; y++ {
		y0, y1 := max(y-1, 0), min(y+1, h-1)
		for x := 0; x < w; x++ {
			x0, x1 := max(x-1, 0), min(x+1, w-1)
			neighbors := 0
			for ny := y0; ny <= y1; ny++ {
				row := ny * w
				for nx := x0; nx <= x1; nx++ {
					if cur[row+nx] != 0 {
						neighbors++
					}
				}
			}
			idx := y*w + x
			alive := cur[idx] != 0
			if alive {
				neighbors--
			}
			if (alive && (neighbors == 2 || neighbors == 3)) || (!alive && neighbors == 3) {
				nxt[idx] = 1
			}
		}
	}
	return out
}

// Run advances g by n generations and returns the result.
func Run(g *core.Grid, n int) *core.Grid {
	for i := 0; i < n; i++ {
		g = Next(g)
	}
	return g
}

package core

// Grid stores a 2D grid of binary cell values in row-major order. A grid
// returned by the life engine is never written to again, so two grids can be
// compared as snapshots.
type Grid struct {
	W, H int
	data []uint8
}

// NewGrid allocates an all-dead grid with the given dimensions.
func NewGrid(w, h int) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid{W: w, H: h, data: make([]uint8, w*h)}
}

// Size returns the grid dimensions.
func (g *Grid) Size() Size { return Size{W: g.W, H: g.H} }

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// In reports whether (x, y) lies inside the grid.
func (g *Grid) In(x, y int) bool { return x >= 0 && y >= 0 && x < g.W && y < g.H }

// At returns the cell at (x, y), or 0 outside the grid.
func (g *Grid) At(x, y int) uint8 {
	if !g.In(x, y) {
		return 0
	}
	return g.data[g.Index(x, y)]
}

// Set writes v at (x, y). Writes outside the grid are dropped.
func (g *Grid) Set(x, y int, v uint8) {
	if !g.In(x, y) {
		return
	}
	g.data[g.Index(x, y)] = v
}

// Randomize makes every cell independently live with probability 0.5.
func (g *Grid) Randomize(r *RNG) {
	FillBinary(r.Source(), g.data)
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{W: g.W, H: g.H, data: make([]uint8, len(g.data))}
	copy(c.data, g.data)
	return c
}

// LiveCount returns the number of non-zero cells.
func (g *Grid) LiveCount() int {
	n := 0
	for _, c := range g.data {
		if c != 0 {
			n++
		}
	}
	return n
}

// Clear fills the grid with zeros.
func (g *Grid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}

// View returns a read-only window over r, clipped to the grid bounds.
func (g *Grid) View(r Rect) View {
	r = r.Intersect(Rect{W: g.W, H: g.H})
	return View{g: g, r: r}
}

// Equal reports whether a and b have the same dimensions and cells. A nil
// grid is never equal to anything, including another nil grid.
func Equal(a, b *Grid) bool {
	if a == nil || b == nil {
		return false
	}
	if a.W != b.W || a.H != b.H {
		return false
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}

// View is a read-only rectangle of a Grid. Coordinates passed to its methods
// are relative to the top-left corner of the rectangle.
type View struct {
	g *Grid
	r Rect
}

// Size returns the dimensions of the window.
func (v View) Size() Size { return Size{W: v.r.W, H: v.r.H} }

// At returns the cell value at (x, y) relative to the window, or 0 outside it.
func (v View) At(x, y int) uint8 {
	if v.g == nil || x < 0 || y < 0 || x >= v.r.W || y >= v.r.H {
		return 0
	}
	return v.g.At(v.r.X+x, v.r.Y+y)
}

// Alive reports whether the cell at (x, y) is live.
func (v View) Alive(x, y int) bool { return v.At(x, y) != 0 }

// LiveCount returns the number of live cells inside the window.
func (v View) LiveCount() int {
	n := 0
	for y := 0; y < v.r.H; y++ {
		for x := 0; x < v.r.W; x++ {
			if v.Alive(x, y) {
				n++
			}
		}
	}
	return n
}

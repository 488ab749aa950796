package render

import (
	"image/color"
	"testing"

	"life-matrix/pkg/core"
)

func TestNewPaletteBackgroundIsBlack(t *testing.T) {
	p := NewPalette(core.NewRNG(3), 5)
	if len(p) != 5 {
		t.Fatalf("palette has %d colors, want 5", len(p))
	}
	if p[0] != (color.RGBA{A: 255}) {
		t.Fatalf("background = %+v, want opaque black", p[0])
	}
	for i, c := range p[1:] {
		if c.R == 0 || c.G == 0 || c.B == 0 {
			t.Fatalf("live color %d = %+v has a zero channel", i+1, c)
		}
	}
}

func testView() core.View {
	g := core.NewGrid(5, 4)
	g.Set(0, 0, 1) // margin, never composed
	g.Set(1, 1, 1)
	g.Set(3, 2, 1)
	return g.View(core.Inset(3, 2, 1))
}

func TestComposeFixedColor(t *testing.T) {
	c := NewComposer(NewPalette(core.NewRNG(1), 5), core.NewRNG(1))
	f := c.Compose(Frame{}, testView(), core.Color(3))
	if f.W != 3 || f.H != 2 {
		t.Fatalf("frame = %dx%d, want 3x2", f.W, f.H)
	}
	want := []uint8{3, 0, 0, 0, 0, 3}
	for i := range want {
		if f.Index[i] != want[i] {
			t.Fatalf("frame = %v, want %v", f.Index, want)
		}
	}
}

func TestComposeFixedColorClampsToPalette(t *testing.T) {
	c := NewComposer(NewPalette(core.NewRNG(1), 3), core.NewRNG(1))
	f := c.Compose(Frame{}, testView(), core.Color(9))
	if f.At(0, 0) != 2 {
		t.Fatalf("index = %d, want clamped 2", f.At(0, 0))
	}
}

func TestComposeMulticolorNeverUsesBackground(t *testing.T) {
	g := core.NewGrid(8, 8)
	for i := range g.Cells() {
		g.Cells()[i] = 1
	}
	c := NewComposer(NewPalette(core.NewRNG(1), 5), core.NewRNG(11))
	seen := map[uint8]bool{}
	f := Frame{}
	for round := 0; round < 4; round++ {
		f = c.Compose(f, g.View(core.Rect{W: 8, H: 8}), core.Multicolor)
		for _, idx := range f.Index {
			if idx == 0 || idx > 4 {
				t.Fatalf("multicolor produced index %d", idx)
			}
			seen[idx] = true
		}
	}
	if len(seen) < 2 {
		t.Fatalf("multicolor used only %v", seen)
	}
}

func TestRGBAUsesPalette(t *testing.T) {
	p := Palette{{A: 255}, {R: 10, G: 20, B: 30, A: 255}}
	c := NewComposer(p, core.NewRNG(1))
	buf := c.RGBA(nil, Frame{W: 2, H: 1, Index: []uint8{0, 1}})
	want := []byte{0, 0, 0, 255, 10, 20, 30, 255}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("rgba = %v, want %v", buf, want)
		}
	}
}

func TestBits(t *testing.T) {
	if r, g, b := Bits(color.RGBA{A: 255}); r|g|b != 0 {
		t.Fatal("black must drive no channel")
	}
	if r, g, b := Bits(color.RGBA{R: 200, G: 10, B: 140, A: 255}); r != 1 || g != 0 || b != 1 {
		t.Fatalf("bits = %d%d%d, want 101", r, g, b)
	}
	if r, g, b := Bits(color.RGBA{R: 20, G: 90, B: 40, A: 255}); r != 0 || g != 1 || b != 0 {
		t.Fatalf("dim color bits = %d%d%d, want 010", r, g, b)
	}
}

//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// StatusBarHeight is the height in pixels reserved below the matrix.
const StatusBarHeight = 18

// StatusBar draws one line of text under the matrix.
type StatusBar struct {
	bg *ebiten.Image
	fg color.Color
}

// NewStatusBar constructs a status bar.
func NewStatusBar() *StatusBar {
	bg := ebiten.NewImage(1, 1)
	bg.Fill(color.RGBA{R: 24, G: 24, B: 24, A: 255})
	return &StatusBar{bg: bg, fg: color.White}
}

// Draw paints line into the strip starting at top.
func (s *StatusBar) Draw(screen *ebiten.Image, top int, line string) {
	w := screen.Bounds().Dx()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w), StatusBarHeight)
	op.GeoM.Translate(0, float64(top))
	screen.DrawImage(s.bg, op)
	text.Draw(screen, line, basicfont.Face7x13, 4, top+13, s.fg)
}

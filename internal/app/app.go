//go:build ebiten

package app

import (
	"context"
	"log/slog"
	"time"

	"life-matrix/internal/render"
	"life-matrix/internal/run"
	"life-matrix/internal/ui"
	"life-matrix/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game previews the runner in a desktop window.
type Game struct {
	ctrl    *run.Controller
	comp    *render.Composer
	painter *render.GridPainter
	status  *ui.StatusBar
	step    *core.FixedStep
	logger  *slog.Logger

	frame     render.Frame
	holdUntil time.Time

	w, h   int
	scale  int
	paused bool
}

// New constructs a Game drawing seeds from seeder.
func New(seeder run.Seeder, comp *render.Composer, cfg run.Config, scale, tps int, logger *slog.Logger) *Game {
	g := &Game{
		comp:    comp,
		painter: render.NewGridPainter(cfg.Visible.W, cfg.Visible.H),
		status:  ui.NewStatusBar(),
		step:    core.NewFixedStep(tps),
		logger:  logger,
		w:       cfg.Visible.W,
		h:       cfg.Visible.H,
		scale:   scale,
	}
	g.ctrl = run.New(seeder, run.SinkFunc(g.render), cfg,
		run.WithHold(g.hold),
		run.WithLogger(logger))
	return g
}

// render keeps the composed frame for Draw.
func (g *Game) render(v core.View, c core.Color) error {
	g.frame = g.comp.Compose(g.frame, v, c)
	return nil
}

// hold must not block the ebiten loop, so it only records a deadline.
func (g *Game) hold(_ context.Context, d time.Duration) error {
	g.holdUntil = time.Now().Add(d)
	return nil
}

// Update handles input and advances the controller at the configured rate.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.ctrl.Restart()
		g.holdUntil = time.Time{}
	}

	if !g.step.ShouldStep() || g.paused || time.Now().Before(g.holdUntil) {
		return nil
	}
	if _, err := g.ctrl.Tick(context.Background()); err != nil {
		return err
	}
	return nil
}

// Draw renders the last frame and the status line.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.frame.W > 0 {
		g.painter.Blit(screen, g.comp, g.frame, g.scale)
	}
	if g.status != nil {
		g.status.Draw(screen, g.h*g.scale, ui.StatusLine(g.ctrl.Status(), g.paused))
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w * g.scale, g.h*g.scale + ui.StatusBarHeight
}

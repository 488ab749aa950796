//go:build ebiten

// Command lifeview previews the LED matrix runner in a desktop window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"life-matrix/internal/app"
	"life-matrix/internal/config"
	"life-matrix/internal/render"
	"life-matrix/internal/run"
	"life-matrix/internal/selector"
	"life-matrix/internal/ui"
	"life-matrix/patterns"
	"life-matrix/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg, err := config.Parse("lifeview", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	out, err := cfg.Log.Output()
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()
	logger := cfg.Log.Logger(out)

	rng := core.NewRNG(cfg.Run.Seed)
	comp := render.NewComposer(render.NewPalette(rng, cfg.Palette.Colors), rng)
	sel := selector.New(patterns.Open(cfg.Patterns.Dir), rng, selector.ConfigFrom(cfg), logger)
	game := app.New(sel, comp, run.ConfigFrom(cfg), cfg.Display.Scale, cfg.Display.TPS, logger)

	ebiten.SetWindowTitle(fmt.Sprintf("lifeview %dx%d", cfg.Matrix.Width, cfg.Matrix.Height))
	ebiten.SetWindowSize(cfg.Matrix.Width*cfg.Display.Scale, cfg.Matrix.Height*cfg.Display.Scale+ui.StatusBarHeight)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("lifeview failed", "error", err)
		os.Exit(1)
	}
}

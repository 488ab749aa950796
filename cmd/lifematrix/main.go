// Command lifematrix runs Conway's Game of Life on an LED matrix sink,
// reseeding whenever a run cycles, settles or reaches the generation cap.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"life-matrix/internal/config"
	"life-matrix/internal/render"
	"life-matrix/internal/run"
	"life-matrix/internal/selector"
	"life-matrix/internal/sink"
	"life-matrix/patterns"
	"life-matrix/pkg/core"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cfg, err := config.Parse("lifematrix", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	out, err := cfg.Log.Output()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer out.Close()
	logger := cfg.Log.Logger(out)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runMatrix(ctx, cfg, logger); err != nil {
		if errors.Is(err, sink.ErrClosed) || errors.Is(err, context.Canceled) {
			logger.Info("stopped")
			return 0
		}
		logger.Error("lifematrix failed", "error", err)
		return 1
	}
	return 0
}

func runMatrix(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	rng := core.NewRNG(cfg.Run.Seed)
	comp := render.NewComposer(render.NewPalette(rng, cfg.Palette.Colors), rng)

	out, err := sink.Open(cfg.Display.Sink, cfg, comp, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Warn("closing sink", "error", err)
		}
	}()

	sel := selector.New(patterns.Open(cfg.Patterns.Dir), rng, selector.ConfigFrom(cfg), logger)
	w, h := cfg.GridSize()
	logger.Info("starting", "sink", cfg.Display.Sink, "matrix", fmt.Sprintf("%dx%d", cfg.Matrix.Width, cfg.Matrix.Height),
		"grid", fmt.Sprintf("%dx%d", w, h), "patterns", patternSource(cfg.Patterns.Dir))

	ctrl := run.New(sel, out, run.ConfigFrom(cfg), run.WithLogger(logger))
	return ctrl.Run(ctx)
}

func patternSource(dir string) string {
	if dir == "" {
		return "built-in"
	}
	return dir
}

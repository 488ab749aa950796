// Package run drives Life runs: it seeds a grid, advances it generation by
// generation, hands each generation to a render sink and restarts when the
// run cycles, settles or reaches the generation cap.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"life-matrix/internal/config"
	"life-matrix/internal/selector"
	"life-matrix/pkg/core"
	"life-matrix/pkg/sims/life"
)

// Seeder produces the starting grid of a run.
type Seeder interface {
	Seed() (selector.Seed, error)
}

// Sink displays one generation. The view must not be retained past the call.
type Sink interface {
	Render(view core.View, color core.Color) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(view core.View, color core.Color) error

// Render calls f.
func (f SinkFunc) Render(view core.View, color core.Color) error { return f(view, color) }

// HoldFunc pauses on the starting generation.
type HoldFunc func(ctx context.Context, d time.Duration) error

// State is the controller state.
type State int

const (
	// StateSeeding means the next tick draws a new seed.
	StateSeeding State = iota
	// StateRunning means the next tick renders and advances the current grid.
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "seeding"
}

// Reason explains why a run ended.
type Reason int

const (
	// ReasonNone means the run continues.
	ReasonNone Reason = iota
	// ReasonCycle means the grid matched the grid from two generations back.
	ReasonCycle
	// ReasonEquilibrium means the grid matched the previous generation.
	ReasonEquilibrium
	// ReasonGenerationCap means the generation count exceeded the cap.
	ReasonGenerationCap
	// ReasonManual means Restart was called.
	ReasonManual
)

func (r Reason) String() string {
	switch r {
	case ReasonCycle:
		return "cycle"
	case ReasonEquilibrium:
		return "equilibrium"
	case ReasonGenerationCap:
		return "generation cap"
	case ReasonManual:
		return "manual restart"
	default:
		return "none"
	}
}

// Outcome reports the result of a tick.
type Outcome struct {
	Reason     Reason
	Generation int
	RunID      string
	Name       string
}

// Done reports whether the tick ended the run.
func (o Outcome) Done() bool { return o.Reason != ReasonNone }

// Config sets the termination and display parameters.
type Config struct {
	Visible        core.Rect // rendered part of the grid
	MaxGenerations int
	StartHold      time.Duration
}

// Status is a snapshot of the run for overlays.
type Status struct {
	State      State
	RunID      string
	Name       string
	Source     string
	Color      core.Color
	Generation int
}

// Controller owns the grids of the current run. It is not safe for
// concurrent use.
type Controller struct {
	seeder Seeder
	sink   Sink
	cfg    Config

	hold     HoldFunc
	logger   *slog.Logger
	observer func(Outcome)

	state    State
	cur      *core.Grid
	prev     *core.Grid
	prevPrev *core.Grid
	gen      int
	color    core.Color
	runID    string
	name     string
	source   string
}

// Option customizes a Controller.
type Option func(*Controller)

// WithHold replaces the start hold, which defaults to a context-aware sleep.
func WithHold(h HoldFunc) Option { return func(c *Controller) { c.hold = h } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.logger = l } }

// WithObserver registers a callback invoked whenever a run ends.
func WithObserver(f func(Outcome)) Option { return func(c *Controller) { c.observer = f } }

// New returns a Controller in the seeding state.
func New(seeder Seeder, sink Sink, cfg Config, opts ...Option) *Controller {
	c := &Controller{seeder: seeder, sink: sink, cfg: cfg, hold: Sleep, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Tick performs one step of the state machine: seeding when needed, then
// rendering the current generation and advancing to the next one. The
// returned Outcome is Done when the new generation ended the run.
func (c *Controller) Tick(ctx context.Context) (Outcome, error) {
	if c.state == StateSeeding {
		if err := c.reseed(); err != nil {
			return Outcome{}, err
		}
	}

	if err := c.sink.Render(c.cur.View(c.visible()), c.color); err != nil {
		return Outcome{}, fmt.Errorf("run: render: %w", err)
	}
	if c.gen == 0 {
		if err := c.hold(ctx, c.cfg.StartHold); err != nil {
			return Outcome{}, err
		}
	}

	c.prevPrev = c.prev
	c.prev = c.cur
	c.cur = life.Next(c.cur)
	c.gen++

	reason := ReasonNone
	switch {
	case core.Equal(c.cur, c.prevPrev):
		reason = ReasonCycle
	case core.Equal(c.cur, c.prev):
		reason = ReasonEquilibrium
	case c.gen > c.cfg.MaxGenerations:
		reason = ReasonGenerationCap
	}
	if reason == ReasonNone {
		return c.outcome(ReasonNone), nil
	}
	return c.finish(reason), nil
}

// Run ticks until ctx is cancelled or seeding or rendering fails.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := c.Tick(ctx); err != nil {
			return err
		}
	}
}

// Restart ends the current run; the next tick seeds a new one.
func (c *Controller) Restart() {
	if c.state == StateRunning {
		c.finish(ReasonManual)
	}
}

// Status returns a snapshot of the current run.
func (c *Controller) Status() Status {
	return Status{
		State:      c.state,
		RunID:      c.runID,
		Name:       c.name,
		Source:     c.source,
		Color:      c.color,
		Generation: c.gen,
	}
}

func (c *Controller) reseed() error {
	seed, err := c.seeder.Seed()
	if err != nil {
		return fmt.Errorf("run: seed: %w", err)
	}
	c.cur = seed.Grid
	c.prev, c.prevPrev = nil, nil
	c.gen = 0
	c.color = seed.Color
	c.name = seed.Name
	c.source = seed.Source
	c.runID = uuid.NewString()
	c.state = StateRunning
	c.logger.Info("run started", "run", c.runID, "name", seed.Name, "source", seed.Source,
		colorAttr(seed.Color), "live", seed.Grid.LiveCount())
	return nil
}

func (c *Controller) finish(reason Reason) Outcome {
	o := c.outcome(reason)
	c.state = StateSeeding
	c.logger.Info("run finished", "run", c.runID, "name", c.name, "reason", reason.String(), "generation", c.gen)
	if c.observer != nil {
		c.observer(o)
	}
	return o
}

func (c *Controller) outcome(reason Reason) Outcome {
	return Outcome{Reason: reason, Generation: c.gen, RunID: c.runID, Name: c.name}
}

func (c *Controller) visible() core.Rect {
	if c.cfg.Visible.W == 0 || c.cfg.Visible.H == 0 {
		return core.Rect{W: c.cur.W, H: c.cur.H}
	}
	return c.cfg.Visible
}

func colorAttr(c core.Color) slog.Attr {
	if c.IsMulticolor() {
		return slog.String("color", "multicolor")
	}
	return slog.Int("color", int(c))
}

// ConfigFrom extracts the controller settings from the runner configuration.
func ConfigFrom(c config.Config) Config {
	return Config{
		Visible:        core.Inset(c.Matrix.Width, c.Matrix.Height, c.Matrix.Margin),
		MaxGenerations: c.Run.MaxGenerations,
		StartHold:      c.Run.StartHold,
	}
}

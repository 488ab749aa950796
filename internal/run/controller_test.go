package run

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"life-matrix/internal/config"
	"life-matrix/internal/selector"
	"life-matrix/pkg/core"
)

type queueSeeder struct {
	seeds []selector.Seed
	calls int
	err   error
}

func (q *queueSeeder) Seed() (selector.Seed, error) {
	if q.err != nil {
		return selector.Seed{}, q.err
	}
	s := q.seeds[q.calls%len(q.seeds)]
	q.calls++
	s.Grid = s.Grid.Clone()
	return s, nil
}

type recordingSink struct {
	frames []core.Size
	live   []int
	colors []core.Color
	err    error
}

func (r *recordingSink) Render(v core.View, c core.Color) error {
	if r.err != nil {
		return r.err
	}
	r.frames = append(r.frames, v.Size())
	r.live = append(r.live, v.LiveCount())
	r.colors = append(r.colors, c)
	return nil
}

type holdRecorder struct {
	calls []time.Duration
}

func (h *holdRecorder) hold(ctx context.Context, d time.Duration) error {
	h.calls = append(h.calls, d)
	return nil
}

func seedOf(name string, w, h int, cells ...[2]int) selector.Seed {
	g := core.NewGrid(w, h)
	for _, c := range cells {
		g.Set(c[0], c[1], 1)
	}
	return selector.Seed{Grid: g, Color: 2, Name: name, Source: name + ".rle"}
}

var (
	block   = [][2]int{{3, 3}, {4, 3}, {3, 4}, {4, 4}}
	blinker = [][2]int{{4, 3}, {4, 4}, {4, 5}}
	glider  = [][2]int{{2, 1}, {3, 2}, {1, 3}, {2, 3}, {3, 3}}
)

func newController(t *testing.T, seeder Seeder, sink Sink, cfg Config) (*Controller, *holdRecorder) {
	t.Helper()
	h := &holdRecorder{}
	c := New(seeder, sink, cfg,
		WithHold(h.hold),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return c, h
}

func TestStillLifeReachesEquilibriumAtGenerationOne(t *testing.T) {
	seeder := &queueSeeder{seeds: []selector.Seed{seedOf("block", 8, 8, block...)}}
	c, _ := newController(t, seeder, &recordingSink{}, Config{MaxGenerations: 500})

	out, err := c.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if out.Reason != ReasonEquilibrium || out.Generation != 1 {
		t.Fatalf("outcome = %+v, want equilibrium at generation 1", out)
	}
	if c.Status().State != StateSeeding {
		t.Fatal("controller must return to seeding after equilibrium")
	}
	if _, err := c.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if seeder.calls != 2 {
		t.Fatalf("seeder called %d times, want 2", seeder.calls)
	}
}

func TestBlinkerCycleDetectedAtGenerationTwo(t *testing.T) {
	seeder := &queueSeeder{seeds: []selector.Seed{seedOf("blinker", 9, 9, blinker...)}}
	c, _ := newController(t, seeder, &recordingSink{}, Config{MaxGenerations: 500})

	out, err := c.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if out.Done() {
		t.Fatalf("generation 1 ended the run: %+v", out)
	}
	out, err = c.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if out.Reason != ReasonCycle || out.Generation != 2 {
		t.Fatalf("outcome = %+v, want cycle at generation 2", out)
	}
}

func TestDyingPatternReachesEquilibrium(t *testing.T) {
	seeder := &queueSeeder{seeds: []selector.Seed{seedOf("single", 6, 6, [2]int{2, 2})}}
	c, _ := newController(t, seeder, &recordingSink{}, Config{MaxGenerations: 500})

	if out, _ := c.Tick(context.Background()); out.Done() {
		t.Fatalf("generation 1 ended the run: %+v", out)
	}
	out, _ := c.Tick(context.Background())
	if out.Reason != ReasonEquilibrium || out.Generation != 2 {
		t.Fatalf("outcome = %+v, want equilibrium at generation 2", out)
	}
}

func TestBlankSeedSettlesImmediately(t *testing.T) {
	seeder := &queueSeeder{seeds: []selector.Seed{seedOf("blank", 6, 6)}}
	c, _ := newController(t, seeder, &recordingSink{}, Config{MaxGenerations: 500})
	out, _ := c.Tick(context.Background())
	if out.Reason != ReasonEquilibrium || out.Generation != 1 {
		t.Fatalf("outcome = %+v, want equilibrium at generation 1", out)
	}
}

func TestGenerationCapFiresExactlyAfterCap(t *testing.T) {
	const limit = 10
	seeder := &queueSeeder{seeds: []selector.Seed{seedOf("glider", 60, 60, glider...)}}
	c, _ := newController(t, seeder, &recordingSink{}, Config{MaxGenerations: limit})

	for gen := 1; gen <= limit; gen++ {
		out, err := c.Tick(context.Background())
		if err != nil {
			t.Fatalf("Tick: %v", err)
		}
		if out.Done() {
			t.Fatalf("run ended early at generation %d: %+v", gen, out)
		}
	}
	out, err := c.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if out.Reason != ReasonGenerationCap || out.Generation != limit+1 {
		t.Fatalf("outcome = %+v, want generation cap at %d", out, limit+1)
	}
}

func TestHoldOnlyOnFirstGenerationOfEachRun(t *testing.T) {
	seeder := &queueSeeder{seeds: []selector.Seed{seedOf("blinker", 9, 9, blinker...)}}
	c, h := newController(t, seeder, &recordingSink{}, Config{MaxGenerations: 500, StartHold: 5 * time.Second})

	for i := 0; i < 4; i++ { // two full blinker runs
		if _, err := c.Tick(context.Background()); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	if len(h.calls) != 2 {
		t.Fatalf("hold called %d times, want 2", len(h.calls))
	}
	for _, d := range h.calls {
		if d != 5*time.Second {
			t.Fatalf("hold duration = %s, want 5s", d)
		}
	}
}

func TestRenderReceivesVisibleView(t *testing.T) {
	seed := seedOf("block", 12, 10, [2]int{0, 0}, [2]int{5, 5}, [2]int{6, 5}, [2]int{5, 6}, [2]int{6, 6})
	sink := &recordingSink{}
	c, _ := newController(t, &queueSeeder{seeds: []selector.Seed{seed}}, sink,
		Config{Visible: core.Inset(8, 6, 2), MaxGenerations: 500})

	if _, err := c.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(sink.frames) != 1 {
		t.Fatalf("rendered %d frames, want 1", len(sink.frames))
	}
	if sink.frames[0] != (core.Size{W: 8, H: 6}) {
		t.Fatalf("view size = %+v, want 8x6", sink.frames[0])
	}
	if sink.live[0] != 4 {
		t.Fatalf("view shows %d live cells, want the 4 block cells without the margin cell", sink.live[0])
	}
	if sink.colors[0] != 2 {
		t.Fatalf("color = %d, want seed color", sink.colors[0])
	}
}

func TestSeedErrorIsReturned(t *testing.T) {
	seeder := &queueSeeder{err: selector.ErrNoPatterns}
	c, _ := newController(t, seeder, &recordingSink{}, Config{MaxGenerations: 5})
	err := c.Run(context.Background())
	if !errors.Is(err, selector.ErrNoPatterns) {
		t.Fatalf("err = %v, want ErrNoPatterns", err)
	}
}

func TestRenderErrorStopsRun(t *testing.T) {
	boom := errors.New("boom")
	seeder := &queueSeeder{seeds: []selector.Seed{seedOf("blinker", 9, 9, blinker...)}}
	c, _ := newController(t, seeder, &recordingSink{err: boom}, Config{MaxGenerations: 5})
	if err := c.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want render error", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	seeder := &queueSeeder{seeds: []selector.Seed{seedOf("glider", 30, 30, glider...)}}
	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	sink := SinkFunc(func(core.View, core.Color) error {
		ticks++
		if ticks == 25 {
			cancel()
		}
		return nil
	})
	c := New(seeder, sink, Config{MaxGenerations: 8},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if ticks != 25 {
		t.Fatalf("rendered %d frames, want 25", ticks)
	}
}

func TestDefaultHoldHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("Sleep: %v", err)
	}
}

func TestRestartAndObserver(t *testing.T) {
	var seen []Outcome
	seeder := &queueSeeder{seeds: []selector.Seed{
		seedOf("glider", 30, 30, glider...),
		seedOf("block", 8, 8, block...),
	}}
	c := New(seeder, &recordingSink{}, Config{MaxGenerations: 100},
		WithHold(func(context.Context, time.Duration) error { return nil }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithObserver(func(o Outcome) { seen = append(seen, o) }))

	c.Restart() // nothing running yet
	if len(seen) != 0 {
		t.Fatal("restart before the first seed must not report an outcome")
	}
	for i := 0; i < 3; i++ {
		if _, err := c.Tick(context.Background()); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	st := c.Status()
	if st.State != StateRunning || st.Generation != 3 || st.Name != "glider" || st.RunID == "" {
		t.Fatalf("status = %+v", st)
	}
	firstRun := st.RunID

	c.Restart()
	if len(seen) != 1 || seen[0].Reason != ReasonManual || seen[0].Generation != 3 {
		t.Fatalf("observed %+v, want one manual restart at generation 3", seen)
	}
	out, err := c.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if out.Reason != ReasonEquilibrium || out.Name != "block" {
		t.Fatalf("outcome = %+v, want block equilibrium", out)
	}
	if out.RunID == firstRun {
		t.Fatal("a new run must get a new id")
	}
	if len(seen) != 2 {
		t.Fatalf("observer saw %d outcomes, want 2", len(seen))
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.Default())
	if cfg.Visible != (core.Rect{X: 8, Y: 8, W: 64, H: 32}) {
		t.Fatalf("visible = %+v", cfg.Visible)
	}
	if cfg.MaxGenerations != 500 || cfg.StartHold != 5*time.Second {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestReasonStrings(t *testing.T) {
	for r, want := range map[Reason]string{
		ReasonNone:          "none",
		ReasonCycle:         "cycle",
		ReasonEquilibrium:   "equilibrium",
		ReasonGenerationCap: "generation cap",
		ReasonManual:        "manual restart",
	} {
		if r.String() != want {
			t.Fatalf("%d.String() = %q, want %q", r, r.String(), want)
		}
	}
}

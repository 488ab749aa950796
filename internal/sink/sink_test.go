package sink

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"life-matrix/internal/config"
	"life-matrix/internal/render"
	"life-matrix/pkg/core"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testComposer() *render.Composer {
	p := render.Palette{{A: 255}, {R: 10, G: 20, B: 30, A: 255}}
	return render.NewComposer(p, core.NewRNG(1))
}

func oneCell() core.View {
	g := core.NewGrid(4, 3)
	g.Set(0, 0, 1)
	return g.View(core.Rect{W: 4, H: 3})
}

func TestRegistry(t *testing.T) {
	names := Names()
	for _, want := range []string{"log", "terminal"} {
		if !slices.Contains(names, want) {
			t.Fatalf("sinks = %v, missing %q", names, want)
		}
	}
	if !slices.IsSorted(names) {
		t.Fatalf("names not sorted: %v", names)
	}
	if _, err := Open("nixie", config.Default(), testComposer(), quiet()); err == nil {
		t.Fatal("expected an error for an unknown sink")
	}
	s, err := Open("log", config.Default(), testComposer(), quiet())
	if err != nil {
		t.Fatalf("Open(log): %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestLogSinkReportsLiveCells(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	for i := 0; i < 2; i++ {
		if err := l.Render(oneCell(), 1); err != nil {
			t.Fatalf("Render: %v", err)
		}
	}
	if l.Frames() != 2 {
		t.Fatalf("frames = %d, want 2", l.Frames())
	}
	if !strings.Contains(buf.String(), `"live":1`) {
		t.Fatalf("log output %q lacks the live count", buf.String())
	}
}

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	term, err := NewTerminal(screen, testComposer(), 0, quiet())
	if err != nil {
		t.Fatalf("NewTerminal: %v", err)
	}
	screen.SetSize(20, 5)
	return term, screen
}

func TestTerminalDrawsTwoCellsPerLED(t *testing.T) {
	term, screen := newSimTerminal(t)
	defer term.Close()

	if err := term.Render(oneCell(), 1); err != nil {
		t.Fatalf("Render: %v", err)
	}
	live := tcell.NewRGBColor(10, 20, 30)
	dead := tcell.NewRGBColor(0, 0, 0)
	for x, want := range []tcell.Color{live, live, dead, dead} {
		_, _, style, _ := screen.GetContent(x, 0)
		if _, bg, _ := style.Decompose(); bg != want {
			t.Fatalf("cell %d background = %v, want %v", x, bg, want)
		}
	}
}

func TestTerminalQuitKeyClosesSink(t *testing.T) {
	term, screen := newSimTerminal(t)
	defer term.Close()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case <-term.quit:
	case <-time.After(2 * time.Second):
		t.Fatal("quit key was not observed")
	}
	if err := term.Render(oneCell(), 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}

func TestPacerSpacesCalls(t *testing.T) {
	p := pacer{interval: 20 * time.Millisecond}
	quit := make(chan struct{})
	start := time.Now()
	for i := 0; i < 3; i++ {
		if !p.wait(quit) {
			t.Fatal("wait returned false without quit")
		}
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("three paced calls took %s, want at least 40ms", elapsed)
	}
	close(quit)
	if p.wait(quit) {
		t.Fatal("wait must report false once quit is closed")
	}
}

package sink

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"life-matrix/internal/config"
	"life-matrix/internal/render"
	"life-matrix/pkg/core"
)

func init() {
	Register("terminal", func(cfg config.Config, comp *render.Composer, logger *slog.Logger) (Sink, error) {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		return NewTerminal(screen, comp, cfg.Display.FrameInterval, logger)
	})
}

// Terminal draws frames on a tcell screen, two character cells per LED so
// the matrix keeps a square aspect.
type Terminal struct {
	screen tcell.Screen
	comp   *render.Composer
	pace   pacer
	logger *slog.Logger
	frame  render.Frame

	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
}

// NewTerminal initializes screen and starts watching it for quit keys.
func NewTerminal(screen tcell.Screen, comp *render.Composer, interval time.Duration, logger *slog.Logger) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	screen.Clear()
	t := &Terminal{
		screen: screen,
		comp:   comp,
		pace:   pacer{interval: interval},
		logger: logger,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.poll()
	return t, nil
}

// poll runs until the screen is finalized.
func (t *Terminal) poll() {
	defer close(t.done)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				t.logger.Debug("quit key pressed")
				t.stop()
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Terminal) stop() { t.quitOnce.Do(func() { close(t.quit) }) }

// Render draws the view and waits out the rest of the frame interval.
func (t *Terminal) Render(v core.View, c core.Color) error {
	select {
	case <-t.quit:
		return ErrClosed
	default:
	}

	t.frame = t.comp.Compose(t.frame, v, c)
	palette := t.comp.Palette()
	for y := 0; y < t.frame.H; y++ {
		for x := 0; x < t.frame.W; x++ {
			col := palette[t.frame.At(x, y)]
			style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(col.R), int32(col.G), int32(col.B)))
			t.screen.SetContent(2*x, y, ' ', nil, style)
			t.screen.SetContent(2*x+1, y, ' ', nil, style)
		}
	}
	t.screen.Show()

	if !t.pace.wait(t.quit) {
		return ErrClosed
	}
	return nil
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	t.stop()
	t.screen.Fini()
	<-t.done
	return nil
}

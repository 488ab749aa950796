//go:build linux

package sink

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"life-matrix/internal/config"
	"life-matrix/internal/render"
	"life-matrix/pkg/core"
)

func init() {
	Register("hub75", openHUB75)
}

// HUB75 signals, in the order their lines are requested.
const (
	sigR1 = iota
	sigG1
	sigB1
	sigR2
	sigG2
	sigB2
	sigCLK
	sigOE
	sigLAT
	sigA
	sigB
	sigC
	sigD
	sigE
	numSignals
)

const addressLines = 5

// pin is an output line. *gpiocdev.Line satisfies it.
type pin interface {
	SetValue(value int) error
	Close() error
}

func openHUB75(cfg config.Config, comp *render.Composer, logger *slog.Logger) (Sink, error) {
	hc := cfg.Display.HUB75
	offsets := [numSignals]int{
		hc.R1, hc.G1, hc.B1, hc.R2, hc.G2, hc.B2,
		hc.CLK, hc.OE, hc.LAT,
		hc.A, hc.B, hc.C, hc.D, hc.E,
	}
	var pins [numSignals]pin
	for i, off := range offsets {
		line, err := gpiocdev.RequestLine(hc.Chip, off, gpiocdev.AsOutput(0))
		if err != nil {
			closePins(pins[:i])
			return nil, fmt.Errorf("request %s line %d: %w", hc.Chip, off, err)
		}
		pins[i] = line
	}
	logger.Info("gpio lines requested", "chip", hc.Chip, "lines", len(offsets))
	h := newHUB75(pins, cfg.Matrix.Width, cfg.Matrix.Height, comp, cfg.Display.FrameInterval, hc.RowHold, logger)
	go h.refresh()
	return h, nil
}

func closePins(pins []pin) error {
	var errs []error
	for _, p := range pins {
		if p != nil {
			errs = append(errs, p.Close())
		}
	}
	return errors.Join(errs...)
}

// HUB75 drives a multiplexed RGB panel: two rows are lit at a time, so a
// background loop keeps scanning the last rendered frame.
type HUB75 struct {
	pins    [numSignals]pin
	w, h    int
	rowHold time.Duration
	comp    *render.Composer
	pace    pacer
	logger  *slog.Logger
	frame   render.Frame

	mu   sync.Mutex
	bits []uint8 // r | g<<1 | b<<2 per LED
	err  error

	quit chan struct{}
	done chan struct{}
}

func newHUB75(pins [numSignals]pin, w, h int, comp *render.Composer, interval, rowHold time.Duration, logger *slog.Logger) *HUB75 {
	return &HUB75{
		pins:    pins,
		w:       w,
		h:       h,
		rowHold: rowHold,
		comp:    comp,
		pace:    pacer{interval: interval},
		logger:  logger,
		bits:    make([]uint8, w*h),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Render converts the view to channel bits for the refresh loop.
func (p *HUB75) Render(v core.View, c core.Color) error {
	p.frame = p.comp.Compose(p.frame, v, c)
	palette := p.comp.Palette()

	p.mu.Lock()
	if p.err != nil {
		err := p.err
		p.mu.Unlock()
		return err
	}
	for y := 0; y < p.h && y < p.frame.H; y++ {
		for x := 0; x < p.w && x < p.frame.W; x++ {
			r, g, b := render.Bits(palette[p.frame.At(x, y)])
			p.bits[y*p.w+x] = uint8(r | g<<1 | b<<2)
		}
	}
	p.mu.Unlock()

	if !p.pace.wait(p.quit) {
		return ErrClosed
	}
	return nil
}

func (p *HUB75) refresh() {
	defer close(p.done)
	for {
		select {
		case <-p.quit:
			return
		default:
		}
		if err := p.scan(); err != nil {
			p.logger.Error("panel refresh failed", "error", err)
			p.mu.Lock()
			p.err = fmt.Errorf("hub75: %w", err)
			p.mu.Unlock()
			return
		}
	}
}

// scan shifts out every row pair once.
func (p *HUB75) scan() error {
	rows := (p.h + 1) / 2
	p.mu.Lock()
	defer p.mu.Unlock()
	for row := 0; row < rows; row++ {
		if err := p.set(sigOE, 1); err != nil {
			return err
		}
		for bit := 0; bit < addressLines; bit++ {
			if err := p.set(sigA+bit, (row>>bit)&1); err != nil {
				return err
			}
		}
		for x := 0; x < p.w; x++ {
			top := p.bits[row*p.w+x]
			var bottom uint8
			if row+rows < p.h {
				bottom = p.bits[(row+rows)*p.w+x]
			}
			for ch := 0; ch < 3; ch++ {
				if err := p.set(sigR1+ch, int(top>>ch)&1); err != nil {
					return err
				}
				if err := p.set(sigR2+ch, int(bottom>>ch)&1); err != nil {
					return err
				}
			}
			if err := p.pulse(sigCLK); err != nil {
				return err
			}
		}
		if err := p.pulse(sigLAT); err != nil {
			return err
		}
		if err := p.set(sigOE, 0); err != nil {
			return err
		}
		if p.rowHold > 0 {
			time.Sleep(p.rowHold)
		}
	}
	return nil
}

func (p *HUB75) set(sig, v int) error { return p.pins[sig].SetValue(v) }

func (p *HUB75) pulse(sig int) error {
	if err := p.set(sig, 1); err != nil {
		return err
	}
	return p.set(sig, 0)
}

// Close stops the refresh loop, blanks the panel and releases the lines.
func (p *HUB75) Close() error {
	select {
	case <-p.quit:
		return nil
	default:
	}
	close(p.quit)
	<-p.done
	blank := p.set(sigOE, 1)
	return errors.Join(blank, closePins(p.pins[:]))
}

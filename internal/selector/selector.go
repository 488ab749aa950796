// Package selector picks the seed for each Life run: a random fill or a
// randomly chosen pattern file.
package selector

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"life-matrix/internal/config"
	"life-matrix/pkg/core"
	"life-matrix/pkg/rle"
)

var (
	// ErrNoPatterns means the pattern directory is empty or unreadable.
	ErrNoPatterns = errors.New("selector: no pattern files available")
	// ErrNoValidPattern means every attempt drew a malformed or oversized pattern.
	ErrNoValidPattern = errors.New("selector: no valid pattern available")
)

// RandomFillName is the seed name used for random fills.
const RandomFillName = "random fill"

// Config sizes the seed grid and sets the selection odds.
type Config struct {
	Width, Height int // visible matrix
	Margin        int
	Colors        int // palette size, background included

	RandomFillOdds int // 1 in N seeds is a random fill; 0 disables
	MulticolorOdds int // 1 in N seeds is multicolor; 0 disables
	MaxAttempts    int
}

// Seed is a starting grid plus its color selection.
type Seed struct {
	Grid    *core.Grid
	Color   core.Color
	Name    string
	Source  string
	Pattern *rle.Pattern // nil for random fills
}

// Selector draws seeds from a pattern filesystem.
type Selector struct {
	fsys   fs.FS
	rng    *core.RNG
	cfg    Config
	logger *slog.Logger
}

// New returns a Selector reading the top level of fsys.
func New(fsys fs.FS, rng *core.RNG, cfg Config, logger *slog.Logger) *Selector {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Colors < 2 {
		cfg.Colors = 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{fsys: fsys, rng: rng, cfg: cfg, logger: logger}
}

func (s *Selector) blank() *core.Grid {
	return core.NewGrid(s.cfg.Width+2*s.cfg.Margin, s.cfg.Height+2*s.cfg.Margin)
}

// Seed returns the next starting grid. Malformed and oversized pattern files
// are skipped and another file is drawn, up to MaxAttempts times.
func (s *Selector) Seed() (Seed, error) {
	if s.rng.OneIn(s.cfg.RandomFillOdds) {
		g := s.blank()
		g.Randomize(s.rng)
		return Seed{Grid: g, Color: s.color(), Name: RandomFillName, Source: RandomFillName}, nil
	}

	names, err := s.list()
	if err != nil {
		return Seed{}, err
	}
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		name := names[s.rng.IntN(len(names))]
		g, p, err := s.load(name)
		if err != nil {
			s.logger.Warn("skipping pattern", "file", name, "attempt", attempt, "error", err)
			continue
		}
		s.logger.Debug("loaded pattern", "file", name, "name", p.Name, "author", p.Author,
			"width", p.Width, "height", p.Height, "rule", p.Rule)
		return Seed{Grid: g, Color: s.color(), Name: p.Title(), Source: name, Pattern: p}, nil
	}
	return Seed{}, fmt.Errorf("%w after %d attempts", ErrNoValidPattern, s.cfg.MaxAttempts)
}

// list returns the names of the non-hidden files at the top of the filesystem.
func (s *Selector) list() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPatterns, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, ErrNoPatterns
	}
	return names, nil
}

// load parses one file and places it on a fresh grid.
func (s *Selector) load(name string) (*core.Grid, *rle.Pattern, error) {
	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	p, err := rle.Parse(f)
	if err != nil {
		return nil, nil, err
	}
	p.Source = name
	g := s.blank()
	if err := rle.Place(g, p, s.cfg.Margin); err != nil {
		return nil, nil, err
	}
	return g, p, nil
}

// color draws a live palette index, replaced by core.Multicolor with
// probability 1/MulticolorOdds.
func (s *Selector) color() core.Color {
	c := core.Color(1 + s.rng.IntN(s.cfg.Colors-1))
	if s.rng.OneIn(s.cfg.MulticolorOdds) {
		return core.Multicolor
	}
	return c
}

// Fixed returns a seeder that always yields a copy of seed. It is used to
// run a single known pattern.
func Fixed(seed Seed) *FixedSeeder {
	return &FixedSeeder{seed: seed}
}

// FixedSeeder repeats one seed.
type FixedSeeder struct {
	seed Seed
}

// Seed returns a fresh copy of the fixed seed.
func (f *FixedSeeder) Seed() (Seed, error) {
	s := f.seed
	s.Grid = f.seed.Grid.Clone()
	return s, nil
}

// FromFile parses name from fsys and returns it as a seed on a grid sized by
// cfg, without any retry.
func FromFile(fsys fs.FS, name string, cfg Config) (Seed, error) {
	s := New(fsys, core.NewRNG(1), cfg, nil)
	g, p, err := s.load(name)
	if err != nil {
		return Seed{}, fmt.Errorf("%s: %w", name, err)
	}
	return Seed{Grid: g, Color: 1, Name: p.Title(), Source: name, Pattern: p}, nil
}

// ConfigFrom extracts the selector settings from the runner configuration.
func ConfigFrom(c config.Config) Config {
	return Config{
		Width:          c.Matrix.Width,
		Height:         c.Matrix.Height,
		Margin:         c.Matrix.Margin,
		Colors:         c.Palette.Colors,
		RandomFillOdds: c.Run.RandomFillOdds,
		MulticolorOdds: c.Run.MulticolorOdds,
		MaxAttempts:    c.Run.MaxAttempts,
	}
}

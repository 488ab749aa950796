// Package config holds the runtime settings of the LED matrix runner.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete runner configuration.
type Config struct {
	Matrix   MatrixConfig   `yaml:"matrix"`
	Palette  PaletteConfig  `yaml:"palette"`
	Run      RunConfig      `yaml:"run"`
	Patterns PatternsConfig `yaml:"patterns"`
	Display  DisplayConfig  `yaml:"display"`
	Log      LogConfig      `yaml:"log"`
}

// MatrixConfig describes the visible LED matrix and the simulated margin
// around it.
type MatrixConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Margin int `yaml:"margin"`
}

// PaletteConfig sets the number of palette entries, background included.
type PaletteConfig struct {
	Colors int `yaml:"colors"`
}

// RunConfig controls seeding and termination.
type RunConfig struct {
	MaxGenerations int           `yaml:"max_generations"`
	StartHold      time.Duration `yaml:"start_hold"`
	RandomFillOdds int           `yaml:"random_fill_odds"` // 1 in N runs is a random fill
	MulticolorOdds int           `yaml:"multicolor_odds"`  // 1 in N runs is multicolor
	MaxAttempts    int           `yaml:"max_attempts"`
	Seed           int64         `yaml:"seed"` // 0 seeds from the clock
}

// PatternsConfig locates the RLE files. An empty Dir selects the built-in set.
type PatternsConfig struct {
	Dir string `yaml:"dir"`
}

// DisplayConfig selects and tunes the render sink.
type DisplayConfig struct {
	Sink          string        `yaml:"sink"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	Scale         int           `yaml:"scale"`
	TPS           int           `yaml:"tps"`
	HUB75         HUB75Config   `yaml:"hub75"`
}

// HUB75Config maps HUB75 panel signals to GPIO line offsets on Chip.
type HUB75Config struct {
	Chip    string        `yaml:"chip"`
	R1      int           `yaml:"r1"`
	G1      int           `yaml:"g1"`
	B1      int           `yaml:"b1"`
	R2      int           `yaml:"r2"`
	G2      int           `yaml:"g2"`
	B2      int           `yaml:"b2"`
	CLK     int           `yaml:"clk"`
	OE      int           `yaml:"oe"`
	LAT     int           `yaml:"lat"`
	A       int           `yaml:"a"`
	B       int           `yaml:"b"`
	C       int           `yaml:"c"`
	D       int           `yaml:"d"`
	E       int           `yaml:"e"`
	RowHold time.Duration `yaml:"row_hold"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the standard configuration for a 64x32 matrix.
func Default() Config {
	return Config{
		Matrix:  MatrixConfig{Width: 64, Height: 32, Margin: 8},
		Palette: PaletteConfig{Colors: 5},
		Run: RunConfig{
			MaxGenerations: 500,
			StartHold:      5 * time.Second,
			RandomFillOdds: 25,
			MulticolorOdds: 20,
			MaxAttempts:    32,
		},
		Display: DisplayConfig{
			Sink:          "terminal",
			FrameInterval: 100 * time.Millisecond,
			Scale:         12,
			TPS:           10,
			HUB75: HUB75Config{
				Chip: "gpiochip0",
				R1:   5, G1: 13, B1: 6,
				R2: 12, G2: 16, B2: 23,
				CLK: 17, OE: 4, LAT: 21,
				A: 22, B: 26, C: 27, D: 20, E: 24,
				RowHold: 80 * time.Microsecond,
			},
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// GridSize returns the simulated grid dimensions, margin included.
func (c Config) GridSize() (w, h int) {
	return c.Matrix.Width + 2*c.Matrix.Margin, c.Matrix.Height + 2*c.Matrix.Margin
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the runner cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.Matrix.Width <= 0 || c.Matrix.Height <= 0 {
		errs = append(errs, fmt.Errorf("matrix size must be positive, got %dx%d", c.Matrix.Width, c.Matrix.Height))
	}
	if c.Matrix.Margin < 0 {
		errs = append(errs, fmt.Errorf("matrix.margin must be >= 0, got %d", c.Matrix.Margin))
	}
	if c.Palette.Colors < 2 || c.Palette.Colors > 254 {
		errs = append(errs, fmt.Errorf("palette.colors must be in [2, 254], got %d", c.Palette.Colors))
	}
	if c.Run.MaxGenerations <= 0 {
		errs = append(errs, fmt.Errorf("run.max_generations must be > 0, got %d", c.Run.MaxGenerations))
	}
	if c.Run.StartHold < 0 {
		errs = append(errs, fmt.Errorf("run.start_hold must be >= 0, got %s", c.Run.StartHold))
	}
	if c.Run.RandomFillOdds < 0 || c.Run.MulticolorOdds < 0 {
		errs = append(errs, errors.New("run odds must be >= 0 (0 disables)"))
	}
	if c.Run.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("run.max_attempts must be > 0, got %d", c.Run.MaxAttempts))
	}
	if c.Display.Sink == "" {
		errs = append(errs, errors.New("display.sink is required"))
	}
	if c.Display.FrameInterval < 0 {
		errs = append(errs, fmt.Errorf("display.frame_interval must be >= 0, got %s", c.Display.FrameInterval))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Bind attaches the commonly tuned settings to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Matrix.Width, "width", c.Matrix.Width, "visible matrix width")
	fs.IntVar(&c.Matrix.Height, "height", c.Matrix.Height, "visible matrix height")
	fs.IntVar(&c.Matrix.Margin, "margin", c.Matrix.Margin, "simulated cells beyond each matrix edge")
	fs.IntVar(&c.Palette.Colors, "colors", c.Palette.Colors, "palette size including background")
	fs.IntVar(&c.Run.MaxGenerations, "max-generations", c.Run.MaxGenerations, "generation cap per run")
	fs.DurationVar(&c.Run.StartHold, "hold", c.Run.StartHold, "pause on the starting pattern")
	fs.Int64Var(&c.Run.Seed, "seed", c.Run.Seed, "random seed (0 uses the clock)")
	fs.StringVar(&c.Patterns.Dir, "patterns", c.Patterns.Dir, "pattern directory (empty uses the built-in set)")
	fs.StringVar(&c.Display.Sink, "sink", c.Display.Sink, "render sink")
	fs.DurationVar(&c.Display.FrameInterval, "interval", c.Display.FrameInterval, "minimum time between frames")
	fs.IntVar(&c.Display.Scale, "scale", c.Display.Scale, "pixel scale multiplier for the preview window")
	fs.IntVar(&c.Display.TPS, "tps", c.Display.TPS, "generations per second in the preview window")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "log level: debug, info, warn, error")
	fs.StringVar(&c.Log.Format, "log-format", c.Log.Format, "log format: text or json")
	fs.StringVar(&c.Log.File, "log-file", c.Log.File, "write logs to this file instead of stderr")
}

// Parse builds a configuration from command-line arguments. A -config file
// is loaded first; flags given on the command line override its values.
func Parse(name string, args []string) (Config, error) {
	probe := flag.NewFlagSet(name, flag.ContinueOnError)
	probe.SetOutput(io.Discard)
	path := probe.String("config", "", "")
	scratch := Default()
	scratch.Bind(probe)
	// Errors surface from the real parse below, with usage output.
	_ = probe.Parse(args)

	cfg := Default()
	if *path != "" {
		loaded, err := Load(*path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("config", *path, "YAML configuration file")
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Logger builds a slog.Logger writing to w according to the log settings.
func (l LogConfig) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Output opens the log destination: the configured file, or stderr.
func (l LogConfig) Output() (io.WriteCloser, error) {
	if l.File == "" {
		return nopCloser{os.Stderr}, nil
	}
	f, err := os.OpenFile(l.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("config: open log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q: %w", s, err)
	}
	return level, nil
}

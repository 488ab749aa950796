// Command pattern-survey seeds every pattern file once and reports how its
// first run ends.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"life-matrix/internal/config"
	"life-matrix/internal/run"
	"life-matrix/internal/selector"
	"life-matrix/patterns"
	"life-matrix/pkg/core"
	"life-matrix/pkg/rle"
)

type result struct {
	file       string
	name       string
	width      int
	height     int
	reason     string
	generation int
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout))
}

func realMain(args []string, stdout io.Writer) int {
	cfg, err := config.Parse("pattern-survey", args)
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

	start := time.Now()
	results, err := survey(patterns.Open(cfg.Patterns.Dir), cfg, logger)
	if err != nil {
		logger.Error("survey failed", "error", err)
		return 1
	}
	if err := writeTable(stdout, results); err != nil {
		logger.Error("writing results", "error", err)
		return 1
	}
	logger.Info("survey done", "patterns", len(results), "elapsed", time.Since(start).Round(time.Millisecond))
	return 0
}

// survey runs each top-level file of fsys, in name order, until its first
// termination.
func survey(fsys fs.FS, cfg config.Config, logger *slog.Logger) ([]result, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, selector.ErrNoPatterns
	}
	sort.Strings(names)

	selCfg := selector.ConfigFrom(cfg)
	runCfg := run.ConfigFrom(cfg)
	runCfg.StartHold = 0

	results := make([]result, 0, len(names))
	for _, name := range names {
		res := result{file: name}
		seed, err := selector.FromFile(fsys, name, selCfg)
		if err != nil {
			res.reason = failure(err)
			logger.Debug("pattern rejected", "file", name, "error", err)
			results = append(results, res)
			continue
		}
		res.name = seed.Name
		res.width, res.height = seed.Pattern.Width, seed.Pattern.Height

		out, err := firstRun(seed, runCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		res.reason = out.Reason.String()
		res.generation = out.Generation
		results = append(results, res)
	}
	return results, nil
}

func firstRun(seed selector.Seed, cfg run.Config, logger *slog.Logger) (run.Outcome, error) {
	discard := run.SinkFunc(func(core.View, core.Color) error { return nil })
	ctrl := run.New(selector.Fixed(seed), discard, cfg, run.WithLogger(logger))
	for {
		out, err := ctrl.Tick(context.Background())
		if err != nil {
			return run.Outcome{}, err
		}
		if out.Done() {
			return out, nil
		}
	}
}

func failure(err error) string {
	switch {
	case errors.Is(err, rle.ErrTooLarge):
		return "too large"
	case errors.Is(err, rle.ErrMalformed):
		return "malformed"
	default:
		return "unreadable"
	}
}

func writeTable(w io.Writer, results []result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tNAME\tEXTENT\tREASON\tGENERATION")
	for _, r := range results {
		extent, gen := "-", "-"
		if r.width > 0 || r.height > 0 {
			extent = fmt.Sprintf("%dx%d", r.width, r.height)
		}
		if r.generation > 0 {
			gen = fmt.Sprint(r.generation)
		}
		name := r.name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.file, name, extent, r.reason, gen)
	}
	return tw.Flush()
}

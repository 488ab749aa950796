// Package sink provides the named render sinks the runner can display on.
package sink

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"life-matrix/internal/config"
	"life-matrix/internal/render"
	"life-matrix/internal/run"
)

// ErrClosed is returned by Render once the user has closed the sink.
var ErrClosed = errors.New("sink: closed")

// Sink is a run.Sink that holds resources until closed.
type Sink interface {
	run.Sink
	Close() error
}

// Factory opens a sink for the configuration. The composer turns views into
// palette frames.
type Factory func(cfg config.Config, comp *render.Composer, logger *slog.Logger) (Sink, error)

var sinks = map[string]Factory{}

// Register adds a sink factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sinks[name] = f
}

// Names returns the registered sink names in order.
func Names() []string {
	names := make([]string, 0, len(sinks))
	for name := range sinks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open looks up name and opens the sink.
func Open(name string, cfg config.Config, comp *render.Composer, logger *slog.Logger) (Sink, error) {
	f, ok := sinks[name]
	if !ok {
		return nil, fmt.Errorf("sink: unknown sink %q (available: %v)", name, Names())
	}
	if logger == nil {
		logger = slog.Default()
	}
	s, err := f(cfg, comp, logger.With("sink", name))
	if err != nil {
		return nil, fmt.Errorf("sink: open %s: %w", name, err)
	}
	return s, nil
}

package sink

import (
	"log/slog"

	"life-matrix/internal/config"
	"life-matrix/internal/render"
	"life-matrix/pkg/core"
)

func init() {
	Register("log", func(_ config.Config, _ *render.Composer, logger *slog.Logger) (Sink, error) {
		return NewLog(logger), nil
	})
}

// Log is a headless sink that only reports each frame at debug level.
type Log struct {
	logger *slog.Logger
	frames int
}

// NewLog returns a Log sink writing to logger.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Render logs the frame's live cell count.
func (l *Log) Render(v core.View, c core.Color) error {
	l.frames++
	size := v.Size()
	l.logger.Debug("frame", "n", l.frames, "width", size.W, "height", size.H,
		"live", v.LiveCount(), "multicolor", c.IsMulticolor())
	return nil
}

// Frames returns the number of frames rendered so far.
func (l *Log) Frames() int { return l.frames }

// Close is a no-op.
func (l *Log) Close() error { return nil }

package ui

import (
	"fmt"

	"life-matrix/internal/run"
	"life-matrix/pkg/core"
)

// StatusLine formats the preview status text for a run snapshot.
func StatusLine(st run.Status, paused bool) string {
	if st.State == run.StateSeeding && st.RunID == "" {
		return "seeding..."
	}
	color := fmt.Sprintf("color %d", st.Color)
	if st.Color == core.Multicolor {
		color = "multicolor"
	}
	line := fmt.Sprintf("%s  gen %d  %s", st.Name, st.Generation, color)
	if paused {
		line += "  [paused]"
	}
	return line
}

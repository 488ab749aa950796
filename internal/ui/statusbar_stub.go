//go:build !ebiten

package ui

// StatusBarHeight is zero in headless builds.
const StatusBarHeight = 0

// StatusBar is a no-op placeholder for headless builds.
type StatusBar struct{}

// NewStatusBar returns nil in the headless build.
func NewStatusBar() *StatusBar { return nil }

// Draw is a no-op in the headless build.
func (s *StatusBar) Draw(any, int, string) {}

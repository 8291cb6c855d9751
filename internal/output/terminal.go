package output

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ShouldColor reports whether output written to w should be colorized.
// NO_COLOR disables colors, FORCE_COLOR enables them, otherwise w must be a
// terminal with a TERM other than "dumb".
func ShouldColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if !IsTerminal(w) {
		return false
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// SchemeFor picks the color scheme for w.
func SchemeFor(w io.Writer, noColor bool) *ColorScheme {
	if noColor || !ShouldColor(w) {
		return NoColorScheme()
	}
	return ForcedColorScheme()
}

package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements in the report
type ColorScheme struct {
	Header     *color.Color
	Href       *color.Color
	Rel        *color.Color
	Metric     *color.Color
	Faster     *color.Color
	Slower     *color.Color
	Negligible *color.Color
	Rule       *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:     color.New(color.Bold),
		Href:       color.New(color.FgCyan),
		Rel:        color.New(color.FgMagenta),
		Metric:     color.New(color.FgBlue),
		Faster:     color.New(color.FgGreen, color.Bold),
		Slower:     color.New(color.FgRed, color.Bold),
		Negligible: color.New(color.FgYellow),
		Rule:       color.New(color.FgCyan),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range scheme.all() {
		c.DisableColor()
	}
	return scheme
}

// ForcedColorScheme returns the default scheme with colors enabled even when
// the process is not attached to a terminal.
func ForcedColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range scheme.all() {
		c.EnableColor()
	}
	return scheme
}

func (s *ColorScheme) all() []*color.Color {
	return []*color.Color{s.Header, s.Href, s.Rel, s.Metric, s.Faster, s.Slower, s.Negligible, s.Rule}
}

// ForBand returns the color used for a delta band.
func (s *ColorScheme) ForBand(b Band) *color.Color {
	switch b {
	case BandFaster:
		return s.Faster
	case BandSlower:
		return s.Slower
	default:
		return s.Negligible
	}
}

// BandIcon returns the symbol printed next to a band label
func BandIcon(b Band) string {
	switch b {
	case BandFaster:
		return "✓"
	case BandSlower:
		return "✗"
	default:
		return "≈"
	}
}

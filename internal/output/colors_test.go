package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestColorSchemes(t *testing.T) {
	for name, scheme := range map[string]*ColorScheme{
		"default": DefaultColorScheme(),
		"none":    NoColorScheme(),
		"forced":  ForcedColorScheme(),
	} {
		for i, c := range scheme.all() {
			if c == nil {
				t.Errorf("%s scheme: color %d is nil", name, i)
			}
		}
	}
}

func TestNoColorScheme_PlainText(t *testing.T) {
	scheme := NoColorScheme()
	for _, c := range scheme.all() {
		if got := c.Sprint("x"); got != "x" {
			t.Errorf("expected plain text, got %q", got)
		}
	}
}

func TestForcedColorScheme_EmitsEscapes(t *testing.T) {
	got := ForcedColorScheme().Slower.Sprint("x")
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI escape in %q", got)
	}
}

func TestForBand(t *testing.T) {
	scheme := DefaultColorScheme()
	if scheme.ForBand(BandFaster) != scheme.Faster {
		t.Error("faster band should use Faster color")
	}
	if scheme.ForBand(BandSlower) != scheme.Slower {
		t.Error("slower band should use Slower color")
	}
	if scheme.ForBand(BandNegligible) != scheme.Negligible {
		t.Error("negligible band should use Negligible color")
	}
}

func TestBandIcon(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range []Band{BandFaster, BandSlower, BandNegligible} {
		icon := BandIcon(b)
		if icon == "" {
			t.Errorf("BandIcon(%v) is empty", b)
		}
		seen[icon] = true
	}
	if len(seen) != 3 {
		t.Error("each band should have a distinct icon")
	}
}

func TestShouldColor_NonTerminal(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")
	if ShouldColor(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}

	t.Setenv("FORCE_COLOR", "1")
	if !ShouldColor(&bytes.Buffer{}) {
		t.Error("FORCE_COLOR should enable colors")
	}

	t.Setenv("NO_COLOR", "1")
	if ShouldColor(&bytes.Buffer{}) {
		t.Error("NO_COLOR takes precedence")
	}
}

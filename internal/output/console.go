// Package output renders an aggregated comparison for the terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wesleyorama2/hintprobe/internal/aggregate"
	"github.com/wesleyorama2/hintprobe/internal/timing"
)

// DefaultThreshold is the band threshold in milliseconds.
const DefaultThreshold = 5.0

const (
	boxHorizontal = "━"
	ruleWidth     = 64
)

// Band classifies a delta against the threshold.
type Band int

const (
	// BandNegligible means |delta| is below the threshold.
	BandNegligible Band = iota
	// BandFaster means the page was faster with hints.
	BandFaster
	// BandSlower means the page was slower with hints.
	BandSlower
)

func (b Band) String() string {
	switch b {
	case BandFaster:
		return "hints faster"
	case BandSlower:
		return "hints slower"
	default:
		return "negligible"
	}
}

// Classify places delta (with-hints minus no-hints, ms) into a band:
// faster when delta <= -threshold, slower when delta >= +threshold,
// negligible otherwise. A zero delta is always negligible.
func Classify(delta, threshold float64) Band {
	if threshold < 0 {
		threshold = -threshold
	}
	switch {
	case delta == 0:
		return BandNegligible
	case delta <= -threshold:
		return BandFaster
	case delta >= threshold:
		return BandSlower
	default:
		return BandNegligible
	}
}

// ReporterConfig configures a Reporter.
type ReporterConfig struct {
	Writer    io.Writer
	Threshold float64
	Verbose   bool
	Colors    *ColorScheme
}

// Reporter prints one line per metric per resource and two overall lines.
type Reporter struct {
	w         io.Writer
	threshold float64
	verbose   bool
	colors    *ColorScheme
}

// NewReporter creates a reporter. A nil writer means stdout; a nil color
// scheme is chosen from the writer.
func NewReporter(cfg ReporterConfig) *Reporter {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Colors == nil {
		cfg.Colors = SchemeFor(cfg.Writer, false)
	}
	return &Reporter{
		w:         cfg.Writer,
		threshold: cfg.Threshold,
		verbose:   cfg.Verbose,
		colors:    cfg.Colors,
	}
}

// Print writes the comparison. dist is printed only in verbose mode and may be nil.
func (r *Reporter) Print(url string, runs int, summary *aggregate.Summary, dist *aggregate.Distributions) error {
	var b strings.Builder

	rule := r.colors.Rule.Sprint(strings.Repeat(boxHorizontal, ruleWidth))
	b.WriteString(rule + "\n")
	b.WriteString(r.colors.Header.Sprintf("Resource hints: %s (%d runs per variant, threshold %.2fms)", url, runs, r.threshold) + "\n")
	b.WriteString(rule + "\n")

	if len(summary.Resources) == 0 {
		b.WriteString("No hinted resource was fetched by both variants.\n")
	}
	for _, res := range summary.Resources {
		fmt.Fprintf(&b, "%s %s\n", r.colors.Href.Sprint(res.Href), r.colors.Rel.Sprintf("[%s]", res.Rel))
		r.writeMetric(&b, "dns", res.AvgDNSWith, res.AvgDNSNo, res.DeltaDNS)
		r.writeMetric(&b, "tcp", res.AvgTCPWith, res.AvgTCPNo, res.DeltaTCP)
		r.writeMetric(&b, "ttfb", res.AvgTTFBWith, res.AvgTTFBNo, res.DeltaTTFB)
	}

	b.WriteString("\n" + r.colors.Header.Sprint("Overall") + "\n")
	o := summary.Overall
	r.writeMetric(&b, "domContentLoaded", o.MeanDOMWith, o.MeanDOMNo, o.DeltaDOM)
	r.writeMetric(&b, "load", o.MeanLoadWith, o.MeanLoadNo, o.DeltaLoad)

	if r.verbose {
		fmt.Fprintf(&b, "  variance  domContentLoaded with %.2f without %.2f, load with %.2f without %.2f\n",
			o.VarDOMWith, o.VarDOMNo, o.VarLoadWith, o.VarLoadNo)
		if dist != nil {
			r.writeDistribution(&b, dist)
		}
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Reporter) writeMetric(b *strings.Builder, name string, with, without, delta float64) {
	band := Classify(delta, r.threshold)
	c := r.colors.ForBand(band)
	fmt.Fprintf(b, "  %s  with %10.2fms  without %10.2fms  delta %s  %s\n",
		r.colors.Metric.Sprintf("%-16s", name),
		with, without,
		c.Sprintf("%+10.2fms", delta),
		c.Sprintf("%s %s", BandIcon(band), band),
	)
}

func (r *Reporter) writeDistribution(b *strings.Builder, dist *aggregate.Distributions) {
	b.WriteString("\n" + r.colors.Header.Sprint("Distribution (ms)") + "\n")
	fmt.Fprintf(b, "  %-28s %9s %9s %9s %9s %9s\n", "", "min", "p50", "p90", "p99", "max")
	rows := []struct {
		label string
		p     aggregate.Percentiles
	}{
		{timing.VariantWithHints + " domContentLoaded", dist.WithHints.DOMContentLoaded},
		{timing.VariantNoHints + " domContentLoaded", dist.NoHints.DOMContentLoaded},
		{timing.VariantWithHints + " load", dist.WithHints.Load},
		{timing.VariantNoHints + " load", dist.NoHints.Load},
	}
	for _, row := range rows {
		fmt.Fprintf(b, "  %-28s %9.2f %9.2f %9.2f %9.2f %9.2f\n",
			row.label, row.p.Min, row.p.P50, row.p.P90, row.p.P99, row.p.Max)
	}
}

// Package timing holds the measurement data model shared by the trial runner,
// the experiment driver and the aggregator.
//
// All durations are float64 milliseconds, matching the browser's
// PerformanceEntry clock. Values are never negative: a sub-metric whose
// source fields are missing is recorded as 0.
package timing

import "fmt"

// Variant names used as keys in results and reports.
const (
	VariantWithHints = "with-hints"
	VariantNoHints   = "no-hints"
)

// ResourceHint is a hint-bearing <link> element located in a rendered page.
type ResourceHint struct {
	// Href is the absolute target URL and the join key across trials and variants.
	Href string `json:"href" yaml:"href"`

	// Rel is the rel attribute as found in the DOM ("preconnect", "nopreconnect", ...).
	Rel string `json:"rel" yaml:"rel"`

	// Index is the position among located hints in that rendering. Diagnostic only.
	Index int `json:"index" yaml:"index"`
}

// ResourceTiming is one timing sample for one hint in one trial.
type ResourceTiming struct {
	ResourceHint `yaml:",inline"`

	DNS  float64 `json:"dns" yaml:"dns"`
	TCP  float64 `json:"tcp" yaml:"tcp"`
	TTFB float64 `json:"ttfb" yaml:"ttfb"`
}

// OverallTiming is the page-level sample of one trial, measured from
// navigation start.
type OverallTiming struct {
	DOMContentLoaded float64 `json:"dom" yaml:"dom"`
	Load             float64 `json:"load" yaml:"load"`
}

// TrialSample is everything one trial produced. It is not modified after the
// trial runner returns it.
type TrialSample struct {
	Resources []ResourceTiming `json:"resources" yaml:"resources"`
	Overall   OverallTiming    `json:"overall" yaml:"overall"`
}

// VariantResultSet is the ordered list of samples for one variant, in trial order.
type VariantResultSet []TrialSample

// DOMContentLoaded returns the per-trial domContentLoaded values.
func (s VariantResultSet) DOMContentLoaded() []float64 {
	out := make([]float64, len(s))
	for i, sample := range s {
		out[i] = sample.Overall.DOMContentLoaded
	}
	return out
}

// Load returns the per-trial loadEvent values.
func (s VariantResultSet) Load() []float64 {
	out := make([]float64, len(s))
	for i, sample := range s {
		out[i] = sample.Overall.Load
	}
	return out
}

// Results holds both variants of a completed experiment.
type Results struct {
	WithHints VariantResultSet `json:"with-hints" yaml:"with-hints"`
	NoHints   VariantResultSet `json:"no-hints" yaml:"no-hints"`
}

// SetVariant stores set under the variant name. Unknown names are an error.
func (r *Results) SetVariant(name string, set VariantResultSet) error {
	switch name {
	case VariantWithHints:
		r.WithHints = set
	case VariantNoHints:
		r.NoHints = set
	default:
		return fmt.Errorf("unknown variant %q", name)
	}
	return nil
}

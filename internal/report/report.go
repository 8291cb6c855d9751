// Package report assembles the structured result of one experiment and
// encodes it as JSON, YAML or a static HTML page.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wesleyorama2/hintprobe/internal/aggregate"
	"github.com/wesleyorama2/hintprobe/internal/timing"
)

// Report is the envelope written for one invocation. The raw result sets and
// the derived summary keep their own field names at the top level.
type Report struct {
	ID        string    `json:"id" yaml:"id"`
	URL       string    `json:"url" yaml:"url"`
	Runs      int       `json:"runs" yaml:"runs"`
	StartedAt time.Time `json:"startedAt" yaml:"startedAt"`
	Duration  string    `json:"duration" yaml:"duration"`

	timing.Results    `yaml:",inline"`
	aggregate.Summary `yaml:",inline"`

	Distribution *aggregate.Distributions `json:"distribution,omitempty" yaml:"distribution,omitempty"`
}

// Build summarizes results and wraps everything in a Report.
func Build(url string, runs int, startedAt time.Time, elapsed time.Duration, results *timing.Results) (*Report, error) {
	if results == nil {
		return nil, fmt.Errorf("results cannot be nil")
	}

	summary, err := aggregate.Summarize(results.WithHints, results.NoHints)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize results: %w", err)
	}
	dist, err := aggregate.Distribution(results.WithHints, results.NoHints)
	if err != nil {
		return nil, fmt.Errorf("failed to compute distribution: %w", err)
	}

	return &Report{
		ID:           uuid.NewString(),
		URL:          url,
		Runs:         runs,
		StartedAt:    startedAt.UTC(),
		Duration:     elapsed.Round(time.Millisecond).String(),
		Results:      *results,
		Summary:      *summary,
		Distribution: dist,
	}, nil
}

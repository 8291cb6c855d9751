package aggregate

import (
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"
	"gonum.org/v1/gonum/floats"

	"github.com/wesleyorama2/hintprobe/internal/timing"
)

// Histogram range: 1 microsecond to 10 minutes, 3 significant figures.
const (
	histMinMicros = 1
	histMaxMicros = 600_000_000
	histSigFigs   = 3
)

// Percentiles describes the spread of one page-level metric, in milliseconds.
type Percentiles struct {
	Min   float64 `json:"min" yaml:"min"`
	P50   float64 `json:"p50" yaml:"p50"`
	P90   float64 `json:"p90" yaml:"p90"`
	P99   float64 `json:"p99" yaml:"p99"`
	Max   float64 `json:"max" yaml:"max"`
	Count int64   `json:"count" yaml:"count"`
}

// VariantDistribution holds the spread of both page-level metrics for one variant.
type VariantDistribution struct {
	DOMContentLoaded Percentiles `json:"dom" yaml:"dom"`
	Load             Percentiles `json:"load" yaml:"load"`
}

// Distributions holds the spread for both variants.
type Distributions struct {
	WithHints VariantDistribution `json:"with-hints" yaml:"with-hints"`
	NoHints   VariantDistribution `json:"no-hints" yaml:"no-hints"`
}

// Distribution computes percentiles of domContentLoaded and loadEvent per
// variant. Quantiles are recorded at microsecond resolution; min and max are
// the observed samples.
func Distribution(with, without timing.VariantResultSet) (*Distributions, error) {
	if len(with) == 0 || len(without) == 0 {
		return nil, ErrNoSamples
	}
	return &Distributions{
		WithHints: VariantDistribution{
			DOMContentLoaded: percentiles(with.DOMContentLoaded()),
			Load:             percentiles(with.Load()),
		},
		NoHints: VariantDistribution{
			DOMContentLoaded: percentiles(without.DOMContentLoaded()),
			Load:             percentiles(without.Load()),
		},
	}, nil
}

func percentiles(values []float64) Percentiles {
	hist := hdrhistogram.New(histMinMicros, histMaxMicros, histSigFigs)
	for _, v := range values {
		micros := int64(math.Round(v * 1000))
		// Clamp to valid range
		if micros < histMinMicros {
			micros = histMinMicros
		}
		if micros > histMaxMicros {
			micros = histMaxMicros
		}
		_ = hist.RecordValue(micros)
	}

	ms := func(micros int64) float64 {
		return Round(float64(micros) / 1000)
	}

	return Percentiles{
		Min:   Round(floats.Min(values)),
		P50:   ms(hist.ValueAtQuantile(50)),
		P90:   ms(hist.ValueAtQuantile(90)),
		P99:   ms(hist.ValueAtQuantile(99)),
		Max:   Round(floats.Max(values)),
		Count: hist.TotalCount(),
	}
}

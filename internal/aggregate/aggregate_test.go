package aggregate

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/hintprobe/internal/timing"
)

func resource(href, rel string, dns, tcp, ttfb float64) timing.ResourceTiming {
	return timing.ResourceTiming{
		ResourceHint: timing.ResourceHint{Href: href, Rel: rel},
		DNS:          dns,
		TCP:          tcp,
		TTFB:         ttfb,
	}
}

func trial(dom, load float64, resources ...timing.ResourceTiming) timing.TrialSample {
	if resources == nil {
		resources = []timing.ResourceTiming{}
	}
	return timing.TrialSample{
		Resources: resources,
		Overall:   timing.OverallTiming{DOMContentLoaded: dom, Load: load},
	}
}

// Hints caused an extra fetch: with-hints pays dns/tcp/ttfb, no-hints never fetched.
func TestSummarize_ScenarioA(t *testing.T) {
	with := timing.VariantResultSet{
		trial(100, 200, resource("a", "preconnect", 10, 5, 20)),
		trial(100, 200, resource("a", "preconnect", 10, 5, 20)),
	}
	without := timing.VariantResultSet{
		trial(100, 200, resource("a", "nopreconnect", 0, 0, 0)),
		trial(100, 200, resource("a", "nopreconnect", 0, 0, 0)),
	}

	summary, err := Summarize(with, without)
	require.NoError(t, err)
	require.Len(t, summary.Resources, 1)

	got := summary.Resources[0]
	assert.Equal(t, "a", got.Href)
	assert.Equal(t, "preconnect", got.Rel)
	assert.Equal(t, 10.0, got.AvgDNSWith)
	assert.Equal(t, 5.0, got.AvgTCPWith)
	assert.Equal(t, 20.0, got.AvgTTFBWith)
	assert.Equal(t, 0.0, got.AvgDNSNo)
	assert.Equal(t, 10.0, got.DeltaDNS)
	assert.Equal(t, 5.0, got.DeltaTCP)
	assert.Equal(t, 20.0, got.DeltaTTFB)
}

// A resource sampled only with hints is excluded regardless of its values.
func TestSummarize_ScenarioB(t *testing.T) {
	with := timing.VariantResultSet{
		trial(100, 200, resource("shared", "preload", 1, 1, 1), resource("only-with", "preload", 99, 99, 99)),
	}
	without := timing.VariantResultSet{
		trial(110, 210, resource("shared", "nopreload", 2, 2, 2), resource("only-without", "nopreload", 3, 3, 3)),
	}

	summary, err := Summarize(with, without)
	require.NoError(t, err)

	require.Len(t, summary.Resources, 1)
	assert.Equal(t, "shared", summary.Resources[0].Href)
	assert.Equal(t, -1.0, summary.Resources[0].DeltaDNS)

	// Overall stats are not blocked by the dropped resources.
	assert.Equal(t, -10.0, summary.Overall.DeltaDOM)
	assert.Equal(t, -10.0, summary.Overall.DeltaLoad)
}

func TestSummarize_JoinSymmetry(t *testing.T) {
	with := timing.VariantResultSet{
		trial(1, 1, resource("a", "preload", 1, 1, 1), resource("b", "preload", 1, 1, 1), resource("c", "preload", 1, 1, 1)),
		trial(1, 1, resource("d", "preload", 1, 1, 1)),
	}
	without := timing.VariantResultSet{
		trial(1, 1, resource("b", "nopreload", 0, 0, 0)),
		trial(1, 1, resource("d", "nopreload", 0, 0, 0), resource("e", "nopreload", 0, 0, 0)),
	}

	summary, err := Summarize(with, without)
	require.NoError(t, err)

	var hrefs []string
	for _, r := range summary.Resources {
		hrefs = append(hrefs, r.Href)
	}
	assert.Equal(t, []string{"b", "d"}, hrefs)
}

func TestSummarize_OverallScenario(t *testing.T) {
	withDOM := []float64{100, 102, 98, 100, 100}
	noDOM := []float64{120, 118, 122, 120, 120}

	var with, without timing.VariantResultSet
	for i := range withDOM {
		with = append(with, trial(withDOM[i], withDOM[i]*2))
		without = append(without, trial(noDOM[i], noDOM[i]*2))
	}

	summary, err := Summarize(with, without)
	require.NoError(t, err)

	o := summary.Overall
	assert.Equal(t, 100.0, o.MeanDOMWith)
	assert.Equal(t, 1.6, o.VarDOMWith)
	assert.Equal(t, 120.0, o.MeanDOMNo)
	assert.Equal(t, 1.6, o.VarDOMNo)
	assert.Equal(t, -20.0, o.DeltaDOM)

	assert.Equal(t, 200.0, o.MeanLoadWith)
	assert.Equal(t, 6.4, o.VarLoadWith)
	assert.Equal(t, -40.0, o.DeltaLoad)

	assert.Empty(t, summary.Resources)
	assert.NotNil(t, summary.Resources)
}

func TestSummarize_PopulationVariance(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		mean     float64
		variance float64
	}{
		{"constant", []float64{5, 5, 5, 5, 5}, 5, 0},
		{"two points", []float64{0, 10}, 5, 25},
		{"single trial", []float64{42}, 42, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var set timing.VariantResultSet
			for _, v := range tt.values {
				set = append(set, trial(v, v))
			}

			summary, err := Summarize(set, set)
			require.NoError(t, err)
			assert.Equal(t, tt.mean, summary.Overall.MeanDOMWith)
			assert.Equal(t, tt.variance, summary.Overall.VarDOMWith)
			assert.Equal(t, 0.0, summary.Overall.DeltaDOM)
		})
	}
}

func TestSummarize_AccumulatesRepeatedHints(t *testing.T) {
	// The same href twice in one trial and once in another: three samples.
	with := timing.VariantResultSet{
		trial(1, 1, resource("a", "preload", 3, 0, 0), resource("a", "preload", 6, 0, 0)),
		trial(1, 1, resource("a", "preload", 9, 0, 0)),
	}
	without := timing.VariantResultSet{trial(1, 1, resource("a", "nopreload", 1, 0, 0))}

	summary, err := Summarize(with, without)
	require.NoError(t, err)
	require.Len(t, summary.Resources, 1)
	assert.Equal(t, 6.0, summary.Resources[0].AvgDNSWith)
	assert.Equal(t, 5.0, summary.Resources[0].DeltaDNS)
}

func TestSummarize_RelFromNoHintsSide(t *testing.T) {
	with := timing.VariantResultSet{trial(1, 1, resource("a", "", 1, 1, 1))}
	without := timing.VariantResultSet{trial(1, 1, resource("a", "nodns-prefetch", 0, 0, 0))}

	summary, err := Summarize(with, without)
	require.NoError(t, err)
	assert.Equal(t, "dns-prefetch", summary.Resources[0].Rel)
}

func TestSummarize_DeltaSignAndRounding(t *testing.T) {
	with := timing.VariantResultSet{
		trial(10.004, 20, resource("a", "preload", 1.111, 2.222, 3.333)),
		trial(10.001, 20, resource("a", "preload", 1.112, 2.223, 3.334)),
		trial(10.002, 20, resource("a", "preload", 1.113, 2.224, 3.335)),
	}
	without := timing.VariantResultSet{
		trial(13.337, 21, resource("a", "nopreload", 0.333, 0.444, 0.555)),
	}

	summary, err := Summarize(with, without)
	require.NoError(t, err)

	r := summary.Resources[0]
	assert.Equal(t, Round(1.112-0.333), r.DeltaDNS)
	assert.Equal(t, Round(2.223-0.444), r.DeltaTCP)
	assert.Equal(t, Round(3.334-0.555), r.DeltaTTFB)
	assert.Equal(t, Round(10.00233333-13.337), summary.Overall.DeltaDOM)

	values := []float64{
		r.AvgDNSWith, r.AvgTCPWith, r.AvgTTFBWith, r.AvgDNSNo, r.AvgTCPNo, r.AvgTTFBNo,
		r.DeltaDNS, r.DeltaTCP, r.DeltaTTFB,
		summary.Overall.MeanDOMWith, summary.Overall.VarDOMWith, summary.Overall.DeltaDOM,
	}
	for _, v := range values {
		assertTwoDecimals(t, v)
	}
}

func TestSummarize_NoSamples(t *testing.T) {
	some := timing.VariantResultSet{trial(1, 1)}

	_, err := Summarize(nil, some)
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = Summarize(some, timing.VariantResultSet{})
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.234, 1.23},
		{1.236, 1.24},
		{-1.236, -1.24},
		{-0.001, 0},
		{100, 100},
	}
	for _, tt := range tests {
		got := Round(tt.in)
		assert.Equal(t, tt.want, got, "Round(%v)", tt.in)
		assert.False(t, math.Signbit(got) && got == 0, "Round(%v) returned negative zero", tt.in)
	}
}

func assertTwoDecimals(t *testing.T, v float64) {
	t.Helper()
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		assert.LessOrEqual(t, len(s)-i-1, 2, "%s has more than two decimals", s)
	}
}

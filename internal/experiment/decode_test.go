package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/hintprobe/internal/render/rendertest"
)

func TestDecodeSample(t *testing.T) {
	payload := rendertest.Payload{
		Hints: []rendertest.Hint{
			{Href: "https://cdn.example.com/app.js", Rel: "preload", Index: 0, Timing: rendertest.ResourceTiming(10, 5, 20)},
			{Href: "https://fonts.example.com/", Rel: "preconnect", Index: 1},
		},
		Navigation: rendertest.Navigation(100, 250),
	}.JSON()

	sample, err := DecodeSample(payload)
	require.NoError(t, err)

	require.Len(t, sample.Resources, 2)
	first := sample.Resources[0]
	assert.Equal(t, "https://cdn.example.com/app.js", first.Href)
	assert.Equal(t, "preload", first.Rel)
	assert.Equal(t, 0, first.Index)
	assert.InDelta(t, 10, first.DNS, 1e-9)
	assert.InDelta(t, 5, first.TCP, 1e-9)
	assert.InDelta(t, 20, first.TTFB, 1e-9)

	assert.InDelta(t, 100, sample.Overall.DOMContentLoaded, 1e-9)
	assert.InDelta(t, 250, sample.Overall.Load, 1e-9)
}

func TestDecodeSample_ZeroFillUnfetched(t *testing.T) {
	payload := rendertest.Payload{
		Hints:      []rendertest.Hint{{Href: "https://a.example/", Rel: "nopreconnect", Index: 0}},
		Navigation: rendertest.Navigation(80, 90),
	}.JSON()

	sample, err := DecodeSample(payload)
	require.NoError(t, err)
	require.Len(t, sample.Resources, 1)

	r := sample.Resources[0]
	assert.Equal(t, "nopreconnect", r.Rel)
	assert.Zero(t, r.DNS)
	assert.Zero(t, r.TCP)
	assert.Zero(t, r.TTFB)
}

func TestDecodeSample_MissingFields(t *testing.T) {
	payload := []byte(`{
		"hints": [{"href": "https://a/", "rel": "preload", "index": 0,
		           "timing": {"startTime": 50, "domainLookupStart": 50, "connectStart": 60, "connectEnd": 70}}],
		"navigation": {"startTime": 0, "domContentLoadedEventEnd": 40}
	}`)

	sample, err := DecodeSample(payload)
	require.NoError(t, err)

	r := sample.Resources[0]
	assert.Zero(t, r.DNS, "dns without domainLookupEnd")
	assert.InDelta(t, 10, r.TCP, 1e-9)
	assert.Zero(t, r.TTFB, "ttfb without responseStart")
	assert.InDelta(t, 40, sample.Overall.DOMContentLoaded, 1e-9)
	assert.Zero(t, sample.Overall.Load)
}

func TestDecodeSample_ClampsNegative(t *testing.T) {
	// Cross-origin entries without Timing-Allow-Origin report responseStart as 0.
	payload := []byte(`{
		"hints": [{"href": "https://a/", "rel": "prefetch", "index": 0,
		           "timing": {"startTime": 120, "domainLookupStart": 0, "domainLookupEnd": 0,
		                      "connectStart": 0, "connectEnd": 0, "responseStart": 0}}],
		"navigation": {"startTime": 0, "domContentLoadedEventEnd": 1, "loadEventEnd": 2}
	}`)

	sample, err := DecodeSample(payload)
	require.NoError(t, err)
	assert.Zero(t, sample.Resources[0].TTFB)
}

func TestDecodeSample_NoHints(t *testing.T) {
	sample, err := DecodeSample([]byte(`{"hints": [], "navigation": {"startTime": 0, "domContentLoadedEventEnd": 5, "loadEventEnd": 9}}`))
	require.NoError(t, err)
	assert.NotNil(t, sample.Resources)
	assert.Empty(t, sample.Resources)
}

func TestDecodeSample_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"invalid json", `{"hints": [`},
		{"missing navigation", `{"hints": []}`},
		{"null navigation", `{"hints": [], "navigation": null}`},
		{"hint without href", `{"hints": [{"rel": "preload"}], "navigation": {"startTime": 0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSample([]byte(tt.payload))
			assert.Error(t, err)
		})
	}
}

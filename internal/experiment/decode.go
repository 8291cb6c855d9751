package experiment

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/hintprobe/internal/timing"
)

var (
	errInvalidPayload = errors.New("extractor returned invalid JSON")
	errNoNavigation   = errors.New("no navigation timing entry")
)

// DecodeSample turns an extractor payload into a TrialSample.
//
// Zero-fill policy: a hint with no resource timing entry was never fetched and
// gets dns=tcp=ttfb=0. A sub-metric whose entry lacks one of its fields is 0
// as well. Differences are clamped at 0, which covers cross-origin entries
// that report 0 for restricted fields. A missing navigation entry is an error.
func DecodeSample(payload []byte) (timing.TrialSample, error) {
	if !gjson.ValidBytes(payload) {
		return timing.TrialSample{}, errInvalidPayload
	}
	root := gjson.ParseBytes(payload)

	nav := root.Get("navigation")
	if !nav.IsObject() {
		return timing.TrialSample{}, errNoNavigation
	}

	sample := timing.TrialSample{
		Resources: make([]timing.ResourceTiming, 0),
		Overall: timing.OverallTiming{
			DOMContentLoaded: span(nav, "startTime", "domContentLoadedEventEnd"),
			Load:             span(nav, "startTime", "loadEventEnd"),
		},
	}

	for i, hint := range root.Get("hints").Array() {
		href := hint.Get("href")
		if href.Type != gjson.String || href.String() == "" {
			return timing.TrialSample{}, fmt.Errorf("hint %d has no href", i)
		}

		rt := timing.ResourceTiming{
			ResourceHint: timing.ResourceHint{
				Href:  href.String(),
				Rel:   hint.Get("rel").String(),
				Index: int(hint.Get("index").Int()),
			},
		}

		if entry := hint.Get("timing"); entry.IsObject() {
			rt.DNS = span(entry, "domainLookupStart", "domainLookupEnd")
			rt.TCP = span(entry, "connectStart", "connectEnd")
			rt.TTFB = span(entry, "startTime", "responseStart")
		}

		sample.Resources = append(sample.Resources, rt)
	}

	return sample, nil
}

// span returns end-start for two numeric fields of obj, 0 when either is
// absent or the difference is negative.
func span(obj gjson.Result, start, end string) float64 {
	s, e := obj.Get(start), obj.Get(end)
	if s.Type != gjson.Number || e.Type != gjson.Number {
		return 0
	}
	return math.Max(0, e.Float()-s.Float())
}

// Package aggregate reduces the raw samples of both variants into per-resource
// and page-level statistics.
//
// Deltas are always with-hints minus no-hints: a positive delta means the
// page was slower with hints. Every emitted number is rounded to two decimals.
package aggregate

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wesleyorama2/hintprobe/internal/hints"
	"github.com/wesleyorama2/hintprobe/internal/timing"
)

// ErrNoSamples is returned when a variant has no trials. Mean and variance are
// undefined for an empty set.
var ErrNoSamples = errors.New("variant has no samples")

// ResourceStat compares one hint target across variants.
type ResourceStat struct {
	Href string `json:"href" yaml:"href"`
	Rel  string `json:"rel" yaml:"rel"`

	AvgDNSWith  float64 `json:"avgDnsWith" yaml:"avgDnsWith"`
	AvgTCPWith  float64 `json:"avgTcpWith" yaml:"avgTcpWith"`
	AvgTTFBWith float64 `json:"avgTtfbWith" yaml:"avgTtfbWith"`

	AvgDNSNo  float64 `json:"avgDnsNo" yaml:"avgDnsNo"`
	AvgTCPNo  float64 `json:"avgTcpNo" yaml:"avgTcpNo"`
	AvgTTFBNo float64 `json:"avgTtfbNo" yaml:"avgTtfbNo"`

	DeltaDNS  float64 `json:"deltaDns" yaml:"deltaDns"`
	DeltaTCP  float64 `json:"deltaTcp" yaml:"deltaTcp"`
	DeltaTTFB float64 `json:"deltaTtfb" yaml:"deltaTtfb"`
}

// OverallStat compares page-level milestones across variants. Variances are
// population variances.
type OverallStat struct {
	MeanDOMWith float64 `json:"meanDomWith" yaml:"meanDomWith"`
	VarDOMWith  float64 `json:"varDomWith" yaml:"varDomWith"`
	MeanDOMNo   float64 `json:"meanDomNo" yaml:"meanDomNo"`
	VarDOMNo    float64 `json:"varDomNo" yaml:"varDomNo"`
	DeltaDOM    float64 `json:"deltaDom" yaml:"deltaDom"`

	MeanLoadWith float64 `json:"meanLoadWith" yaml:"meanLoadWith"`
	VarLoadWith  float64 `json:"varLoadWith" yaml:"varLoadWith"`
	MeanLoadNo   float64 `json:"meanLoadNo" yaml:"meanLoadNo"`
	VarLoadNo    float64 `json:"varLoadNo" yaml:"varLoadNo"`
	DeltaLoad    float64 `json:"deltaLoad" yaml:"deltaLoad"`
}

// Summary is the derived comparison of two result sets.
type Summary struct {
	Resources []ResourceStat `json:"summary" yaml:"summary"`
	Overall   OverallStat    `json:"overall" yaml:"overall"`
}

// Summarize compares with (hints active) against without (hints neutralized).
//
// A resource is reported only when both variants sampled it for all three
// sub-metrics. Resources seen on one side only are dropped silently and do
// not affect the overall stats.
func Summarize(with, without timing.VariantResultSet) (*Summary, error) {
	if len(with) == 0 || len(without) == 0 {
		return nil, ErrNoSamples
	}

	withStats := accumulate(with)
	noStats := accumulate(without)

	resources := make([]ResourceStat, 0)
	for _, href := range joinOrder(withStats, noStats) {
		w, okW := withStats.byHref[href]
		n, okN := noStats.byHref[href]
		if !okW || !okN || !w.complete() || !n.complete() {
			continue
		}

		rel := w.rel
		if rel == "" {
			rel = n.rel
		}

		resources = append(resources, ResourceStat{
			Href:        href,
			Rel:         rel,
			AvgDNSWith:  Round(w.dns.mean()),
			AvgTCPWith:  Round(w.tcp.mean()),
			AvgTTFBWith: Round(w.ttfb.mean()),
			AvgDNSNo:    Round(n.dns.mean()),
			AvgTCPNo:    Round(n.tcp.mean()),
			AvgTTFBNo:   Round(n.ttfb.mean()),
			DeltaDNS:    Round(w.dns.mean() - n.dns.mean()),
			DeltaTCP:    Round(w.tcp.mean() - n.tcp.mean()),
			DeltaTTFB:   Round(w.ttfb.mean() - n.ttfb.mean()),
		})
	}

	meanDOMWith, varDOMWith := stat.PopMeanVariance(with.DOMContentLoaded(), nil)
	meanDOMNo, varDOMNo := stat.PopMeanVariance(without.DOMContentLoaded(), nil)
	meanLoadWith, varLoadWith := stat.PopMeanVariance(with.Load(), nil)
	meanLoadNo, varLoadNo := stat.PopMeanVariance(without.Load(), nil)

	return &Summary{
		Resources: resources,
		Overall: OverallStat{
			MeanDOMWith:  Round(meanDOMWith),
			VarDOMWith:   Round(varDOMWith),
			MeanDOMNo:    Round(meanDOMNo),
			VarDOMNo:     Round(varDOMNo),
			DeltaDOM:     Round(meanDOMWith - meanDOMNo),
			MeanLoadWith: Round(meanLoadWith),
			VarLoadWith:  Round(varLoadWith),
			MeanLoadNo:   Round(meanLoadNo),
			VarLoadNo:    Round(varLoadNo),
			DeltaLoad:    Round(meanLoadWith - meanLoadNo),
		},
	}, nil
}

// Round rounds v to two decimal places.
func Round(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		// Normalize -0 so it prints as 0.
		return 0
	}
	return r
}

// metricSum is a running sum and sample count for one sub-metric.
type metricSum struct {
	sum   float64
	count int
}

func (m metricSum) add(v float64) metricSum {
	return metricSum{sum: m.sum + v, count: m.count + 1}
}

func (m metricSum) mean() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// hrefStats accumulates every ResourceTiming of one href in one variant.
type hrefStats struct {
	rel            string
	dns, tcp, ttfb metricSum
}

func (h hrefStats) complete() bool {
	return h.dns.count > 0 && h.tcp.count > 0 && h.ttfb.count > 0
}

// variantStats is the per-href reduction of one variant, keeping first-seen order.
type variantStats struct {
	order  []string
	byHref map[string]hrefStats
}

// accumulate folds a result set into per-href sums in a single pass. Repeated
// hints, within a trial or across trials, land on the same key.
func accumulate(set timing.VariantResultSet) variantStats {
	vs := variantStats{byHref: make(map[string]hrefStats)}
	for _, sample := range set {
		for _, r := range sample.Resources {
			h, seen := vs.byHref[r.Href]
			if !seen {
				vs.order = append(vs.order, r.Href)
				h.rel = hints.Canonical(r.Rel)
			}
			h.dns = h.dns.add(r.DNS)
			h.tcp = h.tcp.add(r.TCP)
			h.ttfb = h.ttfb.add(r.TTFB)
			vs.byHref[r.Href] = h
		}
	}
	return vs
}

// joinOrder returns the union of hrefs from both variants: with-hints order
// first, then hrefs only seen without hints.
func joinOrder(with, without variantStats) []string {
	out := make([]string, 0, len(with.order)+len(without.order))
	out = append(out, with.order...)
	for _, href := range without.order {
		if _, ok := with.byHref[href]; !ok {
			out = append(out, href)
		}
	}
	return out
}

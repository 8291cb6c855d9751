package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/wesleyorama2/hintprobe/internal/report"
	"github.com/wesleyorama2/hintprobe/internal/timing"
)

func main() {
	rep, err := createSampleReport()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	outputPath := "sample-report.html"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	if err := report.GenerateHTML(rep, report.HTMLOptions{Threshold: 5}, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sample report generated: %s\n", outputPath)
}

// sampleHint describes a hinted resource and how long each phase takes when
// the hint is active and when it is neutralized.
type sampleHint struct {
	href, rel     string
	with, without [3]float64 // dns, tcp, ttfb
}

var sampleHints = []sampleHint{
	{"https://fonts.gstatic.com/", "preconnect", [3]float64{0, 0, 41}, [3]float64{18, 22, 64}},
	{"https://cdn.example.com/app.js", "preload", [3]float64{0, 0, 12}, [3]float64{0, 0, 13}},
	{"https://analytics.example.net/", "dns-prefetch", [3]float64{0, 31, 88}, [3]float64{26, 30, 85}},
	{"https://cdn.example.com/next.html", "prefetch", [3]float64{0, 0, 35}, [3]float64{0, 0, 0}},
}

func createSampleReport() (*report.Report, error) {
	const runs = 10
	rng := rand.New(rand.NewSource(42))
	jitter := func(v float64) float64 {
		if v == 0 {
			return 0
		}
		return v * (0.9 + rng.Float64()*0.2)
	}

	trials := func(active bool, dom, load float64) timing.VariantResultSet {
		set := make(timing.VariantResultSet, runs)
		for i := range set {
			resources := make([]timing.ResourceTiming, 0, len(sampleHints))
			for idx, h := range sampleHints {
				phases, rel := h.with, h.rel
				if !active {
					phases, rel = h.without, "no"+h.rel
				}
				resources = append(resources, timing.ResourceTiming{
					ResourceHint: timing.ResourceHint{Href: h.href, Rel: rel, Index: idx},
					DNS:          jitter(phases[0]),
					TCP:          jitter(phases[1]),
					TTFB:         jitter(phases[2]),
				})
			}
			set[i] = timing.TrialSample{
				Resources: resources,
				Overall:   timing.OverallTiming{DOMContentLoaded: jitter(dom), Load: jitter(load)},
			}
		}
		return set
	}

	results := &timing.Results{
		WithHints: trials(true, 812, 1430),
		NoHints:   trials(false, 866, 1502),
	}

	now := time.Now()
	return report.Build("https://www.example.com/", runs, now.Add(-47*time.Second), 47*time.Second, results)
}

// Package experiment runs the controlled comparison: every variant of the page
// is rendered Runs times, each trial in its own isolated browser session, and
// the samples are collected per variant in trial order.
package experiment

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/wesleyorama2/hintprobe/internal/fetch"
	"github.com/wesleyorama2/hintprobe/internal/hints"
	"github.com/wesleyorama2/hintprobe/internal/render"
	"github.com/wesleyorama2/hintprobe/internal/timing"
)

// Fetcher retrieves the original markup of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Document, error)
}

// Launcher starts the renderer used for the whole experiment.
type Launcher func(ctx context.Context) (render.Renderer, error)

// Options configures an experiment.
type Options struct {
	// Runs is the number of trials per variant. Must be at least 1.
	Runs int

	// LoadTimeout bounds each trial's page load.
	LoadTimeout time.Duration

	// Concurrency is the number of trials of one variant allowed to run at
	// the same time. 1 runs trials strictly one after another.
	Concurrency int

	// Interval is the minimum spacing between trial starts.
	Interval time.Duration

	// Types restricts the hint types neutralized and located. Empty means all.
	Types []hints.Type
}

// Experiment orchestrates both variants of one page.
//
// Example usage:
//
//	exp, _ := experiment.New(fetch.NewClient(), launch, experiment.Options{Runs: 5}, nil)
//	results, err := exp.Run(ctx, "https://example.com")
type Experiment struct {
	fetcher Fetcher
	launch  Launcher
	opts    Options
	logger  *slog.Logger
}

// New creates an experiment. It fails with ErrNoTrials when opts.Runs < 1.
func New(fetcher Fetcher, launch Launcher, opts Options, logger *slog.Logger) (*Experiment, error) {
	if opts.Runs < 1 {
		return nil, ErrNoTrials
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{fetcher: fetcher, launch: launch, opts: opts, logger: logger}, nil
}

// Run fetches url, builds both variants, starts the renderer and runs all
// trials. Either every trial of both variants succeeds or an error is
// returned and no results are.
func (e *Experiment) Run(ctx context.Context, url string) (*timing.Results, error) {
	doc, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	variants := hints.BuildVariants(doc.URL, doc.Body, e.opts.Types)
	for i := range variants {
		variants[i].ContentType = doc.ContentType
	}
	e.logger.Info("markup fetched",
		slog.String("url", doc.URL),
		slog.Int("bytes", len(doc.Body)),
		slog.Int("hints", hints.Count(doc.Body, e.opts.Types)),
	)

	renderer, err := e.launch(ctx)
	if err != nil {
		return nil, &SessionError{Trial: -1, Err: err}
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			e.logger.Warn("renderer shutdown failed", slog.String("error", err.Error()))
		}
	}()

	return e.RunVariants(ctx, renderer, variants)
}

// RunVariants runs every variant to completion, one after another, against
// an already started renderer.
func (e *Experiment) RunVariants(ctx context.Context, renderer render.Renderer, variants []hints.Variant) (*timing.Results, error) {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if e.opts.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(e.opts.Interval), 1)
	}

	results := &timing.Results{}
	for _, v := range variants {
		start := time.Now()
		e.logger.Info("running variant",
			slog.String("variant", v.Name),
			slog.Int("runs", e.opts.Runs),
		)

		set, err := e.runVariant(ctx, renderer, v, limiter)
		if err != nil {
			return nil, err
		}

		if err := results.SetVariant(v.Name, set); err != nil {
			return nil, err
		}

		e.logger.Info("variant completed",
			slog.String("variant", v.Name),
			slog.Duration("duration", time.Since(start)),
		)
	}
	return results, nil
}

func (e *Experiment) runVariant(ctx context.Context, renderer render.Renderer, v hints.Variant, limiter *rate.Limiter) (timing.VariantResultSet, error) {
	trialOpts := TrialOptions{LoadTimeout: e.opts.LoadTimeout, Types: e.opts.Types}

	if e.opts.Concurrency == 1 {
		set := make(timing.VariantResultSet, 0, e.opts.Runs)
		for i := 0; i < e.opts.Runs; i++ {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
			sample, err := RunTrial(ctx, renderer, v, i, trialOpts, e.logger)
			if err != nil {
				return nil, err
			}
			set = append(set, sample)
		}
		return set, nil
	}

	// Each goroutine owns one slot, so trial order is kept without locking.
	set := make(timing.VariantResultSet, e.opts.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)

	var waitErr error
	for i := 0; i < e.opts.Runs; i++ {
		if waitErr = limiter.Wait(gctx); waitErr != nil {
			break
		}
		g.Go(func() error {
			sample, err := RunTrial(gctx, renderer, v, i, trialOpts, e.logger)
			if err != nil {
				return err
			}
			set[i] = sample
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if waitErr != nil {
		return nil, waitErr
	}
	return set, nil
}

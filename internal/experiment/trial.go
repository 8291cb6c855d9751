package experiment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wesleyorama2/hintprobe/internal/hints"
	"github.com/wesleyorama2/hintprobe/internal/render"
	"github.com/wesleyorama2/hintprobe/internal/timing"
)

// TrialOptions configures a single trial.
type TrialOptions struct {
	// LoadTimeout bounds the page load.
	LoadTimeout time.Duration

	// Types restricts the hint types located in the page. Empty means all.
	Types []hints.Type
}

// RunTrial renders variant once in a fresh isolated session and extracts one
// sample. trial is the 0-based trial index, used only in errors and logs.
//
// The session is always closed before RunTrial returns.
func RunTrial(ctx context.Context, r render.Renderer, variant hints.Variant, trial int, opts TrialOptions, logger *slog.Logger) (timing.TrialSample, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("variant", variant.Name), slog.Int("trial", trial+1))

	session, err := r.NewSession(ctx)
	if err != nil {
		return timing.TrialSample{}, &SessionError{Variant: variant.Name, Trial: trial, Err: err}
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("session teardown failed", slog.String("error", err.Error()))
		}
	}()

	wait := render.WaitPolicy{Timeout: opts.LoadTimeout}
	start := time.Now()
	log.Debug("trial started")

	if err := session.Load(ctx, render.Content{URL: variant.URL, HTML: variant.Body, ContentType: variant.ContentType}, wait); err != nil {
		if errors.Is(err, render.ErrLoadTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return timing.TrialSample{}, &TrialTimeoutError{
				Variant: variant.Name,
				Trial:   trial,
				Timeout: wait.GetTimeout(),
				Err:     err,
			}
		}
		return timing.TrialSample{}, &TrialError{Variant: variant.Name, Trial: trial, Op: "load", Err: err}
	}

	payload, err := session.Evaluate(ctx, render.ExtractorSpec{RelTypes: hints.ExtendedRelTypes(opts.Types)})
	if err != nil {
		return timing.TrialSample{}, &TrialError{Variant: variant.Name, Trial: trial, Op: "extract", Err: err}
	}

	sample, err := DecodeSample(payload)
	if err != nil {
		return timing.TrialSample{}, &TrialError{Variant: variant.Name, Trial: trial, Op: "decode", Err: err}
	}

	log.Debug("trial completed",
		slog.Duration("duration", time.Since(start)),
		slog.Int("hints", len(sample.Resources)),
		slog.Float64("dom", sample.Overall.DOMContentLoaded),
		slog.Float64("load", sample.Overall.Load),
	)

	return sample, nil
}

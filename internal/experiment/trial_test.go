package experiment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/hintprobe/internal/hints"
	"github.com/wesleyorama2/hintprobe/internal/render"
	"github.com/wesleyorama2/hintprobe/internal/render/rendertest"
	"github.com/wesleyorama2/hintprobe/internal/timing"
)

var testVariant = hints.Variant{
	Name: timing.VariantWithHints,
	URL:  "https://example.com/",
	Body: `<link rel="preload" href="/app.js">`,
}

func TestRunTrial(t *testing.T) {
	renderer := &rendertest.Renderer{
		Payload: func(n int, content render.Content) ([]byte, error) {
			return rendertest.Payload{
				Hints:      []rendertest.Hint{{Href: "https://example.com/app.js", Rel: "preload", Timing: rendertest.ResourceTiming(1, 2, 3)}},
				Navigation: rendertest.Navigation(50, 75),
			}.JSON(), nil
		},
	}

	sample, err := RunTrial(context.Background(), renderer, testVariant, 0, TrialOptions{}, nil)
	require.NoError(t, err)

	require.Len(t, sample.Resources, 1)
	assert.InDelta(t, 3, sample.Resources[0].TTFB, 1e-9)
	assert.InDelta(t, 75, sample.Overall.Load, 1e-9)

	loads := renderer.Loads()
	require.Len(t, loads, 1)
	assert.Equal(t, testVariant.URL, loads[0].URL)
	assert.Equal(t, testVariant.Body, loads[0].HTML)
	assert.Equal(t, 0, renderer.Open(), "session must be closed")
}

func TestRunTrial_SessionFailure(t *testing.T) {
	renderer := &rendertest.Renderer{
		SessionErr: func(n int) error { return errors.New("no targets") },
	}

	_, err := RunTrial(context.Background(), renderer, testVariant, 2, TrialOptions{}, nil)

	var sessErr *SessionError
	require.ErrorAs(t, err, &sessErr)
	assert.Equal(t, timing.VariantWithHints, sessErr.Variant)
	assert.Equal(t, 2, sessErr.Trial)
	assert.Contains(t, err.Error(), "trial 3")
}

func TestRunTrial_Timeout(t *testing.T) {
	renderer := &rendertest.Renderer{
		LoadErr: func(n int, content render.Content) error {
			return fmt.Errorf("%w: %s", render.ErrLoadTimeout, content.URL)
		},
	}

	_, err := RunTrial(context.Background(), renderer, testVariant, 0, TrialOptions{LoadTimeout: 3 * time.Second}, nil)

	var timeoutErr *TrialTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 3*time.Second, timeoutErr.Timeout)
	assert.ErrorIs(t, err, render.ErrLoadTimeout)
	assert.Equal(t, 0, renderer.Open(), "session must be closed on error")
}

func TestRunTrial_LoadFailure(t *testing.T) {
	renderer := &rendertest.Renderer{
		LoadErr: func(n int, content render.Content) error { return errors.New("net::ERR_NAME_NOT_RESOLVED") },
	}

	_, err := RunTrial(context.Background(), renderer, testVariant, 0, TrialOptions{}, nil)

	var trialErr *TrialError
	require.ErrorAs(t, err, &trialErr)
	assert.Equal(t, "load", trialErr.Op)
	assert.Equal(t, 0, renderer.Open())
}

func TestRunTrial_BadPayload(t *testing.T) {
	renderer := &rendertest.Renderer{
		Payload: func(n int, content render.Content) ([]byte, error) {
			return []byte(`{"hints": []}`), nil
		},
	}

	_, err := RunTrial(context.Background(), renderer, testVariant, 0, TrialOptions{}, nil)

	var trialErr *TrialError
	require.ErrorAs(t, err, &trialErr)
	assert.Equal(t, "decode", trialErr.Op)
	assert.Equal(t, 0, renderer.Open())
}

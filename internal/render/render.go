// Package render defines the browser capability the experiment needs and a
// Chrome DevTools Protocol implementation of it.
//
// A Renderer is a long-lived browser process. Each trial opens its own Session,
// which is an isolated browser context with no cookies, cache or storage
// shared with any other session.
package render

import (
	"context"
	"errors"
	"time"
)

// ErrLoadTimeout is returned by Session.Load when the page does not reach the
// load event within WaitPolicy.Timeout.
var ErrLoadTimeout = errors.New("page load timed out")

// Renderer creates isolated rendering sessions.
type Renderer interface {
	// NewSession opens a fresh isolated session with the network cache disabled.
	NewSession(ctx context.Context) (Session, error)

	// Close releases the browser process. Sessions must be closed first.
	Close() error
}

// Session is one isolated rendering of one page.
type Session interface {
	// Load renders content and blocks until the load event fires or the
	// wait policy's timeout expires.
	Load(ctx context.Context, content Content, wait WaitPolicy) error

	// Evaluate runs the hint/timing extractor described by spec in the page
	// and returns its JSON payload.
	Evaluate(ctx context.Context, spec ExtractorSpec) ([]byte, error)

	// Close tears the session down.
	Close() error
}

// DefaultContentType is served when Content.ContentType is empty.
const DefaultContentType = "text/html; charset=utf-8"

// Content is a page body served at URL.
type Content struct {
	URL  string
	HTML string

	// ContentType is the Content-Type header the body was originally served
	// with. It carries the charset the browser decodes HTML with.
	ContentType string
}

// GetContentType returns the content type or DefaultContentType.
func (c Content) GetContentType() string {
	if c.ContentType == "" {
		return DefaultContentType
	}
	return c.ContentType
}

// WaitPolicy bounds a page load.
type WaitPolicy struct {
	// Timeout is the maximum time to wait for the load event.
	Timeout time.Duration
}

// DefaultLoadTimeout is used when WaitPolicy.Timeout is zero.
const DefaultLoadTimeout = 60 * time.Second

// GetTimeout returns the timeout or DefaultLoadTimeout.
func (w WaitPolicy) GetTimeout() time.Duration {
	if w.Timeout <= 0 {
		return DefaultLoadTimeout
	}
	return w.Timeout
}

// ExtractorSpec describes what the in-page extractor collects.
type ExtractorSpec struct {
	// RelTypes are the rel tokens (active and disabled forms) whose <link>
	// elements are located.
	RelTypes []string
}

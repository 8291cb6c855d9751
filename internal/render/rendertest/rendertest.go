// Package rendertest provides a scripted in-memory Renderer for tests.
package rendertest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/wesleyorama2/hintprobe/internal/render"
)

// Hint is one located link in an extractor payload. A nil Timing means the
// resource was never fetched.
type Hint struct {
	Href   string             `json:"href"`
	Rel    string             `json:"rel"`
	Index  int                `json:"index"`
	Timing map[string]float64 `json:"timing"`
}

// Payload mirrors the JSON the in-page extractor returns.
type Payload struct {
	Hints      []Hint             `json:"hints"`
	Navigation map[string]float64 `json:"navigation"`
}

// JSON encodes the payload.
func (p Payload) JSON() []byte {
	if p.Hints == nil {
		p.Hints = []Hint{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	return data
}

// Navigation returns navigation-entry fields for the given milestones.
func Navigation(dom, load float64) map[string]float64 {
	return map[string]float64{
		"startTime":                0,
		"domContentLoadedEventEnd": dom,
		"loadEventEnd":             load,
	}
}

// ResourceTiming returns resource-entry fields that yield the given dns, tcp
// and ttfb durations.
func ResourceTiming(dns, tcp, ttfb float64) map[string]float64 {
	const start = 100
	return map[string]float64{
		"startTime":         start,
		"domainLookupStart": start,
		"domainLookupEnd":   start + dns,
		"connectStart":      start + dns,
		"connectEnd":        start + dns + tcp,
		"responseStart":     start + ttfb,
	}
}

// Renderer is a scripted render.Renderer. The hooks receive the 0-based
// session number and may be nil.
type Renderer struct {
	// Payload produces the extractor payload for a session.
	Payload func(n int, content render.Content) ([]byte, error)

	// LoadErr fails a session's Load when it returns non-nil.
	LoadErr func(n int, content render.Content) error

	// SessionErr fails NewSession when it returns non-nil.
	SessionErr func(n int) error

	mu       sync.Mutex
	sessions int
	open     int
	maxOpen  int
	closed   bool
	loads    []render.Content
}

// NewSession implements render.Renderer.
func (r *Renderer) NewSession(ctx context.Context) (render.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errors.New("renderer closed")
	}
	n := r.sessions
	r.sessions++
	if r.SessionErr != nil {
		if err := r.SessionErr(n); err != nil {
			return nil, err
		}
	}
	r.open++
	if r.open > r.maxOpen {
		r.maxOpen = r.open
	}
	return &session{renderer: r, n: n}, nil
}

// Close implements render.Renderer.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether Close was called.
func (r *Renderer) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Open returns the number of sessions not yet closed.
func (r *Renderer) Open() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open
}

// MaxOpen returns the highest number of simultaneously open sessions.
func (r *Renderer) MaxOpen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxOpen
}

// Sessions returns how many sessions were requested.
func (r *Renderer) Sessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions
}

// Loads returns the content of every Load call in call order.
func (r *Renderer) Loads() []render.Content {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]render.Content, len(r.loads))
	copy(out, r.loads)
	return out
}

type session struct {
	renderer *Renderer
	n        int
	content  render.Content
	closed   bool
}

func (s *session) Load(ctx context.Context, content render.Content, wait render.WaitPolicy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.renderer.mu.Lock()
	s.renderer.loads = append(s.renderer.loads, content)
	s.renderer.mu.Unlock()

	s.content = content
	if s.renderer.LoadErr != nil {
		return s.renderer.LoadErr(s.n, content)
	}
	return nil
}

func (s *session) Evaluate(ctx context.Context, spec render.ExtractorSpec) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.renderer.Payload == nil {
		return Payload{Navigation: Navigation(0, 0)}.JSON(), nil
	}
	return s.renderer.Payload(s.n, s.content)
}

func (s *session) Close() error {
	if s.closed {
		return errors.New("session already closed")
	}
	s.closed = true
	s.renderer.mu.Lock()
	s.renderer.open--
	s.renderer.mu.Unlock()
	return nil
}

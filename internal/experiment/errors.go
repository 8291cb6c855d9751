package experiment

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoTrials is returned when the configured trial count is below 1.
var ErrNoTrials = errors.New("trial count must be at least 1")

// FetchError means the original markup could not be retrieved. No trial runs.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SessionError means the renderer or one of its sessions could not be
// created. Trial is -1 when the renderer itself failed to start.
type SessionError struct {
	Variant string
	Trial   int
	Err     error
}

func (e *SessionError) Error() string {
	if e.Trial < 0 {
		return fmt.Sprintf("renderer unavailable: %v", e.Err)
	}
	return fmt.Sprintf("%s trial %d: failed to create session: %v", e.Variant, e.Trial+1, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// TrialTimeoutError means a trial's page did not reach the load event in time.
type TrialTimeoutError struct {
	Variant string
	Trial   int
	Timeout time.Duration
	Err     error
}

func (e *TrialTimeoutError) Error() string {
	return fmt.Sprintf("%s trial %d: page did not load within %s", e.Variant, e.Trial+1, e.Timeout)
}

func (e *TrialTimeoutError) Unwrap() error { return e.Err }

// TrialError is any other failure inside a trial.
type TrialError struct {
	Variant string
	Trial   int
	Op      string
	Err     error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("%s trial %d: %s: %v", e.Variant, e.Trial+1, e.Op, e.Err)
}

func (e *TrialError) Unwrap() error { return e.Err }

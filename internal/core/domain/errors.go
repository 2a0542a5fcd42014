package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBreakerOpen is returned when a circuit breaker rejects a call without
// invoking the wrapped operation. Callers can distinguish "provider is
// cooling down" from "provider call failed now".
var ErrBreakerOpen = errors.New("circuit breaker is open")

// ErrNoProviders is the one terminal discovery error: zero active providers
// is an operator-facing configuration problem, not a degradation.
var ErrNoProviders = errors.New("no active providers detected")

// ErrNoCandidates is returned when a race is started with an empty
// candidate list.
var ErrNoCandidates = errors.New("race requires at least one candidate")

// ErrRaceCancelled is the failure reason recorded for candidates aborted by
// an external race cancellation.
var ErrRaceCancelled = errors.New("race cancelled")

// UpstreamError wraps a non-2xx response from a provider endpoint so the
// adapter can inspect the status and raw body.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode, string(e.Body))
}

// CandidateFailure records one race candidate's individual failure reason.
type CandidateFailure struct {
	Candidate string
	Err       error
}

func (f CandidateFailure) String() string {
	return fmt.Sprintf("%s: %v", f.Candidate, f.Err)
}

// RaceError aggregates every candidate's failure when a race produces no
// winner. It names exactly as many reasons as there were candidates.
type RaceError struct {
	Name     string
	Failures []CandidateFailure
}

func (e *RaceError) Error() string {
	reasons := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		reasons = append(reasons, f.String())
	}
	return fmt.Sprintf("race %s: all %d candidates failed: %s",
		e.Name, len(e.Failures), strings.Join(reasons, "; "))
}

// ExhaustedError is raised after every fallback wave of a race has failed.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d fallback attempts exhausted: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

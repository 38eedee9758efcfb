package resolver

import (
	"errors"
	"strings"
)

// Strategy failures. Each is recorded as an Attempt; only the first one
// recorded becomes the Cause of a ResolutionError.
var (
	ErrNoActiveDocument         = errors.New("no active document")
	ErrDocumentOutsideWorkspace = errors.New("document outside workspace")
	ErrMarkerNotFound           = errors.New("marker not found")
	ErrMarkerOutsideWorkspace   = errors.New("marker found outside workspace")
	ErrNoRememberedRoot         = errors.New("no remembered root")
	ErrRememberedRootStale      = errors.New("remembered root no longer contains marker")
	ErrWorkspaceMarkerAbsent    = errors.New("workspace root does not contain marker")
)

// Attempt is one failed strategy in the fallback chain.
type Attempt struct {
	Strategy Strategy
	Err      error
}

// ResolutionError is returned when every strategy failed. Cause is the
// earliest, most specific diagnosis: the active-document failure.
type ResolutionError struct {
	Cause    error
	Attempts []Attempt
}

func (e *ResolutionError) Error() string {
	return "could not determine project root: " + e.Cause.Error()
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

// Trail renders every attempt, e.g. "document: no active document; remembered: ...".
func (e *ResolutionError) Trail() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, string(a.Strategy)+": "+a.Err.Error())
	}
	return strings.Join(parts, "; ")
}

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCreatorNotFound means the member referenced as course creator does not exist.
	ErrCreatorNotFound = errors.New("creator not found")
	// ErrInsufficientCredits means a non-admin member has no credits left to spend.
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrSlugExhausted means slug allocation hit the retry bound without finding a free slug.
	ErrSlugExhausted = errors.New("slug allocation exhausted")
	// ErrQuotaExceeded means the generative provider rejected the call with a rate limit.
	ErrQuotaExceeded = errors.New("upstream quota exceeded")
)

// MalformedAIResponseError is returned when model output cannot be parsed into
// the expected course shape. Raw carries the untouched model text for diagnostics.
type MalformedAIResponseError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *MalformedAIResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed ai response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed ai response: %s", e.Reason)
}

func (e *MalformedAIResponseError) Unwrap() error { return e.Err }

// IsMalformedAIResponse reports whether err is or wraps a
// MalformedAIResponseError and returns it when so.
func IsMalformedAIResponse(err error) (*MalformedAIResponseError, bool) {
	var target *MalformedAIResponseError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

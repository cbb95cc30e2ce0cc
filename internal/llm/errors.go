package llm

import (
	"fmt"

	"github.com/fernwell/ledgerchat/internal/common"
)

// FailureKind classifies why a provider call failed.
type FailureKind string

// Failure kinds.
const (
	FailureNetwork   FailureKind = "network"
	FailureAuth      FailureKind = "auth"
	FailureRateLimit FailureKind = "rate_limit"
	FailureStatus    FailureKind = "status"
	FailureMalformed FailureKind = "malformed"
)

// ProviderError is the typed failure returned by a client. The gateway
// falls back once on any kind; the kind decides which sentinel the
// error unwraps to.
type ProviderError struct {
	Err      error
	Provider string
	Model    string
	Kind     FailureKind
	Status   int
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s/%s: %s failure (status %d): %v", e.Provider, e.Model, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s/%s: %s failure: %v", e.Provider, e.Model, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	switch e.Kind {
	case FailureRateLimit:
		return common.ErrRateLimit
	case FailureMalformed:
		return common.ErrMalformedOutput
	default:
		return common.ErrProviderUnavailable
	}
}

// FallbackError aggregates the primary and fallback failures into the
// single error the caller sees. No further attempts follow it.
type FallbackError struct {
	Primary  error
	Fallback error
	Task     string
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("task %q failed on primary and fallback: primary: %v; fallback: %v", e.Task, e.Primary, e.Fallback)
}

func (e *FallbackError) Unwrap() error {
	return common.ErrProviderUnavailable
}

package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fernwell/ledgerchat/internal/common"
)

func TestProviderErrorUnwrapsToSentinel(t *testing.T) {
	tests := []struct {
		name     string
		kind     FailureKind
		sentinel error
	}{
		{name: "rate limit", kind: FailureRateLimit, sentinel: common.ErrRateLimit},
		{name: "malformed body", kind: FailureMalformed, sentinel: common.ErrMalformedOutput},
		{name: "network", kind: FailureNetwork, sentinel: common.ErrProviderUnavailable},
		{name: "auth", kind: FailureAuth, sentinel: common.ErrProviderUnavailable},
		{name: "bad status", kind: FailureStatus, sentinel: common.ErrProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ProviderError{
				Provider: "openai",
				Model:    "gpt-4o-mini",
				Kind:     tt.kind,
				Err:      errors.New("boom"),
			}
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestFallbackErrorUnwrapsToUnavailable(t *testing.T) {
	err := &FallbackError{
		Task:     TaskExtract,
		Primary:  errors.New("primary down"),
		Fallback: errors.New("fallback down"),
	}
	assert.ErrorIs(t, err, common.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "primary down")
	assert.Contains(t, err.Error(), "fallback down")
}

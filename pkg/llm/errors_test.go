package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantType      ErrorType
		wantRetryable bool
	}{
		{"nil", nil, "", false},
		{"401", errors.New("status code 401: invalid api key"), ErrorTypeAuth, false},
		{"429", errors.New("status code 429: Too Many Requests"), ErrorTypeRateLimit, true},
		{"quota", errors.New("you exceeded your current quota"), ErrorTypeRateLimit, true},
		{"connection refused", errors.New("dial tcp: connection refused"), ErrorTypeEndpoint, false},
		{"503", errors.New("status code 503: Service Unavailable"), ErrorTypeServer, true},
		{"overloaded", errors.New("overloaded_error: Overloaded"), ErrorTypeServer, true},
		{"deadline", context.DeadlineExceeded, ErrorTypeTimeout, true},
		{"wrapped deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), ErrorTypeTimeout, true},
		{"unknown", errors.New("something odd"), ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if tt.err == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantRetryable, got.Retryable)
			assert.ErrorIs(t, got, tt.err, "cause must be preserved for errors.Is")
		})
	}
}

func TestClassifyError_PassesThroughClassified(t *testing.T) {
	original := NewError(ErrorTypeAuth, "authentication failed", false, errors.New("401"))
	got := ClassifyError(fmt.Errorf("wrapped: %w", original))
	assert.Same(t, original, got)
}

func TestErrorString(t *testing.T) {
	err := NewError(ErrorTypeRateLimit, "rate limited", true, errors.New("429"))
	assert.Contains(t, err.Error(), "rate_limit")
	assert.Contains(t, err.Error(), "429")
}

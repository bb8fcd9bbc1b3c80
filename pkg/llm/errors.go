package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies a generation failure.
type ErrorType string

const (
	ErrorTypeAuth      ErrorType = "auth"
	ErrorTypeRateLimit ErrorType = "rate_limit"
	ErrorTypeTimeout   ErrorType = "timeout"
	ErrorTypeEndpoint  ErrorType = "endpoint"
	ErrorTypeServer    ErrorType = "server"
	ErrorTypeEmpty     ErrorType = "empty_response"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// Error is a structured generation-service error. Retryable marks failures
// a caller could reasonably resubmit later; the engine itself never retries.
type Error struct {
	Type      ErrorType
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a structured generation error.
func NewError(errType ErrorType, message string, retryable bool, cause error) *Error {
	return &Error{Type: errType, Message: message, Retryable: retryable, Cause: cause}
}

// ClassifyError categorizes a transport error from either provider into a
// structured Error. Already-classified errors pass through unchanged.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(ErrorTypeTimeout, "generation call timed out", true, err)
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errStr, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key") || strings.Contains(lower, "authentication"):
		return NewError(ErrorTypeAuth, "authentication failed", false, err)
	case strings.Contains(errStr, "429") || strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "quota"):
		return NewError(ErrorTypeRateLimit, "rate limited", true, err)
	case strings.Contains(errStr, "404") || strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "connection refused"):
		return NewError(ErrorTypeEndpoint, "endpoint unreachable", false, err)
	case strings.Contains(errStr, "500") || strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") || strings.Contains(lower, "overloaded"):
		return NewError(ErrorTypeServer, "generation service error", true, err)
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline"):
		return NewError(ErrorTypeTimeout, "generation call timed out", true, err)
	default:
		return NewError(ErrorTypeUnknown, "generation call failed", false, err)
	}
}

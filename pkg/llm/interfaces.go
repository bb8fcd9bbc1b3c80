// Package llm provides clients for the external text-generation service.
package llm

import "context"

// Client is the interface the rest of the engine programs against. Use it
// for dependency injection to enable mocking in tests.
type Client interface {
	// GenerateResponse sends one prompt and returns the model's text reply.
	// It performs no retries; retry policy belongs to callers.
	GenerateResponse(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error)

	// Model returns the configured model name.
	Model() string
}

// Compile-time interface checks.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*AnthropicClient)(nil)
	_ Client = (*MockClient)(nil)
)

package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// Provider names accepted by NewFromProvider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// NewFromProvider creates the client implementation selected by provider.
// "openai" covers any OpenAI-compatible endpoint (the default);
// "anthropic" uses the Anthropic Messages API.
func NewFromProvider(provider string, cfg *Config, logger *zap.Logger) (Client, error) {
	switch provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(cfg, logger)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}

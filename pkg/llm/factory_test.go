package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFromProvider(t *testing.T) {
	cfg := &Config{
		Endpoint: "https://api.openai.com/v1",
		Model:    "gpt-4o",
		APIKey:   "test-key",
	}

	t.Run("openai", func(t *testing.T) {
		client, err := NewFromProvider(ProviderOpenAI, cfg, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &OpenAIClient{}, client)
		assert.Equal(t, "gpt-4o", client.Model())
	})

	t.Run("default is openai", func(t *testing.T) {
		client, err := NewFromProvider("", cfg, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &OpenAIClient{}, client)
	})

	t.Run("anthropic", func(t *testing.T) {
		client, err := NewFromProvider(ProviderAnthropic, &Config{Model: "claude-sonnet-4-20250514", APIKey: "k"}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &AnthropicClient{}, client)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewFromProvider("gemini", cfg, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestNewOpenAIClient_Validation(t *testing.T) {
	_, err := NewOpenAIClient(&Config{Model: "gpt-4o"}, zap.NewNop())
	assert.Error(t, err, "endpoint is required")

	_, err = NewOpenAIClient(&Config{Endpoint: "https://api.openai.com/v1"}, zap.NewNop())
	assert.Error(t, err, "model is required")
}

func TestNewAnthropicClient_Validation(t *testing.T) {
	_, err := NewAnthropicClient(&Config{Model: "claude-sonnet-4-20250514"}, zap.NewNop())
	assert.Error(t, err, "api key is required")
}

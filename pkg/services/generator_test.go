package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sqlscout-io/sqlscout-engine/pkg/apperrors"
	"github.com/sqlscout-io/sqlscout-engine/pkg/llm"
	"github.com/sqlscout-io/sqlscout-engine/pkg/prompts"
)

func TestSQLGeneratorGenerate(t *testing.T) {
	t.Run("extracts statement from fenced response", func(t *testing.T) {
		client := &llm.MockClient{
			GenerateResponseFunc: func(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
				return "Here you go:\n```sql\nSELECT name FROM users;\n```", nil
			},
		}
		gen := NewSQLGenerator(client, 0.1, zap.NewNop())

		statement, err := gen.Generate(context.Background(), "list user names")
		require.NoError(t, err)
		assert.Equal(t, "SELECT name FROM users", statement)
		assert.Equal(t, prompts.SystemMessage, client.LastSystemMessage)
	})

	t.Run("plain statement passes through normalized", func(t *testing.T) {
		client := &llm.MockClient{
			GenerateResponseFunc: func(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
				return "  SELECT COUNT(*) FROM orders;  ", nil
			},
		}
		gen := NewSQLGenerator(client, 0.1, zap.NewNop())

		statement, err := gen.Generate(context.Background(), "count orders")
		require.NoError(t, err)
		assert.Equal(t, "SELECT COUNT(*) FROM orders", statement)
	})

	t.Run("upstream failure wraps ErrUpstream", func(t *testing.T) {
		client := &llm.MockClient{
			GenerateResponseFunc: func(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
				return "", errors.New("429 rate limit exceeded")
			},
		}
		gen := NewSQLGenerator(client, 0.1, zap.NewNop())

		_, err := gen.Generate(context.Background(), "anything")
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
	})

	t.Run("prose-only response maps to no-statement error", func(t *testing.T) {
		client := &llm.MockClient{
			GenerateResponseFunc: func(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
				return "I cannot answer that without more schema context.", nil
			},
		}
		gen := NewSQLGenerator(client, 0.1, zap.NewNop())

		_, err := gen.Generate(context.Background(), "vague ask")
		assert.ErrorIs(t, err, apperrors.ErrNoStatementFound)
	})
}

package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sqlscout-io/sqlscout-engine/pkg/apperrors"
	"github.com/sqlscout-io/sqlscout-engine/pkg/llm"
	"github.com/sqlscout-io/sqlscout-engine/pkg/prompts"
	sqlextract "github.com/sqlscout-io/sqlscout-engine/pkg/sql"
)

// SQLGenerator turns an assembled prompt into a single normalized SQL
// statement via the configured model.
type SQLGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type sqlGenerator struct {
	client      llm.Client
	temperature float64
	logger      *zap.Logger
}

// NewSQLGenerator creates a generator around an LLM client.
func NewSQLGenerator(client llm.Client, temperature float64, logger *zap.Logger) SQLGenerator {
	return &sqlGenerator{
		client:      client,
		temperature: temperature,
		logger:      logger.Named("generator"),
	}
}

func (g *sqlGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := g.client.GenerateResponse(ctx, prompt, prompts.SystemMessage, g.temperature)
	if err != nil {
		classified := llm.ClassifyError(err)
		g.logger.Warn("Generation call failed",
			zap.String("model", g.client.Model()),
			zap.Error(classified))
		return "", fmt.Errorf("%w: %v", apperrors.ErrUpstream, classified)
	}

	statement, err := sqlextract.ExtractStatement(response)
	if err != nil {
		if errors.Is(err, sqlextract.ErrNoStatement) || errors.Is(err, sqlextract.ErrMultipleStatements) {
			g.logger.Warn("Model response contained no usable statement",
				zap.String("model", g.client.Model()),
				zap.Int("response_bytes", len(response)))
			return "", fmt.Errorf("%w: %v", apperrors.ErrNoStatementFound, err)
		}
		return "", err
	}

	g.logger.Info("Generated SQL statement",
		zap.String("model", g.client.Model()),
		zap.Int("statement_bytes", len(statement)))
	return statement, nil
}

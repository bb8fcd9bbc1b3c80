package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sqlscout-io/sqlscout-engine/pkg/apperrors"
	"github.com/sqlscout-io/sqlscout-engine/pkg/logging"
	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
	"github.com/sqlscout-io/sqlscout-engine/pkg/prompts"
	sqlcheck "github.com/sqlscout-io/sqlscout-engine/pkg/sql"
	"github.com/sqlscout-io/sqlscout-engine/pkg/warehouse"
)

// PipelineService orchestrates request -> prompt -> generation -> dry run.
// The contract is partial success: once a statement has been generated it is
// always returned, even when the dry run stage cannot be completed.
type PipelineService interface {
	// GenerateAndValidate runs the full pipeline. Failures are reported in
	// the result's Error field rather than as a Go error; the transport
	// layer decides status codes from the stage and kind.
	GenerateAndValidate(ctx context.Context, ownerID uuid.UUID, req *models.PipelineRequest) *models.PipelineResult

	// DryRun cost-checks a caller-supplied statement without generation.
	DryRun(ctx context.Context, ownerID, connectionID uuid.UUID, statement string) (*models.DryRunResult, error)
}

type pipelineService struct {
	connections   ConnectionService
	schema        SchemaService
	assembler     *prompts.Assembler
	generator     SQLGenerator
	gateways      warehouse.Factory
	genTimeout    time.Duration
	dryRunTimeout time.Duration
	logger        *zap.Logger
}

// NewPipelineService creates the orchestrator.
func NewPipelineService(
	connections ConnectionService,
	schema SchemaService,
	assembler *prompts.Assembler,
	generator SQLGenerator,
	gateways warehouse.Factory,
	genTimeout, dryRunTimeout time.Duration,
	logger *zap.Logger,
) PipelineService {
	return &pipelineService{
		connections:   connections,
		schema:        schema,
		assembler:     assembler,
		generator:     generator,
		gateways:      gateways,
		genTimeout:    genTimeout,
		dryRunTimeout: dryRunTimeout,
		logger:        logger.Named("pipeline"),
	}
}

func (s *pipelineService) GenerateAndValidate(ctx context.Context, ownerID uuid.UUID, req *models.PipelineRequest) *models.PipelineResult {
	result := &models.PipelineResult{}

	if strings.TrimSpace(req.UserRequest) == "" {
		result.Error = stageError(models.StageConfig, models.KindValidationError, "user_request is required")
		return result
	}

	conn, err := s.connections.Get(ctx, ownerID, req.ConnectionID)
	if err != nil {
		result.Error = s.classify(models.StageConfig, err)
		return result
	}

	objects, err := s.schema.ContextForRequest(ctx, ownerID, req.ConnectionID, req.ObjectNames)
	if err != nil {
		result.Error = s.classify(models.StageConfig, err)
		return result
	}

	prompt := s.assembler.Assemble(req.UserRequest, conn.Name, objects)

	genCtx, cancelGen := context.WithTimeout(ctx, s.genTimeout)
	statement, err := s.generator.Generate(genCtx, prompt)
	cancelGen()
	if err != nil {
		result.Error = s.classify(models.StageGeneration, err)
		return result
	}
	result.GeneratedSQL = &statement

	// From here on the generated statement is part of the response no
	// matter what happens to the dry run.
	cred, err := s.connections.MaterializeCredential(ctx, ownerID, req.ConnectionID)
	if err != nil {
		result.Error = s.classify(models.StageDryRun, err)
		return result
	}

	gw, err := s.gateways.Open(ctx, cred)
	if err != nil {
		result.Error = s.classify(models.StageDryRun, err)
		return result
	}
	defer gw.Close()

	dryCtx, cancelDry := context.WithTimeout(ctx, s.dryRunTimeout)
	dryRun, err := gw.DryRun(dryCtx, statement)
	cancelDry()
	if err != nil {
		result.Error = s.classify(models.StageDryRun, err)
		return result
	}
	result.DryRun = dryRun

	s.logger.Info("Pipeline completed",
		zap.String("connection_id", req.ConnectionID.String()),
		zap.Bool("valid", dryRun.Valid))
	return result
}

func (s *pipelineService) DryRun(ctx context.Context, ownerID, connectionID uuid.UUID, statement string) (*models.DryRunResult, error) {
	normalized := sqlcheck.ValidateAndNormalize(statement)
	if normalized.Error != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, normalized.Error)
	}
	if normalized.NormalizedSQL == "" {
		return nil, fmt.Errorf("%w: sql statement is required", apperrors.ErrValidation)
	}

	cred, err := s.connections.MaterializeCredential(ctx, ownerID, connectionID)
	if err != nil {
		return nil, err
	}

	gw, err := s.gateways.Open(ctx, cred)
	if err != nil {
		return nil, err
	}
	defer gw.Close()

	dryCtx, cancel := context.WithTimeout(ctx, s.dryRunTimeout)
	defer cancel()
	return gw.DryRun(dryCtx, normalized.NormalizedSQL)
}

// classify maps a stage failure to the wire-level error taxonomy.
func (s *pipelineService) classify(stage models.Stage, err error) *models.StageError {
	kind := models.KindUpstreamError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		kind = models.KindValidationError
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrCredentialCorrupt),
		errors.Is(err, apperrors.ErrCredentialsKeyMismatch):
		kind = models.KindConfigError
	case errors.Is(err, apperrors.ErrNoStatementFound):
		kind = models.KindNoStatementFound
	case errors.Is(err, apperrors.ErrQuotaExceeded):
		kind = models.KindQuotaExceeded
	case errors.Is(err, apperrors.ErrConnectionFailed):
		kind = models.KindConnectionError
	case errors.Is(err, apperrors.ErrObjectNotFound):
		kind = models.KindObjectNotFound
	}

	s.logger.Warn("Pipeline stage failed",
		zap.String("stage", string(stage)),
		zap.String("kind", string(kind)),
		zap.String("error", logging.SanitizeError(err)))

	return stageError(stage, kind, logging.SanitizeError(err))
}

func stageError(stage models.Stage, kind models.ErrorKind, message string) *models.StageError {
	return &models.StageError{Stage: stage, Kind: kind, Message: message}
}

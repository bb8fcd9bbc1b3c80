package models

import "github.com/google/uuid"

// Stage names the pipeline stage a failure occurred in.
type Stage string

const (
	StageConfig     Stage = "config"
	StageGeneration Stage = "generation"
	StageDryRun     Stage = "dry_run"
)

// ErrorKind is the machine-readable classification of a stage failure,
// mirroring the apperrors sentinels.
type ErrorKind string

const (
	KindConfigError      ErrorKind = "config_error"
	KindValidationError  ErrorKind = "validation_error"
	KindUpstreamError    ErrorKind = "upstream_error"
	KindNoStatementFound ErrorKind = "no_statement_found"
	KindConnectionError  ErrorKind = "connection_error"
	KindQuotaExceeded    ErrorKind = "quota_exceeded"
	KindObjectNotFound   ErrorKind = "object_not_found"
)

// StageError reports which stage failed and why. The orchestrator attaches
// the stage; the kind comes from the failing component unchanged.
type StageError struct {
	Stage   Stage     `json:"stage"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// DryRunResult is the outcome of a warehouse dry run. An invalid query is a
// result, not an error: Valid is false and Message carries the warehouse
// diagnostic. BytesProcessed is reported when the warehouse provides it,
// independent of any cost threshold (threshold policy belongs to callers).
type DryRunResult struct {
	Valid          bool   `json:"valid"`
	BytesProcessed *int64 `json:"bytes_processed"`
	Message        string `json:"message"`
}

// PipelineRequest is the single request contract of the generation pipeline.
type PipelineRequest struct {
	ConnectionID uuid.UUID `json:"connection_id"`
	UserRequest  string    `json:"user_request"`
	ObjectNames  []string  `json:"object_names"`
}

// PipelineResult is the single response contract of the generation pipeline.
//
// The partial-success contract: GeneratedSQL is set whenever generation
// succeeded, even if the dry-run stage later failed. Callers can therefore
// distinguish "no SQL produced" (GeneratedSQL nil, Error set) from "SQL
// produced but not validated" (GeneratedSQL set, DryRun nil, Error set) and
// from "SQL produced but invalid" (GeneratedSQL set, DryRun.Valid false).
type PipelineResult struct {
	GeneratedSQL *string       `json:"generated_sql"`
	DryRun       *DryRunResult `json:"dry_run"`
	Error        *StageError   `json:"error"`
}

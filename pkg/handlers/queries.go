package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sqlscout-io/sqlscout-engine/pkg/auth"
	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
	"github.com/sqlscout-io/sqlscout-engine/pkg/services"
)

// DryRunRequest is the request body for a standalone dry run.
type DryRunRequest struct {
	ConnectionID uuid.UUID `json:"connection_id"`
	SQL          string    `json:"sql"`
}

// QueriesHandler handles the generation pipeline endpoints.
type QueriesHandler struct {
	pipeline services.PipelineService
	logger   *zap.Logger
}

// NewQueriesHandler creates a new queries handler.
func NewQueriesHandler(pipeline services.PipelineService, logger *zap.Logger) *QueriesHandler {
	return &QueriesHandler{pipeline: pipeline, logger: logger}
}

// RegisterRoutes registers the queries handler's routes on the given mux.
func (h *QueriesHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/queries/generate", authMiddleware.RequireAuth(h.Generate))
	mux.HandleFunc("POST /api/queries/dry-run", authMiddleware.RequireAuth(h.DryRun))
}

// Generate handles POST /api/queries/generate.
// The response body is always the full pipeline result; on a stage failure
// the status code reflects the error kind while generated_sql, when present,
// stays in the body.
func (h *QueriesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req models.PipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result := h.pipeline.GenerateAndValidate(r.Context(), userID, &req)

	status := http.StatusOK
	if result.Error != nil {
		status = statusForErrorKind(result.Error.Kind)
	}
	if err := WriteJSON(w, status, result); err != nil {
		h.logger.Error("Failed to encode pipeline response", zap.Error(err))
	}
}

// DryRun handles POST /api/queries/dry-run.
func (h *QueriesHandler) DryRun(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req DryRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.ConnectionID == uuid.Nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "missing_connection_id", "Connection ID is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.pipeline.DryRun(r.Context(), userID, req.ConnectionID, req.SQL)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode dry run response", zap.Error(err))
	}
}

// statusForErrorKind maps the pipeline error taxonomy to HTTP status codes.
func statusForErrorKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindValidationError:
		return http.StatusBadRequest
	case models.KindConfigError, models.KindObjectNotFound:
		return http.StatusNotFound
	case models.KindNoStatementFound:
		return http.StatusUnprocessableEntity
	case models.KindQuotaExceeded:
		return http.StatusTooManyRequests
	case models.KindConnectionError, models.KindUpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

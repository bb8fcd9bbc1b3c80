package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sqlscout-io/sqlscout-engine/pkg/auth"
	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
	"github.com/sqlscout-io/sqlscout-engine/pkg/services"
)

// SaveObjectRequest is the request body for saving a curated schema entry.
type SaveObjectRequest struct {
	Description string              `json:"description"`
	Fields      []models.SavedField `json:"fields"`
}

// SchemaHandler handles the curated schema registry endpoints.
type SchemaHandler struct {
	schema services.SchemaService
	logger *zap.Logger
}

// NewSchemaHandler creates a new schema handler.
func NewSchemaHandler(schema services.SchemaService, logger *zap.Logger) *SchemaHandler {
	return &SchemaHandler{schema: schema, logger: logger}
}

// RegisterRoutes registers the schema handler's routes on the given mux.
func (h *SchemaHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("PUT /api/connections/{cid}/schema/{object}", authMiddleware.RequireAuth(h.Save))
	mux.HandleFunc("GET /api/connections/{cid}/schema", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/connections/{cid}/schema/{object}/live", authMiddleware.RequireAuth(h.Live))
}

// Save handles PUT /api/connections/{cid}/schema/{object}.
// Replaces the curated entry for one object, fields included.
func (h *SchemaHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}
	connID, ok := ParseConnectionID(w, r, h.logger)
	if !ok {
		return
	}
	objectName := r.PathValue("object")

	var req SaveObjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	obj, err := h.schema.SaveDescription(r.Context(), userID, connID, objectName, req.Description, req.Fields)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, obj); err != nil {
		h.logger.Error("Failed to encode schema response", zap.Error(err))
	}
}

// List handles GET /api/connections/{cid}/schema.
func (h *SchemaHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}
	connID, ok := ParseConnectionID(w, r, h.logger)
	if !ok {
		return
	}

	objects, err := h.schema.ListAll(r.Context(), userID, connID)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"objects": objects}); err != nil {
		h.logger.Error("Failed to encode schema list response", zap.Error(err))
	}
}

// Live handles GET /api/connections/{cid}/schema/{object}/live.
// Introspects the object directly from the warehouse.
func (h *SchemaHandler) Live(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}
	connID, ok := ParseConnectionID(w, r, h.logger)
	if !ok {
		return
	}
	objectName := r.PathValue("object")

	fields, err := h.schema.FetchLiveSchema(r.Context(), userID, connID, objectName)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"fields": fields}); err != nil {
		h.logger.Error("Failed to encode live schema response", zap.Error(err))
	}
}

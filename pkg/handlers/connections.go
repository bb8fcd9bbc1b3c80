package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sqlscout-io/sqlscout-engine/pkg/auth"
	"github.com/sqlscout-io/sqlscout-engine/pkg/services"
)

// RegisterConnectionRequest is the request body for registering a connection.
// Credential carries the raw service-account key JSON; it is encrypted before
// storage and never echoed back.
type RegisterConnectionRequest struct {
	Name       string          `json:"name"`
	Credential json.RawMessage `json:"credential"`
}

// ConnectionsHandler handles warehouse connection management.
type ConnectionsHandler struct {
	connections services.ConnectionService
	logger      *zap.Logger
}

// NewConnectionsHandler creates a new connections handler.
func NewConnectionsHandler(connections services.ConnectionService, logger *zap.Logger) *ConnectionsHandler {
	return &ConnectionsHandler{connections: connections, logger: logger}
}

// RegisterRoutes registers the connections handler's routes on the given mux.
func (h *ConnectionsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/connections", authMiddleware.RequireAuth(h.Register))
	mux.HandleFunc("GET /api/connections", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("DELETE /api/connections/{cid}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("POST /api/connections/{cid}/test", authMiddleware.RequireAuth(h.Test))
}

// Register handles POST /api/connections.
func (h *ConnectionsHandler) Register(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req RegisterConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if len(req.Credential) == 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, "missing_credential", "Credential is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	conn, err := h.connections.Register(r.Context(), userID, req.Name, req.Credential)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, conn); err != nil {
		h.logger.Error("Failed to encode connection response", zap.Error(err))
	}
}

// List handles GET /api/connections.
func (h *ConnectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	summaries, err := h.connections.List(r.Context(), userID)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"connections": summaries}); err != nil {
		h.logger.Error("Failed to encode connections response", zap.Error(err))
	}
}

// Delete handles DELETE /api/connections/{cid}.
func (h *ConnectionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}
	connID, ok := ParseConnectionID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.connections.Delete(r.Context(), userID, connID); err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Test handles POST /api/connections/{cid}/test.
func (h *ConnectionsHandler) Test(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}
	connID, ok := ParseConnectionID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.connections.TestConnection(r.Context(), userID, connID); err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		h.logger.Error("Failed to encode test response", zap.Error(err))
	}
}

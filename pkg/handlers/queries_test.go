package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sqlscout-io/sqlscout-engine/pkg/auth"
	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
	"github.com/sqlscout-io/sqlscout-engine/pkg/services"
)

func TestQueriesHandlerGenerate(t *testing.T) {
	connID := uuid.New()

	postGenerate := func(t *testing.T, svc *services.MockPipelineService, body string) *httptest.ResponseRecorder {
		t.Helper()
		mux := newTestMux(t, func(mux *http.ServeMux, mw *auth.Middleware) {
			NewQueriesHandler(svc, zap.NewNop()).RegisterRoutes(mux, mw)
		})
		req := httptest.NewRequest(http.MethodPost, "/api/queries/generate", strings.NewReader(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	t.Run("full success", func(t *testing.T) {
		sql := "SELECT SUM(total_usd) FROM orders"
		bytes := int64(1024)
		svc := &services.MockPipelineService{
			GenerateAndValidateFunc: func(ctx context.Context, ownerID uuid.UUID, req *models.PipelineRequest) *models.PipelineResult {
				assert.Equal(t, connID, req.ConnectionID)
				assert.Equal(t, "total revenue", req.UserRequest)
				return &models.PipelineResult{
					GeneratedSQL: &sql,
					DryRun:       &models.DryRunResult{Valid: true, BytesProcessed: &bytes, Message: "Query dry run successful. Estimated data to be processed: 0.0000 GB."},
				}
			},
		}

		body := `{"connection_id":"` + connID.String() + `","user_request":"total revenue","object_names":["orders"]}`
		rec := postGenerate(t, svc, body)

		require.Equal(t, http.StatusOK, rec.Code)
		var result models.PipelineResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.NotNil(t, result.GeneratedSQL)
		assert.Equal(t, sql, *result.GeneratedSQL)
		require.NotNil(t, result.DryRun)
		assert.Equal(t, int64(1024), *result.DryRun.BytesProcessed)
		assert.Nil(t, result.Error)
	})

	t.Run("partial success keeps generated sql in a 502 body", func(t *testing.T) {
		sql := "SELECT 1"
		svc := &services.MockPipelineService{
			GenerateAndValidateFunc: func(ctx context.Context, ownerID uuid.UUID, req *models.PipelineRequest) *models.PipelineResult {
				return &models.PipelineResult{
					GeneratedSQL: &sql,
					Error:        &models.StageError{Stage: models.StageDryRun, Kind: models.KindConnectionError, Message: "warehouse unreachable"},
				}
			},
		}

		rec := postGenerate(t, svc, `{"connection_id":"`+connID.String()+`","user_request":"x"}`)

		require.Equal(t, http.StatusBadGateway, rec.Code)
		var result models.PipelineResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.NotNil(t, result.GeneratedSQL)
		assert.Equal(t, sql, *result.GeneratedSQL)
		assert.Nil(t, result.DryRun)
		require.NotNil(t, result.Error)
		assert.Equal(t, models.StageDryRun, result.Error.Stage)
	})

	t.Run("generation failure statuses", func(t *testing.T) {
		cases := []struct {
			kind   models.ErrorKind
			status int
		}{
			{models.KindValidationError, http.StatusBadRequest},
			{models.KindConfigError, http.StatusNotFound},
			{models.KindNoStatementFound, http.StatusUnprocessableEntity},
			{models.KindQuotaExceeded, http.StatusTooManyRequests},
			{models.KindUpstreamError, http.StatusBadGateway},
		}
		for _, tc := range cases {
			svc := &services.MockPipelineService{
				GenerateAndValidateFunc: func(ctx context.Context, ownerID uuid.UUID, req *models.PipelineRequest) *models.PipelineResult {
					return &models.PipelineResult{
						Error: &models.StageError{Stage: models.StageGeneration, Kind: tc.kind, Message: "failed"},
					}
				},
			}
			rec := postGenerate(t, svc, `{"connection_id":"`+connID.String()+`","user_request":"x"}`)
			assert.Equal(t, tc.status, rec.Code, "kind %s", tc.kind)
		}
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		rec := postGenerate(t, &services.MockPipelineService{}, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestQueriesHandlerDryRun(t *testing.T) {
	connID := uuid.New()

	t.Run("returns warehouse estimate", func(t *testing.T) {
		bytes := int64(2048)
		svc := &services.MockPipelineService{
			DryRunFunc: func(ctx context.Context, ownerID, cid uuid.UUID, statement string) (*models.DryRunResult, error) {
				assert.Equal(t, connID, cid)
				assert.Equal(t, "SELECT 1", statement)
				return &models.DryRunResult{Valid: true, BytesProcessed: &bytes, Message: "ok"}, nil
			},
		}
		mux := newTestMux(t, func(mux *http.ServeMux, mw *auth.Middleware) {
			NewQueriesHandler(svc, zap.NewNop()).RegisterRoutes(mux, mw)
		})

		body := `{"connection_id":"` + connID.String() + `","sql":"SELECT 1"}`
		req := httptest.NewRequest(http.MethodPost, "/api/queries/dry-run", strings.NewReader(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "2048")
	})

	t.Run("missing connection id rejected", func(t *testing.T) {
		mux := newTestMux(t, func(mux *http.ServeMux, mw *auth.Middleware) {
			NewQueriesHandler(&services.MockPipelineService{}, zap.NewNop()).RegisterRoutes(mux, mw)
		})

		req := httptest.NewRequest(http.MethodPost, "/api/queries/dry-run", strings.NewReader(`{"sql":"SELECT 1"}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing_connection_id")
	})
}

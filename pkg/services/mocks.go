package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/sqlscout-io/sqlscout-engine/pkg/apperrors"
	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
)

// MockConnectionService is a test double with overridable behavior.
type MockConnectionService struct {
	RegisterFunc              func(ctx context.Context, ownerID uuid.UUID, name string, credentialJSON []byte) (*models.Connection, error)
	ListFunc                  func(ctx context.Context, ownerID uuid.UUID) ([]models.ConnectionSummary, error)
	GetFunc                   func(ctx context.Context, ownerID, id uuid.UUID) (*models.Connection, error)
	DeleteFunc                func(ctx context.Context, ownerID, id uuid.UUID) error
	MaterializeCredentialFunc func(ctx context.Context, ownerID, id uuid.UUID) (*models.Credential, error)
	TestConnectionFunc        func(ctx context.Context, ownerID, id uuid.UUID) error

	MaterializeCalls int
}

var _ ConnectionService = (*MockConnectionService)(nil)

func (m *MockConnectionService) Register(ctx context.Context, ownerID uuid.UUID, name string, credentialJSON []byte) (*models.Connection, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, ownerID, name, credentialJSON)
	}
	return &models.Connection{ID: uuid.New(), OwnerID: ownerID, Name: name}, nil
}

func (m *MockConnectionService) List(ctx context.Context, ownerID uuid.UUID) ([]models.ConnectionSummary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockConnectionService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Connection, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, ownerID, id)
	}
	return &models.Connection{ID: id, OwnerID: ownerID, Name: "mock"}, nil
}

func (m *MockConnectionService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, id)
	}
	return nil
}

func (m *MockConnectionService) MaterializeCredential(ctx context.Context, ownerID, id uuid.UUID) (*models.Credential, error) {
	m.MaterializeCalls++
	if m.MaterializeCredentialFunc != nil {
		return m.MaterializeCredentialFunc(ctx, ownerID, id)
	}
	return &models.Credential{ProjectID: "mock-project", KeyJSON: []byte(`{"project_id":"mock-project"}`)}, nil
}

func (m *MockConnectionService) TestConnection(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.TestConnectionFunc != nil {
		return m.TestConnectionFunc(ctx, ownerID, id)
	}
	return nil
}

// MockSchemaService is a test double with overridable behavior.
type MockSchemaService struct {
	SaveDescriptionFunc   func(ctx context.Context, ownerID, connectionID uuid.UUID, objectName, objectDescription string, fields []models.SavedField) (*models.SavedObject, error)
	ListAllFunc           func(ctx context.Context, ownerID, connectionID uuid.UUID) ([]*models.SavedObject, error)
	ContextForRequestFunc func(ctx context.Context, ownerID, connectionID uuid.UUID, objectNames []string) ([]*models.SavedObject, error)
	FetchLiveSchemaFunc   func(ctx context.Context, ownerID, connectionID uuid.UUID, objectName string) ([]models.LiveSchemaField, error)
}

var _ SchemaService = (*MockSchemaService)(nil)

func (m *MockSchemaService) SaveDescription(ctx context.Context, ownerID, connectionID uuid.UUID, objectName, objectDescription string, fields []models.SavedField) (*models.SavedObject, error) {
	if m.SaveDescriptionFunc != nil {
		return m.SaveDescriptionFunc(ctx, ownerID, connectionID, objectName, objectDescription, fields)
	}
	return &models.SavedObject{ID: uuid.New(), ConnectionID: connectionID, ObjectName: objectName, Description: objectDescription, Fields: fields}, nil
}

func (m *MockSchemaService) ListAll(ctx context.Context, ownerID, connectionID uuid.UUID) ([]*models.SavedObject, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, ownerID, connectionID)
	}
	return nil, nil
}

func (m *MockSchemaService) ContextForRequest(ctx context.Context, ownerID, connectionID uuid.UUID, objectNames []string) ([]*models.SavedObject, error) {
	if m.ContextForRequestFunc != nil {
		return m.ContextForRequestFunc(ctx, ownerID, connectionID, objectNames)
	}
	return nil, nil
}

func (m *MockSchemaService) FetchLiveSchema(ctx context.Context, ownerID, connectionID uuid.UUID, objectName string) ([]models.LiveSchemaField, error) {
	if m.FetchLiveSchemaFunc != nil {
		return m.FetchLiveSchemaFunc(ctx, ownerID, connectionID, objectName)
	}
	return nil, nil
}

// MockSQLGenerator is a test double with overridable behavior.
type MockSQLGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	GenerateCalls int
	LastPrompt    string
}

var _ SQLGenerator = (*MockSQLGenerator)(nil)

func (m *MockSQLGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.GenerateCalls++
	m.LastPrompt = prompt
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "SELECT 1", nil
}

// MockPipelineService is a test double with overridable behavior.
type MockPipelineService struct {
	GenerateAndValidateFunc func(ctx context.Context, ownerID uuid.UUID, req *models.PipelineRequest) *models.PipelineResult
	DryRunFunc              func(ctx context.Context, ownerID, connectionID uuid.UUID, statement string) (*models.DryRunResult, error)
}

var _ PipelineService = (*MockPipelineService)(nil)

func (m *MockPipelineService) GenerateAndValidate(ctx context.Context, ownerID uuid.UUID, req *models.PipelineRequest) *models.PipelineResult {
	if m.GenerateAndValidateFunc != nil {
		return m.GenerateAndValidateFunc(ctx, ownerID, req)
	}
	return &models.PipelineResult{Error: &models.StageError{Stage: models.StageConfig, Kind: models.KindConfigError, Message: apperrors.ErrNotFound.Error()}}
}

func (m *MockPipelineService) DryRun(ctx context.Context, ownerID, connectionID uuid.UUID, statement string) (*models.DryRunResult, error) {
	if m.DryRunFunc != nil {
		return m.DryRunFunc(ctx, ownerID, connectionID, statement)
	}
	return &models.DryRunResult{Valid: true, Message: "ok"}, nil
}

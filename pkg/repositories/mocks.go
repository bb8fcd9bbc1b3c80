package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/sqlscout-io/sqlscout-engine/pkg/apperrors"
	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
)

// MockConnectionRepository is a test double with overridable behavior.
type MockConnectionRepository struct {
	CreateFunc      func(ctx context.Context, conn *models.Connection, encryptedCredential string) error
	GetByIDFunc     func(ctx context.Context, ownerID, id uuid.UUID) (*models.Connection, string, error)
	ListByOwnerFunc func(ctx context.Context, ownerID uuid.UUID) ([]*models.Connection, error)
	DeleteFunc      func(ctx context.Context, ownerID, id uuid.UUID) error

	CreateCalls int
	DeleteCalls int
}

var _ ConnectionRepository = (*MockConnectionRepository)(nil)

func (m *MockConnectionRepository) Create(ctx context.Context, conn *models.Connection, encryptedCredential string) error {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, conn, encryptedCredential)
	}
	conn.ID = uuid.New()
	return nil
}

func (m *MockConnectionRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Connection, string, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ownerID, id)
	}
	return nil, "", apperrors.ErrNotFound
}

func (m *MockConnectionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Connection, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockConnectionRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	m.DeleteCalls++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, id)
	}
	return nil
}

// MockSchemaRepository is a test double with overridable behavior.
type MockSchemaRepository struct {
	ReplaceObjectFunc    func(ctx context.Context, obj *models.SavedObject) error
	ListByConnectionFunc func(ctx context.Context, connectionID uuid.UUID) ([]*models.SavedObject, error)
	GetByNamesFunc       func(ctx context.Context, connectionID uuid.UUID, names []string) ([]*models.SavedObject, error)

	ReplaceObjectCalls int
}

var _ SchemaRepository = (*MockSchemaRepository)(nil)

func (m *MockSchemaRepository) ReplaceObject(ctx context.Context, obj *models.SavedObject) error {
	m.ReplaceObjectCalls++
	if m.ReplaceObjectFunc != nil {
		return m.ReplaceObjectFunc(ctx, obj)
	}
	obj.ID = uuid.New()
	return nil
}

func (m *MockSchemaRepository) ListByConnection(ctx context.Context, connectionID uuid.UUID) ([]*models.SavedObject, error) {
	if m.ListByConnectionFunc != nil {
		return m.ListByConnectionFunc(ctx, connectionID)
	}
	return nil, nil
}

func (m *MockSchemaRepository) GetByNames(ctx context.Context, connectionID uuid.UUID, names []string) ([]*models.SavedObject, error) {
	if m.GetByNamesFunc != nil {
		return m.GetByNamesFunc(ctx, connectionID, names)
	}
	return nil, nil
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sqlscout-io/sqlscout-engine/pkg/apperrors"
	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
	"github.com/sqlscout-io/sqlscout-engine/pkg/repositories"
	sqlcheck "github.com/sqlscout-io/sqlscout-engine/pkg/sql"
	"github.com/sqlscout-io/sqlscout-engine/pkg/warehouse"
)

// SchemaService maintains the curated schema registry: the human-written
// object and field descriptions that become generation context.
type SchemaService interface {
	// SaveDescription replaces the curated entry for one object. The saved
	// field set fully replaces the previous one.
	SaveDescription(ctx context.Context, ownerID, connectionID uuid.UUID, objectName, objectDescription string, fields []models.SavedField) (*models.SavedObject, error)

	// ListAll returns every curated object for a connection.
	ListAll(ctx context.Context, ownerID, connectionID uuid.UUID) ([]*models.SavedObject, error)

	// ContextForRequest resolves the object list for a generation request.
	// An empty name list means every curated object. Requested names with
	// no curated entry come back as placeholders so the prompt can still
	// reference them.
	ContextForRequest(ctx context.Context, ownerID, connectionID uuid.UUID, objectNames []string) ([]*models.SavedObject, error)

	// FetchLiveSchema introspects one object directly from the warehouse.
	FetchLiveSchema(ctx context.Context, ownerID, connectionID uuid.UUID, objectName string) ([]models.LiveSchemaField, error)
}

type schemaService struct {
	repo        repositories.SchemaRepository
	connections ConnectionService
	gateways    warehouse.Factory
	logger      *zap.Logger
}

// NewSchemaService creates a schema service.
func NewSchemaService(
	repo repositories.SchemaRepository,
	connections ConnectionService,
	gateways warehouse.Factory,
	logger *zap.Logger,
) SchemaService {
	return &schemaService{
		repo:        repo,
		connections: connections,
		gateways:    gateways,
		logger:      logger.Named("schema"),
	}
}

func (s *schemaService) SaveDescription(ctx context.Context, ownerID, connectionID uuid.UUID, objectName, objectDescription string, fields []models.SavedField) (*models.SavedObject, error) {
	objectName = strings.TrimSpace(objectName)
	if objectName == "" {
		return nil, fmt.Errorf("%w: object name is required", apperrors.ErrValidation)
	}

	// Ownership check before any write.
	if _, err := s.connections.Get(ctx, ownerID, connectionID); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(fields))
	fieldDescriptions := make(map[string]string, len(fields))
	for i := range fields {
		fields[i].Name = strings.TrimSpace(fields[i].Name)
		if fields[i].Name == "" {
			return nil, fmt.Errorf("%w: field name is required", apperrors.ErrValidation)
		}
		if _, dup := seen[fields[i].Name]; dup {
			return nil, fmt.Errorf("%w: duplicate field name %q", apperrors.ErrValidation, fields[i].Name)
		}
		seen[fields[i].Name] = struct{}{}
		fieldDescriptions[fields[i].Name] = fields[i].Description
	}

	// Descriptions are interpolated into prompts verbatim, so screen them
	// before they are saved.
	if findings := sqlcheck.CheckDescriptions(objectDescription, fieldDescriptions); len(findings) > 0 {
		return nil, fmt.Errorf("%w: description for %q looks like a SQL injection payload", apperrors.ErrValidation, findings[0].Field)
	}

	obj := &models.SavedObject{
		ConnectionID: connectionID,
		ObjectName:   objectName,
		Description:  objectDescription,
		Fields:       fields,
	}
	if err := s.repo.ReplaceObject(ctx, obj); err != nil {
		return nil, err
	}

	s.logger.Info("Saved schema description",
		zap.String("connection_id", connectionID.String()),
		zap.String("object", objectName),
		zap.Int("fields", len(fields)))
	return obj, nil
}

func (s *schemaService) ListAll(ctx context.Context, ownerID, connectionID uuid.UUID) ([]*models.SavedObject, error) {
	if _, err := s.connections.Get(ctx, ownerID, connectionID); err != nil {
		return nil, err
	}
	return s.repo.ListByConnection(ctx, connectionID)
}

func (s *schemaService) ContextForRequest(ctx context.Context, ownerID, connectionID uuid.UUID, objectNames []string) ([]*models.SavedObject, error) {
	if len(objectNames) == 0 {
		return s.ListAll(ctx, ownerID, connectionID)
	}

	if _, err := s.connections.Get(ctx, ownerID, connectionID); err != nil {
		return nil, err
	}

	saved, err := s.repo.GetByNames(ctx, connectionID, objectNames)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*models.SavedObject, len(saved))
	for _, obj := range saved {
		byName[obj.ObjectName] = obj
	}

	// Preserve the caller's order; unknown names become placeholders with
	// a zero ID rather than errors.
	result := make([]*models.SavedObject, 0, len(objectNames))
	for _, name := range objectNames {
		if obj, ok := byName[name]; ok {
			result = append(result, obj)
			continue
		}
		result = append(result, &models.SavedObject{
			ConnectionID: connectionID,
			ObjectName:   name,
		})
	}
	return result, nil
}

func (s *schemaService) FetchLiveSchema(ctx context.Context, ownerID, connectionID uuid.UUID, objectName string) ([]models.LiveSchemaField, error) {
	objectName = strings.TrimSpace(objectName)
	if objectName == "" {
		return nil, fmt.Errorf("%w: object name is required", apperrors.ErrValidation)
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

	return gw.Introspect(ctx, objectName)
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sqlscout-io/sqlscout-engine/pkg/database"
	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
)

// SchemaRepository defines data access for curated object and field
// descriptions.
type SchemaRepository interface {
	// ReplaceObject upserts a saved object and replaces its entire field
	// set in one transaction. No partial field updates survive a failed
	// write.
	ReplaceObject(ctx context.Context, obj *models.SavedObject) error

	// ListByConnection returns all saved objects for a connection in
	// insertion order, each with its fields in stored order.
	ListByConnection(ctx context.Context, connectionID uuid.UUID) ([]*models.SavedObject, error)

	// GetByNames returns the saved objects among names that exist for the
	// connection. Missing names are simply absent from the result.
	GetByNames(ctx context.Context, connectionID uuid.UUID, names []string) ([]*models.SavedObject, error)
}

type schemaRepository struct {
	db *database.DB
}

// NewSchemaRepository creates a schema repository on the metadata store.
func NewSchemaRepository(db *database.DB) SchemaRepository {
	return &schemaRepository{db: db}
}

func (r *schemaRepository) ReplaceObject(ctx context.Context, obj *models.SavedObject) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	now := time.Now()
	obj.UpdatedAt = now

	// created_at is preserved on conflict so insertion order stays stable
	// across re-saves.
	upsert := `
		INSERT INTO saved_objects (connection_id, object_name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (connection_id, object_name)
		DO UPDATE SET description = EXCLUDED.description, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	err = tx.QueryRow(ctx, upsert, obj.ConnectionID, obj.ObjectName, obj.Description, now).
		Scan(&obj.ID, &obj.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert saved object: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM saved_fields WHERE saved_object_id = $1`, obj.ID); err != nil {
		return fmt.Errorf("failed to clear prior fields: %w", err)
	}

	insertField := `
		INSERT INTO saved_fields (saved_object_id, field_name, description, ordinal)
		VALUES ($1, $2, $3, $4)`
	for i, field := range obj.Fields {
		if _, err := tx.Exec(ctx, insertField, obj.ID, field.Name, field.Description, i); err != nil {
			return fmt.Errorf("failed to insert field %q: %w", field.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *schemaRepository) ListByConnection(ctx context.Context, connectionID uuid.UUID) ([]*models.SavedObject, error) {
	return r.query(ctx,
		`SELECT id, connection_id, object_name, description, created_at, updated_at
		 FROM saved_objects
		 WHERE connection_id = $1
		 ORDER BY created_at, id`,
		connectionID)
}

func (r *schemaRepository) GetByNames(ctx context.Context, connectionID uuid.UUID, names []string) ([]*models.SavedObject, error) {
	if len(names) == 0 {
		return nil, nil
	}
	return r.query(ctx,
		`SELECT id, connection_id, object_name, description, created_at, updated_at
		 FROM saved_objects
		 WHERE connection_id = $1 AND object_name = ANY($2)
		 ORDER BY created_at, id`,
		connectionID, names)
}

func (r *schemaRepository) query(ctx context.Context, sql string, args ...any) ([]*models.SavedObject, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved objects: %w", err)
	}
	defer rows.Close()

	var objects []*models.SavedObject
	for rows.Next() {
		var obj models.SavedObject
		if err := rows.Scan(&obj.ID, &obj.ConnectionID, &obj.ObjectName, &obj.Description,
			&obj.CreatedAt, &obj.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved object: %w", err)
		}
		objects = append(objects, &obj)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, obj := range objects {
		if err := r.loadFields(ctx, obj); err != nil {
			return nil, err
		}
	}
	return objects, nil
}

func (r *schemaRepository) loadFields(ctx context.Context, obj *models.SavedObject) error {
	rows, err := r.db.Query(ctx,
		`SELECT field_name, description
		 FROM saved_fields
		 WHERE saved_object_id = $1
		 ORDER BY ordinal`,
		obj.ID)
	if err != nil {
		return fmt.Errorf("failed to query fields: %w", err)
	}
	defer rows.Close()

	obj.Fields = []models.SavedField{}
	for rows.Next() {
		var field models.SavedField
		if err := rows.Scan(&field.Name, &field.Description); err != nil {
			return fmt.Errorf("failed to scan field: %w", err)
		}
		obj.Fields = append(obj.Fields, field)
	}
	return rows.Err()
}

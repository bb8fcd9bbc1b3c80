// Package repositories provides PostgreSQL data access for the engine's
// metadata: connections and curated schema descriptions.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sqlscout-io/sqlscout-engine/pkg/apperrors"
	"github.com/sqlscout-io/sqlscout-engine/pkg/database"
	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// ConnectionRepository defines data access for warehouse connections. The
// credential blob is stored as encrypted TEXT and travels separately from
// the model so read paths never carry it by accident.
type ConnectionRepository interface {
	// Create inserts a new connection. Returns apperrors.ErrConflict when
	// the owner already has a connection with this name.
	Create(ctx context.Context, conn *models.Connection, encryptedCredential string) error

	// GetByID retrieves a connection scoped to its owner, together with the
	// encrypted credential blob. Returns apperrors.ErrNotFound when absent
	// or owned by someone else.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Connection, string, error)

	// ListByOwner retrieves all connections for an owner in creation order.
	// Credential blobs are not returned.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Connection, error)

	// Delete removes a connection; saved objects cascade in the database.
	// Returns apperrors.ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type connectionRepository struct {
	db *database.DB
}

// NewConnectionRepository creates a connection repository on the metadata
// store.
func NewConnectionRepository(db *database.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Create(ctx context.Context, conn *models.Connection, encryptedCredential string) error {
	now := time.Now()
	conn.CreatedAt = now
	conn.UpdatedAt = now

	query := `
		INSERT INTO connections (owner_id, name, credential_ciphertext, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		conn.OwnerID, conn.Name, encryptedCredential, conn.CreatedAt, conn.UpdatedAt,
	).Scan(&conn.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: connection %q already exists", apperrors.ErrConflict, conn.Name)
		}
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Connection, string, error) {
	query := `
		SELECT id, owner_id, name, credential_ciphertext, created_at, updated_at
		FROM connections
		WHERE id = $1 AND owner_id = $2`

	var (
		conn      models.Connection
		encrypted string
	)
	err := r.db.QueryRow(ctx, query, id, ownerID).Scan(
		&conn.ID, &conn.OwnerID, &conn.Name, &encrypted, &conn.CreatedAt, &conn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to get connection: %w", err)
	}
	return &conn, encrypted, nil
}

func (r *connectionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Connection, error) {
	query := `
		SELECT id, owner_id, name, created_at, updated_at
		FROM connections
		WHERE owner_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	var conns []*models.Connection
	for rows.Next() {
		var conn models.Connection
		if err := rows.Scan(&conn.ID, &conn.OwnerID, &conn.Name, &conn.CreatedAt, &conn.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		conns = append(conns, &conn)
	}
	return conns, rows.Err()
}

func (r *connectionRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM connections WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Package services implements the engine's business logic on top of the
// repositories, the warehouse gateway and the generation client.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sqlscout-io/sqlscout-engine/pkg/apperrors"
	"github.com/sqlscout-io/sqlscout-engine/pkg/crypto"
	"github.com/sqlscout-io/sqlscout-engine/pkg/logging"
	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
	"github.com/sqlscout-io/sqlscout-engine/pkg/repositories"
	"github.com/sqlscout-io/sqlscout-engine/pkg/warehouse"
)

// ConnectionService manages warehouse connections and the credential
// lifecycle: encrypted at rest, decrypted only into a short-lived
// materialized handle for a single gateway call.
type ConnectionService interface {
	// Register stores a new connection with its service-account key
	// encrypted. The key must be a JSON object carrying a project_id.
	Register(ctx context.Context, ownerID uuid.UUID, name string, credentialJSON []byte) (*models.Connection, error)

	// List returns id+name summaries only; credential material never
	// appears on any read path.
	List(ctx context.Context, ownerID uuid.UUID) ([]models.ConnectionSummary, error)

	// Get returns one connection without credential material.
	Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Connection, error)

	// Delete removes a connection. Curated schema entries scoped to it are
	// removed with it (cascade).
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// MaterializeCredential decrypts the stored blob into an in-memory
	// handle for the duration of one gateway call. The handle must not be
	// cached, shared or logged.
	MaterializeCredential(ctx context.Context, ownerID, id uuid.UUID) (*models.Credential, error)

	// TestConnection materializes the credential and runs the gateway
	// health check.
	TestConnection(ctx context.Context, ownerID, id uuid.UUID) error
}

// serviceAccountKey is the subset of a service-account key the engine needs
// to validate and to address the right project.
type serviceAccountKey struct {
	Type      string `json:"type"`
	ProjectID string `json:"project_id"`
}

type connectionService struct {
	repo      repositories.ConnectionRepository
	encryptor *crypto.CredentialEncryptor
	gateways  warehouse.Factory
	logger    *zap.Logger
}

// NewConnectionService creates a connection service.
func NewConnectionService(
	repo repositories.ConnectionRepository,
	encryptor *crypto.CredentialEncryptor,
	gateways warehouse.Factory,
	logger *zap.Logger,
) ConnectionService {
	return &connectionService{
		repo:      repo,
		encryptor: encryptor,
		gateways:  gateways,
		logger:    logger.Named("connections"),
	}
}

func (s *connectionService) Register(ctx context.Context, ownerID uuid.UUID, name string, credentialJSON []byte) (*models.Connection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: connection name is required", apperrors.ErrValidation)
	}
	if _, err := parseServiceAccountKey(credentialJSON); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	encrypted, err := s.encryptor.EncryptBlob(credentialJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt credential: %w", err)
	}

	conn := &models.Connection{OwnerID: ownerID, Name: name}
	if err := s.repo.Create(ctx, conn, encrypted); err != nil {
		return nil, err
	}

	s.logger.Info("Registered connection",
		zap.String("id", conn.ID.String()),
		zap.String("name", name))
	return conn, nil
}

func (s *connectionService) List(ctx context.Context, ownerID uuid.UUID) ([]models.ConnectionSummary, error) {
	conns, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.ConnectionSummary, len(conns))
	for i, conn := range conns {
		summaries[i] = models.ConnectionSummary{ID: conn.ID, Name: conn.Name}
	}
	return summaries, nil
}

func (s *connectionService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Connection, error) {
	conn, _, err := s.repo.GetByID(ctx, ownerID, id)
	return conn, err
}

func (s *connectionService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("Deleted connection", zap.String("id", id.String()))
	return nil
}

func (s *connectionService) MaterializeCredential(ctx context.Context, ownerID, id uuid.UUID) (*models.Credential, error) {
	_, encrypted, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	keyJSON, err := s.encryptor.DecryptBlob(encrypted)
	if err != nil {
		if errors.Is(err, crypto.ErrDecryptionFailed) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrCredentialsKeyMismatch, err)
		}
		return nil, err
	}

	key, err := parseServiceAccountKey(keyJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCredentialCorrupt, err)
	}

	return &models.Credential{ProjectID: key.ProjectID, KeyJSON: keyJSON}, nil
}

func (s *connectionService) TestConnection(ctx context.Context, ownerID, id uuid.UUID) error {
	cred, err := s.MaterializeCredential(ctx, ownerID, id)
	if err != nil {
		return err
	}

	gw, err := s.gateways.Open(ctx, cred)
	if err != nil {
		return err
	}
	defer gw.Close()

	if err := gw.HealthCheck(ctx); err != nil {
		s.logger.Warn("Connection test failed",
			zap.String("id", id.String()),
			zap.String("error", logging.SanitizeError(err)))
		return err
	}
	return nil
}

// parseServiceAccountKey validates a credential blob: it must be JSON and
// must name the project to bill introspection and dry runs against.
func parseServiceAccountKey(blob []byte) (*serviceAccountKey, error) {
	var key serviceAccountKey
	if err := json.Unmarshal(blob, &key); err != nil {
		return nil, fmt.Errorf("credential is not valid JSON")
	}
	if key.ProjectID == "" {
		return nil, fmt.Errorf("credential is missing project_id")
	}
	return &key, nil
}

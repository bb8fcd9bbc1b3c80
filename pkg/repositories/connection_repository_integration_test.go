//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlscout-io/sqlscout-engine/pkg/apperrors"
	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
	"github.com/sqlscout-io/sqlscout-engine/pkg/testhelpers"
)

func TestConnectionRepositoryIntegration(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	repo := NewConnectionRepository(tdb.DB)
	ctx := context.Background()

	t.Run("create and fetch round trip", func(t *testing.T) {
		tdb.Truncate(t)
		ownerID := uuid.New()

		conn := &models.Connection{OwnerID: ownerID, Name: "prod-warehouse"}
		require.NoError(t, repo.Create(ctx, conn, "encrypted-blob"))
		require.NotEqual(t, uuid.Nil, conn.ID)
		assert.False(t, conn.CreatedAt.IsZero())

		got, blob, err := repo.GetByID(ctx, ownerID, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, "prod-warehouse", got.Name)
		assert.Equal(t, "encrypted-blob", blob)
	})

	t.Run("duplicate name for same owner conflicts", func(t *testing.T) {
		tdb.Truncate(t)
		ownerID := uuid.New()

		require.NoError(t, repo.Create(ctx, &models.Connection{OwnerID: ownerID, Name: "dup"}, "b1"))
		err := repo.Create(ctx, &models.Connection{OwnerID: ownerID, Name: "dup"}, "b2")
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		// A different owner can reuse the name.
		require.NoError(t, repo.Create(ctx, &models.Connection{OwnerID: uuid.New(), Name: "dup"}, "b3"))
	})

	t.Run("owner scoping hides other owners' connections", func(t *testing.T) {
		tdb.Truncate(t)
		ownerID := uuid.New()

		conn := &models.Connection{OwnerID: ownerID, Name: "mine"}
		require.NoError(t, repo.Create(ctx, conn, "blob"))

		_, _, err := repo.GetByID(ctx, uuid.New(), conn.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		err = repo.Delete(ctx, uuid.New(), conn.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("list returns creation order", func(t *testing.T) {
		tdb.Truncate(t)
		ownerID := uuid.New()

		for _, name := range []string{"first", "second", "third"} {
			require.NoError(t, repo.Create(ctx, &models.Connection{OwnerID: ownerID, Name: name}, "blob"))
		}

		conns, err := repo.ListByOwner(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, conns, 3)
		assert.Equal(t, "first", conns[0].Name)
		assert.Equal(t, "third", conns[2].Name)
	})

	t.Run("delete cascades to saved objects", func(t *testing.T) {
		tdb.Truncate(t)
		ownerID := uuid.New()
		schemaRepo := NewSchemaRepository(tdb.DB)

		conn := &models.Connection{OwnerID: ownerID, Name: "doomed"}
		require.NoError(t, repo.Create(ctx, conn, "blob"))
		require.NoError(t, schemaRepo.ReplaceObject(ctx, &models.SavedObject{
			ConnectionID: conn.ID,
			ObjectName:   "orders",
			Fields:       []models.SavedField{{Name: "id", Description: "PK"}},
		}))

		require.NoError(t, repo.Delete(ctx, ownerID, conn.ID))

		objs, err := schemaRepo.ListByConnection(ctx, conn.ID)
		require.NoError(t, err)
		assert.Empty(t, objs)
	})
}

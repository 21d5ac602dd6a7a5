package profile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wrapsnp/go-directory/pkg/types"
)

func newTestServiceRepository(t *testing.T) *ServiceRepository {
	t.Helper()
	db := newTestDB(t)
	applyTestMigration(t, db, directorySchemaDDL)
	repo, err := NewServiceRepository(ServiceRepositoryConfig{
		DB:    db,
		Clock: fixedClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	return repo
}

func TestServiceRepository_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	repo := newTestServiceRepository(t)
	owner := uuid.New()

	created, err := repo.UpsertService(ctx, types.ServiceEntry{
		OwnerID:     owner,
		Title:       "Vollverklebung",
		Description: "Komplette Fahrzeugfolierung",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	created.Title = "Vollfolierung"
	updated, err := repo.UpsertService(ctx, *created)
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Vollfolierung", updated.Title)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)

	entries, err := repo.ListServices(ctx, owner)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestServiceRepository_UpdateForeignEntryFails(t *testing.T) {
	ctx := context.Background()
	repo := newTestServiceRepository(t)
	owner := uuid.New()

	created, err := repo.UpsertService(ctx, types.ServiceEntry{
		OwnerID: owner,
		Title:   "Teilfolierung",
	})
	require.NoError(t, err)

	stolen := *created
	stolen.OwnerID = uuid.New()
	_, err = repo.UpsertService(ctx, stolen)
	require.Error(t, err)
}

func TestServiceRepository_DeleteScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repo := newTestServiceRepository(t)
	owner := uuid.New()

	created, err := repo.UpsertService(ctx, types.ServiceEntry{
		OwnerID: owner,
		Title:   "Scheibentoenung",
	})
	require.NoError(t, err)

	// A foreign owner cannot delete the entry.
	require.NoError(t, repo.DeleteService(ctx, created.ID, uuid.New()))
	entries, err := repo.ListServices(ctx, owner)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, repo.DeleteService(ctx, created.ID, owner))
	entries, err = repo.ListServices(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, entries)
}

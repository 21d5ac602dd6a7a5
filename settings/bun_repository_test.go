package settings

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/wrapsnp/go-directory/pkg/types"
)

func TestSettingsRepository_UpsertInsertsThenUpdates(t *testing.T) {
	ctx := context.Background()
	repo := newTestSettingsRepository(t)
	owner := uuid.New()

	created, err := repo.UpsertSetting(ctx, types.SettingRecord{
		OwnerID:   owner,
		Level:     types.SettingLevelOwner,
		Key:       "contact_display",
		Value:     map[string]any{"show_phone": true},
		UpdatedBy: owner,
	})
	require.NoError(t, err)
	require.Equal(t, 1, created.Version)
	require.False(t, created.CreatedAt.IsZero())

	updated, err := repo.UpsertSetting(ctx, types.SettingRecord{
		OwnerID:   owner,
		Level:     types.SettingLevelOwner,
		Key:       "contact_display",
		Value:     map[string]any{"show_phone": false},
		UpdatedBy: owner,
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, 2, updated.Version)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.Equal(t, false, updated.Value["show_phone"])
}

func TestSettingsRepository_ListFiltersByLevelAndKeys(t *testing.T) {
	ctx := context.Background()
	repo := newTestSettingsRepository(t)
	owner := uuid.New()
	admin := uuid.New()

	_, err := repo.UpsertSetting(ctx, types.SettingRecord{
		Level:     types.SettingLevelSystem,
		Key:       "directory_visibility",
		Value:     map[string]any{"listed": true},
		UpdatedBy: admin,
	})
	require.NoError(t, err)
	for _, key := range []string{"contact_display", "notifications"} {
		_, err := repo.UpsertSetting(ctx, types.SettingRecord{
			OwnerID:   owner,
			Level:     types.SettingLevelOwner,
			Key:       key,
			Value:     map[string]any{"enabled": true},
			UpdatedBy: owner,
		})
		require.NoError(t, err)
	}

	system, err := repo.ListSettings(ctx, types.SettingFilter{Level: types.SettingLevelSystem})
	require.NoError(t, err)
	require.Len(t, system, 1)
	require.Equal(t, "directory_visibility", system[0].Key)

	ownerRecs, err := repo.ListSettings(ctx, types.SettingFilter{
		OwnerID: owner,
		Level:   types.SettingLevelOwner,
		Keys:    []string{"Notifications"},
	})
	require.NoError(t, err)
	require.Len(t, ownerRecs, 1)
	require.Equal(t, "notifications", ownerRecs[0].Key)
}

func TestSettingsRepository_OwnerLevelRequiresOwner(t *testing.T) {
	ctx := context.Background()
	repo := newTestSettingsRepository(t)

	_, err := repo.UpsertSetting(ctx, types.SettingRecord{
		Level: types.SettingLevelOwner,
		Key:   "contact_display",
	})
	require.ErrorIs(t, err, types.ErrOwnerRequired)

	_, err = repo.ListSettings(ctx, types.SettingFilter{Level: types.SettingLevelOwner})
	require.ErrorIs(t, err, types.ErrOwnerRequired)
}

func TestSettingsRepository_DeleteRemovesOverride(t *testing.T) {
	ctx := context.Background()
	repo := newTestSettingsRepository(t)
	owner := uuid.New()

	_, err := repo.UpsertSetting(ctx, types.SettingRecord{
		OwnerID:   owner,
		Level:     types.SettingLevelOwner,
		Key:       "notifications",
		Value:     map[string]any{"email": true},
		UpdatedBy: owner,
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteSetting(ctx, owner, types.SettingLevelOwner, "notifications"))

	err = repo.DeleteSetting(ctx, owner, types.SettingLevelOwner, "notifications")
	require.True(t, repository.IsRecordNotFound(err))
}

func newTestSettingsRepository(t *testing.T) *Repository {
	t.Helper()
	db := newTestSettingsDB(t)
	applySettingsTestMigration(t, db)
	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)
	return repo
}

func newTestSettingsDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", ":memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})
	return db
}

func applySettingsTestMigration(t *testing.T, db *bun.DB) {
	t.Helper()
	for _, stmt := range strings.Split(settingsSchemaDDL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := db.Exec(stmt)
		require.NoError(t, err, "executing statement %q", stmt)
	}
}

const settingsSchemaDDL = `
CREATE TABLE directory_settings (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	level TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT,
	version INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	updated_by TEXT
);
CREATE UNIQUE INDEX ux_directory_settings_layer_key ON directory_settings (owner_id, level, key);
`

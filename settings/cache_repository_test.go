package settings

import (
	"context"
	"testing"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/wrapsnp/go-directory/pkg/types"
)

func TestSettingsRepository_CacheWrapsRepository(t *testing.T) {
	db := newTestSettingsDB(t)
	applySettingsTestMigration(t, db)

	base := newBaseRecordRepository(db)
	repo, err := NewRepository(RepositoryConfig{Repository: base}, WithCache(true))
	require.NoError(t, err)

	_, ok := repo.settingStore.(*repositorycache.CachedRepository[*Record])
	require.True(t, ok)
}

func TestSettingsRepository_CacheDoesNotDoubleWrap(t *testing.T) {
	db := newTestSettingsDB(t)
	applySettingsTestMigration(t, db)

	base := newBaseRecordRepository(db)
	cacheService, err := cache.NewCacheService(cache.DefaultConfig())
	require.NoError(t, err)
	cached := repositorycache.New(base, cacheService, cache.NewDefaultKeySerializer())

	repo, err := NewRepository(RepositoryConfig{Repository: cached}, WithCache(true))
	require.NoError(t, err)

	stored, ok := repo.settingStore.(*repositorycache.CachedRepository[*Record])
	require.True(t, ok)
	require.Same(t, cached, stored)
}

func TestSettingsRepository_ListSettingsUsesCache(t *testing.T) {
	ctx := context.Background()
	db := newTestSettingsDB(t)
	applySettingsTestMigration(t, db)

	base := newBaseRecordRepository(db)
	spy := &spyRecordRepository{Repository: base}
	repo, err := NewRepository(RepositoryConfig{Repository: spy}, WithCache(true))
	require.NoError(t, err)

	owner := uuid.New()
	_, err = repo.UpsertSetting(ctx, types.SettingRecord{
		OwnerID:   owner,
		Level:     types.SettingLevelOwner,
		Key:       "notifications",
		Value:     map[string]any{"email": true},
		UpdatedBy: owner,
	})
	require.NoError(t, err)

	spy.listCalls = 0
	filter := types.SettingFilter{OwnerID: owner, Level: types.SettingLevelOwner}

	_, err = repo.ListSettings(ctx, filter)
	require.NoError(t, err)
	_, err = repo.ListSettings(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, 1, spy.listCalls)
}

func TestSettingsRepository_UpsertInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	db := newTestSettingsDB(t)
	applySettingsTestMigration(t, db)

	base := newBaseRecordRepository(db)
	spy := &spyRecordRepository{Repository: base}
	repo, err := NewRepository(RepositoryConfig{Repository: spy}, WithCache(true))
	require.NoError(t, err)

	owner := uuid.New()
	_, err = repo.UpsertSetting(ctx, types.SettingRecord{
		OwnerID:   owner,
		Level:     types.SettingLevelOwner,
		Key:       "notifications",
		Value:     map[string]any{"email": true},
		UpdatedBy: owner,
	})
	require.NoError(t, err)

	filter := types.SettingFilter{OwnerID: owner, Level: types.SettingLevelOwner}
	_, err = repo.ListSettings(ctx, filter)
	require.NoError(t, err)

	_, err = repo.UpsertSetting(ctx, types.SettingRecord{
		OwnerID:   owner,
		Level:     types.SettingLevelOwner,
		Key:       "notifications",
		Value:     map[string]any{"email": false},
		UpdatedBy: owner,
	})
	require.NoError(t, err)

	spy.listCalls = 0
	_, err = repo.ListSettings(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, 1, spy.listCalls)
}

func TestSettingsRepository_DeleteInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	db := newTestSettingsDB(t)
	applySettingsTestMigration(t, db)

	base := newBaseRecordRepository(db)
	spy := &spyRecordRepository{Repository: base}
	repo, err := NewRepository(RepositoryConfig{Repository: spy}, WithCache(true))
	require.NoError(t, err)

	owner := uuid.New()
	_, err = repo.UpsertSetting(ctx, types.SettingRecord{
		OwnerID:   owner,
		Level:     types.SettingLevelOwner,
		Key:       "notifications",
		Value:     map[string]any{"email": true},
		UpdatedBy: owner,
	})
	require.NoError(t, err)

	filter := types.SettingFilter{OwnerID: owner, Level: types.SettingLevelOwner}
	_, err = repo.ListSettings(ctx, filter)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteSetting(ctx, owner, types.SettingLevelOwner, "notifications"))

	spy.listCalls = 0
	_, err = repo.ListSettings(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, 1, spy.listCalls)
}

type spyRecordRepository struct {
	repository.Repository[*Record]
	listCalls int
}

func (s *spyRecordRepository) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]*Record, int, error) {
	s.listCalls++
	return s.Repository.List(ctx, criteria...)
}

func newBaseRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.NewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(rec *Record) uuid.UUID {
			if rec == nil {
				return uuid.Nil
			}
			return rec.ID
		},
		SetID: func(rec *Record, id uuid.UUID) {
			if rec != nil {
				rec.ID = id
			}
		},
	})
}

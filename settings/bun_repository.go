package settings

import (
	"context"
	"errors"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/wrapsnp/go-directory/pkg/types"
)

// RepositoryConfig wires dependencies for the Bun-backed settings store.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type settingStore interface {
	repository.Repository[*Record]
}

// Repository implements types.SettingsRepository.
type Repository struct {
	settingStore
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs the default settings repository. WithCache wraps
// reads in the repository cache decorator.
func NewRepository(cfg RepositoryConfig, options ...RepositoryOption) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("settings: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*Record]{
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

	opts := applyRepositoryOptions(options)
	if opts.CacheEnabled {
		if _, already := repo.(*repositorycache.CachedRepository[*Record]); !already {
			cacheConfig := cache.DefaultConfig()
			if opts.CacheConfig != nil {
				cacheConfig = *opts.CacheConfig
			}
			cacheService, err := cache.NewCacheService(cacheConfig)
			if err != nil {
				return nil, err
			}
			repo = repositorycache.New(repo, cacheService, cache.NewDefaultKeySerializer())
		}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}

	return &Repository{
		settingStore: repo,
		clock:        clock,
		idGen:        idGen,
	}, nil
}

var (
	_ repository.Repository[*Record] = (*Repository)(nil)
	_ types.SettingsRepository       = (*Repository)(nil)
)

// ListSettings fetches setting records for one layer.
func (r *Repository) ListSettings(ctx context.Context, filter types.SettingFilter) ([]types.SettingRecord, error) {
	level := coalesceLevel(filter.Level)
	owner, err := layerOwner(level, filter.OwnerID)
	if err != nil {
		return nil, err
	}
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("level = ?", string(level)).
				Where("owner_id = ?", owner).
				OrderExpr("key ASC")
			if len(filter.Keys) > 0 {
				keys := make([]string, len(filter.Keys))
				for i, key := range filter.Keys {
					keys[i] = strings.ToLower(strings.TrimSpace(key))
				}
				q = q.Where("lower(key) IN (?)", bun.In(keys))
			}
			return q
		},
	}

	rows, _, err := r.List(ctx, criteria...)
	if err != nil {
		return nil, err
	}
	result := make([]types.SettingRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomain(row))
	}
	return result, nil
}

// UpsertSetting inserts or updates one layered setting entry.
func (r *Repository) UpsertSetting(ctx context.Context, record types.SettingRecord) (*types.SettingRecord, error) {
	level := coalesceLevel(record.Level)
	owner, err := layerOwner(level, record.OwnerID)
	if err != nil {
		return nil, err
	}
	now := r.clock.Now()
	payload := fromDomain(record)
	payload.Level = string(level)
	payload.OwnerID = owner
	payload.Value = cloneMap(payload.Value)

	existing, err := r.findExisting(ctx, level, owner, record.Key)
	switch {
	case err == nil && existing != nil:
		payload.ID = existing.ID
		payload.CreatedAt = existing.CreatedAt
		payload.Version = existing.Version + 1
		payload.UpdatedAt = now
		updated, err := r.Update(ctx, payload)
		if err != nil {
			return nil, err
		}
		return toDomainPtr(updated), nil
	case repository.IsRecordNotFound(err):
		payload.ID = r.idGen.UUID()
		payload.Version = 1
		payload.CreatedAt = now
		payload.UpdatedAt = now
		created, err := r.Create(ctx, payload)
		if err != nil {
			return nil, err
		}
		return toDomainPtr(created), nil
	default:
		return nil, err
	}
}

// DeleteSetting removes one layered setting entry.
func (r *Repository) DeleteSetting(ctx context.Context, ownerID uuid.UUID, level types.SettingLevel, key string) error {
	level = coalesceLevel(level)
	owner, err := layerOwner(level, ownerID)
	if err != nil {
		return err
	}
	existing, err := r.findExisting(ctx, level, owner, key)
	if err != nil {
		return err
	}
	return r.Delete(ctx, existing)
}

func (r *Repository) findExisting(ctx context.Context, level types.SettingLevel, owner uuid.UUID, key string) (*Record, error) {
	lowerKey := strings.ToLower(strings.TrimSpace(key))
	if lowerKey == "" {
		return nil, types.ErrSettingKeyRequired
	}
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("level = ?", string(level)).
				Where("owner_id = ?", owner).
				Where("lower(key) = ?", lowerKey).
				Limit(1)
		},
	}
	rows, _, err := r.List(ctx, criteria...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.NewRecordNotFound()
	}
	return rows[0], nil
}

// layerOwner validates the owner for the layer: system rows have no owner,
// owner rows require one.
func layerOwner(level types.SettingLevel, owner uuid.UUID) (uuid.UUID, error) {
	switch level {
	case types.SettingLevelSystem:
		return uuid.Nil, nil
	case types.SettingLevelOwner:
		if owner == uuid.Nil {
			return uuid.Nil, types.ErrOwnerRequired
		}
		return owner, nil
	default:
		return uuid.Nil, errors.New("settings: unknown level")
	}
}

func coalesceLevel(level types.SettingLevel) types.SettingLevel {
	if level == "" {
		return types.SettingLevelOwner
	}
	return level
}

func fromDomain(record types.SettingRecord) *Record {
	return &Record{
		ID:        record.ID,
		OwnerID:   record.OwnerID,
		Level:     string(record.Level),
		Key:       strings.TrimSpace(record.Key),
		Value:     cloneMap(record.Value),
		Version:   record.Version,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
		UpdatedBy: record.UpdatedBy,
	}
}

func toDomain(record *Record) types.SettingRecord {
	if record == nil {
		return types.SettingRecord{}
	}
	return types.SettingRecord{
		ID:        record.ID,
		OwnerID:   record.OwnerID,
		Level:     types.SettingLevel(record.Level),
		Key:       record.Key,
		Value:     cloneMap(record.Value),
		Version:   record.Version,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
		UpdatedBy: record.UpdatedBy,
	}
}

func toDomainPtr(record *Record) *types.SettingRecord {
	rec := toDomain(record)
	return &rec
}

// FromSettingRecord converts a domain setting record into the Bun model.
func FromSettingRecord(record types.SettingRecord) *Record {
	return fromDomain(record)
}

// ToSettingRecord converts the Bun model into the domain setting record.
func ToSettingRecord(record *Record) types.SettingRecord {
	return toDomain(record)
}

func cloneMap(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]any, len(origin))
	for k, v := range origin {
		out[k] = v
	}
	return out
}

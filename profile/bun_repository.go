package profile

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

// RepositoryConfig wires the Bun-backed profile repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type profileStore interface {
	repository.Repository[*Record]
}

// Repository implements types.ProfileRepository using Bun.
type Repository struct {
	profileStore
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs the default profile repository. WithCache wraps
// reads in the repository cache decorator.
func NewRepository(cfg RepositoryConfig, options ...RepositoryOption) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("profile: db or repository required")
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
		profileStore: repo,
		clock:        clock,
		idGen:        idGen,
	}, nil
}

var (
	_ repository.Repository[*Record] = (*Repository)(nil)
	_ types.ProfileRepository        = (*Repository)(nil)
)

// GetByOwner returns the owner's profile of the given kind, or nil when none
// exists yet.
func (r *Repository) GetByOwner(ctx context.Context, owner uuid.UUID, kind types.ProfileKind) (*types.Profile, error) {
	if owner == uuid.Nil {
		return nil, types.ErrOwnerRequired
	}
	if !kind.Valid() {
		return nil, types.ErrInvalidProfileKind
	}
	rec, err := r.Get(ctx, selectOwnerKind(owner, kind))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(rec), nil
}

// GetBySlug resolves a public profile page lookup.
func (r *Repository) GetBySlug(ctx context.Context, kind types.ProfileKind, slug string) (*types.Profile, error) {
	if !kind.Valid() {
		return nil, types.ErrInvalidProfileKind
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, types.ErrProfileNotFound
	}
	rec, err := r.Get(ctx,
		repository.SelectBy("kind", "=", string(kind)),
		repository.SelectBy("slug", "=", slug),
	)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, types.ErrProfileNotFound
		}
		return nil, err
	}
	return toDomain(rec), nil
}

// UpsertProfile inserts or updates the owner's profile for its kind. Slug
// uniqueness violations surface as types.ErrNameTaken.
func (r *Repository) UpsertProfile(ctx context.Context, profile types.Profile) (*types.Profile, error) {
	if profile.OwnerID == uuid.Nil {
		return nil, types.ErrOwnerRequired
	}
	if !profile.Kind.Valid() {
		return nil, types.ErrInvalidProfileKind
	}
	now := r.clock.Now()
	rec := fromDomain(profile)
	rec.UpdatedAt = now

	existing, err := r.Get(ctx, selectOwnerKind(profile.OwnerID, profile.Kind))
	switch {
	case err == nil:
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		updated, err := r.Update(ctx, rec)
		if err != nil {
			return nil, mapWriteError(err)
		}
		return toDomain(updated), nil
	case repository.IsRecordNotFound(err):
		rec.ID = r.idGen.UUID()
		rec.CreatedAt = now
		created, err := r.Create(ctx, rec)
		if err != nil {
			return nil, mapWriteError(err)
		}
		return toDomain(created), nil
	default:
		return nil, err
	}
}

// SlugTaken probes whether the slug is already used within the kind's
// collection by any profile not owned by excludeOwner.
func (r *Repository) SlugTaken(ctx context.Context, kind types.ProfileKind, slug string, excludeOwner uuid.UUID) (bool, error) {
	if !kind.Valid() {
		return false, types.ErrInvalidProfileKind
	}
	records, _, err := r.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("kind = ?", string(kind)).
			Where("slug = ?", slug).
			Limit(1)
		if excludeOwner != uuid.Nil {
			q = q.Where("owner_id != ?", excludeOwner)
		}
		return q
	})
	if err != nil {
		return false, err
	}
	return len(records) > 0, nil
}

// ListProfiles returns a paginated directory listing filtered by kind and
// keyword.
func (r *Repository) ListProfiles(ctx context.Context, filter types.ProfileFilter) (types.ProfilePage, error) {
	pagination := normalizePagination(filter.Pagination, 50, 200)
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.OrderExpr("LOWER(company_name) ASC").
				Limit(pagination.Limit).
				Offset(pagination.Offset)
			if filter.Kind != "" {
				q = q.Where("kind = ?", string(filter.Kind))
			}
			if len(filter.OwnerIDs) > 0 {
				q = q.Where("owner_id IN (?)", bun.In(filter.OwnerIDs))
			}
			if filter.Keyword != "" {
				keyword := "%" + strings.ToLower(strings.TrimSpace(filter.Keyword)) + "%"
				q = q.Where("LOWER(company_name) LIKE ? OR LOWER(description) LIKE ?", keyword, keyword)
			}
			return q
		},
	}

	records, total, err := r.List(ctx, criteria...)
	if err != nil {
		return types.ProfilePage{}, err
	}
	profiles := make([]types.Profile, 0, len(records))
	for _, record := range records {
		profiles = append(profiles, *toDomain(record))
	}
	return types.ProfilePage{
		Profiles:   profiles,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

func mapWriteError(err error) error {
	if repository.IsDuplicatedKey(err) {
		return types.ErrNameTaken
	}
	return err
}

func selectOwnerKind(owner uuid.UUID, kind types.ProfileKind) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("owner_id = ?", owner).Where("kind = ?", string(kind))
	}
}

func fromDomain(profile types.Profile) *Record {
	return &Record{
		OwnerID:       profile.OwnerID,
		Kind:          string(profile.Kind),
		CompanyName:   profile.CompanyName,
		ContactPerson: profile.ContactPerson,
		Phone:         profile.Phone,
		Website:       profile.Website,
		Description:   profile.Description,
		Address:       profile.Address,
		Mission:       profile.Mission,
		Vision:        profile.Vision,
		History:       profile.History,
		LogoURL:       profile.LogoURL,
		LogoPath:      profile.LogoPath,
		Slug:          profile.Slug,
		CreatedAt:     profile.CreatedAt,
		UpdatedAt:     profile.UpdatedAt,
		UpdatedBy:     profile.UpdatedBy,
	}
}

func toDomain(rec *Record) *types.Profile {
	if rec == nil {
		return nil
	}
	return &types.Profile{
		OwnerID:       rec.OwnerID,
		Kind:          types.ProfileKind(rec.Kind),
		CompanyName:   rec.CompanyName,
		ContactPerson: rec.ContactPerson,
		Phone:         rec.Phone,
		Website:       rec.Website,
		Description:   rec.Description,
		Address:       rec.Address,
		Mission:       rec.Mission,
		Vision:        rec.Vision,
		History:       rec.History,
		LogoURL:       rec.LogoURL,
		LogoPath:      rec.LogoPath,
		Slug:          rec.Slug,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
		UpdatedBy:     rec.UpdatedBy,
	}
}

func normalizePagination(p types.Pagination, def, max int) types.Pagination {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

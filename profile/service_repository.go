package profile

import (
	"context"
	"errors"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/wrapsnp/go-directory/pkg/types"
)

// ServiceRepositoryConfig wires the Bun-backed service entry repository.
type ServiceRepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*ServiceRecord]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// ServiceRepository implements types.ServiceRepository using Bun.
type ServiceRepository struct {
	services repository.Repository[*ServiceRecord]
	clock    types.Clock
	idGen    types.IDGenerator
}

// NewServiceRepository constructs the default service entry repository.
func NewServiceRepository(cfg ServiceRepositoryConfig) (*ServiceRepository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("profile: db or service repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*ServiceRecord]{
			NewRecord: func() *ServiceRecord { return &ServiceRecord{} },
			GetID: func(rec *ServiceRecord) uuid.UUID {
				if rec == nil {
					return uuid.Nil
				}
				return rec.ID
			},
			SetID: func(rec *ServiceRecord, id uuid.UUID) {
				if rec != nil {
					rec.ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	return &ServiceRepository{services: repo, clock: clock, idGen: idGen}, nil
}

var _ types.ServiceRepository = (*ServiceRepository)(nil)

// UpsertService inserts a new entry when ID is nil, otherwise updates the
// owner's existing entry.
func (r *ServiceRepository) UpsertService(ctx context.Context, entry types.ServiceEntry) (*types.ServiceEntry, error) {
	if entry.OwnerID == uuid.Nil {
		return nil, types.ErrOwnerRequired
	}
	now := r.clock.Now()
	rec := serviceFromDomain(entry)
	rec.UpdatedAt = now

	if rec.ID == uuid.Nil {
		rec.ID = r.idGen.UUID()
		rec.CreatedAt = now
		created, err := r.services.Create(ctx, rec)
		if err != nil {
			return nil, err
		}
		return serviceToDomain(created), nil
	}

	existing, err := r.services.GetByID(ctx, rec.ID.String(), selectServiceOwner(entry.OwnerID))
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = existing.CreatedAt
	updated, err := r.services.Update(ctx, rec)
	if err != nil {
		return nil, err
	}
	return serviceToDomain(updated), nil
}

// DeleteService removes the owner's entry. The delete is scoped to the owner,
// so a foreign id is a no-op.
func (r *ServiceRepository) DeleteService(ctx context.Context, id uuid.UUID, owner uuid.UUID) error {
	if owner == uuid.Nil {
		return types.ErrOwnerRequired
	}
	return r.services.DeleteWhere(ctx, func(q *bun.DeleteQuery) *bun.DeleteQuery {
		return q.Where("id = ? AND owner_id = ?", id, owner)
	})
}

// ListServices returns the owner's entries in insertion order.
func (r *ServiceRepository) ListServices(ctx context.Context, owner uuid.UUID) ([]types.ServiceEntry, error) {
	if owner == uuid.Nil {
		return nil, types.ErrOwnerRequired
	}
	records, _, err := r.services.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("owner_id = ?", owner).OrderExpr("created_at ASC")
	})
	if err != nil {
		return nil, err
	}
	entries := make([]types.ServiceEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, *serviceToDomain(record))
	}
	return entries, nil
}

func selectServiceOwner(owner uuid.UUID) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("owner_id = ?", owner)
	}
}

func serviceFromDomain(entry types.ServiceEntry) *ServiceRecord {
	return &ServiceRecord{
		ID:          entry.ID,
		OwnerID:     entry.OwnerID,
		Title:       entry.Title,
		Description: entry.Description,
		Icon:        entry.Icon,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}

func serviceToDomain(rec *ServiceRecord) *types.ServiceEntry {
	if rec == nil {
		return nil
	}
	return &types.ServiceEntry{
		ID:          rec.ID,
		OwnerID:     rec.OwnerID,
		Title:       rec.Title,
		Description: rec.Description,
		Icon:        rec.Icon,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

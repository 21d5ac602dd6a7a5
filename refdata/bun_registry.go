// Package refdata persists the global brand and product-category lists that
// dealer profiles link against.
package refdata

import (
	"context"
	"errors"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/slug"
)

// RegistryConfig configures the Bun-backed reference registry.
type RegistryConfig struct {
	DB          *bun.DB
	Repository  repository.Repository[*Record]
	Clock       types.Clock
	Hooks       types.Hooks
	Logger      types.Logger
	IDGenerator types.IDGenerator
}

// Registry persists reference entries using a Bun repository.
type Registry struct {
	entries repository.Repository[*Record]
	clock   types.Clock
	hooks   types.Hooks
	logger  types.Logger
	idGen   types.IDGenerator
}

// NewRegistry constructs the default registry. Either DB or a repository must
// be provided.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	repo := cfg.Repository
	if repo == nil {
		if cfg.DB == nil {
			return nil, errors.New("refdata: db or repository required")
		}
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
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	return &Registry{
		entries: repo,
		clock:   clock,
		hooks:   cfg.Hooks,
		logger:  logger,
		idGen:   idGen,
	}, nil
}

var _ types.ReferenceRegistry = (*Registry)(nil)

// CreateReference inserts a named entry into the kind's list. Names that
// normalize to the same slug collide and surface as types.ErrNameTaken.
func (r *Registry) CreateReference(ctx context.Context, kind types.ReferenceKind, name string, actor uuid.UUID) (*types.Reference, error) {
	if !kind.Valid() {
		return nil, types.ErrInvalidReferenceKind
	}
	name = strings.TrimSpace(name)
	derived := slug.Make(name)
	if derived == "" {
		return nil, slug.ErrEmptySlug
	}
	now := r.clock.Now()
	rec := &Record{
		ID:        r.idGen.UUID(),
		Kind:      string(kind),
		Name:      name,
		Slug:      derived,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	created, err := r.entries.Create(ctx, rec)
	if err != nil {
		return nil, mapWriteError(err)
	}
	ref := toDomain(created)
	r.emitReferenceEvent(ctx, types.ReferenceEvent{
		ReferenceID: ref.ID,
		Kind:        kind,
		Action:      "reference.created",
		ActorID:     actor,
		OccurredAt:  now,
		Reference:   *ref,
	})
	return ref, nil
}

// RenameReference changes the entry's name and re-derives its slug.
func (r *Registry) RenameReference(ctx context.Context, kind types.ReferenceKind, id uuid.UUID, name string, actor uuid.UUID) (*types.Reference, error) {
	if !kind.Valid() {
		return nil, types.ErrInvalidReferenceKind
	}
	name = strings.TrimSpace(name)
	derived := slug.Make(name)
	if derived == "" {
		return nil, slug.ErrEmptySlug
	}
	rec, err := r.entries.GetByID(ctx, id.String(), selectKind(kind))
	if err != nil {
		return nil, mapReadError(err)
	}
	rec.Name = name
	rec.Slug = derived
	rec.UpdatedAt = r.clock.Now()
	rec.UpdatedBy = actor

	updated, err := r.entries.Update(ctx, rec)
	if err != nil {
		return nil, mapWriteError(err)
	}
	ref := toDomain(updated)
	r.emitReferenceEvent(ctx, types.ReferenceEvent{
		ReferenceID: ref.ID,
		Kind:        kind,
		Action:      "reference.renamed",
		ActorID:     actor,
		OccurredAt:  rec.UpdatedAt,
		Reference:   *ref,
	})
	return ref, nil
}

// DeleteReference removes the entry. Relation rows pointing at it are removed
// by the schema's cascading foreign keys.
func (r *Registry) DeleteReference(ctx context.Context, kind types.ReferenceKind, id uuid.UUID, actor uuid.UUID) error {
	if !kind.Valid() {
		return types.ErrInvalidReferenceKind
	}
	rec, err := r.entries.GetByID(ctx, id.String(), selectKind(kind))
	if err != nil {
		return mapReadError(err)
	}
	if err := r.entries.Delete(ctx, rec); err != nil {
		return err
	}
	r.emitReferenceEvent(ctx, types.ReferenceEvent{
		ReferenceID: rec.ID,
		Kind:        kind,
		Action:      "reference.deleted",
		ActorID:     actor,
		OccurredAt:  r.clock.Now(),
		Reference:   *toDomain(rec),
	})
	return nil
}

// GetReference returns a single entry within the kind's list.
func (r *Registry) GetReference(ctx context.Context, kind types.ReferenceKind, id uuid.UUID) (*types.Reference, error) {
	if !kind.Valid() {
		return nil, types.ErrInvalidReferenceKind
	}
	rec, err := r.entries.GetByID(ctx, id.String(), selectKind(kind))
	if err != nil {
		return nil, mapReadError(err)
	}
	return toDomain(rec), nil
}

// ListReferences returns a paginated, name-ordered slice of the kind's list.
func (r *Registry) ListReferences(ctx context.Context, kind types.ReferenceKind, filter types.ReferenceFilter) (types.ReferencePage, error) {
	if !kind.Valid() {
		return types.ReferencePage{}, types.ErrInvalidReferenceKind
	}
	pagination := normalizePagination(filter.Pagination, 100, 500)
	criteria := []repository.SelectCriteria{
		selectKind(kind),
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.OrderExpr("LOWER(name) ASC").
				Limit(pagination.Limit).
				Offset(pagination.Offset)
			if len(filter.IDs) > 0 {
				q = q.Where("id IN (?)", bun.In(filter.IDs))
			}
			if filter.Keyword != "" {
				keyword := "%" + strings.ToLower(strings.TrimSpace(filter.Keyword)) + "%"
				q = q.Where("LOWER(name) LIKE ?", keyword)
			}
			return q
		},
	}
	records, total, err := r.entries.List(ctx, criteria...)
	if err != nil {
		return types.ReferencePage{}, err
	}
	refs := make([]types.Reference, 0, len(records))
	for _, record := range records {
		refs = append(refs, *toDomain(record))
	}
	return types.ReferencePage{
		References: refs,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

func (r *Registry) emitReferenceEvent(ctx context.Context, evt types.ReferenceEvent) {
	if r.hooks.AfterReferenceChange == nil {
		return
	}
	r.hooks.AfterReferenceChange(ctx, evt)
}

func mapWriteError(err error) error {
	if repository.IsDuplicatedKey(err) {
		return types.ErrNameTaken
	}
	return err
}

func mapReadError(err error) error {
	if repository.IsRecordNotFound(err) {
		return types.ErrReferenceNotFound
	}
	return err
}

func selectKind(kind types.ReferenceKind) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("kind = ?", string(kind))
	}
}

func toDomain(rec *Record) *types.Reference {
	if rec == nil {
		return nil
	}
	return &types.Reference{
		ID:        rec.ID,
		Kind:      types.ReferenceKind(rec.Kind),
		Name:      rec.Name,
		Slug:      rec.Slug,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		CreatedBy: rec.CreatedBy,
		UpdatedBy: rec.UpdatedBy,
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

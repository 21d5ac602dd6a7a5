package profile

import (
	"context"
	"errors"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/wrapsnp/go-directory/pkg/types"
)

// MediaRepositoryConfig wires the Bun-backed media repository.
type MediaRepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*MediaRecord]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// MediaRepository implements types.MediaRepository using Bun.
type MediaRepository struct {
	media repository.Repository[*MediaRecord]
	clock types.Clock
	idGen types.IDGenerator
}

// NewMediaRepository constructs the default media repository.
func NewMediaRepository(cfg MediaRepositoryConfig) (*MediaRepository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("profile: db or media repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*MediaRecord]{
			NewRecord: func() *MediaRecord { return &MediaRecord{} },
			GetID: func(rec *MediaRecord) uuid.UUID {
				if rec == nil {
					return uuid.Nil
				}
				return rec.ID
			},
			SetID: func(rec *MediaRecord, id uuid.UUID) {
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
	return &MediaRepository{media: repo, clock: clock, idGen: idGen}, nil
}

var _ types.MediaRepository = (*MediaRepository)(nil)

// CreateMedia inserts a media row for the owning profile.
func (r *MediaRepository) CreateMedia(ctx context.Context, item types.MediaItem) (*types.MediaItem, error) {
	if item.OwnerID == uuid.Nil {
		return nil, types.ErrOwnerRequired
	}
	rec := mediaFromDomain(item)
	if rec.ID == uuid.Nil {
		rec.ID = r.idGen.UUID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.clock.Now()
	}
	created, err := r.media.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return mediaToDomain(created), nil
}

// GetMedia fetches a single media row.
func (r *MediaRepository) GetMedia(ctx context.Context, id uuid.UUID) (*types.MediaItem, error) {
	rec, err := r.media.GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, types.ErrMediaNotFound
		}
		return nil, err
	}
	return mediaToDomain(rec), nil
}

// DeleteMedia removes a media row. The caller is responsible for the blob.
func (r *MediaRepository) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	rec, err := r.media.GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return types.ErrMediaNotFound
		}
		return err
	}
	return r.media.Delete(ctx, rec)
}

// ListMedia returns the owner's media of one kind, newest first.
func (r *MediaRepository) ListMedia(ctx context.Context, owner uuid.UUID, kind types.MediaKind) ([]types.MediaItem, error) {
	if owner == uuid.Nil {
		return nil, types.ErrOwnerRequired
	}
	records, _, err := r.media.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("owner_id = ?", owner).OrderExpr("created_at DESC")
		if kind != "" {
			q = q.Where("kind = ?", string(kind))
		}
		return q
	})
	if err != nil {
		return nil, err
	}
	items := make([]types.MediaItem, 0, len(records))
	for _, record := range records {
		items = append(items, *mediaToDomain(record))
	}
	return items, nil
}

func mediaFromDomain(item types.MediaItem) *MediaRecord {
	return &MediaRecord{
		ID:        item.ID,
		OwnerID:   item.OwnerID,
		Kind:      string(item.Kind),
		Title:     item.Title,
		Issuer:    item.Issuer,
		IssuedOn:  item.IssuedOn,
		URL:       item.URL,
		Path:      item.Path,
		CreatedAt: item.CreatedAt,
		CreatedBy: item.CreatedBy,
	}
}

func mediaToDomain(rec *MediaRecord) *types.MediaItem {
	if rec == nil {
		return nil
	}
	return &types.MediaItem{
		ID:        rec.ID,
		OwnerID:   rec.OwnerID,
		Kind:      types.MediaKind(rec.Kind),
		Title:     rec.Title,
		Issuer:    rec.Issuer,
		IssuedOn:  rec.IssuedOn,
		URL:       rec.URL,
		Path:      rec.Path,
		CreatedAt: rec.CreatedAt,
		CreatedBy: rec.CreatedBy,
	}
}

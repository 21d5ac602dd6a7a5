package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
)

// MediaListInput scopes owner-facing media listings.
type MediaListInput struct {
	Owner uuid.UUID
	Kind  types.MediaKind
	Actor types.ActorRef
}

// MediaListQuery lists an owner's media for the dashboard.
type MediaListQuery struct {
	repo  types.MediaRepository
	guard scope.Guard
}

// NewMediaListQuery constructs the media list query.
func NewMediaListQuery(repo types.MediaRepository, guard scope.Guard) *MediaListQuery {
	return &MediaListQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[MediaListInput, []types.MediaItem] = (*MediaListQuery)(nil)

// Query returns the owner's media of the given kind.
func (q *MediaListQuery) Query(ctx context.Context, input MediaListInput) ([]types.MediaItem, error) {
	if q.repo == nil {
		return nil, types.ErrMissingMediaRepository
	}
	owner, err := q.guard.Enforce(ctx, input.Actor, types.PolicyActionProfilesRead, input.Owner)
	if err != nil {
		return nil, err
	}
	return q.repo.ListMedia(ctx, owner, input.Kind)
}

// ServiceListInput scopes owner-facing service listings.
type ServiceListInput struct {
	Owner uuid.UUID
	Actor types.ActorRef
}

// ServiceListQuery lists an owner's service entries for the dashboard.
type ServiceListQuery struct {
	repo  types.ServiceRepository
	guard scope.Guard
}

// NewServiceListQuery constructs the service list query.
func NewServiceListQuery(repo types.ServiceRepository, guard scope.Guard) *ServiceListQuery {
	return &ServiceListQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[ServiceListInput, []types.ServiceEntry] = (*ServiceListQuery)(nil)

// Query returns the owner's service entries.
func (q *ServiceListQuery) Query(ctx context.Context, input ServiceListInput) ([]types.ServiceEntry, error) {
	if q.repo == nil {
		return nil, types.ErrMissingServiceRepository
	}
	owner, err := q.guard.Enforce(ctx, input.Actor, types.PolicyActionProfilesRead, input.Owner)
	if err != nil {
		return nil, err
	}
	return q.repo.ListServices(ctx, owner)
}

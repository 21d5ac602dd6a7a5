package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
)

// ActivityFeedQuery renders paginated audit feeds for dashboards. Non-admin
// actors only ever see their own records.
type ActivityFeedQuery struct {
	repo  types.ActivityRepository
	guard scope.Guard
}

// NewActivityFeedQuery constructs the feed query helper.
func NewActivityFeedQuery(repo types.ActivityRepository, guard scope.Guard) *ActivityFeedQuery {
	return &ActivityFeedQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[types.ActivityFilter, types.ActivityPage] = (*ActivityFeedQuery)(nil)

// Query fetches a page of activity records via the injected repository.
func (q *ActivityFeedQuery) Query(ctx context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	if q.repo == nil {
		return types.ActivityPage{}, types.ErrMissingActivityRepository
	}
	owner, err := q.guard.Enforce(ctx, filter.Actor, types.PolicyActionActivityRead, filter.OwnerID)
	if err != nil {
		return types.ActivityPage{}, err
	}
	if !filter.Actor.IsAdmin() {
		filter.OwnerID = owner
	}
	return q.repo.ListActivity(ctx, filter)
}

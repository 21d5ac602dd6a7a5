package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
)

// ReferenceListInput filters one global reference list.
type ReferenceListInput struct {
	Kind       types.ReferenceKind
	Keyword    string
	IDs        []uuid.UUID
	Pagination types.Pagination
}

// ReferenceListQuery lists brands or product categories. Public: the lists
// feed both the admin panel and the public filter dropdowns.
type ReferenceListQuery struct {
	registry types.ReferenceRegistry
}

// NewReferenceListQuery constructs the reference list query.
func NewReferenceListQuery(registry types.ReferenceRegistry) *ReferenceListQuery {
	return &ReferenceListQuery{registry: registry}
}

var _ gocommand.Querier[ReferenceListInput, types.ReferencePage] = (*ReferenceListQuery)(nil)

// Query returns the paginated list.
func (q *ReferenceListQuery) Query(ctx context.Context, input ReferenceListInput) (types.ReferencePage, error) {
	if q.registry == nil {
		return types.ReferencePage{}, types.ErrMissingReferenceRegistry
	}
	if !input.Kind.Valid() {
		return types.ReferencePage{}, types.ErrInvalidReferenceKind
	}
	return q.registry.ListReferences(ctx, input.Kind, types.ReferenceFilter{
		Keyword:    input.Keyword,
		IDs:        input.IDs,
		Pagination: input.Pagination,
	})
}

// RelationMembersInput identifies one profile relation.
type RelationMembersInput struct {
	Owner    uuid.UUID
	Relation types.Relation
	Actor    types.ActorRef
}

// RelationMembersQuery returns the owner's current membership set, resolved
// as full reference entries.
type RelationMembersQuery struct {
	sync     types.RelationSynchronizer
	registry types.ReferenceRegistry
	guard    scope.Guard
}

// NewRelationMembersQuery constructs the members query.
func NewRelationMembersQuery(sync types.RelationSynchronizer, registry types.ReferenceRegistry, guard scope.Guard) *RelationMembersQuery {
	return &RelationMembersQuery{
		sync:     sync,
		registry: registry,
		guard:    safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[RelationMembersInput, []types.Reference] = (*RelationMembersQuery)(nil)

// Query resolves the membership ids against the matching reference list.
// Dangling ids (entry deleted since) are silently dropped.
func (q *RelationMembersQuery) Query(ctx context.Context, input RelationMembersInput) ([]types.Reference, error) {
	if q.sync == nil {
		return nil, types.ErrMissingRelationSynchronizer
	}
	if q.registry == nil {
		return nil, types.ErrMissingReferenceRegistry
	}
	if !input.Relation.Valid() {
		return nil, types.ErrInvalidRelation
	}
	owner, err := q.guard.Enforce(ctx, input.Actor, types.PolicyActionProfilesRead, input.Owner)
	if err != nil {
		return nil, err
	}
	ids, err := q.sync.Members(ctx, owner, input.Relation)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	kind := types.ReferenceKindBrand
	if input.Relation == types.RelationCategories {
		kind = types.ReferenceKindCategory
	}
	page, err := q.registry.ListReferences(ctx, kind, types.ReferenceFilter{
		IDs:        ids,
		Pagination: types.Pagination{Limit: len(ids)},
	})
	if err != nil {
		return nil, err
	}
	return page.References, nil
}

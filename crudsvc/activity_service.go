package crudsvc

import (
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"

	"github.com/wrapsnp/go-directory/crudguard"
	"github.com/wrapsnp/go-directory/pkg/types"
)

// ActivityServiceConfig wires dependencies for the audit feed controller.
type ActivityServiceConfig struct {
	Guard      GuardAdapter
	Repository types.ActivityRepository
}

// ActivityService exposes the audit feed as a read-only go-crud listing.
// Non-admin actors only ever see records for their own account.
type ActivityService struct {
	guard  GuardAdapter
	repo   types.ActivityRepository
	logger types.Logger
}

// NewActivityService constructs the adapter.
func NewActivityService(cfg ActivityServiceConfig, opts ...ServiceOption) *ActivityService {
	options := applyOptions(opts)
	return &ActivityService{
		guard:  cfg.Guard,
		repo:   cfg.Repository,
		logger: options.logger,
	}
}

func (s *ActivityService) Create(crud.Context, *types.ActivityRecord) (*types.ActivityRecord, error) {
	return nil, notSupported(crud.OpCreate)
}

func (s *ActivityService) CreateBatch(crud.Context, []*types.ActivityRecord) ([]*types.ActivityRecord, error) {
	return nil, notSupported(crud.OpCreateBatch)
}

func (s *ActivityService) Update(crud.Context, *types.ActivityRecord) (*types.ActivityRecord, error) {
	return nil, notSupported(crud.OpUpdate)
}

func (s *ActivityService) UpdateBatch(crud.Context, []*types.ActivityRecord) ([]*types.ActivityRecord, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *ActivityService) Delete(crud.Context, *types.ActivityRecord) error {
	return notSupported(crud.OpDelete)
}

func (s *ActivityService) DeleteBatch(crud.Context, []*types.ActivityRecord) error {
	return notSupported(crud.OpDeleteBatch)
}

// Index lists audit records. Filters: "owner_id", "verb" (comma separated),
// "object_type", "since"/"until" (RFC3339), "limit"/"offset".
func (s *ActivityService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*types.ActivityRecord, int, error) {
	if s.repo == nil {
		return nil, 0, goerrors.New("activity repository missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
		OwnerID:   queryUUID(ctx, "owner_id"),
	})
	if err != nil {
		return nil, 0, err
	}
	filter := types.ActivityFilter{
		Actor:      res.Actor,
		OwnerID:    res.Owner,
		Verbs:      queryStringSlice(ctx, "verb"),
		ObjectType: ctx.Query("object_type"),
		Since:      queryTime(ctx, "since"),
		Until:      queryTime(ctx, "until"),
		Pagination: types.Pagination{
			Limit:  queryInt(ctx, "limit", 50),
			Offset: queryInt(ctx, "offset", 0),
		},
	}
	if !res.Actor.IsAdmin() {
		filter.OwnerID = res.Actor.ID
	}
	page, err := s.repo.ListActivity(ctx.UserContext(), filter)
	if err != nil {
		return nil, 0, err
	}
	records := make([]*types.ActivityRecord, 0, len(page.Records))
	for i := range page.Records {
		record := page.Records[i]
		records = append(records, &record)
	}
	return records, page.Total, nil
}

// Show is not supported; the feed has no single-record admin view.
func (s *ActivityService) Show(crud.Context, string, []repository.SelectCriteria) (*types.ActivityRecord, error) {
	return nil, notSupported(crud.OpRead)
}

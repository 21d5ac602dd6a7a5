package crudsvc

import (
	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/crudguard"
	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/query"
)

// ProfileServiceConfig wires dependencies for the profile inventory
// controller.
type ProfileServiceConfig struct {
	Guard    GuardAdapter
	Listing  gocommand.Querier[query.DirectoryListInput, types.ProfilePage]
	Profiles types.ProfileRepository
}

// ProfileService provides a read-only go-crud service backed by the
// directory listing query so admin panels can list/search profiles without
// bypassing guards. Profile mutations go through the command pipeline.
type ProfileService struct {
	guard    GuardAdapter
	listing  gocommand.Querier[query.DirectoryListInput, types.ProfilePage]
	profiles types.ProfileRepository
	logger   types.Logger
}

// NewProfileService constructs the adapter.
func NewProfileService(cfg ProfileServiceConfig, opts ...ServiceOption) *ProfileService {
	options := applyOptions(opts)
	return &ProfileService{
		guard:    cfg.Guard,
		listing:  cfg.Listing,
		profiles: cfg.Profiles,
		logger:   options.logger,
	}
}

func (s *ProfileService) Create(crud.Context, *types.Profile) (*types.Profile, error) {
	return nil, notSupported(crud.OpCreate)
}

func (s *ProfileService) CreateBatch(crud.Context, []*types.Profile) ([]*types.Profile, error) {
	return nil, notSupported(crud.OpCreateBatch)
}

func (s *ProfileService) Update(crud.Context, *types.Profile) (*types.Profile, error) {
	return nil, notSupported(crud.OpUpdate)
}

func (s *ProfileService) UpdateBatch(crud.Context, []*types.Profile) ([]*types.Profile, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *ProfileService) Delete(crud.Context, *types.Profile) error {
	return notSupported(crud.OpDelete)
}

func (s *ProfileService) DeleteBatch(crud.Context, []*types.Profile) error {
	return notSupported(crud.OpDeleteBatch)
}

// Index lists profiles of one kind. The kind rides in the "kind" query
// parameter; "q" filters by keyword.
func (s *ProfileService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*types.Profile, int, error) {
	if s.listing == nil {
		return nil, 0, goerrors.New("directory listing query missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	if _, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
	}); err != nil {
		return nil, 0, err
	}
	kind := parseProfileKind(ctx.Query("kind"))
	if kind == "" {
		return nil, 0, goerrors.New("invalid profile kind", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	page, err := s.listing.Query(ctx.UserContext(), query.DirectoryListInput{
		Kind:    kind,
		Keyword: ctx.Query("q"),
		Pagination: types.Pagination{
			Limit:  queryInt(ctx, "limit", 50),
			Offset: queryInt(ctx, "offset", 0),
		},
	})
	if err != nil {
		return nil, 0, err
	}
	records := make([]*types.Profile, 0, len(page.Profiles))
	for i := range page.Profiles {
		profile := page.Profiles[i]
		records = append(records, &profile)
	}
	return records, page.Total, nil
}

// Show loads one profile by owner id; the kind rides in the "kind" query
// parameter.
func (s *ProfileService) Show(ctx crud.Context, id string, _ []repository.SelectCriteria) (*types.Profile, error) {
	if s.profiles == nil {
		return nil, goerrors.New("profile repository missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	ownerID, err := uuid.Parse(id)
	if err != nil {
		return nil, goerrors.New("invalid owner id", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	kind := parseProfileKind(ctx.Query("kind"))
	if kind == "" {
		return nil, goerrors.New("invalid profile kind", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	if _, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpRead,
		OwnerID:   ownerID,
	}); err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetByOwner(ctx.UserContext(), ownerID, kind)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, goerrors.New("profile not found", goerrors.CategoryNotFound).WithCode(goerrors.CodeNotFound)
	}
	return profile, nil
}

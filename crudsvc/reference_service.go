package crudsvc

import (
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/crudguard"
	"github.com/wrapsnp/go-directory/pkg/types"
)

// ReferenceServiceConfig wires dependencies for the reference list
// controller.
type ReferenceServiceConfig struct {
	Guard    GuardAdapter
	Registry types.ReferenceRegistry
}

// ReferenceService provides a read-only go-crud service over the brand and
// category lists. Mutations are admin-only and go through the reference
// commands.
type ReferenceService struct {
	guard    GuardAdapter
	registry types.ReferenceRegistry
	logger   types.Logger
}

// NewReferenceService constructs the adapter.
func NewReferenceService(cfg ReferenceServiceConfig, opts ...ServiceOption) *ReferenceService {
	options := applyOptions(opts)
	return &ReferenceService{
		guard:    cfg.Guard,
		registry: cfg.Registry,
		logger:   options.logger,
	}
}

func (s *ReferenceService) Create(crud.Context, *types.Reference) (*types.Reference, error) {
	return nil, notSupported(crud.OpCreate)
}

func (s *ReferenceService) CreateBatch(crud.Context, []*types.Reference) ([]*types.Reference, error) {
	return nil, notSupported(crud.OpCreateBatch)
}

func (s *ReferenceService) Update(crud.Context, *types.Reference) (*types.Reference, error) {
	return nil, notSupported(crud.OpUpdate)
}

func (s *ReferenceService) UpdateBatch(crud.Context, []*types.Reference) ([]*types.Reference, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *ReferenceService) Delete(crud.Context, *types.Reference) error {
	return notSupported(crud.OpDelete)
}

func (s *ReferenceService) DeleteBatch(crud.Context, []*types.Reference) error {
	return notSupported(crud.OpDeleteBatch)
}

// Index lists references of one kind; the kind rides in the "kind" query
// parameter ("brand" or "product_category").
func (s *ReferenceService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*types.Reference, int, error) {
	if s.registry == nil {
		return nil, 0, goerrors.New("reference registry missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	if _, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
	}); err != nil {
		return nil, 0, err
	}
	kind := parseReferenceKind(ctx.Query("kind"))
	if kind == "" {
		return nil, 0, goerrors.New("invalid reference kind", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	page, err := s.registry.ListReferences(ctx.UserContext(), kind, types.ReferenceFilter{
		Keyword: ctx.Query("q"),
		Pagination: types.Pagination{
			Limit:  queryInt(ctx, "limit", 100),
			Offset: queryInt(ctx, "offset", 0),
		},
	})
	if err != nil {
		return nil, 0, err
	}
	records := make([]*types.Reference, 0, len(page.References))
	for i := range page.References {
		reference := page.References[i]
		records = append(records, &reference)
	}
	return records, page.Total, nil
}

// Show loads one reference by id; the kind rides in the "kind" query
// parameter.
func (s *ReferenceService) Show(ctx crud.Context, id string, _ []repository.SelectCriteria) (*types.Reference, error) {
	if s.registry == nil {
		return nil, goerrors.New("reference registry missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	refID, err := uuid.Parse(id)
	if err != nil {
		return nil, goerrors.New("invalid reference id", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	kind := parseReferenceKind(ctx.Query("kind"))
	if kind == "" {
		return nil, goerrors.New("invalid reference kind", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	if _, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpRead,
	}); err != nil {
		return nil, err
	}
	return s.registry.GetReference(ctx.UserContext(), kind, refID)
}

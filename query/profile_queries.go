package query

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
)

// ProfileDetailInput scopes owner-facing profile lookups.
type ProfileDetailInput struct {
	Owner uuid.UUID
	Kind  types.ProfileKind
	Actor types.ActorRef
}

// ProfileDetailQuery fetches a profile for its owner or an admin. Returns nil
// without error when the owner has not created the profile yet, so dashboards
// can render the empty form.
type ProfileDetailQuery struct {
	repo  types.ProfileRepository
	guard scope.Guard
}

// NewProfileDetailQuery constructs the detail query helper.
func NewProfileDetailQuery(repo types.ProfileRepository, guard scope.Guard) *ProfileDetailQuery {
	return &ProfileDetailQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[ProfileDetailInput, *types.Profile] = (*ProfileDetailQuery)(nil)

// Query returns the profile for the supplied identifiers.
func (q *ProfileDetailQuery) Query(ctx context.Context, input ProfileDetailInput) (*types.Profile, error) {
	if q.repo == nil {
		return nil, types.ErrMissingProfileRepository
	}
	kind := input.Kind
	if kind == "" {
		derived, ok := input.Actor.ProfileKind()
		if !ok {
			return nil, types.ErrInvalidProfileKind
		}
		kind = derived
	}
	owner, err := q.guard.Enforce(ctx, input.Actor, types.PolicyActionProfilesRead, input.Owner)
	if err != nil {
		return nil, err
	}
	return q.repo.GetByOwner(ctx, owner, kind)
}

// ProfilePageInput identifies one public profile page.
type ProfilePageInput struct {
	Kind types.ProfileKind
	Slug string
}

// ProfilePageView is everything a public profile page renders.
type ProfilePageView struct {
	Profile      types.Profile
	Services     []types.ServiceEntry
	Portfolio    []types.MediaItem
	Certificates []types.MediaItem
	BrandIDs     []uuid.UUID
	CategoryIDs  []uuid.UUID
}

// ProfilePageQueryConfig wires the public page query.
type ProfilePageQueryConfig struct {
	Profiles  types.ProfileRepository
	Services  types.ServiceRepository
	Media     types.MediaRepository
	Relations types.RelationSynchronizer
}

// ProfilePageQuery assembles the public profile page. No guard: the page is
// public. Kind-specific sections are only loaded for the kinds that render
// them.
type ProfilePageQuery struct {
	profiles  types.ProfileRepository
	services  types.ServiceRepository
	media     types.MediaRepository
	relations types.RelationSynchronizer
}

// NewProfilePageQuery constructs the public page query.
func NewProfilePageQuery(cfg ProfilePageQueryConfig) *ProfilePageQuery {
	return &ProfilePageQuery{
		profiles:  cfg.Profiles,
		services:  cfg.Services,
		media:     cfg.Media,
		relations: cfg.Relations,
	}
}

var _ gocommand.Querier[ProfilePageInput, *ProfilePageView] = (*ProfilePageQuery)(nil)

// Query resolves the slug and loads the page sections for the profile kind.
func (q *ProfilePageQuery) Query(ctx context.Context, input ProfilePageInput) (*ProfilePageView, error) {
	if q.profiles == nil {
		return nil, types.ErrMissingProfileRepository
	}
	if !input.Kind.Valid() {
		return nil, types.ErrInvalidProfileKind
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return nil, types.ErrProfileNotFound
	}
	profile, err := q.profiles.GetBySlug(ctx, input.Kind, slug)
	if err != nil {
		return nil, err
	}

	view := &ProfilePageView{Profile: *profile}
	switch input.Kind {
	case types.ProfileKindInstaller:
		if q.services != nil {
			if view.Services, err = q.services.ListServices(ctx, profile.OwnerID); err != nil {
				return nil, err
			}
		}
		if q.media != nil {
			if view.Portfolio, err = q.media.ListMedia(ctx, profile.OwnerID, types.MediaKindPortfolio); err != nil {
				return nil, err
			}
			if view.Certificates, err = q.media.ListMedia(ctx, profile.OwnerID, types.MediaKindCertificate); err != nil {
				return nil, err
			}
		}
	case types.ProfileKindDealer:
		if q.relations != nil {
			if view.BrandIDs, err = q.relations.Members(ctx, profile.OwnerID, types.RelationBrands); err != nil {
				return nil, err
			}
			if view.CategoryIDs, err = q.relations.Members(ctx, profile.OwnerID, types.RelationCategories); err != nil {
				return nil, err
			}
		}
	}
	return view, nil
}

// DirectoryListInput filters the public directory listing.
type DirectoryListInput struct {
	Kind       types.ProfileKind
	Keyword    string
	Pagination types.Pagination
}

// DirectoryListQuery lists profiles of one kind for the public directory.
type DirectoryListQuery struct {
	repo types.ProfileRepository
}

// NewDirectoryListQuery constructs the listing query.
func NewDirectoryListQuery(repo types.ProfileRepository) *DirectoryListQuery {
	return &DirectoryListQuery{repo: repo}
}

var _ gocommand.Querier[DirectoryListInput, types.ProfilePage] = (*DirectoryListQuery)(nil)

// Query returns the paginated listing.
func (q *DirectoryListQuery) Query(ctx context.Context, input DirectoryListInput) (types.ProfilePage, error) {
	if q.repo == nil {
		return types.ProfilePage{}, types.ErrMissingProfileRepository
	}
	if !input.Kind.Valid() {
		return types.ProfilePage{}, types.ErrInvalidProfileKind
	}
	return q.repo.ListProfiles(ctx, types.ProfileFilter{
		Kind:       input.Kind,
		Keyword:    input.Keyword,
		Pagination: input.Pagination,
	})
}

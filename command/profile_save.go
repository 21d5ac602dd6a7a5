package command

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/assets"
	"github.com/wrapsnp/go-directory/pagecache"
	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
	"github.com/wrapsnp/go-directory/slug"
	"github.com/wrapsnp/go-directory/validate"
)

// ProfileCommandConfig wires dependencies for the profile save command.
type ProfileCommandConfig struct {
	Repository  types.ProfileRepository
	Assets      *assets.Replacer
	Relations   types.RelationSynchronizer
	Invalidator types.PageInvalidator
	FeatureGate featuregate.FeatureGate
	Hooks       types.Hooks
	Clock       types.Clock
	Logger      types.Logger
	ScopeGuard  scope.Guard
	Activity    types.ActivitySink
}

// ProfileSaveInput captures one profile save request. Nil BrandIDs and
// CategoryIDs leave the relation untouched; empty non-nil slices clear it.
type ProfileSaveInput struct {
	Owner       uuid.UUID
	Kind        types.ProfileKind
	Fields      validate.ProfileFields
	Logo        *types.Upload
	BrandIDs    []uuid.UUID
	CategoryIDs []uuid.UUID
	Actor       types.ActorRef
	Result      *ProfileSaveResult
}

// ProfileSaveResult reports what the save changed.
type ProfileSaveResult struct {
	Profile types.Profile
	// LogoReplaced is true when a new logo blob was stored.
	LogoReplaced bool
	// CleanupErr is set when the previous logo blob could not be removed. The
	// save itself succeeded.
	CleanupErr error
	// RelationsSynced is true when at least one relation set was replaced.
	RelationsSynced bool
	// StalePages lists the public page paths invalidated by the save.
	StalePages []string
}

// Type implements gocommand.Message.
func (ProfileSaveInput) Type() string {
	return "command.profile.save"
}

// Validate implements gocommand.Message.
func (input ProfileSaveInput) Validate() error {
	if input.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	if input.Kind != "" && !input.Kind.Valid() {
		return types.ErrInvalidProfileKind
	}
	return nil
}

// ProfileSaveCommand runs the full save pipeline: validate input, replace the
// logo asset, allocate a slug, upsert the record, synchronize relations, and
// invalidate the affected public pages.
type ProfileSaveCommand struct {
	repo        types.ProfileRepository
	assets      *assets.Replacer
	relations   types.RelationSynchronizer
	invalidator types.PageInvalidator
	gate        featuregate.FeatureGate
	hooks       types.Hooks
	clock       types.Clock
	logger      types.Logger
	guard       scope.Guard
	activity    types.ActivitySink
}

// NewProfileSaveCommand constructs the save command handler.
func NewProfileSaveCommand(cfg ProfileCommandConfig) *ProfileSaveCommand {
	return &ProfileSaveCommand{
		repo:        cfg.Repository,
		assets:      cfg.Assets,
		relations:   cfg.Relations,
		invalidator: cfg.Invalidator,
		gate:        cfg.FeatureGate,
		hooks:       safeHooks(cfg.Hooks),
		clock:       safeClock(cfg.Clock),
		logger:      safeLogger(cfg.Logger),
		guard:       safeScopeGuard(cfg.ScopeGuard),
		activity:    cfg.Activity,
	}
}

var _ gocommand.Commander[ProfileSaveInput] = (*ProfileSaveCommand)(nil)

// Execute runs the save pipeline. Validation and authorization failures abort
// before any side effect; a relation sync failure after the profile write is
// reported as ErrRelationSyncFailed with the saved profile in Result.
func (c *ProfileSaveCommand) Execute(ctx context.Context, input ProfileSaveInput) error {
	if c.repo == nil {
		return types.ErrMissingProfileRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	kind := input.Kind
	if kind == "" {
		derived, ok := input.Actor.ProfileKind()
		if !ok {
			return types.ErrInvalidProfileKind
		}
		kind = derived
	}
	if (input.BrandIDs != nil || input.CategoryIDs != nil) && kind != types.ProfileKindDealer {
		return ErrRelationsDealerOnly
	}

	owner, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionProfilesWrite, input.Owner)
	if err != nil {
		return err
	}

	if err := input.Fields.Validate(); err != nil {
		return err
	}
	if err := validate.Upload(input.Logo, validate.LogoMaxBytes); err != nil {
		return err
	}

	existing, err := c.repo.GetByOwner(ctx, owner, kind)
	if err != nil {
		return err
	}

	profile := types.Profile{OwnerID: owner, Kind: kind}
	previousSlug := ""
	if existing != nil {
		profile = *existing
		previousSlug = existing.Slug
	}
	applyProfilePatch(&profile, input.Fields.Patch())
	profile.UpdatedBy = input.Actor.ID

	replaceResult, err := c.replaceLogo(ctx, owner, input.Logo, existing)
	if err != nil {
		return err
	}
	profile.LogoURL = replaceResult.URL
	profile.LogoPath = replaceResult.Path

	allocated, err := c.allocateSlug(ctx, kind, owner, profile.CompanyName, previousSlug)
	if err != nil {
		return err
	}
	profile.Slug = allocated

	saved, err := c.repo.UpsertProfile(ctx, profile)
	if err != nil {
		return err
	}

	result := ProfileSaveResult{
		Profile:      *saved,
		LogoReplaced: replaceResult.Replaced,
		CleanupErr:   replaceResult.CleanupErr,
	}

	relationErr := c.syncRelations(ctx, owner, input, &result)

	result.StalePages = c.invalidatePages(ctx, kind, saved.Slug, previousSlug, input.Actor.ID)

	if input.Result != nil {
		*input.Result = result
	}

	occurredAt := now(c.clock)
	logActivity(ctx, c.activity, types.ActivityRecord{
		OwnerID:    owner,
		ActorID:    input.Actor.ID,
		Verb:       "profile.saved",
		ObjectType: "profile",
		ObjectID:   string(kind) + ":" + saved.Slug,
		OccurredAt: occurredAt,
		Data: map[string]any{
			"kind":          string(kind),
			"slug":          saved.Slug,
			"logo_replaced": result.LogoReplaced,
		},
	})
	emitProfileHook(ctx, c.hooks, types.ProfileEvent{
		OwnerID:      owner,
		Kind:         kind,
		ActorID:      input.Actor.ID,
		OccurredAt:   occurredAt,
		Profile:      *saved,
		PreviousSlug: previousSlug,
	})

	return relationErr
}

func (c *ProfileSaveCommand) replaceLogo(ctx context.Context, owner uuid.UUID, upload *types.Upload, existing *types.Profile) (assets.ReplaceResult, error) {
	currentURL := ""
	currentPath := ""
	if existing != nil {
		currentURL = existing.LogoURL
		currentPath = existing.LogoPath
	}
	if upload.Empty() {
		return assets.ReplaceResult{URL: currentURL, Path: currentPath}, nil
	}
	if c.assets == nil {
		return assets.ReplaceResult{}, types.ErrMissingAssetStore
	}
	return c.assets.Replace(ctx, assets.ReplaceInput{
		Owner:       owner,
		Upload:      upload,
		CurrentURL:  currentURL,
		CurrentPath: currentPath,
	})
}

// allocateSlug keeps the current slug whenever it still matches the company
// name, so a no-op save never burns a new suffix.
func (c *ProfileSaveCommand) allocateSlug(ctx context.Context, kind types.ProfileKind, owner uuid.UUID, companyName, previousSlug string) (string, error) {
	base := slug.Make(companyName)
	if base == "" {
		return "", slug.ErrEmptySlug
	}
	if slug.HasBase(previousSlug, base) {
		return previousSlug, nil
	}
	var allocator slug.Allocator
	return allocator.Allocate(ctx, companyName, func(ctx context.Context, candidate string) (bool, error) {
		return c.repo.SlugTaken(ctx, kind, candidate, owner)
	})
}

func (c *ProfileSaveCommand) syncRelations(ctx context.Context, owner uuid.UUID, input ProfileSaveInput, result *ProfileSaveResult) error {
	if input.BrandIDs == nil && input.CategoryIDs == nil {
		return nil
	}
	if c.relations == nil {
		return fmt.Errorf("%w: %s", ErrRelationSyncFailed, types.ErrMissingRelationSynchronizer)
	}
	enabled, err := featureEnabled(ctx, c.gate, featureDirectoryRelations, owner)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRelationSyncFailed, err)
	}
	if !enabled {
		return fmt.Errorf("%w: %s", ErrRelationSyncFailed, ErrRelationsDisabled)
	}

	occurredAt := now(c.clock)
	sync := func(relation types.Relation, targets []uuid.UUID) error {
		if targets == nil {
			return nil
		}
		if err := c.relations.ReplaceMembers(ctx, owner, relation, targets); err != nil {
			return err
		}
		result.RelationsSynced = true
		emitRelationHook(ctx, c.hooks, types.RelationEvent{
			OwnerID:    owner,
			Relation:   relation,
			Members:    targets,
			ActorID:    input.Actor.ID,
			OccurredAt: occurredAt,
		})
		return nil
	}

	if err := sync(types.RelationBrands, input.BrandIDs); err != nil {
		c.logger.Error("relation sync failed", err, "owner", owner.String(), "relation", string(types.RelationBrands))
		return fmt.Errorf("%w: %s", ErrRelationSyncFailed, err)
	}
	if err := sync(types.RelationCategories, input.CategoryIDs); err != nil {
		c.logger.Error("relation sync failed", err, "owner", owner.String(), "relation", string(types.RelationCategories))
		return fmt.Errorf("%w: %s", ErrRelationSyncFailed, err)
	}
	return nil
}

// invalidatePages marks the profile page, the kind's directory listing, and
// the previous slug's page (when the slug changed) as stale. Invalidation
// failures are logged, never fatal.
func (c *ProfileSaveCommand) invalidatePages(ctx context.Context, kind types.ProfileKind, newSlug, previousSlug string, actor uuid.UUID) []string {
	paths := []string{
		pagecache.PagePath(kind, newSlug),
		pagecache.DirectoryPath(kind),
	}
	if previousSlug != "" && previousSlug != newSlug {
		paths = append(paths, pagecache.PagePath(kind, previousSlug))
	}
	if c.invalidator != nil {
		if err := c.invalidator.InvalidatePages(ctx, paths...); err != nil {
			c.logger.Error("page invalidation failed", err, "paths", paths)
		}
	}
	emitPageHook(ctx, c.hooks, types.PageEvent{
		Paths:      paths,
		ActorID:    actor,
		OccurredAt: now(c.clock),
	})
	return paths
}

func applyProfilePatch(profile *types.Profile, patch types.ProfilePatch) {
	if profile == nil {
		return
	}
	if patch.CompanyName != nil {
		profile.CompanyName = *patch.CompanyName
	}
	if patch.ContactPerson != nil {
		profile.ContactPerson = *patch.ContactPerson
	}
	if patch.Phone != nil {
		profile.Phone = *patch.Phone
	}
	if patch.Website != nil {
		profile.Website = *patch.Website
	}
	if patch.Description != nil {
		profile.Description = *patch.Description
	}
	if patch.Address != nil {
		profile.Address = *patch.Address
	}
	if patch.Mission != nil {
		profile.Mission = *patch.Mission
	}
	if patch.Vision != nil {
		profile.Vision = *patch.Vision
	}
	if patch.History != nil {
		profile.History = *patch.History
	}
}

package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/assets"
	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
	"github.com/wrapsnp/go-directory/validate"
)

// MediaCommandConfig wires dependencies for the media commands.
type MediaCommandConfig struct {
	Repository types.MediaRepository
	Assets     *assets.Replacer
	Hooks      types.Hooks
	Clock      types.Clock
	Logger     types.Logger
	ScopeGuard scope.Guard
	Activity   types.ActivitySink
}

// MediaAddInput uploads one portfolio image or certificate.
type MediaAddInput struct {
	Owner  uuid.UUID
	Kind   types.MediaKind
	Title  string
	Issuer string
	Upload *types.Upload
	Actor  types.ActorRef
	Result *types.MediaItem
}

// Type implements gocommand.Message.
func (MediaAddInput) Type() string {
	return "command.media.add"
}

// Validate implements gocommand.Message.
func (input MediaAddInput) Validate() error {
	if input.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	if !input.Kind.Valid() {
		return types.ErrInvalidMediaKind
	}
	if input.Upload.Empty() {
		return ErrUploadRequired
	}
	return nil
}

// MediaAddCommand stores the blob and persists the media row.
type MediaAddCommand struct {
	repo     types.MediaRepository
	assets   *assets.Replacer
	hooks    types.Hooks
	clock    types.Clock
	guard    scope.Guard
	activity types.ActivitySink
}

// NewMediaAddCommand constructs the media upload handler.
func NewMediaAddCommand(cfg MediaCommandConfig) *MediaAddCommand {
	return &MediaAddCommand{
		repo:     cfg.Repository,
		assets:   cfg.Assets,
		hooks:    safeHooks(cfg.Hooks),
		clock:    safeClock(cfg.Clock),
		guard:    safeScopeGuard(cfg.ScopeGuard),
		activity: cfg.Activity,
	}
}

var _ gocommand.Commander[MediaAddInput] = (*MediaAddCommand)(nil)

// Execute validates the upload, stores the blob, and creates the media row.
func (c *MediaAddCommand) Execute(ctx context.Context, input MediaAddInput) error {
	if c.repo == nil {
		return types.ErrMissingMediaRepository
	}
	if c.assets == nil {
		return types.ErrMissingAssetStore
	}
	if err := input.Validate(); err != nil {
		return err
	}

	owner, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionMediaWrite, input.Owner)
	if err != nil {
		return err
	}
	if err := validate.Upload(input.Upload, validate.MediaMaxBytes); err != nil {
		return err
	}

	stored, err := c.assets.Replace(ctx, assets.ReplaceInput{
		Owner:  owner,
		Upload: input.Upload,
	})
	if err != nil {
		return err
	}

	occurredAt := now(c.clock)
	created, err := c.repo.CreateMedia(ctx, types.MediaItem{
		OwnerID:   owner,
		Kind:      input.Kind,
		Title:     input.Title,
		Issuer:    input.Issuer,
		URL:       stored.URL,
		Path:      stored.Path,
		CreatedAt: occurredAt,
		CreatedBy: input.Actor.ID,
	})
	if err != nil {
		// The row failed, so the blob is orphaned; best effort removal.
		_ = c.assets.Delete(ctx, stored.Path)
		return err
	}
	if input.Result != nil {
		*input.Result = *created
	}

	logActivity(ctx, c.activity, types.ActivityRecord{
		OwnerID:    owner,
		ActorID:    input.Actor.ID,
		Verb:       "media.added",
		ObjectType: "media",
		ObjectID:   created.ID.String(),
		OccurredAt: occurredAt,
		Data: map[string]any{
			"kind":  string(input.Kind),
			"title": input.Title,
		},
	})
	emitMediaHook(ctx, c.hooks, types.MediaEvent{
		OwnerID:    owner,
		MediaID:    created.ID,
		Kind:       input.Kind,
		Action:     "media.added",
		ActorID:    input.Actor.ID,
		OccurredAt: occurredAt,
	})
	return nil
}

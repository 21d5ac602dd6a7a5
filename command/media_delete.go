package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
)

// MediaDeleteInput removes one media item and its stored blob.
type MediaDeleteInput struct {
	MediaID uuid.UUID
	Actor   types.ActorRef
}

// Type implements gocommand.Message.
func (MediaDeleteInput) Type() string {
	return "command.media.delete"
}

// Validate implements gocommand.Message.
func (input MediaDeleteInput) Validate() error {
	if input.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	if input.MediaID == uuid.Nil {
		return ErrMediaIDRequired
	}
	return nil
}

// MediaDeleteCommand deletes the row first, then the blob best effort.
type MediaDeleteCommand struct {
	repo     types.MediaRepository
	assets   interface {
		Delete(ctx context.Context, path string) error
	}
	hooks    types.Hooks
	clock    types.Clock
	logger   types.Logger
	guard    scope.Guard
	activity types.ActivitySink
}

// NewMediaDeleteCommand constructs the media delete handler.
func NewMediaDeleteCommand(cfg MediaCommandConfig) *MediaDeleteCommand {
	cmd := &MediaDeleteCommand{
		repo:     cfg.Repository,
		hooks:    safeHooks(cfg.Hooks),
		clock:    safeClock(cfg.Clock),
		logger:   safeLogger(cfg.Logger),
		guard:    safeScopeGuard(cfg.ScopeGuard),
		activity: cfg.Activity,
	}
	if cfg.Assets != nil {
		cmd.assets = cfg.Assets
	}
	return cmd
}

var _ gocommand.Commander[MediaDeleteInput] = (*MediaDeleteCommand)(nil)

// Execute removes the media row and its blob. The blob removal is best
// effort: an orphaned blob is logged, not surfaced.
func (c *MediaDeleteCommand) Execute(ctx context.Context, input MediaDeleteInput) error {
	if c.repo == nil {
		return types.ErrMissingMediaRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	item, err := c.repo.GetMedia(ctx, input.MediaID)
	if err != nil {
		return err
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionMediaWrite, item.OwnerID); err != nil {
		return err
	}

	if err := c.repo.DeleteMedia(ctx, item.ID); err != nil {
		return err
	}
	if c.assets != nil && item.Path != "" {
		if err := c.assets.Delete(ctx, item.Path); err != nil {
			c.logger.Error("media blob cleanup failed", err, "path", item.Path)
		}
	}

	occurredAt := now(c.clock)
	logActivity(ctx, c.activity, types.ActivityRecord{
		OwnerID:    item.OwnerID,
		ActorID:    input.Actor.ID,
		Verb:       "media.deleted",
		ObjectType: "media",
		ObjectID:   item.ID.String(),
		OccurredAt: occurredAt,
	})
	emitMediaHook(ctx, c.hooks, types.MediaEvent{
		OwnerID:    item.OwnerID,
		MediaID:    item.ID,
		Kind:       item.Kind,
		Action:     "media.deleted",
		ActorID:    input.Actor.ID,
		OccurredAt: occurredAt,
	})
	return nil
}

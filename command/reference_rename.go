package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
)

// ReferenceRenameInput renames an entry in a global reference list.
type ReferenceRenameInput struct {
	Kind        types.ReferenceKind
	ReferenceID uuid.UUID
	Name        string
	Actor       types.ActorRef
	Result      *types.Reference
}

// Type implements gocommand.Message.
func (ReferenceRenameInput) Type() string {
	return "command.reference.rename"
}

// Validate implements gocommand.Message.
func (input ReferenceRenameInput) Validate() error {
	if input.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	if !input.Kind.Valid() {
		return types.ErrInvalidReferenceKind
	}
	if input.ReferenceID == uuid.Nil {
		return ErrReferenceIDRequired
	}
	if strings.TrimSpace(input.Name) == "" {
		return ErrReferenceNameRequired
	}
	return nil
}

// ReferenceRenameCommand renames reference entries. Admin only via the guard.
type ReferenceRenameCommand struct {
	registry types.ReferenceRegistry
	clock    types.Clock
	guard    scope.Guard
	activity types.ActivitySink
}

// NewReferenceRenameCommand constructs the rename handler.
func NewReferenceRenameCommand(cfg ReferenceCommandConfig) *ReferenceRenameCommand {
	return &ReferenceRenameCommand{
		registry: cfg.Registry,
		clock:    safeClock(cfg.Clock),
		guard:    safeScopeGuard(cfg.ScopeGuard),
		activity: cfg.Activity,
	}
}

var _ gocommand.Commander[ReferenceRenameInput] = (*ReferenceRenameCommand)(nil)

// Execute authorizes and renames the entry, re-deriving its slug.
func (c *ReferenceRenameCommand) Execute(ctx context.Context, input ReferenceRenameInput) error {
	if c.registry == nil {
		return types.ErrMissingReferenceRegistry
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionReferencesWrite, uuid.Nil); err != nil {
		return err
	}

	renamed, err := c.registry.RenameReference(ctx, input.Kind, input.ReferenceID, input.Name, input.Actor.ID)
	if err != nil {
		return err
	}
	if input.Result != nil {
		*input.Result = *renamed
	}

	logActivity(ctx, c.activity, types.ActivityRecord{
		ActorID:    input.Actor.ID,
		Verb:       "reference.renamed",
		ObjectType: string(input.Kind),
		ObjectID:   renamed.ID.String(),
		OccurredAt: now(c.clock),
		Data:       map[string]any{"name": renamed.Name, "slug": renamed.Slug},
	})
	return nil
}

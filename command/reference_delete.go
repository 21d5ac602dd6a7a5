package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
)

// ReferenceDeleteInput removes an entry from a global reference list.
type ReferenceDeleteInput struct {
	Kind        types.ReferenceKind
	ReferenceID uuid.UUID
	Actor       types.ActorRef
}

// Type implements gocommand.Message.
func (ReferenceDeleteInput) Type() string {
	return "command.reference.delete"
}

// Validate implements gocommand.Message.
func (input ReferenceDeleteInput) Validate() error {
	if input.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	if !input.Kind.Valid() {
		return types.ErrInvalidReferenceKind
	}
	if input.ReferenceID == uuid.Nil {
		return ErrReferenceIDRequired
	}
	return nil
}

// ReferenceDeleteCommand deletes reference entries. Admin only via the guard.
// Relation memberships pointing at the entry are removed by the schema's
// cascading foreign keys.
type ReferenceDeleteCommand struct {
	registry types.ReferenceRegistry
	clock    types.Clock
	guard    scope.Guard
	activity types.ActivitySink
}

// NewReferenceDeleteCommand constructs the delete handler.
func NewReferenceDeleteCommand(cfg ReferenceCommandConfig) *ReferenceDeleteCommand {
	return &ReferenceDeleteCommand{
		registry: cfg.Registry,
		clock:    safeClock(cfg.Clock),
		guard:    safeScopeGuard(cfg.ScopeGuard),
		activity: cfg.Activity,
	}
}

var _ gocommand.Commander[ReferenceDeleteInput] = (*ReferenceDeleteCommand)(nil)

// Execute authorizes and removes the entry.
func (c *ReferenceDeleteCommand) Execute(ctx context.Context, input ReferenceDeleteInput) error {
	if c.registry == nil {
		return types.ErrMissingReferenceRegistry
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionReferencesWrite, uuid.Nil); err != nil {
		return err
	}

	if err := c.registry.DeleteReference(ctx, input.Kind, input.ReferenceID, input.Actor.ID); err != nil {
		return err
	}

	logActivity(ctx, c.activity, types.ActivityRecord{
		ActorID:    input.Actor.ID,
		Verb:       "reference.deleted",
		ObjectType: string(input.Kind),
		ObjectID:   input.ReferenceID.String(),
		OccurredAt: now(c.clock),
	})
	return nil
}

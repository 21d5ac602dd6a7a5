package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
)

// ReferenceCommandConfig wires dependencies for the reference list commands.
type ReferenceCommandConfig struct {
	Registry   types.ReferenceRegistry
	Hooks      types.Hooks
	Clock      types.Clock
	ScopeGuard scope.Guard
	Activity   types.ActivitySink
}

// ReferenceCreateInput adds a named entry to a global reference list.
type ReferenceCreateInput struct {
	Kind   types.ReferenceKind
	Name   string
	Actor  types.ActorRef
	Result *types.Reference
}

// Type implements gocommand.Message.
func (ReferenceCreateInput) Type() string {
	return "command.reference.create"
}

// Validate implements gocommand.Message.
func (input ReferenceCreateInput) Validate() error {
	if input.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	if !input.Kind.Valid() {
		return types.ErrInvalidReferenceKind
	}
	if strings.TrimSpace(input.Name) == "" {
		return ErrReferenceNameRequired
	}
	return nil
}

// ReferenceCreateCommand creates reference entries. Admin only via the guard.
type ReferenceCreateCommand struct {
	registry types.ReferenceRegistry
	clock    types.Clock
	guard    scope.Guard
	activity types.ActivitySink
}

// NewReferenceCreateCommand constructs the create handler.
func NewReferenceCreateCommand(cfg ReferenceCommandConfig) *ReferenceCreateCommand {
	return &ReferenceCreateCommand{
		registry: cfg.Registry,
		clock:    safeClock(cfg.Clock),
		guard:    safeScopeGuard(cfg.ScopeGuard),
		activity: cfg.Activity,
	}
}

var _ gocommand.Commander[ReferenceCreateInput] = (*ReferenceCreateCommand)(nil)

// Execute authorizes and inserts the entry.
func (c *ReferenceCreateCommand) Execute(ctx context.Context, input ReferenceCreateInput) error {
	if c.registry == nil {
		return types.ErrMissingReferenceRegistry
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionReferencesWrite, uuid.Nil); err != nil {
		return err
	}

	created, err := c.registry.CreateReference(ctx, input.Kind, input.Name, input.Actor.ID)
	if err != nil {
		return err
	}
	if input.Result != nil {
		*input.Result = *created
	}

	logActivity(ctx, c.activity, types.ActivityRecord{
		ActorID:    input.Actor.ID,
		Verb:       "reference.created",
		ObjectType: string(input.Kind),
		ObjectID:   created.ID.String(),
		OccurredAt: now(c.clock),
		Data:       map[string]any{"name": created.Name, "slug": created.Slug},
	})
	return nil
}

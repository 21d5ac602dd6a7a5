package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
)

// ServiceDeleteInput removes one installer service entry.
type ServiceDeleteInput struct {
	Owner   uuid.UUID
	EntryID uuid.UUID
	Actor   types.ActorRef
}

// Type implements gocommand.Message.
func (ServiceDeleteInput) Type() string {
	return "command.service.delete"
}

// Validate implements gocommand.Message.
func (input ServiceDeleteInput) Validate() error {
	if input.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	if input.EntryID == uuid.Nil {
		return ErrServiceIDRequired
	}
	return nil
}

// ServiceDeleteCommand removes service entries scoped to their owner.
type ServiceDeleteCommand struct {
	repo     types.ServiceRepository
	clock    types.Clock
	guard    scope.Guard
	activity types.ActivitySink
}

// NewServiceDeleteCommand constructs the service delete handler.
func NewServiceDeleteCommand(cfg ServiceCommandConfig) *ServiceDeleteCommand {
	return &ServiceDeleteCommand{
		repo:     cfg.Repository,
		clock:    safeClock(cfg.Clock),
		guard:    safeScopeGuard(cfg.ScopeGuard),
		activity: cfg.Activity,
	}
}

var _ gocommand.Commander[ServiceDeleteInput] = (*ServiceDeleteCommand)(nil)

// Execute deletes the owner's entry.
func (c *ServiceDeleteCommand) Execute(ctx context.Context, input ServiceDeleteInput) error {
	if c.repo == nil {
		return types.ErrMissingServiceRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	owner, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionServicesWrite, input.Owner)
	if err != nil {
		return err
	}
	if err := c.repo.DeleteService(ctx, input.EntryID, owner); err != nil {
		return err
	}

	logActivity(ctx, c.activity, types.ActivityRecord{
		OwnerID:    owner,
		ActorID:    input.Actor.ID,
		Verb:       "service.deleted",
		ObjectType: "service",
		ObjectID:   input.EntryID.String(),
		OccurredAt: now(c.clock),
	})
	return nil
}

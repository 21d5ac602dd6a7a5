package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
	"github.com/wrapsnp/go-directory/validate"
)

// ServiceCommandConfig wires dependencies for the service entry commands.
type ServiceCommandConfig struct {
	Repository types.ServiceRepository
	Hooks      types.Hooks
	Clock      types.Clock
	ScopeGuard scope.Guard
	Activity   types.ActivitySink
}

// ServiceUpsertInput creates or updates one installer service entry.
type ServiceUpsertInput struct {
	Owner   uuid.UUID
	EntryID uuid.UUID
	Fields  validate.ServiceFields
	Actor   types.ActorRef
	Result  *types.ServiceEntry
}

// Type implements gocommand.Message.
func (ServiceUpsertInput) Type() string {
	return "command.service.upsert"
}

// Validate implements gocommand.Message.
func (input ServiceUpsertInput) Validate() error {
	if input.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	return nil
}

// ServiceUpsertCommand persists installer service entries.
type ServiceUpsertCommand struct {
	repo     types.ServiceRepository
	hooks    types.Hooks
	clock    types.Clock
	guard    scope.Guard
	activity types.ActivitySink
}

// NewServiceUpsertCommand constructs the service upsert handler.
func NewServiceUpsertCommand(cfg ServiceCommandConfig) *ServiceUpsertCommand {
	return &ServiceUpsertCommand{
		repo:     cfg.Repository,
		hooks:    safeHooks(cfg.Hooks),
		clock:    safeClock(cfg.Clock),
		guard:    safeScopeGuard(cfg.ScopeGuard),
		activity: cfg.Activity,
	}
}

var _ gocommand.Commander[ServiceUpsertInput] = (*ServiceUpsertCommand)(nil)

// Execute validates the fields and upserts the entry for the owner.
func (c *ServiceUpsertCommand) Execute(ctx context.Context, input ServiceUpsertInput) error {
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
	if err := input.Fields.Validate(); err != nil {
		return err
	}

	saved, err := c.repo.UpsertService(ctx, types.ServiceEntry{
		ID:          input.EntryID,
		OwnerID:     owner,
		Title:       input.Fields.Title,
		Description: input.Fields.Description,
		Icon:        input.Fields.Icon,
	})
	if err != nil {
		return err
	}
	if input.Result != nil {
		*input.Result = *saved
	}

	logActivity(ctx, c.activity, types.ActivityRecord{
		OwnerID:    owner,
		ActorID:    input.Actor.ID,
		Verb:       "service.saved",
		ObjectType: "service",
		ObjectID:   saved.ID.String(),
		OccurredAt: now(c.clock),
		Data:       map[string]any{"title": saved.Title},
	})
	return nil
}

package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
)

// RelationCommandConfig wires dependencies for the relation sync command.
type RelationCommandConfig struct {
	Synchronizer types.RelationSynchronizer
	Invalidator  types.PageInvalidator
	FeatureGate  featuregate.FeatureGate
	Hooks        types.Hooks
	Clock        types.Clock
	Logger       types.Logger
	ScopeGuard   scope.Guard
	Activity     types.ActivitySink
}

// RelationSyncInput replaces the owner's full membership set for one
// relation. A nil Targets slice clears it.
type RelationSyncInput struct {
	Owner    uuid.UUID
	Relation types.Relation
	Targets  []uuid.UUID
	Actor    types.ActorRef
}

// Type implements gocommand.Message.
func (RelationSyncInput) Type() string {
	return "command.relation.sync"
}

// Validate implements gocommand.Message.
func (input RelationSyncInput) Validate() error {
	if input.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	if !input.Relation.Valid() {
		return types.ErrInvalidRelation
	}
	return nil
}

// RelationSyncCommand is the standalone variant of the relation stage of the
// profile save pipeline.
type RelationSyncCommand struct {
	sync     types.RelationSynchronizer
	gate     featuregate.FeatureGate
	hooks    types.Hooks
	clock    types.Clock
	guard    scope.Guard
	activity types.ActivitySink
}

// NewRelationSyncCommand constructs the relation sync handler.
func NewRelationSyncCommand(cfg RelationCommandConfig) *RelationSyncCommand {
	return &RelationSyncCommand{
		sync:     cfg.Synchronizer,
		gate:     cfg.FeatureGate,
		hooks:    safeHooks(cfg.Hooks),
		clock:    safeClock(cfg.Clock),
		guard:    safeScopeGuard(cfg.ScopeGuard),
		activity: cfg.Activity,
	}
}

var _ gocommand.Commander[RelationSyncInput] = (*RelationSyncCommand)(nil)

// Execute replaces the membership set atomically.
func (c *RelationSyncCommand) Execute(ctx context.Context, input RelationSyncInput) error {
	if c.sync == nil {
		return types.ErrMissingRelationSynchronizer
	}
	if err := input.Validate(); err != nil {
		return err
	}

	owner, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionRelationsWrite, input.Owner)
	if err != nil {
		return err
	}
	enabled, err := featureEnabled(ctx, c.gate, featureDirectoryRelations, owner)
	if err != nil {
		return err
	}
	if !enabled {
		return ErrRelationsDisabled
	}

	if err := c.sync.ReplaceMembers(ctx, owner, input.Relation, input.Targets); err != nil {
		return err
	}

	occurredAt := now(c.clock)
	logActivity(ctx, c.activity, types.ActivityRecord{
		OwnerID:    owner,
		ActorID:    input.Actor.ID,
		Verb:       "relation.synced",
		ObjectType: "relation",
		ObjectID:   string(input.Relation),
		OccurredAt: occurredAt,
		Data:       map[string]any{"members": len(input.Targets)},
	})
	emitRelationHook(ctx, c.hooks, types.RelationEvent{
		OwnerID:    owner,
		Relation:   input.Relation,
		Members:    input.Targets,
		ActorID:    input.Actor.ID,
		OccurredAt: occurredAt,
	})
	return nil
}

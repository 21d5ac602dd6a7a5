// Package crudguard turns go-crud operations into scope guard enforcement
// calls so the admin transport cannot reach a repository without an
// authorization decision.
package crudguard

import (
	"errors"
	"fmt"

	auth "github.com/goliatone/go-auth"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/authctx"
	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
)

const (
	textCodeOwnerDenied          = "OWNER_DENIED"
	textCodeGuardEnforcementFail = "GUARD_ENFORCEMENT_FAILED"
	textCodeMissingPolicy        = "GUARD_POLICY_MISSING"
	textCodeMissingContext       = "CONTEXT_MISSING"
)

// OwnerExtractor derives the target account for a crud request prior to
// guard evaluation. Implementations may inspect route params or query
// strings; returning uuid.Nil targets the actor's own account.
type OwnerExtractor func(ctx crud.Context, actor *auth.ActorContext) (uuid.UUID, error)

// Config drives Adapter construction.
type Config struct {
	Guard          scope.Guard
	Logger         types.Logger
	PolicyMap      map[crud.CrudOperation]types.PolicyAction
	OwnerExtractor OwnerExtractor
	FallbackAction types.PolicyAction
}

// Adapter turns go-crud operations into scope guard enforcement calls.
type Adapter struct {
	guard          scope.Guard
	logger         types.Logger
	ownerExtractor OwnerExtractor
	policyMap      map[crud.CrudOperation]types.PolicyAction
	fallbackAction types.PolicyAction
}

// GuardInput captures per-request parameters supplied by transports.
type GuardInput struct {
	Context   crud.Context
	Operation crud.CrudOperation
	OwnerID   uuid.UUID
	Bypass    *BypassConfig
}

// GuardResult reports the resolved owner and actor metadata returned by the
// adapter.
type GuardResult struct {
	Actor        types.ActorRef
	Owner        uuid.UUID
	Operation    crud.CrudOperation
	Bypassed     bool
	BypassReason string
}

// BypassConfig explicitly allows guard skips for whitelisted routes (e.g.
// schema exports). It must never be enabled by default.
type BypassConfig struct {
	Enabled bool
	Reason  string
}

// DefaultOwnerExtractor reads the owner from the "owner_id" query parameter,
// falling back to the actor's own account.
func DefaultOwnerExtractor(ctx crud.Context, _ *auth.ActorContext) (uuid.UUID, error) {
	raw := ctx.Query("owner_id")
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "go-directory: invalid owner_id parameter").
			WithCode(goerrors.CodeBadRequest)
	}
	return id, nil
}

// NewAdapter constructs a Guard adapter and validates the supplied config.
func NewAdapter(cfg Config) (*Adapter, error) {
	if cfg.Guard == nil {
		return nil, goerrors.New("go-directory: scope guard is required", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal).
			WithTextCode(textCodeGuardEnforcementFail)
	}
	if len(cfg.PolicyMap) == 0 && cfg.FallbackAction == "" {
		return nil, goerrors.New("go-directory: policy map or fallback action must be provided", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal).
			WithTextCode(textCodeMissingPolicy)
	}

	ownerExtractor := cfg.OwnerExtractor
	if ownerExtractor == nil {
		ownerExtractor = DefaultOwnerExtractor
	}

	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}

	return &Adapter{
		guard:          scope.Ensure(cfg.Guard),
		logger:         logger,
		ownerExtractor: ownerExtractor,
		policyMap:      clonePolicyMap(cfg.PolicyMap),
		fallbackAction: cfg.FallbackAction,
	}, nil
}

// Enforce resolves the actor, derives the target owner, optionally bypasses,
// and finally enforces the scope guard with the mapped PolicyAction.
func (a *Adapter) Enforce(in GuardInput) (GuardResult, error) {
	if in.Context == nil {
		return GuardResult{}, goerrors.New("go-directory: crudguard requires a context", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal).
			WithTextCode(textCodeMissingContext)
	}

	ctx := in.Context.UserContext()
	actorRef, actorCtx, err := authctx.ResolveActor(ctx)
	if err != nil {
		return GuardResult{}, err
	}

	owner := in.OwnerID
	if owner == uuid.Nil {
		owner, err = a.ownerExtractor(in.Context, actorCtx)
		if err != nil {
			return GuardResult{}, err
		}
	}

	if in.Bypass != nil && in.Bypass.Enabled {
		a.logger.Info("crudguard: bypassing guard enforcement", "operation", string(in.Operation), "reason", in.Bypass.Reason)
		if owner == uuid.Nil {
			owner = actorRef.ID
		}
		return GuardResult{
			Actor:        actorRef,
			Owner:        owner,
			Operation:    in.Operation,
			Bypassed:     true,
			BypassReason: in.Bypass.Reason,
		}, nil
	}

	action, err := a.actionForOperation(in.Operation)
	if err != nil {
		return GuardResult{}, err
	}

	resolved, err := a.guard.Enforce(ctx, actorRef, action, owner)
	if err != nil {
		return GuardResult{}, wrapGuardError(err, action)
	}

	return GuardResult{
		Actor:     actorRef,
		Owner:     resolved,
		Operation: in.Operation,
	}, nil
}

func (a *Adapter) actionForOperation(op crud.CrudOperation) (types.PolicyAction, error) {
	if act, ok := a.policyMap[op]; ok && act != "" {
		return act, nil
	}
	if a.fallbackAction != "" {
		return a.fallbackAction, nil
	}
	return "", goerrors.New(fmt.Sprintf("go-directory: no policy action configured for %s", op), goerrors.CategoryInternal).
		WithCode(goerrors.CodeInternal).
		WithTextCode(textCodeMissingPolicy)
}

func wrapGuardError(err error, action types.PolicyAction) error {
	if errors.Is(err, types.ErrUnauthorizedOwner) || errors.Is(err, types.ErrAdminRequired) {
		return goerrors.Wrap(err, goerrors.CategoryAuthz, "go-directory: scope guard rejected the request").
			WithCode(goerrors.CodeForbidden).
			WithTextCode(textCodeOwnerDenied)
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, fmt.Sprintf("go-directory: scope guard failed for action %s", action)).
		WithCode(goerrors.CodeInternal).
		WithTextCode(textCodeGuardEnforcementFail)
}

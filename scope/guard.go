package scope

import (
	"context"

	"github.com/google/uuid"
	"github.com/wrapsnp/go-directory/pkg/types"
)

// Guard enforces ownership and authorization policies for commands and
// queries. It is intentionally small so callers can swap custom guards in
// tests if needed.
type Guard interface {
	// Enforce resolves the effective owner for the request (the actor itself
	// when no explicit owner is supplied) and authorizes the action.
	Enforce(ctx context.Context, actor types.ActorRef, action types.PolicyAction, owner uuid.UUID) (uuid.UUID, error)
}

type guard struct {
	policy types.AuthorizationPolicy
}

// NewGuard builds a Guard from the supplied policy. A nil policy falls back
// to the default owner-or-admin rule.
func NewGuard(policy types.AuthorizationPolicy) Guard {
	if policy == nil {
		policy = types.OwnerPolicy{}
	}
	return guard{policy: policy}
}

// Ensure returns a non-nil guard so command/query constructors can accept nil
// guards when tests instantiate them directly.
func Ensure(g Guard) Guard {
	if g == nil {
		return NewGuard(nil)
	}
	return g
}

// NopGuard returns a guard that resolves owners but never blocks.
func NopGuard() Guard {
	return guard{policy: types.AllowAllAuthorizationPolicy{}}
}

// Enforce implements Guard.
func (g guard) Enforce(ctx context.Context, actor types.ActorRef, action types.PolicyAction, owner uuid.UUID) (uuid.UUID, error) {
	if actor.ID == uuid.Nil {
		return uuid.Nil, types.ErrActorRequired
	}
	if owner == uuid.Nil {
		owner = actor.ID
	}
	if g.policy != nil && action != "" {
		check := types.PolicyCheck{
			Actor:  actor,
			Action: action,
			Owner:  owner,
		}
		if err := g.policy.Authorize(ctx, check); err != nil {
			return uuid.Nil, err
		}
	}
	return owner, nil
}

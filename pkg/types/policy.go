package types

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// PolicyAction enumerates the supported authorization actions enforced by the
// owner guard. Host applications can remap these actions to their own ACL
// systems.
type PolicyAction string

const (
	PolicyActionProfilesRead    PolicyAction = "profiles:read"
	PolicyActionProfilesWrite   PolicyAction = "profiles:write"
	PolicyActionMediaWrite      PolicyAction = "media:write"
	PolicyActionServicesWrite   PolicyAction = "services:write"
	PolicyActionReferencesWrite PolicyAction = "references:write"
	PolicyActionRelationsWrite  PolicyAction = "relations:write"
	PolicyActionActivityRead    PolicyAction = "activity:read"
	PolicyActionSettingsRead    PolicyAction = "settings:read"
	PolicyActionSettingsWrite   PolicyAction = "settings:write"
)

// PolicyCheck captures the authorization context for a single command/query.
type PolicyCheck struct {
	Actor  ActorRef
	Action PolicyAction
	Owner  uuid.UUID
}

// AuthorizationPolicy governs whether an actor can perform the action against
// the supplied owner's entities.
type AuthorizationPolicy interface {
	Authorize(ctx context.Context, check PolicyCheck) error
}

// AuthorizationPolicyFunc adapts bare functions to AuthorizationPolicy.
type AuthorizationPolicyFunc func(ctx context.Context, check PolicyCheck) error

// Authorize implements AuthorizationPolicy.
func (f AuthorizationPolicyFunc) Authorize(ctx context.Context, check PolicyCheck) error {
	return f(ctx, check)
}

var (
	// ErrUnauthorizedOwner indicates the actor attempted to mutate an entity
	// it does not own without administrative rights.
	ErrUnauthorizedOwner = errors.New("go-directory: actor not authorized for owner")
	// ErrAdminRequired indicates the action is restricted to administrators.
	ErrAdminRequired = errors.New("go-directory: administrator role required")
)

// OwnerPolicy is the default row-level rule: every actor may act on its own
// entities; reference-list mutations require the admin role; admins may act
// on anything.
type OwnerPolicy struct{}

// Authorize implements AuthorizationPolicy.
func (OwnerPolicy) Authorize(_ context.Context, check PolicyCheck) error {
	if check.Actor.IsAdmin() {
		return nil
	}
	if check.Action == PolicyActionReferencesWrite {
		return ErrAdminRequired
	}
	if check.Owner != uuid.Nil && check.Owner != check.Actor.ID {
		return ErrUnauthorizedOwner
	}
	return nil
}

// AllowAllAuthorizationPolicy allows every action/owner combination. Intended
// for tests.
type AllowAllAuthorizationPolicy struct{}

// Authorize implements AuthorizationPolicy.
func (AllowAllAuthorizationPolicy) Authorize(context.Context, PolicyCheck) error {
	return nil
}

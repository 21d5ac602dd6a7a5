package scope_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
)

func TestGuard_DefaultsOwnerToActor(t *testing.T) {
	t.Parallel()

	guard := scope.NewGuard(nil)
	actor := types.ActorRef{ID: uuid.New(), Role: types.ActorRoleInstaller}

	owner, err := guard.Enforce(context.Background(), actor, types.PolicyActionProfilesWrite, uuid.Nil)
	require.NoError(t, err)
	require.Equal(t, actor.ID, owner)
}

func TestGuard_RejectsForeignOwner(t *testing.T) {
	t.Parallel()

	guard := scope.NewGuard(nil)
	actor := types.ActorRef{ID: uuid.New(), Role: types.ActorRoleDealer}

	_, err := guard.Enforce(context.Background(), actor, types.PolicyActionProfilesWrite, uuid.New())
	require.ErrorIs(t, err, types.ErrUnauthorizedOwner)
}

func TestGuard_AdminActsOnAnyOwner(t *testing.T) {
	t.Parallel()

	guard := scope.NewGuard(nil)
	admin := types.ActorRef{ID: uuid.New(), Role: types.ActorRoleAdmin}
	target := uuid.New()

	owner, err := guard.Enforce(context.Background(), admin, types.PolicyActionProfilesWrite, target)
	require.NoError(t, err)
	require.Equal(t, target, owner)
}

func TestGuard_ReferenceWritesRequireAdmin(t *testing.T) {
	t.Parallel()

	guard := scope.NewGuard(nil)
	actor := types.ActorRef{ID: uuid.New(), Role: types.ActorRoleManufacturer}

	_, err := guard.Enforce(context.Background(), actor, types.PolicyActionReferencesWrite, uuid.Nil)
	require.ErrorIs(t, err, types.ErrAdminRequired)
}

func TestGuard_RequiresActor(t *testing.T) {
	t.Parallel()

	guard := scope.NewGuard(nil)

	_, err := guard.Enforce(context.Background(), types.ActorRef{}, types.PolicyActionProfilesRead, uuid.Nil)
	require.ErrorIs(t, err, types.ErrActorRequired)
}

func TestNopGuard_NeverBlocks(t *testing.T) {
	t.Parallel()

	guard := scope.NopGuard()
	actor := types.ActorRef{ID: uuid.New(), Role: types.ActorRoleDealer}
	target := uuid.New()

	owner, err := guard.Enforce(context.Background(), actor, types.PolicyActionReferencesWrite, target)
	require.NoError(t, err)
	require.Equal(t, target, owner)
}

func TestEnsure_NilFallsBackToOwnerRule(t *testing.T) {
	t.Parallel()

	guard := scope.Ensure(nil)
	actor := types.ActorRef{ID: uuid.New(), Role: types.ActorRoleInstaller}

	_, err := guard.Enforce(context.Background(), actor, types.PolicyActionProfilesWrite, uuid.New())
	require.ErrorIs(t, err, types.ErrUnauthorizedOwner)
}

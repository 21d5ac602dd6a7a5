package types

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestOwnerPolicy_OwnerMayMutateOwnEntities(t *testing.T) {
	actor := ActorRef{ID: uuid.New(), Role: ActorRoleInstaller}
	err := OwnerPolicy{}.Authorize(context.Background(), PolicyCheck{
		Actor:  actor,
		Action: PolicyActionProfilesWrite,
		Owner:  actor.ID,
	})
	require.NoError(t, err)
}

func TestOwnerPolicy_RejectsForeignOwner(t *testing.T) {
	actor := ActorRef{ID: uuid.New(), Role: ActorRoleDealer}
	err := OwnerPolicy{}.Authorize(context.Background(), PolicyCheck{
		Actor:  actor,
		Action: PolicyActionProfilesWrite,
		Owner:  uuid.New(),
	})
	require.ErrorIs(t, err, ErrUnauthorizedOwner)
}

func TestOwnerPolicy_AdminActsOnAnyOwner(t *testing.T) {
	actor := ActorRef{ID: uuid.New(), Role: "Admin"}
	err := OwnerPolicy{}.Authorize(context.Background(), PolicyCheck{
		Actor:  actor,
		Action: PolicyActionProfilesWrite,
		Owner:  uuid.New(),
	})
	require.NoError(t, err)
}

func TestOwnerPolicy_ReferenceMutationsRequireAdmin(t *testing.T) {
	actor := ActorRef{ID: uuid.New(), Role: ActorRoleManufacturer}
	err := OwnerPolicy{}.Authorize(context.Background(), PolicyCheck{
		Actor:  actor,
		Action: PolicyActionReferencesWrite,
	})
	require.ErrorIs(t, err, ErrAdminRequired)
}

func TestActorRef_ProfileKind(t *testing.T) {
	kind, ok := ActorRef{Role: " Haendler "}.ProfileKind()
	require.True(t, ok)
	require.Equal(t, ProfileKindDealer, kind)

	_, ok = ActorRef{Role: ActorRoleAdmin}.ProfileKind()
	require.False(t, ok)
}

package command

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wrapsnp/go-directory/pkg/types"
)

func TestRelationSync_ReplacesMembership(t *testing.T) {
	sync := newRecordingRelationSync()
	sink := &recordingActivitySink{}
	var events []types.RelationEvent
	cmd := NewRelationSyncCommand(RelationCommandConfig{
		Synchronizer: sync,
		Clock:        testClock,
		Activity:     sink,
		Hooks: types.Hooks{
			AfterRelationSync: func(_ context.Context, evt types.RelationEvent) {
				events = append(events, evt)
			},
		},
	})
	actor := types.ActorRef{ID: uuid.New(), Role: types.ActorRoleDealer}
	brands := []uuid.UUID{uuid.New(), uuid.New()}

	require.NoError(t, cmd.Execute(context.Background(), RelationSyncInput{
		Relation: types.RelationBrands,
		Targets:  brands,
		Actor:    actor,
	}))

	members, err := sync.Members(context.Background(), actor.ID, types.RelationBrands)
	require.NoError(t, err)
	require.ElementsMatch(t, brands, members)
	require.Len(t, events, 1)
	require.Len(t, sink.records, 1)
	require.Equal(t, "relation.synced", sink.records[0].Verb)
}

func TestRelationSync_InvalidRelation(t *testing.T) {
	cmd := NewRelationSyncCommand(RelationCommandConfig{Synchronizer: newRecordingRelationSync()})
	err := cmd.Execute(context.Background(), RelationSyncInput{
		Relation: types.Relation("friends"),
		Actor:    installerActor(),
	})
	require.ErrorIs(t, err, types.ErrInvalidRelation)
}

func TestRelationSync_GateDisabled(t *testing.T) {
	gate := &stubFeatureGate{enabled: false}
	sync := newRecordingRelationSync()
	cmd := NewRelationSyncCommand(RelationCommandConfig{
		Synchronizer: sync,
		FeatureGate:  gate,
	})

	err := cmd.Execute(context.Background(), RelationSyncInput{
		Relation: types.RelationBrands,
		Targets:  []uuid.UUID{uuid.New()},
		Actor:    types.ActorRef{ID: uuid.New(), Role: types.ActorRoleDealer},
	})
	require.ErrorIs(t, err, ErrRelationsDisabled)
	require.Empty(t, sync.members)
}

func TestRelationSync_ForeignOwnerRejected(t *testing.T) {
	cmd := NewRelationSyncCommand(RelationCommandConfig{Synchronizer: newRecordingRelationSync()})
	err := cmd.Execute(context.Background(), RelationSyncInput{
		Owner:    uuid.New(),
		Relation: types.RelationBrands,
		Actor:    types.ActorRef{ID: uuid.New(), Role: types.ActorRoleDealer},
	})
	require.ErrorIs(t, err, types.ErrUnauthorizedOwner)
}

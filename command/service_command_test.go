package command

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/validate"
)

type fakeServiceRepo struct {
	entries map[uuid.UUID]*types.ServiceEntry
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{entries: map[uuid.UUID]*types.ServiceEntry{}}
}

func (r *fakeServiceRepo) UpsertService(_ context.Context, entry types.ServiceEntry) (*types.ServiceEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	cp := entry
	r.entries[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeServiceRepo) DeleteService(_ context.Context, id uuid.UUID, owner uuid.UUID) error {
	if entry, ok := r.entries[id]; ok && entry.OwnerID == owner {
		delete(r.entries, id)
	}
	return nil
}

func (r *fakeServiceRepo) ListServices(_ context.Context, owner uuid.UUID) ([]types.ServiceEntry, error) {
	var out []types.ServiceEntry
	for _, entry := range r.entries {
		if entry.OwnerID == owner {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func TestServiceUpsert_CreatesEntryForActor(t *testing.T) {
	repo := newFakeServiceRepo()
	sink := &recordingActivitySink{}
	cmd := NewServiceUpsertCommand(ServiceCommandConfig{
		Repository: repo,
		Clock:      testClock,
		Activity:   sink,
	})
	actor := installerActor()

	result := &types.ServiceEntry{}
	err := cmd.Execute(context.Background(), ServiceUpsertInput{
		Fields: validate.ServiceFields{Title: "Vollverklebung", Description: "Komplette Folierung"},
		Actor:  actor,
		Result: result,
	})
	require.NoError(t, err)
	require.Equal(t, actor.ID, result.OwnerID)
	require.Len(t, sink.records, 1)
	require.Equal(t, "service.saved", sink.records[0].Verb)
}

func TestServiceUpsert_InvalidFieldsRejected(t *testing.T) {
	repo := newFakeServiceRepo()
	cmd := NewServiceUpsertCommand(ServiceCommandConfig{Repository: repo, Clock: testClock})

	err := cmd.Execute(context.Background(), ServiceUpsertInput{
		Fields: validate.ServiceFields{Title: ""},
		Actor:  installerActor(),
	})
	require.True(t, validate.IsValidationError(err))
	require.Empty(t, repo.entries)
}

func TestServiceDelete_ScopedToOwner(t *testing.T) {
	repo := newFakeServiceRepo()
	cfg := ServiceCommandConfig{Repository: repo, Clock: testClock}
	upsert := NewServiceUpsertCommand(cfg)
	del := NewServiceDeleteCommand(cfg)
	actor := installerActor()

	result := &types.ServiceEntry{}
	require.NoError(t, upsert.Execute(context.Background(), ServiceUpsertInput{
		Fields: validate.ServiceFields{Title: "Teilfolierung"},
		Actor:  actor,
		Result: result,
	}))

	require.NoError(t, del.Execute(context.Background(), ServiceDeleteInput{
		EntryID: result.ID,
		Actor:   actor,
	}))
	require.Empty(t, repo.entries)
}

func TestServiceDelete_RequiresEntryID(t *testing.T) {
	del := NewServiceDeleteCommand(ServiceCommandConfig{Repository: newFakeServiceRepo()})
	err := del.Execute(context.Background(), ServiceDeleteInput{Actor: installerActor()})
	require.ErrorIs(t, err, ErrServiceIDRequired)
}

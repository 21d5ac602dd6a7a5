package command

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/slug"
)

type fakeReferenceRegistry struct {
	refs map[uuid.UUID]*types.Reference
}

func newFakeReferenceRegistry() *fakeReferenceRegistry {
	return &fakeReferenceRegistry{refs: map[uuid.UUID]*types.Reference{}}
}

func (r *fakeReferenceRegistry) CreateReference(_ context.Context, kind types.ReferenceKind, name string, actor uuid.UUID) (*types.Reference, error) {
	ref := &types.Reference{
		ID:        uuid.New(),
		Kind:      kind,
		Name:      name,
		Slug:      slug.Make(name),
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	r.refs[ref.ID] = ref
	cp := *ref
	return &cp, nil
}

func (r *fakeReferenceRegistry) RenameReference(_ context.Context, kind types.ReferenceKind, id uuid.UUID, name string, actor uuid.UUID) (*types.Reference, error) {
	ref, ok := r.refs[id]
	if !ok || ref.Kind != kind {
		return nil, types.ErrReferenceNotFound
	}
	ref.Name = name
	ref.Slug = slug.Make(name)
	ref.UpdatedBy = actor
	cp := *ref
	return &cp, nil
}

func (r *fakeReferenceRegistry) DeleteReference(_ context.Context, kind types.ReferenceKind, id uuid.UUID, _ uuid.UUID) error {
	ref, ok := r.refs[id]
	if !ok || ref.Kind != kind {
		return types.ErrReferenceNotFound
	}
	delete(r.refs, id)
	return nil
}

func (r *fakeReferenceRegistry) GetReference(_ context.Context, kind types.ReferenceKind, id uuid.UUID) (*types.Reference, error) {
	ref, ok := r.refs[id]
	if !ok || ref.Kind != kind {
		return nil, types.ErrReferenceNotFound
	}
	cp := *ref
	return &cp, nil
}

func (r *fakeReferenceRegistry) ListReferences(_ context.Context, kind types.ReferenceKind, _ types.ReferenceFilter) (types.ReferencePage, error) {
	var page types.ReferencePage
	for _, ref := range r.refs {
		if ref.Kind == kind {
			page.References = append(page.References, *ref)
		}
	}
	page.Total = len(page.References)
	return page, nil
}

func TestReferenceCreate_AdminOnly(t *testing.T) {
	registry := newFakeReferenceRegistry()
	cmd := NewReferenceCreateCommand(ReferenceCommandConfig{Registry: registry, Clock: testClock})

	err := cmd.Execute(context.Background(), ReferenceCreateInput{
		Kind:  types.ReferenceKindBrand,
		Name:  "3M",
		Actor: installerActor(),
	})
	require.ErrorIs(t, err, types.ErrAdminRequired)
	require.Empty(t, registry.refs)

	result := &types.Reference{}
	require.NoError(t, cmd.Execute(context.Background(), ReferenceCreateInput{
		Kind:   types.ReferenceKindBrand,
		Name:   "3M",
		Actor:  adminActor(),
		Result: result,
	}))
	require.Equal(t, "3m", result.Slug)
}

func TestReferenceCreate_RequiresName(t *testing.T) {
	cmd := NewReferenceCreateCommand(ReferenceCommandConfig{Registry: newFakeReferenceRegistry()})
	err := cmd.Execute(context.Background(), ReferenceCreateInput{
		Kind:  types.ReferenceKindCategory,
		Name:  "   ",
		Actor: adminActor(),
	})
	require.ErrorIs(t, err, ErrReferenceNameRequired)
}

func TestReferenceRename_UpdatesSlug(t *testing.T) {
	registry := newFakeReferenceRegistry()
	cfg := ReferenceCommandConfig{Registry: registry, Clock: testClock}
	create := NewReferenceCreateCommand(cfg)
	rename := NewReferenceRenameCommand(cfg)
	admin := adminActor()

	created := &types.Reference{}
	require.NoError(t, create.Execute(context.Background(), ReferenceCreateInput{
		Kind:   types.ReferenceKindCategory,
		Name:   "Folien",
		Actor:  admin,
		Result: created,
	}))

	renamed := &types.Reference{}
	require.NoError(t, rename.Execute(context.Background(), ReferenceRenameInput{
		Kind:        types.ReferenceKindCategory,
		ReferenceID: created.ID,
		Name:        "Schutzfolien",
		Actor:       admin,
		Result:      renamed,
	}))
	require.Equal(t, "schutzfolien", renamed.Slug)
}

func TestReferenceDelete_AdminOnly(t *testing.T) {
	registry := newFakeReferenceRegistry()
	cfg := ReferenceCommandConfig{Registry: registry, Clock: testClock}
	create := NewReferenceCreateCommand(cfg)
	del := NewReferenceDeleteCommand(cfg)
	admin := adminActor()

	created := &types.Reference{}
	require.NoError(t, create.Execute(context.Background(), ReferenceCreateInput{
		Kind:   types.ReferenceKindBrand,
		Name:   "Oracal",
		Actor:  admin,
		Result: created,
	}))

	err := del.Execute(context.Background(), ReferenceDeleteInput{
		Kind:        types.ReferenceKindBrand,
		ReferenceID: created.ID,
		Actor:       installerActor(),
	})
	require.ErrorIs(t, err, types.ErrAdminRequired)

	require.NoError(t, del.Execute(context.Background(), ReferenceDeleteInput{
		Kind:        types.ReferenceKindBrand,
		ReferenceID: created.ID,
		Actor:       admin,
	}))
	require.Empty(t, registry.refs)
}

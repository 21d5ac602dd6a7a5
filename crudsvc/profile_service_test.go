package crudsvc

import (
	"context"
	"testing"

	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wrapsnp/go-directory/crudguard"
	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/query"
)

type fakeGuard struct {
	result crudguard.GuardResult
	err    error
	inputs []crudguard.GuardInput
}

func (f *fakeGuard) Enforce(in crudguard.GuardInput) (crudguard.GuardResult, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return crudguard.GuardResult{}, f.err
	}
	result := f.result
	result.Operation = in.Operation
	if result.Owner == uuid.Nil {
		result.Owner = in.OwnerID
	}
	if result.Owner == uuid.Nil {
		result.Owner = result.Actor.ID
	}
	return result, nil
}

type fakeListing struct {
	page  types.ProfilePage
	err   error
	input query.DirectoryListInput
}

func (f *fakeListing) Query(_ context.Context, input query.DirectoryListInput) (types.ProfilePage, error) {
	f.input = input
	return f.page, f.err
}

type fakeProfileStore struct {
	profile *types.Profile
}

func (f *fakeProfileStore) GetByOwner(context.Context, uuid.UUID, types.ProfileKind) (*types.Profile, error) {
	return f.profile, nil
}

func (f *fakeProfileStore) GetBySlug(context.Context, types.ProfileKind, string) (*types.Profile, error) {
	return f.profile, nil
}

func (f *fakeProfileStore) UpsertProfile(_ context.Context, profile types.Profile) (*types.Profile, error) {
	return &profile, nil
}

func (f *fakeProfileStore) SlugTaken(context.Context, types.ProfileKind, string, uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeProfileStore) ListProfiles(context.Context, types.ProfileFilter) (types.ProfilePage, error) {
	return types.ProfilePage{}, nil
}

type fakeCrudContext struct {
	ctx     context.Context
	queries map[string]string
}

func newFakeCrudContext() *fakeCrudContext {
	return &fakeCrudContext{ctx: context.Background(), queries: map[string]string{}}
}

func (f *fakeCrudContext) UserContext() context.Context { return f.ctx }

func (f *fakeCrudContext) Params(string, ...string) string { return "" }

func (f *fakeCrudContext) BodyParser(any) error { return nil }

func (f *fakeCrudContext) Query(key string, defaultValue ...string) string {
	if v, ok := f.queries[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeCrudContext) QueryValues(key string) []string {
	if v, ok := f.queries[key]; ok {
		return []string{v}
	}
	return nil
}

func (f *fakeCrudContext) QueryInt(_ string, defaultValue ...int) int {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}

func (f *fakeCrudContext) Queries() map[string]string { return f.queries }

func (f *fakeCrudContext) Body() []byte { return nil }

func (f *fakeCrudContext) Status(int) crud.Response { return f }

func (f *fakeCrudContext) JSON(any, ...string) error { return nil }

func (f *fakeCrudContext) SendStatus(int) error { return nil }

func TestProfileServiceIndexListsByKind(t *testing.T) {
	admin := types.ActorRef{ID: uuid.New(), Role: types.ActorRoleAdmin}
	guard := &fakeGuard{result: crudguard.GuardResult{Actor: admin}}
	listing := &fakeListing{page: types.ProfilePage{
		Profiles: []types.Profile{{CompanyName: "Mustermann Folien", Slug: "mustermann-folien"}},
		Total:    1,
	}}
	svc := NewProfileService(ProfileServiceConfig{Guard: guard, Listing: listing})

	ctx := newFakeCrudContext()
	ctx.queries["kind"] = "folierer"
	ctx.queries["q"] = "muster"

	records, total, err := svc.Index(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, records, 1)
	require.Equal(t, "mustermann-folien", records[0].Slug)
	require.Equal(t, types.ProfileKindInstaller, listing.input.Kind)
	require.Equal(t, "muster", listing.input.Keyword)
}

func TestProfileServiceIndexRequiresKind(t *testing.T) {
	guard := &fakeGuard{result: crudguard.GuardResult{Actor: types.ActorRef{ID: uuid.New(), Role: types.ActorRoleAdmin}}}
	svc := NewProfileService(ProfileServiceConfig{Guard: guard, Listing: &fakeListing{}})

	_, _, err := svc.Index(newFakeCrudContext(), nil)
	require.Error(t, err)
	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	require.Equal(t, goerrors.CodeBadRequest, richErr.Code)
}

func TestProfileServiceMutationsDisabled(t *testing.T) {
	svc := NewProfileService(ProfileServiceConfig{})
	ctx := newFakeCrudContext()

	_, err := svc.Create(ctx, &types.Profile{})
	require.Error(t, err)
	_, err = svc.Update(ctx, &types.Profile{})
	require.Error(t, err)
	require.Error(t, svc.Delete(ctx, &types.Profile{}))
}

func TestProfileServiceShow(t *testing.T) {
	owner := uuid.New()
	guard := &fakeGuard{result: crudguard.GuardResult{Actor: types.ActorRef{ID: uuid.New(), Role: types.ActorRoleAdmin}}}
	store := &fakeProfileStore{profile: &types.Profile{OwnerID: owner, Slug: "auto-welt"}}
	svc := NewProfileService(ProfileServiceConfig{Guard: guard, Profiles: store})

	ctx := newFakeCrudContext()
	ctx.queries["kind"] = "haendler"

	got, err := svc.Show(ctx, owner.String(), nil)
	require.NoError(t, err)
	require.Equal(t, "auto-welt", got.Slug)
	require.Len(t, guard.inputs, 1)
	require.Equal(t, owner, guard.inputs[0].OwnerID)
}

func TestProfileServiceShowRejectsBadID(t *testing.T) {
	svc := NewProfileService(ProfileServiceConfig{Guard: &fakeGuard{}, Profiles: &fakeProfileStore{}})

	_, err := svc.Show(newFakeCrudContext(), "not-a-uuid", nil)
	require.Error(t, err)
}

type fakeActivityRepo struct {
	page   types.ActivityPage
	filter types.ActivityFilter
}

func (f *fakeActivityRepo) ListActivity(_ context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	f.filter = filter
	return f.page, nil
}

func TestActivityServiceIndexScopesNonAdmins(t *testing.T) {
	actor := types.ActorRef{ID: uuid.New(), Role: types.ActorRoleInstaller}
	guard := &fakeGuard{result: crudguard.GuardResult{Actor: actor}}
	repo := &fakeActivityRepo{page: types.ActivityPage{Total: 0}}
	svc := NewActivityService(ActivityServiceConfig{Guard: guard, Repository: repo})

	ctx := newFakeCrudContext()
	ctx.queries["owner_id"] = uuid.NewString()

	_, _, err := svc.Index(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, actor.ID, repo.filter.OwnerID)
}

func TestActivityServiceShowDisabled(t *testing.T) {
	svc := NewActivityService(ActivityServiceConfig{})
	_, err := svc.Show(newFakeCrudContext(), uuid.NewString(), nil)
	require.Error(t, err)
}

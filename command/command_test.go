package command

import (
	"context"
	"strings"
	"sync"
	"time"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
)

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time {
	return f.t
}

var testClock = fixedClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}

type profileKey struct {
	owner uuid.UUID
	kind  types.ProfileKind
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[profileKey]*types.Profile
	upserts  int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[profileKey]*types.Profile{}}
}

func (r *fakeProfileRepo) GetByOwner(_ context.Context, owner uuid.UUID, kind types.ProfileKind) (*types.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[profileKey{owner, kind}]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProfileRepo) GetBySlug(_ context.Context, kind types.ProfileKind, slug string) (*types.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Kind == kind && p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, types.ErrProfileNotFound
}

func (r *fakeProfileRepo) UpsertProfile(_ context.Context, profile types.Profile) (*types.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	key := profileKey{profile.OwnerID, profile.Kind}
	if existing, ok := r.profiles[key]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = testClock.Now()
	}
	profile.UpdatedAt = testClock.Now()
	cp := profile
	r.profiles[key] = &cp
	out := cp
	return &out, nil
}

func (r *fakeProfileRepo) SlugTaken(_ context.Context, kind types.ProfileKind, slug string, excludeOwner uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Kind == kind && p.Slug == slug && p.OwnerID != excludeOwner {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProfileRepo) ListProfiles(_ context.Context, filter types.ProfileFilter) (types.ProfilePage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var page types.ProfilePage
	for _, p := range r.profiles {
		if filter.Kind != "" && p.Kind != filter.Kind {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(p.CompanyName), strings.ToLower(filter.Keyword)) {
			continue
		}
		page.Profiles = append(page.Profiles, *p)
	}
	page.Total = len(page.Profiles)
	return page, nil
}

// seed installs a profile without going through the command pipeline.
func (r *fakeProfileRepo) seed(p types.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := p
	r.profiles[profileKey{p.OwnerID, p.Kind}] = &cp
}

type recordingRelationSync struct {
	mu      sync.Mutex
	err     error
	members map[string][]uuid.UUID
}

func newRecordingRelationSync() *recordingRelationSync {
	return &recordingRelationSync{members: map[string][]uuid.UUID{}}
}

func relationKey(owner uuid.UUID, relation types.Relation) string {
	return owner.String() + "/" + string(relation)
}

func (s *recordingRelationSync) ReplaceMembers(_ context.Context, owner uuid.UUID, relation types.Relation, targets []uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[relationKey(owner, relation)] = append([]uuid.UUID(nil), targets...)
	return nil
}

func (s *recordingRelationSync) Members(_ context.Context, owner uuid.UUID, relation types.Relation) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.members[relationKey(owner, relation)]...), nil
}

type recordingActivitySink struct {
	mu      sync.Mutex
	records []types.ActivityRecord
	onLog   func(types.ActivityRecord)
}

func (s *recordingActivitySink) Log(_ context.Context, record types.ActivityRecord) error {
	s.mu.Lock()
	s.records = append(s.records, record)
	s.mu.Unlock()
	if s.onLog != nil {
		s.onLog(record)
	}
	return nil
}

type stubFeatureGate struct {
	enabled bool
	err     error
	keys    []string
}

func (s *stubFeatureGate) Enabled(_ context.Context, key string, _ ...featuregate.ResolveOption) (bool, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return false, s.err
	}
	return s.enabled, nil
}

func installerActor() types.ActorRef {
	return types.ActorRef{ID: uuid.New(), Role: types.ActorRoleInstaller}
}

func adminActor() types.ActorRef {
	return types.ActorRef{ID: uuid.New(), Role: types.ActorRoleAdmin}
}

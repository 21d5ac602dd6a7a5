package types

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProfileKind discriminates the three directory profile variants. The values
// double as URL path segments on the public site.
type ProfileKind string

const (
	ProfileKindInstaller    ProfileKind = "folierer"
	ProfileKindDealer       ProfileKind = "haendler"
	ProfileKindManufacturer ProfileKind = "hersteller"
)

// Valid reports whether the kind is one of the supported variants.
func (k ProfileKind) Valid() bool {
	switch k {
	case ProfileKindInstaller, ProfileKindDealer, ProfileKindManufacturer:
		return true
	}
	return false
}

// ParseProfileKind normalizes a raw kind value.
func ParseProfileKind(raw string) (ProfileKind, error) {
	kind := ProfileKind(strings.ToLower(strings.TrimSpace(raw)))
	if !kind.Valid() {
		return "", ErrInvalidProfileKind
	}
	return kind, nil
}

// Profile is a directory listing owned by exactly one account. Narrative
// fields (mission/vision/history) are only rendered for manufacturer pages,
// services and media belong to installer profiles, and brand/category
// relations belong to dealer profiles; the record itself is shared.
type Profile struct {
	OwnerID       uuid.UUID
	Kind          ProfileKind
	CompanyName   string
	ContactPerson string
	Phone         string
	Website       string
	Description   string
	Address       string
	Mission       string
	Vision        string
	History       string
	LogoURL       string
	LogoPath      string
	Slug          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UpdatedBy     uuid.UUID
}

// ProfilePatch represents partial updates applied to a profile. The slug and
// logo fields are intentionally absent: both are derived at save time.
type ProfilePatch struct {
	CompanyName   *string
	ContactPerson *string
	Phone         *string
	Website       *string
	Description   *string
	Address       *string
	Mission       *string
	Vision        *string
	History       *string
}

// ProfileFilter narrows directory listings.
type ProfileFilter struct {
	Kind       ProfileKind
	Keyword    string
	OwnerIDs   []uuid.UUID
	Pagination Pagination
}

// ProfilePage is a paginated directory listing.
type ProfilePage struct {
	Profiles   []Profile
	Total      int
	NextOffset int
	HasMore    bool
}

// ProfileRepository persists and retrieves directory profiles.
type ProfileRepository interface {
	// GetByOwner returns nil without error when no profile exists yet.
	GetByOwner(ctx context.Context, owner uuid.UUID, kind ProfileKind) (*Profile, error)
	GetBySlug(ctx context.Context, kind ProfileKind, slug string) (*Profile, error)
	UpsertProfile(ctx context.Context, profile Profile) (*Profile, error)
	// SlugTaken probes for a colliding slug within the kind's collection,
	// ignoring the record owned by excludeOwner.
	SlugTaken(ctx context.Context, kind ProfileKind, slug string, excludeOwner uuid.UUID) (bool, error)
	ListProfiles(ctx context.Context, filter ProfileFilter) (ProfilePage, error)
}

// MediaKind discriminates uploaded profile media.
type MediaKind string

const (
	MediaKindPortfolio   MediaKind = "portfolio"
	MediaKindCertificate MediaKind = "certificate"
)

// Valid reports whether the media kind is supported.
func (k MediaKind) Valid() bool {
	return k == MediaKindPortfolio || k == MediaKindCertificate
}

// MediaItem is a portfolio image or certificate attached to an installer
// profile. Path is the blob-store location kept for later deletion; URL is
// the public address rendered on the profile page.
type MediaItem struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Kind      MediaKind
	Title     string
	Issuer    string
	IssuedOn  *time.Time
	URL       string
	Path      string
	CreatedAt time.Time
	CreatedBy uuid.UUID
}

// MediaRepository persists profile media rows. Blob lifecycle is handled by
// the commands, not the repository.
type MediaRepository interface {
	CreateMedia(ctx context.Context, item MediaItem) (*MediaItem, error)
	GetMedia(ctx context.Context, id uuid.UUID) (*MediaItem, error)
	DeleteMedia(ctx context.Context, id uuid.UUID) error
	ListMedia(ctx context.Context, owner uuid.UUID, kind MediaKind) ([]MediaItem, error)
}

// ServiceEntry describes one service offered by an installer profile.
type ServiceEntry struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	Icon        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServiceRepository persists installer service entries.
type ServiceRepository interface {
	UpsertService(ctx context.Context, entry ServiceEntry) (*ServiceEntry, error)
	DeleteService(ctx context.Context, id uuid.UUID, owner uuid.UUID) error
	ListServices(ctx context.Context, owner uuid.UUID) ([]ServiceEntry, error)
}

// ReferenceKind discriminates the global reference lists.
type ReferenceKind string

const (
	ReferenceKindBrand    ReferenceKind = "brand"
	ReferenceKindCategory ReferenceKind = "product_category"
)

// Valid reports whether the reference kind is supported.
func (k ReferenceKind) Valid() bool {
	return k == ReferenceKindBrand || k == ReferenceKindCategory
}

// Reference is an entry in a global reference list (brand or product
// category). Not owned by any profile.
type Reference struct {
	ID        uuid.UUID
	Kind      ReferenceKind
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy uuid.UUID
	UpdatedBy uuid.UUID
}

// ReferenceFilter narrows reference list queries.
type ReferenceFilter struct {
	Keyword    string
	IDs        []uuid.UUID
	Pagination Pagination
}

// ReferencePage is a paginated reference listing.
type ReferencePage struct {
	References []Reference
	Total      int
	NextOffset int
	HasMore    bool
}

// ReferenceRegistry manages the global brand/category lists.
type ReferenceRegistry interface {
	CreateReference(ctx context.Context, kind ReferenceKind, name string, actor uuid.UUID) (*Reference, error)
	RenameReference(ctx context.Context, kind ReferenceKind, id uuid.UUID, name string, actor uuid.UUID) (*Reference, error)
	DeleteReference(ctx context.Context, kind ReferenceKind, id uuid.UUID, actor uuid.UUID) error
	GetReference(ctx context.Context, kind ReferenceKind, id uuid.UUID) (*Reference, error)
	ListReferences(ctx context.Context, kind ReferenceKind, filter ReferenceFilter) (ReferencePage, error)
}

// Relation identifies a many-to-many association between dealer profiles and
// a reference list.
type Relation string

const (
	RelationBrands     Relation = "brands"
	RelationCategories Relation = "categories"
)

// Valid reports whether the relation is supported.
func (r Relation) Valid() bool {
	return r == RelationBrands || r == RelationCategories
}

// RelationSynchronizer replaces the full membership of a profile relation.
// ReplaceMembers must be atomic: a concurrent reader sees either the previous
// set or the target set, never a mix.
type RelationSynchronizer interface {
	ReplaceMembers(ctx context.Context, owner uuid.UUID, relation Relation, targets []uuid.UUID) error
	Members(ctx context.Context, owner uuid.UUID, relation Relation) ([]uuid.UUID, error)
}

// Upload carries an incoming file from a form submission. A nil upload or a
// zero Size means "no new file" and is a valid no-op for asset replacement.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Empty reports whether the upload carries no usable file.
func (u *Upload) Empty() bool {
	return u == nil || u.Size == 0 || u.Content == nil
}

// AssetStore is the path-addressed blob store contract. Put overwrites an
// existing object at the same path.
type AssetStore interface {
	Put(ctx context.Context, path string, content io.Reader, contentType string) error
	PublicURL(ctx context.Context, path string) (string, error)
	Remove(ctx context.Context, path string) error
}

// PageInvalidator marks previously rendered public pages as stale. Staleness
// windows are acceptable; implementations must be safe to call with paths
// that were never rendered.
type PageInvalidator interface {
	InvalidatePages(ctx context.Context, paths ...string) error
}

// Pagination supports query pagination across admin panels.
type Pagination struct {
	Limit  int
	Offset int
}

// ProfileEvent signals that a profile mutation occurred.
type ProfileEvent struct {
	OwnerID      uuid.UUID
	Kind         ProfileKind
	ActorID      uuid.UUID
	OccurredAt   time.Time
	Profile      Profile
	PreviousSlug string
}

// MediaEvent signals media uploads and deletions.
type MediaEvent struct {
	OwnerID    uuid.UUID
	MediaID    uuid.UUID
	Kind       MediaKind
	Action     string
	ActorID    uuid.UUID
	OccurredAt time.Time
}

// RelationEvent is emitted after a relation membership replace.
type RelationEvent struct {
	OwnerID    uuid.UUID
	Relation   Relation
	Members    []uuid.UUID
	ActorID    uuid.UUID
	OccurredAt time.Time
}

// ReferenceEvent is emitted when a global reference list changes.
type ReferenceEvent struct {
	ReferenceID uuid.UUID
	Kind        ReferenceKind
	Action      string
	ActorID     uuid.UUID
	OccurredAt  time.Time
	Reference   Reference
}

// PageEvent is emitted after public pages are invalidated.
type PageEvent struct {
	Paths      []string
	ActorID    uuid.UUID
	OccurredAt time.Time
}

// Hooks groups optional callbacks invoked after key workflows complete.
type Hooks struct {
	AfterProfileChange   func(context.Context, ProfileEvent)
	AfterMediaChange     func(context.Context, MediaEvent)
	AfterRelationSync    func(context.Context, RelationEvent)
	AfterReferenceChange func(context.Context, ReferenceEvent)
	AfterPageInvalidate  func(context.Context, PageEvent)
	AfterActivity        func(context.Context, ActivityRecord)
}

// ActivityRecord describes audit sink inputs shared across sink and query
// layers.
type ActivityRecord struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	ActorID    uuid.UUID
	Verb       string
	ObjectType string
	ObjectID   string
	Channel    string
	IP         string
	Data       map[string]any
	OccurredAt time.Time
}

// ActivitySink is the minimal DI contract for emitting audit records.
type ActivitySink interface {
	Log(context.Context, ActivityRecord) error
}

// ActivityFilter narrows audit feed queries.
type ActivityFilter struct {
	Actor      ActorRef
	OwnerID    uuid.UUID
	ActorID    uuid.UUID
	Verbs      []string
	ObjectType string
	Since      *time.Time
	Until      *time.Time
	Pagination Pagination
}

// ActivityPage represents a paginated audit feed response.
type ActivityPage struct {
	Records    []ActivityRecord
	Total      int
	NextOffset int
	HasMore    bool
}

// ActivityRepository exposes read-side access to the audit log.
type ActivityRepository interface {
	ListActivity(ctx context.Context, filter ActivityFilter) (ActivityPage, error)
}

// SettingLevel identifies which layer a dashboard setting belongs to.
type SettingLevel string

const (
	// SettingLevelSystem holds operator-managed defaults shared by every owner.
	SettingLevelSystem SettingLevel = "system"
	// SettingLevelOwner holds a single account's overrides.
	SettingLevelOwner SettingLevel = "owner"
)

// SettingRecord is one persisted dashboard setting entry.
type SettingRecord struct {
	ID        uuid.UUID      `json:"id"`
	OwnerID   uuid.UUID      `json:"owner_id"`
	Level     SettingLevel   `json:"level"`
	Key       string         `json:"key"`
	Value     map[string]any `json:"value"`
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	UpdatedBy uuid.UUID      `json:"updated_by"`
}

// SettingFilter narrows setting lookups to one layer.
type SettingFilter struct {
	OwnerID uuid.UUID
	Level   SettingLevel
	Keys    []string
}

// SettingsSnapshot is the merged view of the system and owner layers.
type SettingsSnapshot struct {
	Effective map[string]any `json:"effective"`
	Traces    []SettingTrace `json:"traces,omitempty"`
}

// SettingTrace explains which layer supplied each key.
type SettingTrace struct {
	Key    string              `json:"key"`
	Layers []SettingTraceLayer `json:"layers"`
}

// SettingTraceLayer records one layer's contribution to a traced key.
type SettingTraceLayer struct {
	Level    SettingLevel `json:"level"`
	OwnerID  uuid.UUID    `json:"owner_id,omitempty"`
	RecordID string       `json:"record_id,omitempty"`
	Value    any          `json:"value,omitempty"`
	Found    bool         `json:"found"`
}

// SettingsRepository persists layered dashboard settings.
type SettingsRepository interface {
	ListSettings(ctx context.Context, filter SettingFilter) ([]SettingRecord, error)
	UpsertSetting(ctx context.Context, record SettingRecord) (*SettingRecord, error)
	DeleteSetting(ctx context.Context, ownerID uuid.UUID, level SettingLevel, key string) error
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the module.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

var (
	// ErrActorRequired indicates an actor reference was not supplied.
	ErrActorRequired = errors.New("go-directory: actor reference required")
	// ErrOwnerRequired indicates an owner identifier was omitted.
	ErrOwnerRequired = errors.New("go-directory: owner id required")
	// ErrInvalidProfileKind indicates an unsupported profile variant.
	ErrInvalidProfileKind = errors.New("go-directory: invalid profile kind")
	// ErrInvalidMediaKind indicates an unsupported media variant.
	ErrInvalidMediaKind = errors.New("go-directory: invalid media kind")
	// ErrInvalidRelation indicates an unsupported relation name.
	ErrInvalidRelation = errors.New("go-directory: invalid relation")
	// ErrInvalidReferenceKind indicates an unsupported reference list.
	ErrInvalidReferenceKind = errors.New("go-directory: invalid reference kind")
	// ErrNameTaken indicates the derived slug collides with another profile.
	ErrNameTaken = errors.New("go-directory: company name already taken")
	// ErrProfileNotFound indicates no profile matched the lookup.
	ErrProfileNotFound = errors.New("go-directory: profile not found")
	// ErrMediaNotFound indicates no media row matched the lookup.
	ErrMediaNotFound = errors.New("go-directory: media item not found")
	// ErrReferenceNotFound indicates no reference entry matched the lookup.
	ErrReferenceNotFound = errors.New("go-directory: reference entry not found")
	// ErrServiceNotReady indicates the service has not been fully configured.
	ErrServiceNotReady = errors.New("go-directory: service not ready")
	// ErrMissingProfileRepository occurs when commands lack profile storage.
	ErrMissingProfileRepository = errors.New("go-directory: missing profile repository")
	// ErrMissingMediaRepository occurs when media commands lack storage.
	ErrMissingMediaRepository = errors.New("go-directory: missing media repository")
	// ErrMissingServiceRepository occurs when service commands lack storage.
	ErrMissingServiceRepository = errors.New("go-directory: missing service repository")
	// ErrMissingReferenceRegistry occurs when no reference registry was supplied.
	ErrMissingReferenceRegistry = errors.New("go-directory: missing reference registry")
	// ErrMissingRelationSynchronizer occurs when relation commands lack a synchronizer.
	ErrMissingRelationSynchronizer = errors.New("go-directory: missing relation synchronizer")
	// ErrMissingAssetStore occurs when upload commands lack a blob store.
	ErrMissingAssetStore = errors.New("go-directory: missing asset store")
	// ErrMissingActivitySink occurs when no activity sink was supplied.
	ErrMissingActivitySink = errors.New("go-directory: missing activity sink")
	// ErrMissingActivityRepository occurs when feed queries lack storage.
	ErrMissingActivityRepository = errors.New("go-directory: missing activity repository")
	// ErrMissingPageInvalidator occurs when no page invalidator was supplied.
	ErrMissingPageInvalidator = errors.New("go-directory: missing page invalidator")
	// ErrMissingSettingsRepository occurs when settings components lack storage.
	ErrMissingSettingsRepository = errors.New("go-directory: missing settings repository")
	// ErrSettingKeyRequired indicates a setting mutation omitted its key.
	ErrSettingKeyRequired = errors.New("go-directory: setting key required")
)

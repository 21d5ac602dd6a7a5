package service

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"

	"github.com/wrapsnp/go-directory/assets"
	"github.com/wrapsnp/go-directory/command"
	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/query"
	"github.com/wrapsnp/go-directory/scope"
	"github.com/wrapsnp/go-directory/settings"
)

// Service is the entry point for go-directory. It wires repositories, the
// asset replacer, hooks, and command/query facades supplied by the host
// application.
type Service struct {
	cfg          Config
	commands     Commands
	queries      Queries
	activityRepo types.ActivityRepository
	settingsSvc  *settings.Service
	scopeGuard   scope.Guard
}

// Commands exposes the service command handlers.
type Commands struct {
	ProfileSave     *command.ProfileSaveCommand
	MediaAdd        *command.MediaAddCommand
	MediaDelete     *command.MediaDeleteCommand
	ServiceUpsert   *command.ServiceUpsertCommand
	ServiceDelete   *command.ServiceDeleteCommand
	ReferenceCreate *command.ReferenceCreateCommand
	ReferenceRename *command.ReferenceRenameCommand
	ReferenceDelete *command.ReferenceDeleteCommand
	RelationSync    *command.RelationSyncCommand
	LogActivity     *command.ActivityLogCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	ProfileDetail   *query.ProfileDetailQuery
	ProfilePage     *query.ProfilePageQuery
	DirectoryList   *query.DirectoryListQuery
	References      *query.ReferenceListQuery
	RelationMembers *query.RelationMembersQuery
	MediaList       *query.MediaListQuery
	ServiceList     *query.ServiceListQuery
	ActivityFeed    *query.ActivityFeedQuery
}

// Config captures all required dependencies so callers can provide their own
// instances (bun.DB, cached repositories, hooks, etc.).
type Config struct {
	ProfileRepository   types.ProfileRepository
	MediaRepository     types.MediaRepository
	ServiceRepository   types.ServiceRepository
	ReferenceRegistry   types.ReferenceRegistry
	Relations           types.RelationSynchronizer
	Assets              *assets.Replacer
	Invalidator         types.PageInvalidator
	FeatureGate         featuregate.FeatureGate
	ActivitySink        types.ActivitySink
	ActivityRepository  types.ActivityRepository
	SettingsRepository  types.SettingsRepository
	SettingsDefaults    map[string]any
	Hooks               types.Hooks
	Clock               types.Clock
	IDGenerator         types.IDGenerator
	Logger              types.Logger
	AuthorizationPolicy types.AuthorizationPolicy
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) *Service {
	norm := normalizeConfig(cfg)
	actRepo := norm.ActivityRepository
	if actRepo == nil {
		if sinkRepo, ok := norm.ActivitySink.(types.ActivityRepository); ok {
			actRepo = sinkRepo
		}
	}
	scopeGuard := scope.Ensure(scope.NewGuard(norm.AuthorizationPolicy))

	var settingsSvc *settings.Service
	if norm.SettingsRepository != nil {
		svc, err := settings.NewService(settings.ServiceConfig{
			Repository: norm.SettingsRepository,
			Guard:      scopeGuard,
			Defaults:   norm.SettingsDefaults,
			Logger:     norm.Logger,
		})
		if err != nil {
			norm.Logger.Error("go-directory: settings service initialization failed", err)
		} else {
			settingsSvc = svc
		}
	}

	s := &Service{
		cfg:          norm,
		activityRepo: actRepo,
		settingsSvc:  settingsSvc,
		scopeGuard:   scopeGuard,
	}
	s.commands = s.buildCommands()
	s.queries = s.buildQueries()
	return s
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = types.UUIDGenerator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	return cfg
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Settings returns the guarded settings service, or nil when no settings
// repository was configured.
func (s *Service) Settings() *settings.Service {
	if s == nil {
		return nil
	}
	return s.settingsSvc
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil &&
		s.cfg.ProfileRepository != nil &&
		s.cfg.MediaRepository != nil &&
		s.cfg.ServiceRepository != nil &&
		s.cfg.ReferenceRegistry != nil &&
		s.cfg.Relations != nil &&
		s.cfg.Assets != nil &&
		s.cfg.ActivitySink != nil &&
		s.activityRepo != nil
}

// HealthCheck surfaces the first missing dependency so upstream transports
// (REST handlers, jobs) can fail fast during boot.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s == nil {
		return types.ErrServiceNotReady
	}
	if s.cfg.ProfileRepository == nil {
		return types.ErrMissingProfileRepository
	}
	if s.cfg.MediaRepository == nil {
		return types.ErrMissingMediaRepository
	}
	if s.cfg.ServiceRepository == nil {
		return types.ErrMissingServiceRepository
	}
	if s.cfg.ReferenceRegistry == nil {
		return types.ErrMissingReferenceRegistry
	}
	if s.cfg.Relations == nil {
		return types.ErrMissingRelationSynchronizer
	}
	if s.cfg.Assets == nil {
		return types.ErrMissingAssetStore
	}
	if s.cfg.ActivitySink == nil {
		return types.ErrMissingActivitySink
	}
	if s.activityRepo == nil {
		return types.ErrMissingActivityRepository
	}
	return nil
}

// ScopeGuard exposes the guard instance used internally so transports can
// reuse the same policy for HTTP adapters.
func (s *Service) ScopeGuard() scope.Guard {
	if s == nil {
		return scope.NopGuard()
	}
	return scope.Ensure(s.scopeGuard)
}

// ActivitySink returns the configured sink so transports can emit activity
// records for auxiliary workflows (e.g. CRUD controllers).
func (s *Service) ActivitySink() types.ActivitySink {
	if s == nil {
		return nil
	}
	return s.cfg.ActivitySink
}

func (s *Service) buildCommands() Commands {
	return Commands{
		ProfileSave: command.NewProfileSaveCommand(command.ProfileCommandConfig{
			Repository:  s.cfg.ProfileRepository,
			Assets:      s.cfg.Assets,
			Relations:   s.cfg.Relations,
			Invalidator: s.cfg.Invalidator,
			FeatureGate: s.cfg.FeatureGate,
			Hooks:       s.cfg.Hooks,
			Clock:       s.cfg.Clock,
			Logger:      s.cfg.Logger,
			ScopeGuard:  s.scopeGuard,
			Activity:    s.cfg.ActivitySink,
		}),
		MediaAdd: command.NewMediaAddCommand(command.MediaCommandConfig{
			Repository: s.cfg.MediaRepository,
			Assets:     s.cfg.Assets,
			Hooks:      s.cfg.Hooks,
			Clock:      s.cfg.Clock,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
			Activity:   s.cfg.ActivitySink,
		}),
		MediaDelete: command.NewMediaDeleteCommand(command.MediaCommandConfig{
			Repository: s.cfg.MediaRepository,
			Assets:     s.cfg.Assets,
			Hooks:      s.cfg.Hooks,
			Clock:      s.cfg.Clock,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
			Activity:   s.cfg.ActivitySink,
		}),
		ServiceUpsert: command.NewServiceUpsertCommand(command.ServiceCommandConfig{
			Repository: s.cfg.ServiceRepository,
			Hooks:      s.cfg.Hooks,
			Clock:      s.cfg.Clock,
			ScopeGuard: s.scopeGuard,
			Activity:   s.cfg.ActivitySink,
		}),
		ServiceDelete: command.NewServiceDeleteCommand(command.ServiceCommandConfig{
			Repository: s.cfg.ServiceRepository,
			Hooks:      s.cfg.Hooks,
			Clock:      s.cfg.Clock,
			ScopeGuard: s.scopeGuard,
			Activity:   s.cfg.ActivitySink,
		}),
		ReferenceCreate: command.NewReferenceCreateCommand(command.ReferenceCommandConfig{
			Registry:   s.cfg.ReferenceRegistry,
			Hooks:      s.cfg.Hooks,
			Clock:      s.cfg.Clock,
			ScopeGuard: s.scopeGuard,
			Activity:   s.cfg.ActivitySink,
		}),
		ReferenceRename: command.NewReferenceRenameCommand(command.ReferenceCommandConfig{
			Registry:   s.cfg.ReferenceRegistry,
			Hooks:      s.cfg.Hooks,
			Clock:      s.cfg.Clock,
			ScopeGuard: s.scopeGuard,
			Activity:   s.cfg.ActivitySink,
		}),
		ReferenceDelete: command.NewReferenceDeleteCommand(command.ReferenceCommandConfig{
			Registry:   s.cfg.ReferenceRegistry,
			Hooks:      s.cfg.Hooks,
			Clock:      s.cfg.Clock,
			ScopeGuard: s.scopeGuard,
			Activity:   s.cfg.ActivitySink,
		}),
		RelationSync: command.NewRelationSyncCommand(command.RelationCommandConfig{
			Synchronizer: s.cfg.Relations,
			Invalidator:  s.cfg.Invalidator,
			FeatureGate:  s.cfg.FeatureGate,
			Hooks:        s.cfg.Hooks,
			Clock:        s.cfg.Clock,
			Logger:       s.cfg.Logger,
			ScopeGuard:   s.scopeGuard,
			Activity:     s.cfg.ActivitySink,
		}),
		LogActivity: command.NewActivityLogCommand(command.ActivityLogConfig{
			Sink:  s.cfg.ActivitySink,
			Hooks: s.cfg.Hooks,
			Clock: s.cfg.Clock,
		}),
	}
}

func (s *Service) buildQueries() Queries {
	return Queries{
		ProfileDetail: query.NewProfileDetailQuery(s.cfg.ProfileRepository, s.scopeGuard),
		ProfilePage: query.NewProfilePageQuery(query.ProfilePageQueryConfig{
			Profiles:  s.cfg.ProfileRepository,
			Services:  s.cfg.ServiceRepository,
			Media:     s.cfg.MediaRepository,
			Relations: s.cfg.Relations,
		}),
		DirectoryList:   query.NewDirectoryListQuery(s.cfg.ProfileRepository),
		References:      query.NewReferenceListQuery(s.cfg.ReferenceRegistry),
		RelationMembers: query.NewRelationMembersQuery(s.cfg.Relations, s.cfg.ReferenceRegistry, s.scopeGuard),
		MediaList:       query.NewMediaListQuery(s.cfg.MediaRepository, s.scopeGuard),
		ServiceList:     query.NewServiceListQuery(s.cfg.ServiceRepository, s.scopeGuard),
		ActivityFeed:    query.NewActivityFeedQuery(s.activityRepo, s.scopeGuard),
	}
}

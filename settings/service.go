package settings

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/scope"
)

// ServiceConfig wires dependencies for the guarded settings service.
type ServiceConfig struct {
	Repository types.SettingsRepository
	Resolver   *Resolver
	Guard      scope.Guard
	Defaults   map[string]any
	Logger     types.Logger
}

// Service exposes layered settings behind the owner guard. Owners read and
// write their own overrides; system defaults are admin-only.
type Service struct {
	repo     types.SettingsRepository
	resolver *Resolver
	guard    scope.Guard
	logger   types.Logger
}

// NewService constructs the settings service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Repository == nil {
		return nil, types.ErrMissingSettingsRepository
	}
	resolver := cfg.Resolver
	if resolver == nil {
		var err error
		resolver, err = NewResolver(ResolverConfig{
			Repository: cfg.Repository,
			Defaults:   cfg.Defaults,
		})
		if err != nil {
			return nil, err
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Service{
		repo:     cfg.Repository,
		resolver: resolver,
		guard:    scope.Ensure(cfg.Guard),
		logger:   logger,
	}, nil
}

// Snapshot resolves the effective settings for the owner. Passing keys limits
// the snapshot to those entries.
func (s *Service) Snapshot(ctx context.Context, actor types.ActorRef, owner uuid.UUID, keys ...string) (types.SettingsSnapshot, error) {
	owner, err := s.guard.Enforce(ctx, actor, types.PolicyActionSettingsRead, owner)
	if err != nil {
		return types.SettingsSnapshot{}, err
	}
	return s.resolver.Resolve(ctx, ResolveInput{
		OwnerID: owner,
		Keys:    keys,
	})
}

// Put stores one owner override.
func (s *Service) Put(ctx context.Context, actor types.ActorRef, owner uuid.UUID, key string, value map[string]any) (*types.SettingRecord, error) {
	if strings.TrimSpace(key) == "" {
		return nil, types.ErrSettingKeyRequired
	}
	owner, err := s.guard.Enforce(ctx, actor, types.PolicyActionSettingsWrite, owner)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.UpsertSetting(ctx, types.SettingRecord{
		OwnerID:   owner,
		Level:     types.SettingLevelOwner,
		Key:       key,
		Value:     value,
		UpdatedBy: actor.ID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("setting stored", "owner_id", owner, "key", record.Key)
	return record, nil
}

// PutDefault stores one system default. Admin only.
func (s *Service) PutDefault(ctx context.Context, actor types.ActorRef, key string, value map[string]any) (*types.SettingRecord, error) {
	if strings.TrimSpace(key) == "" {
		return nil, types.ErrSettingKeyRequired
	}
	if actor.ID == uuid.Nil {
		return nil, types.ErrActorRequired
	}
	if !actor.IsAdmin() {
		return nil, types.ErrAdminRequired
	}
	record, err := s.repo.UpsertSetting(ctx, types.SettingRecord{
		Level:     types.SettingLevelSystem,
		Key:       key,
		Value:     value,
		UpdatedBy: actor.ID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("system default stored", "key", record.Key)
	return record, nil
}

// Remove deletes one owner override; the system default applies again.
func (s *Service) Remove(ctx context.Context, actor types.ActorRef, owner uuid.UUID, key string) error {
	owner, err := s.guard.Enforce(ctx, actor, types.PolicyActionSettingsWrite, owner)
	if err != nil {
		return err
	}
	return s.repo.DeleteSetting(ctx, owner, types.SettingLevelOwner, key)
}

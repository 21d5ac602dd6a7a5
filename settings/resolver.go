package settings

import (
	"context"
	"strings"

	opts "github.com/goliatone/go-options"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
)

// ResolverConfig wires dependencies for the settings resolver.
type ResolverConfig struct {
	Repository types.SettingsRepository
	Defaults   map[string]any
}

// Resolver merges the system and owner layers via go-options.
type Resolver struct {
	repo     types.SettingsRepository
	defaults map[string]any
}

// ResolveInput controls which layers participate in the resolution process.
type ResolveInput struct {
	OwnerID uuid.UUID
	Levels  []types.SettingLevel
	Keys    []string
	Base    map[string]any
}

// NewResolver constructs a settings resolver.
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if cfg.Repository == nil {
		return nil, types.ErrMissingSettingsRepository
	}
	return &Resolver{
		repo:     cfg.Repository,
		defaults: cloneMap(cfg.Defaults),
	}, nil
}

// Resolve builds the effective settings snapshot for the owner.
func (r *Resolver) Resolve(ctx context.Context, input ResolveInput) (types.SettingsSnapshot, error) {
	order := filterLevels(resolutionOrder(input.Levels), input)
	layers := make([]opts.Layer[map[string]any], 0, len(order))
	keyRecords := make(map[types.SettingLevel]map[string]uuid.UUID, len(order))
	layerValues := make(map[types.SettingLevel]map[string]any, len(order))

	for _, level := range order {
		filter := types.SettingFilter{
			OwnerID: layerFilterOwner(level, input.OwnerID),
			Level:   level,
			Keys:    input.Keys,
		}
		recs, err := r.repo.ListSettings(ctx, filter)
		if err != nil {
			return types.SettingsSnapshot{}, err
		}
		snapshot, idMap := snapshotFromRecords(recs)
		keyRecords[level] = idMap

		var payload map[string]any
		switch level {
		case types.SettingLevelSystem:
			payload = mergeMaps(r.defaults, input.Base)
			for k, v := range snapshot {
				payload[k] = v
			}
		default:
			payload = snapshot
		}
		if payload == nil {
			payload = make(map[string]any)
		}
		layerValues[level] = cloneMap(payload)

		scope := opts.NewScope(scopeName(level), scopePriority(level),
			opts.WithScopeLabel(scopeLabel(level)),
			opts.WithScopeMetadata(scopeMetadata(level, input.OwnerID)))
		layer := opts.NewLayer(scope, payload, opts.WithSnapshotID[map[string]any](scope.Name))
		layers = append(layers, layer)
	}

	stack, err := opts.NewStack(layers...)
	if err != nil {
		return types.SettingsSnapshot{}, err
	}
	merged, err := stack.Merge()
	if err != nil {
		return types.SettingsSnapshot{}, err
	}
	return types.SettingsSnapshot{
		Effective: cloneMap(merged.Value),
		Traces:    buildTraces(order, input.OwnerID, input.Keys, keyRecords, layerValues),
	}, nil
}

func resolutionOrder(levels []types.SettingLevel) []types.SettingLevel {
	if len(levels) > 0 {
		return append([]types.SettingLevel(nil), levels...)
	}
	return []types.SettingLevel{
		types.SettingLevelSystem,
		types.SettingLevelOwner,
	}
}

func filterLevels(levels []types.SettingLevel, input ResolveInput) []types.SettingLevel {
	filtered := make([]types.SettingLevel, 0, len(levels))
	for _, level := range levels {
		if level == types.SettingLevelOwner && input.OwnerID == uuid.Nil {
			continue
		}
		filtered = append(filtered, level)
	}
	if len(filtered) == 0 {
		return []types.SettingLevel{types.SettingLevelSystem}
	}
	return filtered
}

func layerFilterOwner(level types.SettingLevel, owner uuid.UUID) uuid.UUID {
	if level == types.SettingLevelOwner {
		return owner
	}
	return uuid.Nil
}

func snapshotFromRecords(records []types.SettingRecord) (map[string]any, map[string]uuid.UUID) {
	if len(records) == 0 {
		return nil, nil
	}
	values := make(map[string]any, len(records))
	index := make(map[string]uuid.UUID, len(records))
	for _, rec := range records {
		values[rec.Key] = cloneMap(rec.Value)
		index[rec.Key] = rec.ID
	}
	return values, index
}

func mergeMaps(base map[string]any, overlay map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

func scopeName(level types.SettingLevel) string {
	if level == types.SettingLevelOwner {
		return "owner"
	}
	return "system"
}

func scopeLabel(level types.SettingLevel) string {
	if level == types.SettingLevelOwner {
		return "Owner Overrides"
	}
	return "System Defaults"
}

func scopePriority(level types.SettingLevel) int {
	if level == types.SettingLevelOwner {
		return opts.ScopePriorityUser
	}
	return opts.ScopePrioritySystem
}

func scopeMetadata(level types.SettingLevel, owner uuid.UUID) map[string]any {
	return map[string]any{
		"owner_id": layerFilterOwner(level, owner).String(),
	}
}

func buildTraces(order []types.SettingLevel, owner uuid.UUID, keys []string, keyRecords map[types.SettingLevel]map[string]uuid.UUID, values map[types.SettingLevel]map[string]any) []types.SettingTrace {
	keySet := make(map[string]struct{})
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			continue
		}
		keySet[key] = struct{}{}
	}
	if len(keySet) == 0 {
		for _, levelValues := range values {
			for key := range levelValues {
				keySet[key] = struct{}{}
			}
		}
	}
	traces := make([]types.SettingTrace, 0, len(keySet))
	for key := range keySet {
		layers := make([]types.SettingTraceLayer, 0, len(order))
		for _, level := range order {
			layer := types.SettingTraceLayer{
				Level:    level,
				OwnerID:  layerFilterOwner(level, owner),
				RecordID: lookupRecordID(level, keyRecords, key),
			}
			if levelValues := values[level]; levelValues != nil {
				if v, ok := levelValues[key]; ok {
					layer.Value = v
					layer.Found = true
				}
			}
			layers = append(layers, layer)
		}
		traces = append(traces, types.SettingTrace{
			Key:    key,
			Layers: layers,
		})
	}
	return traces
}

func lookupRecordID(level types.SettingLevel, keyRecords map[types.SettingLevel]map[string]uuid.UUID, key string) string {
	if records := keyRecords[level]; records != nil {
		if id, ok := records[key]; ok {
			return id.String()
		}
	}
	return ""
}

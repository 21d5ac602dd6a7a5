// Package assets moves uploaded images in and out of the blob store. The
// replacer implements the upload-then-delete ordering that keeps a profile
// from ever referencing a missing asset.
package assets

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/wrapsnp/go-directory/pkg/types"
	"github.com/wrapsnp/go-directory/slug"
)

// ReplacerConfig wires the asset replacer.
type ReplacerConfig struct {
	Store  types.AssetStore
	Clock  types.Clock
	Logger types.Logger
}

// Replacer swaps a profile asset for a newly uploaded file.
type Replacer struct {
	store  types.AssetStore
	clock  types.Clock
	logger types.Logger
}

// NewReplacer constructs the replacer. The store is required.
func NewReplacer(cfg ReplacerConfig) (*Replacer, error) {
	if cfg.Store == nil {
		return nil, types.ErrMissingAssetStore
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Replacer{store: cfg.Store, clock: clock, logger: logger}, nil
}

// ReplaceInput describes one asset swap.
type ReplaceInput struct {
	Owner       uuid.UUID
	Upload      *types.Upload
	CurrentURL  string
	CurrentPath string
}

// ReplaceResult reports the outcome of a swap. CleanupErr is a named partial
// outcome: the new asset is live but the previous blob could not be removed
// and is now orphaned. It never fails the overall operation.
type ReplaceResult struct {
	URL        string
	Path       string
	Replaced   bool
	CleanupErr error
}

// Replace uploads the new file, resolves its public URL, and only then
// removes the previous blob. An empty upload returns the current reference
// unchanged without touching the store.
func (r *Replacer) Replace(ctx context.Context, in ReplaceInput) (ReplaceResult, error) {
	if in.Upload.Empty() {
		return ReplaceResult{URL: in.CurrentURL, Path: in.CurrentPath}, nil
	}
	if in.Owner == uuid.Nil {
		return ReplaceResult{}, types.ErrOwnerRequired
	}

	blobPath := r.blobPath(in.Owner, in.Upload.Filename)
	if err := r.store.Put(ctx, blobPath, in.Upload.Content, in.Upload.ContentType); err != nil {
		return ReplaceResult{}, fmt.Errorf("go-directory: asset upload failed: %w", err)
	}
	url, err := r.store.PublicURL(ctx, blobPath)
	if err != nil {
		return ReplaceResult{}, fmt.Errorf("go-directory: asset url lookup failed: %w", err)
	}

	result := ReplaceResult{URL: url, Path: blobPath, Replaced: true}
	if in.CurrentPath != "" && in.CurrentPath != blobPath {
		if err := r.store.Remove(ctx, in.CurrentPath); err != nil {
			// An orphaned old blob is preferable to a broken new one.
			r.logger.Error("asset cleanup failed", err, "path", in.CurrentPath, "owner", in.Owner.String())
			result.CleanupErr = err
		}
	}
	return result, nil
}

// Delete removes a stored blob, tolerating already-missing objects.
func (r *Replacer) Delete(ctx context.Context, blobPath string) error {
	if strings.TrimSpace(blobPath) == "" {
		return nil
	}
	if err := r.store.Remove(ctx, blobPath); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// blobPath scopes the object to the owning account and disambiguates repeat
// uploads of the same filename with a timestamp.
func (r *Replacer) blobPath(owner uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	stem := slug.Make(strings.TrimSuffix(path.Base(filename), path.Ext(filename)))
	if stem == "" {
		stem = "upload"
	}
	return fmt.Sprintf("%s/%d-%s%s", owner, r.clock.Now().UnixNano(), stem, ext)
}

// ErrNotFound is returned by stores when the object at the path is missing.
var ErrNotFound = errors.New("go-directory: asset not found")

// Package pagecache tracks which rendered public pages went stale after a
// directory mutation.
package pagecache

import (
	"context"
	"sync"

	"github.com/wrapsnp/go-directory/pkg/types"
)

// PagePath returns the public page path for a profile, e.g. "/folierer/mustermann-folien".
func PagePath(kind types.ProfileKind, slug string) string {
	return "/" + string(kind) + "/" + slug
}

// DirectoryPath returns the public listing path for a profile kind.
func DirectoryPath(kind types.ProfileKind) string {
	return "/" + string(kind)
}

// Nop ignores all invalidations.
type Nop struct{}

// InvalidatePages implements types.PageInvalidator.
func (Nop) InvalidatePages(context.Context, ...string) error { return nil }

// Recorder collects invalidated paths. It backs tests and the in-process
// render cache, and is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	paths []string
	seen  map[string]struct{}
}

// NewRecorder constructs an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{seen: make(map[string]struct{})}
}

// InvalidatePages implements types.PageInvalidator. Repeated paths are
// recorded once; unknown paths are accepted.
func (r *Recorder) InvalidatePages(_ context.Context, paths ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, ok := r.seen[path]; ok {
			continue
		}
		r.seen[path] = struct{}{}
		r.paths = append(r.paths, path)
	}
	return nil
}

// Paths returns the invalidated paths in first-seen order.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// Stale reports whether the path was invalidated.
func (r *Recorder) Stale(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[path]
	return ok
}

// Reset clears the recorded set, typically after a re-render.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = nil
	r.seen = make(map[string]struct{})
}

// Multi fans an invalidation out to several invalidators. The first error
// wins but all invalidators are attempted.
type Multi []types.PageInvalidator

// InvalidatePages implements types.PageInvalidator.
func (m Multi) InvalidatePages(ctx context.Context, paths ...string) error {
	var first error
	for _, inv := range m {
		if inv == nil {
			continue
		}
		if err := inv.InvalidatePages(ctx, paths...); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var (
	_ types.PageInvalidator = Nop{}
	_ types.PageInvalidator = (*Recorder)(nil)
	_ types.PageInvalidator = Multi{}
)

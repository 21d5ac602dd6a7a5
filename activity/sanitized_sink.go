package activity

import (
	"context"

	"github.com/goliatone/go-masker"

	"github.com/wrapsnp/go-directory/pkg/types"
)

// SanitizedSink wraps another sink and masks record payloads before they are
// forwarded. Commands log raw payloads; the wrapper keeps contact data out of
// the audit table.
type SanitizedSink struct {
	next   types.ActivitySink
	masker *masker.Masker
}

// NewSanitizedSink wraps next with the supplied masker. A nil masker falls
// back to DefaultMasker.
func NewSanitizedSink(next types.ActivitySink, mask *masker.Masker) *SanitizedSink {
	return &SanitizedSink{next: next, masker: mask}
}

var _ types.ActivitySink = (*SanitizedSink)(nil)

// Log implements types.ActivitySink.
func (s *SanitizedSink) Log(ctx context.Context, record types.ActivityRecord) error {
	if s.next == nil {
		return nil
	}
	return s.next.Log(ctx, SanitizeRecord(s.masker, record))
}

package activity

import (
	"strings"

	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
)

// RecordOption mutates the ActivityRecord produced by BuildRecord.
type RecordOption func(*types.ActivityRecord)

// WithChannel sets the channel/module field used for downstream filtering.
func WithChannel(channel string) RecordOption {
	return func(record *types.ActivityRecord) {
		record.Channel = strings.TrimSpace(channel)
	}
}

// WithIP sets the request IP on the record.
func WithIP(ip string) RecordOption {
	return func(record *types.ActivityRecord) {
		record.IP = strings.TrimSpace(ip)
	}
}

// BuildRecord constructs an ActivityRecord from the acting account plus
// verb/object details and optional metadata. Metadata is defensively copied
// to avoid caller mutation.
func BuildRecord(actor types.ActorRef, owner uuid.UUID, verb, objectType, objectID string, metadata map[string]any, opts ...RecordOption) types.ActivityRecord {
	record := types.ActivityRecord{
		OwnerID:    owner,
		ActorID:    actor.ID,
		Verb:       strings.TrimSpace(verb),
		ObjectType: strings.TrimSpace(objectType),
		ObjectID:   strings.TrimSpace(objectID),
		Data:       cloneMap(metadata),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&record)
		}
	}

	return record
}

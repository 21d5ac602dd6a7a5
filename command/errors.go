package command

import (
	"errors"

	"github.com/wrapsnp/go-directory/pkg/types"
)

var (
	// ErrActorRequired indicates an actor reference was not supplied.
	ErrActorRequired = types.ErrActorRequired
	// ErrOwnerRequired indicates the command could not resolve an owner.
	ErrOwnerRequired = types.ErrOwnerRequired
	// ErrUploadRequired occurs when a media command omits the file.
	ErrUploadRequired = errors.New("go-directory: upload required")
	// ErrMediaIDRequired occurs when a media command omits the media id.
	ErrMediaIDRequired = errors.New("go-directory: media id required")
	// ErrServiceTitleRequired occurs when a service command omits the title.
	ErrServiceTitleRequired = errors.New("go-directory: service title required")
	// ErrServiceIDRequired occurs when a service delete omits the entry id.
	ErrServiceIDRequired = errors.New("go-directory: service id required")
	// ErrReferenceNameRequired occurs when a reference command omits the name.
	ErrReferenceNameRequired = errors.New("go-directory: reference name required")
	// ErrReferenceIDRequired occurs when a reference command omits the id.
	ErrReferenceIDRequired = errors.New("go-directory: reference id required")
	// ErrRelationsDisabled indicates relation sync is disabled via feature gate.
	ErrRelationsDisabled = errors.New("go-directory: relation sync disabled")
	// ErrRelationsDealerOnly occurs when a non-dealer save carries brand or
	// product category ids; those relations exist only on dealer profiles.
	ErrRelationsDealerOnly = errors.New("go-directory: relations are limited to dealer profiles")
	// ErrRelationSyncFailed marks a partial outcome: the profile was saved but
	// its relation memberships could not be replaced.
	ErrRelationSyncFailed = errors.New("go-directory: relation sync failed")
	// ErrActivityVerbRequired indicates an activity log entry is missing a verb.
	ErrActivityVerbRequired = errors.New("go-directory: activity verb required")
)

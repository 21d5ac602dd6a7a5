package types

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SecureLinkManager mirrors the external securelink manager interface.
type SecureLinkManager interface {
	Generate(route string, payloads ...SecureLinkPayload) (string, error)
	Validate(token string) (map[string]any, error)
	GetAndValidate(fn func(string) string) (SecureLinkPayload, error)
	GetExpiration() time.Duration
}

// SecureLinkPayload carries data to embed in a secure link token.
type SecureLinkPayload map[string]any

// SecureLinkConfigurator mirrors the external securelink configurator interface.
type SecureLinkConfigurator interface {
	GetSigningKey() string
	GetExpiration() time.Duration
	GetBaseURL() string
	GetQueryKey() string
	GetRoutes() map[string]string
	GetAsQuery() bool
}

// OwnerEnforcer lets hosts validate securelink payload data against the
// account the link was issued for.
type OwnerEnforcer func(ctx context.Context, payload SecureLinkPayload, owner uuid.UUID) error

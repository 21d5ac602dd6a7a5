// Package securelink adapts go-urlkit securelink managers to the directory
// interfaces so hosts can issue and validate one-time sign-in links for
// profile owners.
package securelink

import (
	"context"
	"errors"
	"time"

	urlkit "github.com/goliatone/go-urlkit/securelink"
	"github.com/google/uuid"

	"github.com/wrapsnp/go-directory/pkg/types"
)

// PayloadOwnerKey is the payload field carrying the account the link was
// issued for.
const PayloadOwnerKey = "owner_id"

// Manager adapts go-urlkit securelink managers to the directory interfaces.
type Manager struct {
	inner urlkit.Manager
}

// NewManager builds a securelink adapter using the configurator interface.
func NewManager(cfg types.SecureLinkConfigurator) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("securelink configurator required")
	}
	inner, err := urlkit.NewManagerFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Manager{inner: inner}, nil
}

// WrapManager wraps an existing go-urlkit manager.
func WrapManager(inner urlkit.Manager) *Manager {
	if inner == nil {
		return nil
	}
	return &Manager{inner: inner}
}

var _ types.SecureLinkManager = (*Manager)(nil)

// Generate produces a signed secure link using the configured manager.
func (m *Manager) Generate(route string, payloads ...types.SecureLinkPayload) (string, error) {
	if m == nil || m.inner == nil {
		return "", errors.New("securelink manager not configured")
	}
	return m.inner.Generate(route, toPayloads(payloads)...)
}

// GenerateSignIn produces a signed sign-in link for the given profile owner.
// The owner id rides in the payload under PayloadOwnerKey.
func (m *Manager) GenerateSignIn(route string, owner uuid.UUID, extra ...types.SecureLinkPayload) (string, error) {
	payloads := append([]types.SecureLinkPayload{{PayloadOwnerKey: owner.String()}}, extra...)
	return m.Generate(route, payloads...)
}

// Validate checks a secure link token and returns the decoded payload.
func (m *Manager) Validate(token string) (map[string]any, error) {
	if m == nil || m.inner == nil {
		return nil, errors.New("securelink manager not configured")
	}
	return m.inner.Validate(token)
}

// GetAndValidate extracts a token from the provided function and validates it.
func (m *Manager) GetAndValidate(fn func(string) string) (types.SecureLinkPayload, error) {
	if m == nil || m.inner == nil {
		return nil, errors.New("securelink manager not configured")
	}
	payload, err := m.inner.GetAndValidate(fn)
	if err != nil {
		return nil, err
	}
	return types.SecureLinkPayload(payload), nil
}

// GetExpiration exposes the manager's expiration duration.
func (m *Manager) GetExpiration() time.Duration {
	if m == nil || m.inner == nil {
		return 0
	}
	return m.inner.GetExpiration()
}

// PayloadOwner extracts the owner id a sign-in payload was issued for.
func PayloadOwner(payload types.SecureLinkPayload) (uuid.UUID, error) {
	raw, ok := payload[PayloadOwnerKey]
	if !ok {
		return uuid.Nil, errors.New("securelink payload missing owner")
	}
	value, ok := raw.(string)
	if !ok {
		return uuid.Nil, errors.New("securelink payload owner malformed")
	}
	return uuid.Parse(value)
}

// EnforceOwner validates the payload against the expected account using the
// host-supplied enforcer, falling back to an exact owner-id match.
func EnforceOwner(ctx context.Context, enforce types.OwnerEnforcer, payload types.SecureLinkPayload, owner uuid.UUID) error {
	if enforce != nil {
		return enforce(ctx, payload, owner)
	}
	got, err := PayloadOwner(payload)
	if err != nil {
		return err
	}
	if got != owner {
		return types.ErrUnauthorizedOwner
	}
	return nil
}

func toPayloads(payloads []types.SecureLinkPayload) []urlkit.Payload {
	if len(payloads) == 0 {
		return nil
	}
	out := make([]urlkit.Payload, 0, len(payloads))
	for _, payload := range payloads {
		out = append(out, urlkit.Payload(payload))
	}
	return out
}

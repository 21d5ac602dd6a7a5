package types

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// ActorRoleAdmin represents site administrators with unrestricted access.
	ActorRoleAdmin = "admin"
	// ActorRoleInstaller marks accounts owning a Folierer profile.
	ActorRoleInstaller = "folierer"
	// ActorRoleDealer marks accounts owning a Händler profile.
	ActorRoleDealer = "haendler"
	// ActorRoleManufacturer marks accounts owning a Hersteller profile.
	ActorRoleManufacturer = "hersteller"
)

// ActorRef identifies who is initiating a mutation. The ID is the account
// identifier from the authenticated session; Role is the directory role.
type ActorRef struct {
	ID   uuid.UUID
	Role string
}

// RoleName normalizes the actor role for comparisons.
func (a ActorRef) RoleName() string {
	return normalizeRole(a.Role)
}

// IsRole reports whether the actor matches the provided role.
func (a ActorRef) IsRole(role string) bool {
	role = normalizeRole(role)
	if role == "" {
		return a.RoleName() == ""
	}
	return a.RoleName() == role
}

// IsAdmin reports whether the actor may act on entities it does not own.
func (a ActorRef) IsAdmin() bool {
	return a.IsRole(ActorRoleAdmin)
}

// ProfileKind maps owner roles to their profile variant. Admins have no
// profile of their own.
func (a ActorRef) ProfileKind() (ProfileKind, bool) {
	switch a.RoleName() {
	case ActorRoleInstaller:
		return ProfileKindInstaller, true
	case ActorRoleDealer:
		return ProfileKindDealer, true
	case ActorRoleManufacturer:
		return ProfileKindManufacturer, true
	}
	return "", false
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

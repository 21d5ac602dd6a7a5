package profile

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the directory_profiles row. Each owner has at most one row
// per kind, and slugs are unique within a kind.
type Record struct {
	bun.BaseModel `bun:"table:directory_profiles"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	OwnerID       uuid.UUID `bun:"owner_id,type:uuid"`
	Kind          string    `bun:"kind"`
	CompanyName   string    `bun:"company_name"`
	ContactPerson string    `bun:"contact_person"`
	Phone         string    `bun:"phone"`
	Website       string    `bun:"website"`
	Description   string    `bun:"description"`
	Address       string    `bun:"address"`
	Mission       string    `bun:"mission"`
	Vision        string    `bun:"vision"`
	History       string    `bun:"history"`
	LogoURL       string    `bun:"logo_url"`
	LogoPath      string    `bun:"logo_path"`
	Slug          string    `bun:"slug"`
	CreatedAt     time.Time `bun:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at"`
	UpdatedBy     uuid.UUID `bun:"updated_by,type:uuid"`
}

// MediaRecord models the profile_media row.
type MediaRecord struct {
	bun.BaseModel `bun:"table:profile_media"`

	ID        uuid.UUID  `bun:"id,pk,type:uuid"`
	OwnerID   uuid.UUID  `bun:"owner_id,type:uuid"`
	Kind      string     `bun:"kind"`
	Title     string     `bun:"title"`
	Issuer    string     `bun:"issuer"`
	IssuedOn  *time.Time `bun:"issued_on,nullzero"`
	URL       string     `bun:"url"`
	Path      string     `bun:"path"`
	CreatedAt time.Time  `bun:"created_at"`
	CreatedBy uuid.UUID  `bun:"created_by,type:uuid"`
}

// ServiceRecord models the profile_services row.
type ServiceRecord struct {
	bun.BaseModel `bun:"table:profile_services"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	OwnerID     uuid.UUID `bun:"owner_id,type:uuid"`
	Title       string    `bun:"title"`
	Description string    `bun:"description"`
	Icon        string    `bun:"icon"`
	CreatedAt   time.Time `bun:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at"`
}

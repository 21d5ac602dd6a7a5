package refdata

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models a reference_entries row. Brands and product categories share
// the table, discriminated by kind.
type Record struct {
	bun.BaseModel `bun:"table:reference_entries"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Kind      string    `bun:"kind"`
	Name      string    `bun:"name"`
	Slug      string    `bun:"slug"`
	CreatedAt time.Time `bun:"created_at"`
	UpdatedAt time.Time `bun:"updated_at"`
	CreatedBy uuid.UUID `bun:"created_by,type:uuid"`
	UpdatedBy uuid.UUID `bun:"updated_by,type:uuid"`
}

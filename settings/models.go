package settings

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the directory_settings row.
type Record struct {
	bun.BaseModel `bun:"table:directory_settings"`

	ID        uuid.UUID      `bun:"id,pk,type:uuid"`
	OwnerID   uuid.UUID      `bun:"owner_id,type:uuid"`
	Level     string         `bun:"level"`
	Key       string         `bun:"key"`
	Value     map[string]any `bun:"value,type:jsonb"`
	Version   int            `bun:"version"`
	CreatedAt time.Time      `bun:"created_at"`
	UpdatedAt time.Time      `bun:"updated_at"`
	UpdatedBy uuid.UUID      `bun:"updated_by,type:uuid"`
}

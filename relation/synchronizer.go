// Package relation maintains the many-to-many links between dealer profiles
// and the global reference lists.
package relation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/wrapsnp/go-directory/pkg/types"
)

// MemberRecord models a relation_members row.
type MemberRecord struct {
	bun.BaseModel `bun:"table:relation_members"`

	OwnerID     uuid.UUID `bun:"owner_id,type:uuid"`
	Relation    string    `bun:"relation"`
	ReferenceID uuid.UUID `bun:"reference_id,type:uuid"`
	CreatedAt   time.Time `bun:"created_at"`
}

// SynchronizerConfig wires the Bun-backed relation synchronizer.
type SynchronizerConfig struct {
	DB    *bun.DB
	Clock types.Clock
}

// Synchronizer implements types.RelationSynchronizer with a full-replace
// strategy inside one transaction.
type Synchronizer struct {
	db    *bun.DB
	clock types.Clock
}

// NewSynchronizer constructs the default synchronizer.
func NewSynchronizer(cfg SynchronizerConfig) (*Synchronizer, error) {
	if cfg.DB == nil {
		return nil, errors.New("relation: db required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	return &Synchronizer{db: cfg.DB, clock: clock}, nil
}

var _ types.RelationSynchronizer = (*Synchronizer)(nil)

// ReplaceMembers swaps the owner's full membership set for the relation.
// Duplicate targets are collapsed; an empty target set clears the relation.
// The delete and insert run in one transaction, so concurrent readers see
// either the previous set or the new one.
func (s *Synchronizer) ReplaceMembers(ctx context.Context, owner uuid.UUID, relation types.Relation, targets []uuid.UUID) error {
	if owner == uuid.Nil {
		return types.ErrOwnerRequired
	}
	if !relation.Valid() {
		return types.ErrInvalidRelation
	}

	now := s.clock.Now()
	rows := make([]MemberRecord, 0, len(targets))
	seen := make(map[uuid.UUID]struct{}, len(targets))
	for _, target := range targets {
		if target == uuid.Nil {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		rows = append(rows, MemberRecord{
			OwnerID:     owner,
			Relation:    string(relation),
			ReferenceID: target,
			CreatedAt:   now,
		})
	}

	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*MemberRecord)(nil)).
			Where("owner_id = ?", owner).
			Where("relation = ?", string(relation)).
			Exec(ctx); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}

// Members returns the owner's current membership for the relation.
func (s *Synchronizer) Members(ctx context.Context, owner uuid.UUID, relation types.Relation) ([]uuid.UUID, error) {
	if owner == uuid.Nil {
		return nil, types.ErrOwnerRequired
	}
	if !relation.Valid() {
		return nil, types.ErrInvalidRelation
	}
	var records []MemberRecord
	err := s.db.NewSelect().
		Model(&records).
		Where("owner_id = ?", owner).
		Where("relation = ?", string(relation)).
		OrderExpr("created_at ASC, reference_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]uuid.UUID, 0, len(records))
	for _, record := range records {
		members = append(members, record.ReferenceID)
	}
	return members, nil
}

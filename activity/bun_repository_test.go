package activity

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/wrapsnp/go-directory/pkg/types"
)

func TestRepository_LogAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestActivityRepository(t)

	owner := uuid.New()
	record := types.ActivityRecord{
		OwnerID:    owner,
		ActorID:    owner,
		Verb:       "profile.saved",
		ObjectType: "profile",
		ObjectID:   "folierer",
		Data: map[string]any{
			"slug": "mustermann-folien",
		},
	}
	require.NoError(t, store.Log(ctx, record))

	page, err := store.ListActivity(ctx, types.ActivityFilter{
		Verbs:      []string{"profile.saved"},
		Pagination: types.Pagination{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	require.Equal(t, "profile.saved", page.Records[0].Verb)
	require.Equal(t, "mustermann-folien", page.Records[0].Data["slug"])
	require.False(t, page.Records[0].OccurredAt.IsZero())
}

func TestRepository_ListFiltersByOwner(t *testing.T) {
	ctx := context.Background()
	store := newTestActivityRepository(t)

	owner := uuid.New()
	other := uuid.New()
	for _, id := range []uuid.UUID{owner, owner, other} {
		require.NoError(t, store.Log(ctx, types.ActivityRecord{
			OwnerID:    id,
			ActorID:    id,
			Verb:       "media.added",
			ObjectType: "media",
		}))
	}

	page, err := store.ListActivity(ctx, types.ActivityFilter{OwnerID: owner})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
	for _, record := range page.Records {
		require.Equal(t, owner, record.OwnerID)
	}
}

func TestRepository_ListNewestFirstWithPagination(t *testing.T) {
	ctx := context.Background()
	db := newTestActivityDB(t)
	applyActivityTestMigration(t, db)

	clock := &steppingClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	store, err := NewRepository(RepositoryConfig{DB: db, Clock: clock})
	require.NoError(t, err)

	owner := uuid.New()
	verbs := []string{"profile.saved", "media.added", "service.saved"}
	for _, verb := range verbs {
		require.NoError(t, store.Log(ctx, types.ActivityRecord{
			OwnerID: owner,
			ActorID: owner,
			Verb:    verb,
		}))
	}

	page, err := store.ListActivity(ctx, types.ActivityFilter{
		OwnerID:    owner,
		Pagination: types.Pagination{Limit: 2},
	})
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	require.Len(t, page.Records, 2)
	require.Equal(t, "service.saved", page.Records[0].Verb)
	require.True(t, page.HasMore)
	require.Equal(t, 2, page.NextOffset)

	rest, err := store.ListActivity(ctx, types.ActivityFilter{
		OwnerID:    owner,
		Pagination: types.Pagination{Limit: 2, Offset: page.NextOffset},
	})
	require.NoError(t, err)
	require.Len(t, rest.Records, 1)
	require.Equal(t, "profile.saved", rest.Records[0].Verb)
	require.False(t, rest.HasMore)
}

func TestRepository_ListTimeWindow(t *testing.T) {
	ctx := context.Background()
	db := newTestActivityDB(t)
	applyActivityTestMigration(t, db)

	clock := &steppingClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	store, err := NewRepository(RepositoryConfig{DB: db, Clock: clock})
	require.NoError(t, err)

	owner := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Log(ctx, types.ActivityRecord{
			OwnerID: owner,
			ActorID: owner,
			Verb:    "profile.saved",
		}))
	}

	since := time.Date(2025, 3, 1, 9, 1, 0, 0, time.UTC)
	page, err := store.ListActivity(ctx, types.ActivityFilter{OwnerID: owner, Since: &since})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
}

func newTestActivityRepository(t *testing.T) *Repository {
	t.Helper()
	db := newTestActivityDB(t)
	applyActivityTestMigration(t, db)
	store, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)
	return store
}

func newTestActivityDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", ":memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})
	return db
}

func applyActivityTestMigration(t *testing.T, db *bun.DB) {
	t.Helper()
	for _, stmt := range strings.Split(activitySchemaDDL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := db.Exec(stmt)
		require.NoError(t, err, "executing statement %q", stmt)
	}
}

// steppingClock advances one minute per read so created_at ordering is
// deterministic.
type steppingClock struct {
	t time.Time
}

func (c *steppingClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(time.Minute)
	return now
}

const activitySchemaDDL = `
CREATE TABLE directory_activity (
	id TEXT PRIMARY KEY,
	owner_id TEXT,
	actor_id TEXT,
	verb TEXT NOT NULL,
	object_type TEXT,
	object_id TEXT,
	channel TEXT,
	ip TEXT,
	data TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX ix_directory_activity_owner ON directory_activity (owner_id, created_at);
`

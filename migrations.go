package directory

import "embed"

// MigrationsFS contains SQL migrations for both PostgreSQL and SQLite.
//
// The migrations are organized in a dialect-aware structure:
//   - Root files (data/sql/migrations/*.sql) contain PostgreSQL migrations
//   - SQLite overrides are in data/sql/migrations/sqlite/*.sql
//
// A dialect-aware loader (e.g. go-persistence-bun) will automatically select
// the correct migrations based on the database dialect being used.
//
// Usage:
//
//	import "io/fs"
//	import directory "github.com/wrapsnp/go-directory"
//
//	migrationsFS, _ := fs.Sub(directory.GetMigrationsFS(), "data/sql/migrations")
//
//go:embed data/sql/migrations
var MigrationsFS embed.FS

// GetMigrationsFS exposes the SQL migration files so host applications can
// register them with their migration runner.
func GetMigrationsFS() embed.FS {
	return MigrationsFS
}

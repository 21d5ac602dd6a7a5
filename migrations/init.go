package migrations

import (
	"io/fs"

	directory "github.com/wrapsnp/go-directory"
)

func init() {
	coreFS, err := fs.Sub(directory.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return
	}
	Register(coreFS)
}

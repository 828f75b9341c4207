package analysisdb

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationsFS returns the embedded schema migrations.
func MigrationsFS() fs.FS {
	return migrationFiles
}

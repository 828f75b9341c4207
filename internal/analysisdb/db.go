// Package analysisdb records analysis runs in a local sqlite database so a
// processing session leaves an auditable trail: which files were analyzed,
// with which threshold, and where the reports went.
package analysisdb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite connection.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the run database at path without touching the
// schema; call MigrateUp to bring the schema current.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run database %s: %w", path, err)
	}
	return &DB{db}, nil
}

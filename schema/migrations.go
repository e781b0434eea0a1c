// Package schema contains embedded migration files.
package schema

import "embed"

// Migration directories inside MigrationsFS, one per database engine.
const (
	PostgresDir = "pgmigrations"
	SQLiteDir   = "sqlitemigrations"
)

// MigrationsFS contains all SQL migration files. Files are applied in name
// order and must never change once released.
//
//go:embed pgmigrations/*.sql sqlitemigrations/*.sql
var MigrationsFS embed.FS

package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every schema change; each file registers itself by name.
var Migrations = migrate.NewMigrations()

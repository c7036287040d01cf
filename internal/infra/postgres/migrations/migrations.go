// Package migrations holds the bun migrations for the quiz schema. Each migration lives in
// its own file named {version}_{name}.go next to the SQL it embeds.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()

// Package db holds the SQL schema migrations.
package db

import "embed"

// Migrations contains the migration files, used by builds tagged embed_migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS

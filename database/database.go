// Package database holds the SQL schema migrations embedded into the binaries.
package database

import "embed"

// MigrationsDir is the directory of Migrations holding the golang-migrate style files.
const MigrationsDir = "migrations"

// Migrations contains NNNNNN_name.up.sql / NNNNNN_name.down.sql pairs.
//
//go:embed migrations/*.sql
var Migrations embed.FS

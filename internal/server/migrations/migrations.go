// Package migrations embeds the goose SQL migrations for the entry store.
//
// Table names are substituted from the environment (goose ENVSUB), see
// repomanager.RunMigrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS

// Package migrations embeds the SQLite schema migrations for the turfwars
// store.
package migrations

import "embed"

// FS holds the embedded migration files.
//
//go:embed *.sql
var FS embed.FS

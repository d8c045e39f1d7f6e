// Package migrations embeds the SQL schema applied at startup by golang-migrate.
package migrations

import "embed"

// FS holds every *.sql migration in this directory.
//
//go:embed *.sql
var FS embed.FS

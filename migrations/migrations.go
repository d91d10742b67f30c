// Package migrations embeds the SQL schema migrations of the transfer store.
package migrations

import "embed"

// FS holds the ordered goose migration files.
//
//go:embed *.sql
var FS embed.FS

// Package migrations embeds the SQL schema migrations for the lead gateway.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

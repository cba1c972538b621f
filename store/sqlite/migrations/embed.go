// Package migrations embeds the SQL schema of the sqlite host.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

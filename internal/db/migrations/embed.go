// Package migrations embeds the goose SQL migrations for both schemas.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

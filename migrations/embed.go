// Package migrations embeds the versioned SQL schema applied by repository.RunMigrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

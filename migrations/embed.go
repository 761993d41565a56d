// Package migrations embeds the schema migrations for each supported database driver.
package migrations

import "embed"

// FS holds postgres/ and sqlite/ migration sets in golang-migrate file naming
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

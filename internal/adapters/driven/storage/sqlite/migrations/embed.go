// Package migrations holds the schema migrations for the metadata
// store: documents, their chunks, and bibliographic references.
// Files are named <version>_<description>.up.sql and applied in
// version order; each records its own row in schema_migrations.
package migrations

import "embed"

// FS exposes the migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS

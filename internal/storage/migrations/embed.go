// Package migrations embeds the goose SQL migrations for the SecureNotes
// databases: notes/ for the notes database and secrets/ for the optional
// SQLite secret store.
package migrations

import "embed"

//go:embed notes/*.sql secrets/*.sql
var Migrations embed.FS

// Directories inside Migrations.
const (
	NotesDir   = "notes"
	SecretsDir = "secrets"
)

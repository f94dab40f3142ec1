// Package storage opens the SQLite databases used by SecureNotes and brings
// their schema up to date with the embedded goose migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/securenotes/internal/filex"
	"github.com/dmitrijs2005/securenotes/internal/storage/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// RunMigrations applies the migrations found in dir of the embedded FS.
func RunMigrations(ctx context.Context, db *sql.DB, dir string) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to apply %s migrations: %w", dir, err)
	}
	return nil
}

// Open opens the notes database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	return open(ctx, dsn, migrations.NotesDir)
}

// OpenSecrets opens the SQLite secret store database at dsn and migrates it.
func OpenSecrets(ctx context.Context, dsn string) (*sql.DB, error) {
	return open(ctx, dsn, migrations.SecretsDir)
}

func open(ctx context.Context, dsn, dir string) (*sql.DB, error) {
	if dsn != ":memory:" {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps writes serialized and makes :memory: usable.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := RunMigrations(ctx, db, dir); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

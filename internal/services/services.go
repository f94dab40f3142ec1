package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/securenotes/internal/logging"
	"github.com/dmitrijs2005/securenotes/internal/repositories/categories"
	"github.com/dmitrijs2005/securenotes/internal/repositories/notes"
	"github.com/dmitrijs2005/securenotes/internal/repositories/secrets"
)

// Services bundles the wired application services.
type Services struct {
	Auth       *AuthService
	Notes      *NoteService
	Categories *CategoryService
	Wipe       *WipeService
}

// Options configures New.
type Options struct {
	Auth    AuthConfig
	Records RecordConfig
}

// New wires every service over the notes database db and the secret adapter.
func New(ctx context.Context, db *sql.DB, adapter *secrets.Adapter, opts Options, log logging.Logger) (*Services, error) {
	if log == nil {
		log = logging.Nop()
	}

	wiper := NewWiper(db, adapter, log)

	auth, err := NewAuthService(ctx, adapter, wiper, opts.Auth, log)
	if err != nil {
		return nil, err
	}

	if opts.Records.Now == nil {
		opts.Records.Now = opts.Auth.Now
	}

	return &Services{
		Auth:       auth,
		Notes:      NewNoteService(auth, notes.NewSQLiteRepository(db), adapter, opts.Records, log),
		Categories: NewCategoryService(auth, categories.NewSQLiteRepository(db), adapter, opts.Records, log),
		Wipe:       NewWipeService(auth, wiper, log),
	}, nil
}

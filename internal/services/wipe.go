package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/securenotes/internal/common"
	"github.com/dmitrijs2005/securenotes/internal/dbx"
	"github.com/dmitrijs2005/securenotes/internal/logging"
	"github.com/dmitrijs2005/securenotes/internal/models"
	"github.com/dmitrijs2005/securenotes/internal/repositories/categories"
	"github.com/dmitrijs2005/securenotes/internal/repositories/notes"
	"github.com/dmitrijs2005/securenotes/internal/repositories/secrets"
)

// SecretDeleter removes single secrets. *secrets.Adapter implements it.
type SecretDeleter interface {
	Delete(ctx context.Context, key string) error
}

// secretWipeOrder lists the secrets removed after the tables, master key last.
var secretWipeOrder = []string{
	secrets.KeyPinAttempts,
	secrets.KeyPinHash,
	secrets.KeyPinSalt,
	secrets.KeyMasterKey,
}

// Wiper destroys every note, category and secret.
type Wiper struct {
	db      dbx.TxBeginner
	secrets SecretDeleter
	log     logging.Logger
}

func NewWiper(db dbx.TxBeginner, secrets SecretDeleter, log logging.Logger) *Wiper {
	if log == nil {
		log = logging.Nop()
	}
	return &Wiper{db: db, secrets: secrets, log: log.With("component", "wiper")}
}

// Erase empties versions, notes and categories in one transaction, then
// deletes pin_attempts, pin_hash, pin_salt and finally master_key. It stops
// at the first failure, which is returned as common.ErrPersistence.
func (w *Wiper) Erase(ctx context.Context) error {
	err := dbx.WithTx(ctx, w.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		noteRepo := notes.NewSQLiteRepository(tx)
		if err := noteRepo.DeleteAllVersions(ctx); err != nil {
			return err
		}
		if err := noteRepo.DeleteAll(ctx); err != nil {
			return err
		}
		return categories.NewSQLiteRepository(tx).DeleteAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	for _, key := range secretWipeOrder {
		if err := w.secrets.Delete(ctx, key); err != nil {
			return fmt.Errorf("%w: delete %s: %w", common.ErrPersistence, key, err)
		}
	}

	w.log.Info(ctx, "vault erased")
	return nil
}

// WipeService implements the user-requested wipe.
type WipeService struct {
	auth   *AuthService
	eraser Eraser
	log    logging.Logger
}

func NewWipeService(auth *AuthService, eraser Eraser, log logging.Logger) *WipeService {
	if log == nil {
		log = logging.Nop()
	}
	return &WipeService{auth: auth, eraser: eraser, log: log.With("component", "wipe")}
}

// Wipe verifies pin and then erases all data, leaving the state machine
// Unenrolled. A wrong PIN returns common.ErrInvalidPin and destroys nothing.
func (s *WipeService) Wipe(ctx context.Context, pin string) error {
	a := s.auth
	a.gate.Lock()
	defer a.gate.Unlock()

	ok, err := a.verify(ctx, pin)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrInvalidPin
	}

	prev := a.State()
	a.mu.Lock()
	a.state = models.StateWiped
	a.mu.Unlock()

	if err := s.eraser.Erase(ctx); err != nil {
		a.mu.Lock()
		a.state = prev
		a.mu.Unlock()
		return err
	}

	a.reset()
	s.log.Warn(ctx, "data wiped on request")
	return nil
}

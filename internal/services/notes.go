package services

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/dmitrijs2005/securenotes/internal/common"
	"github.com/dmitrijs2005/securenotes/internal/cryptox"
	"github.com/dmitrijs2005/securenotes/internal/logging"
	"github.com/dmitrijs2005/securenotes/internal/models"
	"github.com/dmitrijs2005/securenotes/internal/repositories/notes"
	"golang.org/x/sync/errgroup"
)

// RecordConfig holds the settings shared by the note and category services.
type RecordConfig struct {
	// KDFIterations is the PBKDF2 work factor for record keys.
	KDFIterations int
	// Workers bounds parallel decryption; defaults to GOMAXPROCS.
	Workers int
	// Now defaults to time.Now.
	Now func() time.Time
}

func (c RecordConfig) withDefaults() RecordConfig {
	if c.KDFIterations <= 0 {
		c.KDFIterations = cryptox.DefaultIterations
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// NoteService stores notes sealed under keys derived from the master secret.
type NoteService struct {
	auth  *AuthService
	repo  notes.Repository
	keys  KeySource
	cfg   RecordConfig
	locks *keyedMutex
	log   logging.Logger
}

func NewNoteService(auth *AuthService, repo notes.Repository, keys KeySource, cfg RecordConfig, log logging.Logger) *NoteService {
	if log == nil {
		log = logging.Nop()
	}
	return &NoteService{
		auth:  auth,
		repo:  repo,
		keys:  keys,
		cfg:   cfg.withDefaults(),
		locks: newKeyedMutex(),
		log:   log.With("component", "notes"),
	}
}

// enter takes the shared gate and checks the session. The returned function
// releases the gate.
func enter(auth *AuthService) (func(), error) {
	auth.gate.RLock()
	if !auth.Authorized() {
		auth.gate.RUnlock()
		return nil, common.ErrNotAuthenticated
	}
	auth.Touch()
	return auth.gate.RUnlock, nil
}

// Save seals note and inserts or overwrites the row with its ID. UpdatedAt
// is set to now, or kept at the stored value if the clock is behind it;
// CreatedAt is set on first insert and kept afterwards.
func (s *NoteService) Save(ctx context.Context, note *models.Note) error {
	if note == nil || note.ID == "" {
		return errors.New("note ID is required")
	}

	leave, err := enter(s.auth)
	if err != nil {
		return err
	}
	defer leave()

	release := s.locks.Lock(note.ID)
	defer release()

	c, err := recordCipher(ctx, s.keys, s.cfg.KDFIterations)
	if err != nil {
		return err
	}

	blob, err := c.SealJSON(models.NotePayload{Title: note.Title, Content: note.Content})
	if err != nil {
		return err
	}

	now := s.cfg.Now().UTC()
	createdAt := now
	existing, err := s.repo.GetByID(ctx, note.ID)
	switch {
	case err == nil:
		createdAt = existing.CreatedAt
		// The clock may have stepped back since the last save.
		if existing.UpdatedAt.After(now) {
			now = existing.UpdatedAt
		}
	case errors.Is(err, common.ErrNotFound):
	default:
		return persistenceError(err)
	}

	rec := &models.NoteRecord{
		ID:            note.ID,
		CategoryID:    note.CategoryID,
		EncryptedData: blob,
		CreatedAt:     createdAt,
		UpdatedAt:     now,
	}
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return persistenceError(err)
	}

	note.CreatedAt = createdAt
	note.UpdatedAt = now
	s.log.Debug(ctx, "note saved", "id", note.ID)
	return nil
}

// List returns the notes ordered by UpdatedAt, newest first. A non-empty
// categoryID restricts the result to that category. A single undecryptable
// row fails the whole call with common.ErrDecryption.
func (s *NoteService) List(ctx context.Context, categoryID string) ([]models.Note, error) {
	leave, err := enter(s.auth)
	if err != nil {
		return nil, err
	}
	defer leave()

	recs, err := s.repo.GetAll(ctx, categoryID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if len(recs) == 0 {
		return []models.Note{}, nil
	}

	c, err := recordCipher(ctx, s.keys, s.cfg.KDFIterations)
	if err != nil {
		return nil, err
	}

	result := make([]models.Note, len(recs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := range recs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, err := openNote(c, &recs[i])
			if err != nil {
				return err
			}
			result[i] = *n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error(ctx, "list aborted", "error", err)
		return nil, err
	}
	return result, nil
}

// Get returns the note with id, or (nil, nil) when there is none.
func (s *NoteService) Get(ctx context.Context, id string) (*models.Note, error) {
	leave, err := enter(s.auth)
	if err != nil {
		return nil, err
	}
	defer leave()

	rec, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError(err)
	}

	c, err := recordCipher(ctx, s.keys, s.cfg.KDFIterations)
	if err != nil {
		return nil, err
	}
	return openNote(c, rec)
}

// Delete removes the note with id. Deleting an absent note is a no-op.
func (s *NoteService) Delete(ctx context.Context, id string) error {
	leave, err := enter(s.auth)
	if err != nil {
		return err
	}
	defer leave()

	release := s.locks.Lock(id)
	defer release()

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return persistenceError(err)
	}
	s.log.Debug(ctx, "note deleted", "id", id)
	return nil
}

func openNote(c *cryptox.RecordCipher, rec *models.NoteRecord) (*models.Note, error) {
	var p models.NotePayload
	if err := c.OpenJSON(rec.EncryptedData, &p); err != nil {
		return nil, err
	}
	return &models.Note{
		ID:         rec.ID,
		Title:      p.Title,
		Content:    p.Content,
		CategoryID: rec.CategoryID,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}, nil
}

package services

import (
	"context"
	"errors"
	"sort"

	"github.com/dmitrijs2005/securenotes/internal/common"
	"github.com/dmitrijs2005/securenotes/internal/cryptox"
	"github.com/dmitrijs2005/securenotes/internal/logging"
	"github.com/dmitrijs2005/securenotes/internal/models"
	"github.com/dmitrijs2005/securenotes/internal/repositories/categories"
	"golang.org/x/sync/errgroup"
)

// CategoryService stores categories with their name and color sealed.
type CategoryService struct {
	auth  *AuthService
	repo  categories.Repository
	keys  KeySource
	cfg   RecordConfig
	locks *keyedMutex
	log   logging.Logger
}

func NewCategoryService(auth *AuthService, repo categories.Repository, keys KeySource, cfg RecordConfig, log logging.Logger) *CategoryService {
	if log == nil {
		log = logging.Nop()
	}
	return &CategoryService{
		auth:  auth,
		repo:  repo,
		keys:  keys,
		cfg:   cfg.withDefaults(),
		locks: newKeyedMutex(),
		log:   log.With("component", "categories"),
	}
}

// Save inserts or overwrites the category with cat.ID.
func (s *CategoryService) Save(ctx context.Context, cat *models.Category) error {
	if cat == nil || cat.ID == "" {
		return errors.New("category ID is required")
	}

	leave, err := enter(s.auth)
	if err != nil {
		return err
	}
	defer leave()

	release := s.locks.Lock(cat.ID)
	defer release()

	c, err := recordCipher(ctx, s.keys, s.cfg.KDFIterations)
	if err != nil {
		return err
	}

	blob, err := c.SealJSON(models.CategoryPayload{Name: cat.Name, Color: cat.Color})
	if err != nil {
		return err
	}

	if err := s.repo.Upsert(ctx, &models.CategoryRecord{ID: cat.ID, EncryptedData: blob}); err != nil {
		return persistenceError(err)
	}
	s.log.Debug(ctx, "category saved", "id", cat.ID)
	return nil
}

// List returns all categories ordered by name, then ID.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	leave, err := enter(s.auth)
	if err != nil {
		return nil, err
	}
	defer leave()

	recs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, persistenceError(err)
	}
	if len(recs) == 0 {
		return []models.Category{}, nil
	}

	c, err := recordCipher(ctx, s.keys, s.cfg.KDFIterations)
	if err != nil {
		return nil, err
	}

	result := make([]models.Category, len(recs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := range recs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cat, err := openCategory(c, &recs[i])
			if err != nil {
				return err
			}
			result[i] = *cat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Get returns the category with id, or (nil, nil) when there is none.
func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
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
	return openCategory(c, rec)
}

// Delete removes the category. Notes that reference it keep the reference.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
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
	return nil
}

func openCategory(c *cryptox.RecordCipher, rec *models.CategoryRecord) (*models.Category, error) {
	var p models.CategoryPayload
	if err := c.OpenJSON(rec.EncryptedData, &p); err != nil {
		return nil, err
	}
	return &models.Category{ID: rec.ID, Name: p.Name, Color: p.Color}, nil
}

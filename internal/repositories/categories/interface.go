package categories

import (
	"context"

	"github.com/dmitrijs2005/securenotes/internal/models"
)

type Repository interface {
	Upsert(ctx context.Context, rec *models.CategoryRecord) error
	GetAll(ctx context.Context) ([]models.CategoryRecord, error)
	// GetByID returns the row or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.CategoryRecord, error)
	// DeleteByID removes the row; notes referencing it are left as they are.
	DeleteByID(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

package notes

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/securenotes/internal/models"
)

// ErrStaleWrite is returned by Upsert when the stored row is newer than rec.
var ErrStaleWrite = errors.New("stored note is newer")

// Repository describes storage operations for note rows.
type Repository interface {
	// Upsert inserts rec or updates the row with the same ID. A row whose
	// updated_at is later than rec.UpdatedAt is kept and ErrStaleWrite returned.
	Upsert(ctx context.Context, rec *models.NoteRecord) error

	// GetAll returns rows ordered by updated_at DESC, id ASC. A non-empty
	// categoryID restricts the result to that category.
	GetAll(ctx context.Context, categoryID string) ([]models.NoteRecord, error)

	// GetByID returns the row or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.NoteRecord, error)

	// DeleteByID removes the row. Deleting an absent ID is not an error.
	DeleteByID(ctx context.Context, id string) error

	// DeleteAll removes every note row.
	DeleteAll(ctx context.Context) error

	// DeleteAllVersions removes every row of the versions table.
	DeleteAllVersions(ctx context.Context) error
}

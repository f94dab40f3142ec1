package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/securenotes/internal/common"
	"github.com/dmitrijs2005/securenotes/internal/dbx"
	"github.com/dmitrijs2005/securenotes/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, rec *models.CategoryRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, color, encrypted_data) VALUES (?, '', '', ?)
		ON CONFLICT(id) DO UPDATE SET encrypted_data = excluded.encrypted_data
	`, rec.ID, rec.EncryptedData)
	if err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}
	return nil
}

// GetAll returns rows in id order; callers sort by the decrypted name.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.CategoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, encrypted_data FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	result := []models.CategoryRecord{}
	for rows.Next() {
		var item models.CategoryRecord
		if err := rows.Scan(&item.ID, &item.EncryptedData); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.CategoryRecord, error) {
	item := &models.CategoryRecord{}
	err := r.db.QueryRowContext(ctx, `SELECT id, encrypted_data FROM categories WHERE id = ?`, id).
		Scan(&item.ID, &item.EncryptedData)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category[%s]: %w", id, err)
	}
	return item, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category[%s]: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories`)
	if err != nil {
		return fmt.Errorf("failed to clear categories: %w", err)
	}
	return nil
}

package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/securenotes/internal/common"
	"github.com/dmitrijs2005/securenotes/internal/dbx"
	"github.com/dmitrijs2005/securenotes/internal/models"
	"github.com/dmitrijs2005/securenotes/internal/timex"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, rec *models.NoteRecord) error {
	query := `
		INSERT INTO notes (id, category_id, encrypted_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category_id    = excluded.category_id,
			encrypted_data = excluded.encrypted_data,
			updated_at     = excluded.updated_at
		WHERE excluded.updated_at >= notes.updated_at
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.ID,
		nullString(rec.CategoryID),
		rec.EncryptedData,
		timex.FormatTimestamp(rec.CreatedAt),
		timex.FormatTimestamp(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to upsert note: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("failed to upsert note[%s]: %w", rec.ID, ErrStaleWrite)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context, categoryID string) ([]models.NoteRecord, error) {
	query := `SELECT id, category_id, encrypted_data, created_at, updated_at FROM notes`
	var args []any
	if categoryID != "" {
		query += ` WHERE category_id = ?`
		args = append(args, categoryID)
	}
	query += ` ORDER BY updated_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	result := []models.NoteRecord{}
	for rows.Next() {
		rec, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.NoteRecord, error) {
	query := `SELECT id, category_id, encrypted_data, created_at, updated_at FROM notes WHERE id = ?`
	rec, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note[%s]: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notes`)
	if err != nil {
		return fmt.Errorf("failed to clear notes: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAllVersions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM versions`)
	if err != nil {
		return fmt.Errorf("failed to clear versions: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.NoteRecord, error) {
	var (
		rec                  models.NoteRecord
		categoryID           sql.NullString
		createdAt, updatedAt string
	)
	if err := s.Scan(&rec.ID, &categoryID, &rec.EncryptedData, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan note row: %w", err)
	}
	rec.CategoryID = categoryID.String

	var err error
	if rec.CreatedAt, err = timex.ParseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("note[%s] created_at: %w", rec.ID, err)
	}
	if rec.UpdatedAt, err = timex.ParseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("note[%s] updated_at: %w", rec.ID, err)
	}
	return &rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

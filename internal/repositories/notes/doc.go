// Package notes provides the persistence layer for encrypted notes.
//
// # Overview
//
// Repository stores NoteRecord rows (see internal/models). Only identifiers,
// the category reference and timestamps are kept in the clear; title and
// content live in the sealed encrypted_data column. SQLiteRepository works
// over a dbx.DBTX, so it can be bound to either *sql.DB or *sql.Tx.
//
// # Ordering
//
// Timestamps are stored with timex.TimestampLayout. GetAll orders by
// updated_at descending with id as the tie-breaker.
//
// # Upsert
//
// Upsert inserts a new row or overwrites an existing one, keeping its
// created_at. A write whose updated_at is older than the stored one is
// ignored, so racing writers cannot move a note back in time.
//
// Typical Usage
//
//	repo := notes.NewSQLiteRepository(db)
//	_ = repo.Upsert(ctx, rec)
//	list, _ := repo.GetAll(ctx, "")
//	one, _ := repo.GetByID(ctx, id)
//	_ = repo.DeleteByID(ctx, id)
package notes

package models

import "time"

// Note is a decrypted note. Title and Content never reach storage in the clear.
type Note struct {
	ID         string
	Title      string
	Content    string
	CategoryID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NotePayload is the JSON document sealed into a note row.
type NotePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteRecord is a note row as persisted: identifiers and timestamps in the
// clear, everything else inside EncryptedData.
type NoteRecord struct {
	ID            string
	CategoryID    string
	EncryptedData string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

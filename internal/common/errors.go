// Package common defines sentinel errors and small helpers shared by the
// SecureNotes packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPin is returned for a wrong PIN. Only Login counts it
	// towards the lockout budget.
	ErrInvalidPin = errors.New("invalid PIN")
	// ErrInvalidPinFormat is returned when a new PIN is not made of the
	// configured number of digits.
	ErrInvalidPinFormat = errors.New("invalid PIN format")
	// ErrDataWiped accompanies ErrInvalidPin when the failed attempt
	// exhausted the lockout budget and all data was destroyed.
	ErrDataWiped = errors.New("too many attempts, data wiped")
	// ErrNotAuthenticated is returned by operations that need an
	// authenticated session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrDecryption marks a blob that is malformed, truncated, tampered with
	// or sealed under another key.
	ErrDecryption = errors.New("decryption failed")
	// ErrKeyUnavailable means an expected secret is missing from the secret
	// store or is malformed.
	ErrKeyUnavailable = errors.New("key unavailable")
	// ErrPersistence wraps storage I/O failures; callers may retry.
	ErrPersistence = errors.New("persistence error")
)

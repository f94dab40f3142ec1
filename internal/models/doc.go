// Package models defines the SecureNotes data models: decrypted notes and
// categories as seen by callers, their stored (sealed) rows, the PIN
// credential and the in-memory session.
package models

// Package cryptox implements the key derivation and record encryption used
// by SecureNotes.
//
// Two derivations exist and they serve different purposes:
//
//   - DeriveVerifier hashes a PIN with its salt (SHA-512). The PIN space is
//     small, so brute force is bounded by the lockout counter, not by the
//     cost of the hash.
//   - DeriveKey stretches the master secret with a per-record salt using
//     PBKDF2-HMAC-SHA256 and produces an AES-256 key.
//
// RecordCipher seals a plaintext into a self-contained base64 blob:
//
//	salt(16) || nonce(12) || ciphertext || tag(16)
package cryptox

import (
	"crypto/sha256"
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the size of both PIN and record salts.
	SaltSize = 16
	// NonceSize is the AES-GCM nonce size.
	NonceSize = 12
	// KeySize is the derived AES-256 key size.
	KeySize = 32
	// TagSize is the AES-GCM authentication tag size.
	TagSize = 16
	// VerifierSize is the SHA-512 PIN verifier size.
	VerifierSize = sha512.Size

	// DefaultIterations is the PBKDF2 iteration count for record keys.
	DefaultIterations = 100_000
)

// DeriveVerifier returns SHA-512(pin || salt).
func DeriveVerifier(pin string, salt []byte) []byte {
	h := sha512.New()
	h.Write([]byte(pin))
	h.Write(salt)
	return h.Sum(nil)
}

// DeriveKey stretches secret with salt into a KeySize-byte key.
func DeriveKey(secret, salt []byte, iterations int) []byte {
	return pbkdf2.Key(secret, salt, iterations, KeySize, sha256.New)
}

// Package secrets stores the vault secrets: the PIN credential, the master
// key and, optionally, the failed attempt counter.
//
// # Backends
//
// Store is a small key/value contract with one atomic multi-key write.
// Two implementations are provided:
//
//   - KeyringStore over github.com/99designs/keyring (OS keychain,
//     secret-service, wincred, pass or an encrypted file);
//   - SQLiteStore over a "secrets" table in its own SQLite database.
//
// # Adapter
//
// Adapter layers typed accessors on top of a Store. Binary values are kept
// as standard base64 text. Missing or malformed secrets surface as
// common.ErrKeyUnavailable, backend failures as common.ErrPersistence.
//
// Keys
//
//	pin_salt      16-byte salt of the PIN verifier
//	pin_hash      64-byte SHA-512 verifier
//	master_key    32 random bytes, the root secret of every record
//	pin_attempts  decimal failed-attempt counter (optional)
package secrets

// Package services implements the SecureNotes core: the PIN state machine
// (AuthService), the encrypted note and category services, and the wipe
// coordinator.
//
// # Locking
//
// All services share one *sync.RWMutex gate owned by AuthService. Login,
// ChangePin and Wipe hold it exclusively; VerifyPin and every note or
// category operation hold it shared. AuthService keeps the session and the
// attempt counter behind a second, inner mutex that is only ever taken
// after the gate, so Logout, CheckInactivity and Background never wait for
// storage work. Writes to the same note or category ID are further
// serialized by a per-ID lock.
package services

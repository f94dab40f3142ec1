package models

import "time"

// AuthState is the state of the PIN state machine.
type AuthState int

const (
	// StateUnenrolled means no credential exists; the next PIN enrolls.
	StateUnenrolled AuthState = iota
	// StateLocked means a credential exists and no session is open.
	StateLocked
	// StateAuthenticated means the PIN was verified and the session is live.
	StateAuthenticated
	// StateWiped is transient: data was destroyed and the machine is about
	// to return to StateUnenrolled.
	StateWiped
)

func (s AuthState) String() string {
	switch s {
	case StateUnenrolled:
		return "unenrolled"
	case StateLocked:
		return "locked"
	case StateAuthenticated:
		return "authenticated"
	case StateWiped:
		return "wiped"
	default:
		return "unknown"
	}
}

// Credential is the stored PIN verifier and the salt it was computed with.
type Credential struct {
	Salt    []byte
	PinHash []byte
}

// Session is the in-memory authentication session.
type Session struct {
	Authenticated bool
	LastActivity  time.Time
}

// Expired reports whether an authenticated session has been idle for
// strictly longer than timeout at now.
func (s Session) Expired(now time.Time, timeout time.Duration) bool {
	if !s.Authenticated {
		return false
	}
	return now.Sub(s.LastActivity) > timeout
}

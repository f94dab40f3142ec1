package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/securenotes/internal/common"
	"github.com/dmitrijs2005/securenotes/internal/cryptox"
	"github.com/dmitrijs2005/securenotes/internal/logging"
	"github.com/dmitrijs2005/securenotes/internal/models"
)

// CredentialStore persists the PIN credential and the attempt counter.
// *secrets.Adapter implements it.
type CredentialStore interface {
	Credential(ctx context.Context) (*models.Credential, error)
	SaveCredential(ctx context.Context, cred models.Credential) error
	Attempts(ctx context.Context) (int, error)
	SetAttempts(ctx context.Context, n int) error
}

// Eraser destroys all vault data. *Wiper implements it.
type Eraser interface {
	Erase(ctx context.Context) error
}

// AuthConfig holds the state machine settings.
type AuthConfig struct {
	MaxAttempts       int
	PinLength         int
	InactivityTimeout time.Duration
	// PersistAttempts keeps the failed attempt counter in the CredentialStore.
	PersistAttempts bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// AuthService is the PIN state machine:
//
//	Unenrolled --Login(valid format)--> Authenticated
//	Locked --Login(match)--> Authenticated
//	Locked --Login(mismatch)--> Locked, or Wiped -> Unenrolled at MaxAttempts
//	Authenticated --Logout/CheckInactivity/Background--> Locked
type AuthService struct {
	gate *sync.RWMutex

	creds  CredentialStore
	eraser Eraser
	cfg    AuthConfig
	log    logging.Logger

	// mu guards the fields below. It is taken after gate, never before.
	mu       sync.Mutex
	state    models.AuthState
	session  models.Session
	attempts int
}

// NewAuthService loads the enrollment status (and, when configured, the
// persisted attempt counter) and returns the state machine in its initial
// state: Unenrolled without a credential, Locked otherwise.
func NewAuthService(ctx context.Context, creds CredentialStore, eraser Eraser, cfg AuthConfig, log logging.Logger) (*AuthService, error) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = logging.Nop()
	}

	a := &AuthService{
		gate:   &sync.RWMutex{},
		creds:  creds,
		eraser: eraser,
		cfg:    cfg,
		log:    log.With("component", "auth"),
		state:  models.StateUnenrolled,
	}

	cred, err := creds.Credential(ctx)
	if err != nil {
		return nil, err
	}
	if cred != nil {
		a.state = models.StateLocked
	}

	if cfg.PersistAttempts {
		n, err := creds.Attempts(ctx)
		if err != nil {
			return nil, err
		}
		a.attempts = n
	}
	return a, nil
}

// Login enrolls pin when no credential exists, otherwise verifies it.
// A wrong PIN returns common.ErrInvalidPin; the failure that exhausts
// MaxAttempts erases all data before returning an error matching both
// common.ErrInvalidPin and common.ErrDataWiped.
func (a *AuthService) Login(ctx context.Context, pin string) error {
	a.gate.Lock()
	defer a.gate.Unlock()

	cred, err := a.creds.Credential(ctx)
	if err != nil {
		return err
	}
	if cred == nil {
		return a.enroll(ctx, pin)
	}

	if matches(cred, pin) {
		if err := a.resetAttempts(ctx); err != nil {
			return err
		}
		a.mu.Lock()
		a.state = models.StateAuthenticated
		a.session = models.Session{Authenticated: true, LastActivity: a.cfg.Now()}
		a.mu.Unlock()

		a.log.Info(ctx, "login succeeded")
		return nil
	}

	return a.failAttempt(ctx)
}

func (a *AuthService) enroll(ctx context.Context, pin string) error {
	if err := ValidatePin(pin, a.cfg.PinLength); err != nil {
		return err
	}

	cred := newCredential(pin)
	if err := a.creds.SaveCredential(ctx, cred); err != nil {
		return err
	}
	if err := a.resetAttempts(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	a.state = models.StateAuthenticated
	a.session = models.Session{Authenticated: true, LastActivity: a.cfg.Now()}
	a.mu.Unlock()

	a.log.Info(ctx, "PIN enrolled")
	return nil
}

func (a *AuthService) failAttempt(ctx context.Context) error {
	a.mu.Lock()
	a.attempts++
	n := a.attempts
	a.state = models.StateLocked
	a.session = models.Session{}
	a.mu.Unlock()

	var persistErr error
	if a.cfg.PersistAttempts {
		persistErr = a.creds.SetAttempts(ctx, n)
	}

	a.log.Warn(ctx, "login failed", "attempts", n, "max", a.cfg.MaxAttempts)

	if n < a.cfg.MaxAttempts {
		if persistErr != nil {
			return errors.Join(common.ErrInvalidPin, persistErr)
		}
		return common.ErrInvalidPin
	}
	if persistErr != nil {
		a.log.Error(ctx, "failed to persist attempts", "error", persistErr)
	}

	a.mu.Lock()
	a.state = models.StateWiped
	a.mu.Unlock()

	if err := a.eraser.Erase(ctx); err != nil {
		a.mu.Lock()
		a.state = models.StateLocked
		a.mu.Unlock()

		a.log.Error(ctx, "lockout wipe failed", "error", err)
		return errors.Join(common.ErrInvalidPin, persistErr, err)
	}

	a.reset()
	a.log.Warn(ctx, "too many failed attempts, data wiped", "attempts", n)
	return fmt.Errorf("%w: %w", common.ErrInvalidPin, common.ErrDataWiped)
}

// VerifyPin compares pin with the stored credential without touching the
// session or the attempt counter. It returns false when nothing is enrolled.
func (a *AuthService) VerifyPin(ctx context.Context, pin string) (bool, error) {
	a.gate.RLock()
	defer a.gate.RUnlock()
	return a.verify(ctx, pin)
}

// verify expects the caller to hold the gate.
func (a *AuthService) verify(ctx context.Context, pin string) (bool, error) {
	cred, err := a.creds.Credential(ctx)
	if err != nil {
		return false, err
	}
	if cred == nil {
		return false, nil
	}
	return matches(cred, pin), nil
}

// ChangePin replaces the credential with one for newPin. The master key and
// the stored notes are left untouched.
func (a *AuthService) ChangePin(ctx context.Context, newPin string) error {
	a.gate.Lock()
	defer a.gate.Unlock()

	if !a.Authorized() {
		return common.ErrNotAuthenticated
	}
	if err := ValidatePin(newPin, a.cfg.PinLength); err != nil {
		return err
	}

	if err := a.creds.SaveCredential(ctx, newCredential(newPin)); err != nil {
		return err
	}

	a.Touch()
	a.log.Info(ctx, "PIN changed")
	return nil
}

// Logout locks an authenticated session. It is a no-op in any other state.
func (a *AuthService) Logout() {
	a.lock("logout")
}

// Background locks the session because the application left the foreground.
func (a *AuthService) Background() {
	a.lock("background")
}

// CheckInactivity locks a session idle for longer than InactivityTimeout and
// reports whether it did.
func (a *AuthService) CheckInactivity() bool {
	a.mu.Lock()
	expired := a.expiredLocked()
	if expired {
		a.lockLocked()
	}
	a.mu.Unlock()

	if expired {
		a.log.Info(context.Background(), "session locked", "reason", "inactivity")
	}
	return expired
}

// Touch records user activity on an authenticated session.
func (a *AuthService) Touch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == models.StateAuthenticated {
		a.session.LastActivity = a.cfg.Now()
	}
}

// Authorized reports whether a live session exists. A session found idle
// past the timeout is locked on the spot.
func (a *AuthService) Authorized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != models.StateAuthenticated {
		return false
	}
	if a.expiredLocked() {
		a.lockLocked()
		return false
	}
	return true
}

// State returns the current state.
func (a *AuthService) State() models.AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Attempts returns the consecutive failed Login count.
func (a *AuthService) Attempts() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.attempts
}

// MaxAttempts returns the failed Login budget.
func (a *AuthService) MaxAttempts() int {
	return a.cfg.MaxAttempts
}

// PinLength returns the configured number of PIN digits.
func (a *AuthService) PinLength() int {
	return a.cfg.PinLength
}

func (a *AuthService) lock(reason string) {
	a.mu.Lock()
	locked := a.state == models.StateAuthenticated
	a.lockLocked()
	a.mu.Unlock()

	if locked {
		a.log.Info(context.Background(), "session locked", "reason", reason)
	}
}

func (a *AuthService) lockLocked() {
	if a.state == models.StateAuthenticated {
		a.state = models.StateLocked
		a.session = models.Session{}
	}
}

func (a *AuthService) expiredLocked() bool {
	return a.state == models.StateAuthenticated &&
		a.session.Expired(a.cfg.Now(), a.cfg.InactivityTimeout)
}

// reset returns the machine to Unenrolled after a wipe.
func (a *AuthService) reset() {
	a.mu.Lock()
	a.state = models.StateUnenrolled
	a.session = models.Session{}
	a.attempts = 0
	a.mu.Unlock()
}

func (a *AuthService) resetAttempts(ctx context.Context) error {
	a.mu.Lock()
	had := a.attempts
	a.attempts = 0
	a.mu.Unlock()

	if a.cfg.PersistAttempts && had > 0 {
		return a.creds.SetAttempts(ctx, 0)
	}
	return nil
}

func newCredential(pin string) models.Credential {
	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	return models.Credential{Salt: salt, PinHash: cryptox.DeriveVerifier(pin, salt)}
}

func matches(cred *models.Credential, pin string) bool {
	candidate := cryptox.DeriveVerifier(pin, cred.Salt)
	defer common.WipeByteArray(candidate)
	return subtle.ConstantTimeCompare(candidate, cred.PinHash) == 1
}

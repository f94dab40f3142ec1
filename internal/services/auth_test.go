package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/securenotes/internal/common"
	"github.com/dmitrijs2005/securenotes/internal/models"
	"github.com/dmitrijs2005/securenotes/internal/repositories/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingEraser struct{ err error }

func (f failingEraser) Erase(context.Context) error { return f.err }

// unsavedAttempts is a credential store whose attempt counter cannot be written.
type unsavedAttempts struct {
	*secrets.Adapter
	err error
}

func (u unsavedAttempts) SetAttempts(context.Context, int) error { return u.err }

func TestNewAuthService_InitialState(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, models.StateUnenrolled, env.svc.Auth.State())
	assert.False(t, env.svc.Auth.Authorized())

	env.enroll(t)

	fresh := env.reopen(t)
	assert.Equal(t, models.StateLocked, fresh.Auth.State())
}

func TestLogin_EnrollThenVerify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := env.svc.Auth

	require.NoError(t, auth.Login(ctx, testPin))
	assert.Equal(t, models.StateAuthenticated, auth.State())
	assert.True(t, auth.Authorized())
	assert.Len(t, env.secret(t, secrets.KeyPinSalt), 24, "16 bytes, base64")
	assert.Len(t, env.secret(t, secrets.KeyPinHash), 88, "64 bytes, base64")

	auth.Logout()
	assert.Equal(t, models.StateLocked, auth.State())

	ok, err := auth.VerifyPin(ctx, testPin)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.VerifyPin(ctx, wrongPin)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, auth.Attempts(), "VerifyPin never counts")
	assert.Equal(t, models.StateLocked, auth.State())

	require.NoError(t, auth.Login(ctx, testPin))
	assert.Equal(t, models.StateAuthenticated, auth.State())
}

func TestLogin_EnrollRejectsBadFormat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, pin := range []string{"", "12345", "1234567", "12a456", "12 456", "１２３４５６"} {
		err := env.svc.Auth.Login(ctx, pin)
		require.ErrorIs(t, err, common.ErrInvalidPinFormat, "pin %q", pin)
	}
	assert.Equal(t, models.StateUnenrolled, env.svc.Auth.State())
	assert.Nil(t, env.secret(t, secrets.KeyPinHash))
}

func TestLogin_WrongPinCountsAndSuccessResets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := env.svc.Auth
	env.enroll(t)
	auth.Logout()

	err := auth.Login(ctx, wrongPin)
	require.ErrorIs(t, err, common.ErrInvalidPin)
	assert.NotErrorIs(t, err, common.ErrDataWiped)
	assert.Equal(t, 1, auth.Attempts())
	assert.Equal(t, models.StateLocked, auth.State())

	require.ErrorIs(t, auth.Login(ctx, wrongPin), common.ErrInvalidPin)
	assert.Equal(t, 2, auth.Attempts())

	require.NoError(t, auth.Login(ctx, testPin))
	assert.Equal(t, 0, auth.Attempts())
}

func TestLogin_WrongPinWhileAuthenticatedLocks(t *testing.T) {
	env := newTestEnv(t)
	env.enroll(t)

	require.ErrorIs(t, env.svc.Auth.Login(context.Background(), wrongPin), common.ErrInvalidPin)
	assert.Equal(t, models.StateLocked, env.svc.Auth.State())
}

func TestLogin_LockoutWipesThenFreshEnrollment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := env.svc.Auth
	env.enroll(t)

	require.NoError(t, env.svc.Notes.Save(ctx, &models.Note{ID: "n1", Title: "t", Content: "c"}))
	require.NoError(t, env.svc.Categories.Save(ctx, &models.Category{ID: "c1", Name: "work"}))
	auth.Logout()

	require.ErrorIs(t, auth.Login(ctx, wrongPin), common.ErrInvalidPin)
	require.ErrorIs(t, auth.Login(ctx, wrongPin), common.ErrInvalidPin)

	err := auth.Login(ctx, wrongPin)
	require.ErrorIs(t, err, common.ErrInvalidPin)
	require.ErrorIs(t, err, common.ErrDataWiped)

	assert.Equal(t, models.StateUnenrolled, auth.State())
	assert.Equal(t, 0, auth.Attempts())
	assert.Zero(t, env.count(t, "notes"))
	assert.Zero(t, env.count(t, "categories"))
	for _, key := range []string{secrets.KeyPinSalt, secrets.KeyPinHash, secrets.KeyMasterKey, secrets.KeyPinAttempts} {
		assert.Nil(t, env.secret(t, key), "secret %s must be gone", key)
	}

	created, err := env.adapter.ProvisionMasterKey(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, auth.Login(ctx, otherPin))
	assert.Equal(t, models.StateAuthenticated, auth.State())

	list, err := env.svc.Notes.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

// loginAll runs Login(pins[i]) in parallel and returns the results by index.
func loginAll(auth *AuthService, pins []string) []error {
	errs := make([]error, len(pins))
	var wg sync.WaitGroup
	for i, pin := range pins {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = auth.Login(context.Background(), pin)
		}()
	}
	wg.Wait()
	return errs
}

func TestLogin_ParallelFailuresCountedOnce(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.Auth.MaxAttempts = 10 })
	auth := env.svc.Auth
	env.enroll(t)
	auth.Logout()

	pins := make([]string, 9)
	for i := range pins {
		pins[i] = wrongPin
	}
	for _, err := range loginAll(auth, pins) {
		require.ErrorIs(t, err, common.ErrInvalidPin)
		assert.NotErrorIs(t, err, common.ErrDataWiped)
	}

	assert.Equal(t, 9, auth.Attempts())
	assert.Equal(t, models.StateLocked, auth.State())
}

func TestLogin_ParallelFailuresWipeExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := env.svc.Auth
	env.enroll(t)
	require.NoError(t, env.svc.Notes.Save(ctx, &models.Note{ID: "n1", Title: "t"}))
	auth.Logout()

	wiped, invalid := 0, 0
	for _, err := range loginAll(auth, []string{wrongPin, wrongPin, wrongPin}) {
		require.ErrorIs(t, err, common.ErrInvalidPin)
		if errors.Is(err, common.ErrDataWiped) {
			wiped++
		} else {
			invalid++
		}
	}

	assert.Equal(t, 1, wiped)
	assert.Equal(t, 2, invalid)
	assert.Equal(t, models.StateUnenrolled, auth.State())
	assert.Equal(t, 0, auth.Attempts())
	assert.Zero(t, env.count(t, "notes"))
}

func TestLogin_ParallelEnrollmentKeepsOneCredential(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.Auth.MaxAttempts = 10 })
	ctx := context.Background()
	auth := env.svc.Auth

	pins := make([]string, 5)
	for i := range pins {
		pins[i] = fmt.Sprintf("%06d", 111111*(i+1))
	}
	errs := loginAll(auth, pins)

	winner := ""
	for i, err := range errs {
		if err == nil {
			require.Empty(t, winner, "only one enrollment may succeed")
			winner = pins[i]
			continue
		}
		require.ErrorIs(t, err, common.ErrInvalidPin)
	}
	require.NotEmpty(t, winner)
	assert.Equal(t, len(pins)-1, auth.Attempts())

	for _, pin := range pins {
		ok, err := auth.VerifyPin(ctx, pin)
		require.NoError(t, err)
		assert.Equal(t, pin == winner, ok, "pin %s", pin)
	}
}

func TestLogin_LockoutWipeFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.enroll(t)

	boom := errors.New("disk gone")
	auth, err := NewAuthService(ctx, env.adapter, failingEraser{err: boom},
		AuthConfig{MaxAttempts: 1, PinLength: 6, InactivityTimeout: time.Minute}, nil)
	require.NoError(t, err)

	err = auth.Login(ctx, wrongPin)
	require.ErrorIs(t, err, common.ErrInvalidPin)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, common.ErrDataWiped)
	assert.Equal(t, models.StateLocked, auth.State())
}

func TestLogin_PartialCredentialIsKeyUnavailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.enroll(t)

	require.NoError(t, env.store.Delete(ctx, secrets.KeyPinHash))

	err := env.svc.Auth.Login(ctx, testPin)
	require.ErrorIs(t, err, common.ErrKeyUnavailable)

	_, err = env.svc.Auth.VerifyPin(ctx, testPin)
	require.ErrorIs(t, err, common.ErrKeyUnavailable)
}

func TestCheckInactivity_StrictlyGreaterThanTimeout(t *testing.T) {
	env := newTestEnv(t)
	auth := env.svc.Auth
	env.enroll(t)

	env.clock.Advance(179 * time.Second)
	assert.False(t, auth.CheckInactivity())
	assert.Equal(t, models.StateAuthenticated, auth.State())

	env.clock.Advance(time.Second)
	assert.False(t, auth.CheckInactivity(), "exactly the timeout is still live")

	env.clock.Advance(time.Second)
	assert.True(t, auth.CheckInactivity())
	assert.Equal(t, models.StateLocked, auth.State())

	assert.False(t, auth.CheckInactivity(), "already locked")
}

func TestCheckInactivity_181Seconds(t *testing.T) {
	env := newTestEnv(t)
	env.enroll(t)

	env.clock.Advance(181 * time.Second)
	assert.True(t, env.svc.Auth.CheckInactivity())
	assert.Equal(t, models.StateLocked, env.svc.Auth.State())
}

func TestAuthorized_LocksExpiredSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.enroll(t)

	env.clock.Advance(181 * time.Second)
	_, err := env.svc.Notes.List(ctx, "")
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
	assert.Equal(t, models.StateLocked, env.svc.Auth.State())
}

func TestTouch_NoteOperationsExtendSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.enroll(t)

	env.clock.Advance(170 * time.Second)
	_, err := env.svc.Notes.List(ctx, "")
	require.NoError(t, err)

	env.clock.Advance(170 * time.Second)
	assert.False(t, env.svc.Auth.CheckInactivity())

	env.clock.Advance(11 * time.Second)
	assert.True(t, env.svc.Auth.CheckInactivity())
}

func TestBackgroundAndLogout(t *testing.T) {
	env := newTestEnv(t)
	auth := env.svc.Auth

	auth.Logout()
	assert.Equal(t, models.StateUnenrolled, auth.State(), "logout is a no-op when unenrolled")

	env.enroll(t)
	auth.Background()
	assert.Equal(t, models.StateLocked, auth.State())

	auth.Background()
	auth.Logout()
	assert.Equal(t, models.StateLocked, auth.State())
}

func TestChangePin_PreservesNotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := env.svc.Auth
	env.enroll(t)

	require.NoError(t, env.svc.Notes.Save(ctx, &models.Note{ID: "n1", Title: "title", Content: "body"}))
	masterBefore := env.secret(t, secrets.KeyMasterKey)
	saltBefore := env.secret(t, secrets.KeyPinSalt)

	require.NoError(t, auth.ChangePin(ctx, otherPin))
	assert.Equal(t, masterBefore, env.secret(t, secrets.KeyMasterKey))
	assert.NotEqual(t, saltBefore, env.secret(t, secrets.KeyPinSalt), "a new salt is drawn")

	auth.Logout()
	require.ErrorIs(t, auth.Login(ctx, testPin), common.ErrInvalidPin)
	require.NoError(t, auth.Login(ctx, otherPin))

	got, err := env.svc.Notes.Get(ctx, "n1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "title", got.Title)
	assert.Equal(t, "body", got.Content)
}

func TestChangePin_RequiresSessionAndFormat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.ErrorIs(t, env.svc.Auth.ChangePin(ctx, otherPin), common.ErrNotAuthenticated)

	env.enroll(t)
	require.ErrorIs(t, env.svc.Auth.ChangePin(ctx, "12ab"), common.ErrInvalidPinFormat)

	env.svc.Auth.Logout()
	require.ErrorIs(t, env.svc.Auth.ChangePin(ctx, otherPin), common.ErrNotAuthenticated)
}

func TestPersistAttempts_SurvivesRelaunch(t *testing.T) {
	persist := func(o *Options) { o.Auth.PersistAttempts = true }
	env := newTestEnv(t, persist)
	ctx := context.Background()
	env.enroll(t)
	env.svc.Auth.Logout()

	require.ErrorIs(t, env.svc.Auth.Login(ctx, wrongPin), common.ErrInvalidPin)
	require.ErrorIs(t, env.svc.Auth.Login(ctx, wrongPin), common.ErrInvalidPin)
	assert.Equal(t, []byte("2"), env.secret(t, secrets.KeyPinAttempts))

	relaunched := env.reopen(t, persist)
	assert.Equal(t, 2, relaunched.Auth.Attempts())

	err := relaunched.Auth.Login(ctx, wrongPin)
	require.ErrorIs(t, err, common.ErrDataWiped)
	assert.Nil(t, env.secret(t, secrets.KeyPinAttempts))
}

func TestPersistAttempts_StoreFailureStillWipesAtLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.enroll(t)
	require.NoError(t, env.svc.Notes.Save(ctx, &models.Note{ID: "n1", Title: "t"}))

	boom := errors.New("keyring locked")
	auth, err := NewAuthService(ctx, unsavedAttempts{Adapter: env.adapter, err: boom},
		NewWiper(env.db, env.adapter, nil),
		AuthConfig{MaxAttempts: 2, PinLength: 6, InactivityTimeout: time.Minute, PersistAttempts: true}, nil)
	require.NoError(t, err)

	err = auth.Login(ctx, wrongPin)
	require.ErrorIs(t, err, common.ErrInvalidPin)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, env.count(t, "notes"))

	err = auth.Login(ctx, wrongPin)
	require.ErrorIs(t, err, common.ErrDataWiped)
	assert.Equal(t, models.StateUnenrolled, auth.State())
	assert.Zero(t, env.count(t, "notes"))
	assert.Nil(t, env.secret(t, secrets.KeyMasterKey))
}

func TestPersistAttempts_SuccessClearsCounter(t *testing.T) {
	persist := func(o *Options) { o.Auth.PersistAttempts = true }
	env := newTestEnv(t, persist)
	ctx := context.Background()
	env.enroll(t)
	env.svc.Auth.Logout()

	require.ErrorIs(t, env.svc.Auth.Login(ctx, wrongPin), common.ErrInvalidPin)
	require.NoError(t, env.svc.Auth.Login(ctx, testPin))
	assert.Nil(t, env.secret(t, secrets.KeyPinAttempts))
}

func TestInMemoryAttempts_ResetOnRelaunch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.enroll(t)
	env.svc.Auth.Logout()

	require.ErrorIs(t, env.svc.Auth.Login(ctx, wrongPin), common.ErrInvalidPin)
	assert.Nil(t, env.secret(t, secrets.KeyPinAttempts))

	assert.Equal(t, 0, env.reopen(t).Auth.Attempts())
}

func TestValidatePin(t *testing.T) {
	require.NoError(t, ValidatePin("000000", 6))
	require.NoError(t, ValidatePin("1234", 4))
	require.ErrorIs(t, ValidatePin("12345", 6), common.ErrInvalidPinFormat)
	require.ErrorIs(t, ValidatePin("abcdef", 6), common.ErrInvalidPinFormat)
	require.ErrorIs(t, ValidatePin("-12345", 6), common.ErrInvalidPinFormat)
}

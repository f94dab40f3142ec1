package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/securenotes/internal/common"
	"github.com/dmitrijs2005/securenotes/internal/models"
)

// getSimpleText, getPin and getMultiline are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPin        = GetPin
	getMultiline  = GetMultiline
)

// Login asks for the PIN. Without an enrolled PIN the user chooses one and
// confirms it by typing it twice.
func (a *App) Login(ctx context.Context) error {
	auth := a.svc.Auth

	var pin string
	if auth.State() == models.StateUnenrolled {
		hint(a.out, "Choose a %d-digit PIN.", auth.PinLength())
		first, err := getPin(a.reader, "New PIN", a.out)
		if err != nil {
			return err
		}
		second, err := getPin(a.reader, "Repeat PIN", a.out)
		if err != nil {
			return err
		}
		if first != second {
			failure(a.out, "PINs do not match.")
			return errPinMismatch
		}
		pin = first
	} else {
		var err error
		if pin, err = getPin(a.reader, "PIN", a.out); err != nil {
			return err
		}
	}

	err := auth.Login(ctx, pin)
	switch {
	case err == nil:
		success(a.out, "Unlocked.")
	case errors.Is(err, common.ErrDataWiped):
		failure(a.out, "Too many attempts. Data wiped.")
		if perr := a.provisionKey(ctx); perr != nil {
			return errors.Join(err, perr)
		}
	case errors.Is(err, common.ErrInvalidPin):
		failure(a.out, "Wrong PIN (%d of %d attempts).", auth.Attempts(), auth.MaxAttempts())
	case errors.Is(err, common.ErrInvalidPinFormat):
		failure(a.out, "The PIN must be %d digits.", auth.PinLength())
	default:
		a.report(ctx, "login", err)
	}
	return err
}

// Logout locks the session.
func (a *App) Logout(ctx context.Context) error {
	a.svc.Auth.Logout()
	success(a.out, "Locked.")
	return nil
}

// ChangePin verifies the current PIN, then asks for the new one twice.
func (a *App) ChangePin(ctx context.Context) error {
	auth := a.svc.Auth

	current, err := getPin(a.reader, "Current PIN", a.out)
	if err != nil {
		return err
	}
	ok, err := auth.VerifyPin(ctx, current)
	if err != nil {
		a.report(ctx, "changepin", err)
		return err
	}
	if !ok {
		failure(a.out, "Wrong PIN.")
		return common.ErrInvalidPin
	}

	first, err := getPin(a.reader, "New PIN", a.out)
	if err != nil {
		return err
	}
	second, err := getPin(a.reader, "Repeat new PIN", a.out)
	if err != nil {
		return err
	}
	if first != second {
		failure(a.out, "PINs do not match.")
		return errPinMismatch
	}

	if err := auth.ChangePin(ctx, first); err != nil {
		if errors.Is(err, common.ErrInvalidPinFormat) {
			failure(a.out, "The PIN must be %d digits.", auth.PinLength())
		} else {
			a.report(ctx, "changepin", err)
		}
		return err
	}
	success(a.out, "PIN changed.")
	return nil
}

// Wipe destroys all data after the PIN is confirmed.
func (a *App) Wipe(ctx context.Context) error {
	hint(a.out, "This permanently deletes all notes, categories and keys.")
	pin, err := getPin(a.reader, "Confirm with PIN", a.out)
	if err != nil {
		return err
	}

	if err := a.svc.Wipe.Wipe(ctx, pin); err != nil {
		if errors.Is(err, common.ErrInvalidPin) {
			failure(a.out, "Wrong PIN. Nothing was deleted.")
		} else {
			a.report(ctx, "wipe", err)
		}
		return err
	}

	if err := a.provisionKey(ctx); err != nil {
		return err
	}
	success(a.out, "All data wiped.")
	return nil
}

func (a *App) provisionKey(ctx context.Context) error {
	if _, err := a.keys.ProvisionMasterKey(ctx); err != nil {
		a.report(ctx, "provision master key", err)
		return err
	}
	return nil
}

var errPinMismatch = errors.New("PINs do not match")

// report prints a user-facing message for err and logs it.
func (a *App) report(ctx context.Context, op string, err error) {
	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		failure(a.out, "Session locked. Type 'login' to continue.")
	case errors.Is(err, common.ErrDecryption):
		failure(a.out, "Stored data could not be decrypted.")
	case errors.Is(err, common.ErrKeyUnavailable):
		failure(a.out, "Encryption key unavailable.")
	case errors.Is(err, common.ErrPersistence):
		failure(a.out, "Storage error, please retry.")
	default:
		failure(a.out, "%s failed: %v", op, err)
	}
	a.log.Error(ctx, op+" failed", "error", err)
}

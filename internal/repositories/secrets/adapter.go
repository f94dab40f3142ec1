package secrets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/securenotes/internal/common"
	"github.com/dmitrijs2005/securenotes/internal/cryptox"
	"github.com/dmitrijs2005/securenotes/internal/models"
)

// Secret keys.
const (
	KeyPinSalt     = "pin_salt"
	KeyPinHash     = "pin_hash"
	KeyMasterKey   = "master_key"
	KeyPinAttempts = "pin_attempts"
)

// Adapter provides typed access to the vault secrets kept in a Store.
type Adapter struct {
	store Store
}

func NewAdapter(store Store) *Adapter {
	return &Adapter{store: store}
}

// Credential returns the stored PIN credential, or (nil, nil) when none has
// been enrolled. A half-written or malformed pair is ErrKeyUnavailable.
func (a *Adapter) Credential(ctx context.Context) (*models.Credential, error) {
	salt, err := a.getBinary(ctx, KeyPinSalt)
	if err != nil {
		return nil, err
	}
	hash, err := a.getBinary(ctx, KeyPinHash)
	if err != nil {
		return nil, err
	}

	if salt == nil && hash == nil {
		return nil, nil
	}
	if len(salt) != cryptox.SaltSize || len(hash) != cryptox.VerifierSize {
		return nil, fmt.Errorf("%w: incomplete PIN credential", common.ErrKeyUnavailable)
	}
	return &models.Credential{Salt: salt, PinHash: hash}, nil
}

// SaveCredential writes salt and verifier in a single atomic batch.
func (a *Adapter) SaveCredential(ctx context.Context, cred models.Credential) error {
	err := a.store.SetMany(ctx, map[string][]byte{
		KeyPinSalt: encode(cred.Salt),
		KeyPinHash: encode(cred.PinHash),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return nil
}

// MasterKey returns the 32-byte master secret.
func (a *Adapter) MasterKey(ctx context.Context) ([]byte, error) {
	key, err := a.getBinary(ctx, KeyMasterKey)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, fmt.Errorf("%w: master key is missing", common.ErrKeyUnavailable)
	}
	if len(key) != cryptox.KeySize {
		return nil, fmt.Errorf("%w: master key has %d bytes", common.ErrKeyUnavailable, len(key))
	}
	return key, nil
}

// ProvisionMasterKey creates a random master key unless one already exists.
// It reports whether a new key was written.
func (a *Adapter) ProvisionMasterKey(ctx context.Context) (bool, error) {
	existing, err := a.getBinary(ctx, KeyMasterKey)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	key := common.GenerateRandByteArray(cryptox.KeySize)
	defer common.WipeByteArray(key)

	if err := a.store.Set(ctx, KeyMasterKey, encode(key)); err != nil {
		return false, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return true, nil
}

// Attempts returns the persisted failed attempt counter, 0 when absent.
func (a *Adapter) Attempts(ctx context.Context) (int, error) {
	raw, err := a.store.Get(ctx, KeyPinAttempts)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	if raw == nil {
		return 0, nil
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad %s value", common.ErrKeyUnavailable, KeyPinAttempts)
	}
	return n, nil
}

// SetAttempts persists the failed attempt counter. Zero removes the key.
func (a *Adapter) SetAttempts(ctx context.Context, n int) error {
	var err error
	if n == 0 {
		err = a.store.Delete(ctx, KeyPinAttempts)
	} else {
		err = a.store.Set(ctx, KeyPinAttempts, []byte(strconv.Itoa(n)))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return nil
}

// Delete removes one secret.
func (a *Adapter) Delete(ctx context.Context, key string) error {
	if err := a.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return nil
}

func (a *Adapter) getBinary(ctx context.Context, key string) ([]byte, error) {
	raw, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	if raw == nil {
		return nil, nil
	}
	b, err := base64.StdEncoding.Strict().DecodeString(string(raw))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %s is not base64", common.ErrKeyUnavailable, key), err)
	}
	return b, nil
}

func encode(b []byte) []byte {
	return []byte(base64.StdEncoding.EncodeToString(b))
}

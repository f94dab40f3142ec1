package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/99designs/keyring"
)

// KeyringConfig selects and configures the keyring backend.
type KeyringConfig struct {
	ServiceName string
	// Backend forces a single backend such as "file" or "keychain". Empty
	// lets the library choose the platform default.
	Backend string
	// FileDir is used by the encrypted file backend.
	FileDir string
	// FilePassword prompts for the file backend password. Defaults to a
	// terminal prompt.
	FilePassword keyring.PromptFunc
}

// OpenKeyring opens the keyring described by cfg.
func OpenKeyring(cfg KeyringConfig) (keyring.Keyring, error) {
	kc := keyring.Config{
		ServiceName:                    cfg.ServiceName,
		KeychainName:                   cfg.ServiceName,
		KeychainTrustApplication:       true,
		KeychainSynchronizable:         false,
		KeychainAccessibleWhenUnlocked: true,
		LibSecretCollectionName:        cfg.ServiceName,
		KWalletAppID:                   cfg.ServiceName,
		KWalletFolder:                  cfg.ServiceName,
		WinCredPrefix:                  cfg.ServiceName,
		PassPrefix:                     cfg.ServiceName,
		FileDir:                        cfg.FileDir,
		FilePasswordFunc:               cfg.FilePassword,
	}
	if kc.FilePasswordFunc == nil {
		kc.FilePasswordFunc = keyring.TerminalPrompt
	}
	if cfg.Backend != "" {
		kc.AllowedBackends = []keyring.BackendType{keyring.BackendType(cfg.Backend)}
	}

	ring, err := keyring.Open(kc)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return ring, nil
}

// KeyringStore is a Store over a keyring.Keyring. Keyring backends have no
// transactions; SetMany restores the previous values when a write fails.
type KeyringStore struct {
	ring keyring.Keyring
}

func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

func (s *KeyringStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secret[%s]: %w", key, err)
	}
	return item.Data, nil
}

func (s *KeyringStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ring.Set(keyring.Item{Key: key, Data: value, Label: key}); err != nil {
		return fmt.Errorf("failed to set secret[%s]: %w", key, err)
	}
	return nil
}

func (s *KeyringStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete secret[%s]: %w", key, err)
	}
	return nil
}

func (s *KeyringStore) SetMany(ctx context.Context, values map[string][]byte) error {
	keys := sortedKeys(values)

	previous := make(map[string][]byte, len(keys))
	for _, key := range keys {
		old, err := s.Get(ctx, key)
		if err != nil {
			return err
		}
		previous[key] = old
	}

	for i, key := range keys {
		if err := s.Set(ctx, key, values[key]); err != nil {
			return errors.Join(err, s.restore(keys[:i], previous))
		}
	}
	return nil
}

func (s *KeyringStore) restore(keys []string, previous map[string][]byte) error {
	ctx := context.Background()
	var errs []error
	for _, key := range keys {
		var err error
		if previous[key] == nil {
			err = s.Delete(ctx, key)
		} else {
			err = s.Set(ctx, key, previous[key])
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("rollback: %w", err))
		}
	}
	return errors.Join(errs...)
}

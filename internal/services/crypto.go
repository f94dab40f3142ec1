package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/securenotes/internal/common"
	"github.com/dmitrijs2005/securenotes/internal/cryptox"
)

// KeySource yields the master secret. *secrets.Adapter implements it.
type KeySource interface {
	MasterKey(ctx context.Context) ([]byte, error)
}

// recordCipher builds a RecordCipher from the current master secret.
func recordCipher(ctx context.Context, keys KeySource, iterations int) (*cryptox.RecordCipher, error) {
	key, err := keys.MasterKey(ctx)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	c, err := cryptox.NewRecordCipher(key, iterations)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrKeyUnavailable, err)
	}
	return c, nil
}

func persistenceError(err error) error {
	return fmt.Errorf("%w: %w", common.ErrPersistence, err)
}

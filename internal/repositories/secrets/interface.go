package secrets

import "context"

// Store is a key/value secret store.
type Store interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Removing an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// SetMany writes all values or none of them.
	SetMany(ctx context.Context, values map[string][]byte) error
}

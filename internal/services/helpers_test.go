package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/dmitrijs2005/securenotes/internal/repositories/secrets"
	"github.com/dmitrijs2005/securenotes/internal/storage"
	"github.com/stretchr/testify/require"
)

const (
	testPin   = "123456"
	otherPin  = "654321"
	wrongPin  = "000000"
	testIters = 10
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	db      *sql.DB
	store   secrets.Store
	adapter *secrets.Adapter
	clock   *fakeClock
	svc     *Services
}

func defaultOptions(clock *fakeClock) Options {
	return Options{
		Auth: AuthConfig{
			MaxAttempts:       3,
			PinLength:         6,
			InactivityTimeout: 180 * time.Second,
			Now:               clock.Now,
		},
		Records: RecordConfig{KDFIterations: testIters, Workers: 4},
	}
}

func newTestEnv(t *testing.T, mutate ...func(*Options)) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := secrets.NewKeyringStore(keyring.NewArrayKeyring(nil))
	adapter := secrets.NewAdapter(store)
	_, err = adapter.ProvisionMasterKey(ctx)
	require.NoError(t, err)

	clock := newFakeClock()
	opts := defaultOptions(clock)
	for _, m := range mutate {
		m(&opts)
	}

	svc, err := New(ctx, db, adapter, opts, nil)
	require.NoError(t, err)

	return &testEnv{db: db, store: store, adapter: adapter, clock: clock, svc: svc}
}

// reopen builds fresh services over the same databases, like a relaunch.
func (e *testEnv) reopen(t *testing.T, mutate ...func(*Options)) *Services {
	t.Helper()
	opts := defaultOptions(e.clock)
	for _, m := range mutate {
		m(&opts)
	}
	svc, err := New(context.Background(), e.db, e.adapter, opts, nil)
	require.NoError(t, err)
	return svc
}

func (e *testEnv) enroll(t *testing.T) {
	t.Helper()
	require.NoError(t, e.svc.Auth.Login(context.Background(), testPin))
}

func (e *testEnv) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func (e *testEnv) secret(t *testing.T, key string) []byte {
	t.Helper()
	v, err := e.store.Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/securenotes/internal/config"
	"github.com/dmitrijs2005/securenotes/internal/logging"
	"github.com/dmitrijs2005/securenotes/internal/repositories/secrets"
	"github.com/dmitrijs2005/securenotes/internal/services"
	"github.com/dmitrijs2005/securenotes/internal/storage"
)

// Open opens the notes database and the configured secret store, makes sure
// a master key exists and returns an App reading stdin and writing stdout.
// Call App.Close when done.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	closers := []func() error{db.Close}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	store, closeStore, err := openSecretStore(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, err
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	adapter := secrets.NewAdapter(store)
	if _, err := adapter.ProvisionMasterKey(ctx); err != nil {
		cleanup()
		return nil, fmt.Errorf("master key: %w", err)
	}

	svc, err := services.New(ctx, db, adapter, services.Options{
		Auth: services.AuthConfig{
			MaxAttempts:       cfg.MaxAttempts,
			PinLength:         cfg.PinLength,
			InactivityTimeout: cfg.InactivityTimeout,
			PersistAttempts:   cfg.PersistAttempts,
		},
		Records: services.RecordConfig{KDFIterations: cfg.KDFIterations},
	}, log)
	if err != nil {
		cleanup()
		return nil, err
	}

	app := NewApp(cfg, svc, adapter, log, os.Stdin, os.Stdout)
	app.closers = closers
	return app, nil
}

func openSecretStore(ctx context.Context, cfg *config.Config) (secrets.Store, func() error, error) {
	switch cfg.SecretBackend {
	case config.SecretBackendSQLite:
		sdb, err := storage.OpenSecrets(ctx, cfg.SecretsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing secret store: %w", err)
		}
		return secrets.NewSQLiteStore(sdb), sdb.Close, nil
	default:
		ring, err := secrets.OpenKeyring(secrets.KeyringConfig{
			ServiceName: cfg.KeyringService,
			Backend:     cfg.KeyringBackend,
			FileDir:     cfg.KeyringFileDir,
		})
		if err != nil {
			return nil, nil, err
		}
		return secrets.NewKeyringStore(ring), nil, nil
	}
}

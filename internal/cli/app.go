package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/securenotes/internal/config"
	"github.com/dmitrijs2005/securenotes/internal/logging"
	"github.com/dmitrijs2005/securenotes/internal/models"
	"github.com/dmitrijs2005/securenotes/internal/services"
)

// KeyProvisioner creates the master key when it is missing.
// *secrets.Adapter implements it.
type KeyProvisioner interface {
	ProvisionMasterKey(ctx context.Context) (bool, error)
}

type App struct {
	config  *config.Config
	svc     *services.Services
	keys    KeyProvisioner
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	closers []func() error
}

// NewApp builds an App over already wired services.
func NewApp(cfg *config.Config, svc *services.Services, keys KeyProvisioner, log logging.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		config: cfg,
		svc:    svc,
		keys:   keys,
		log:    log,
		reader: bufio.NewReader(in),
		out:    &lockedWriter{w: out},
	}
}

// Run starts the background watchers and blocks in the REPL until the user
// exits, stdin closes or ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartInactivityWatcher(ctx, a.config.InactivityCheckInterval)
	stop := notifyBackground(ctx, a.svc.Auth.Background)
	defer stop()

	a.log.Info(ctx, "started", "db", a.config.DatabasePath, "secrets", a.config.SecretBackend)
	fmt.Fprintln(a.out, "Welcome to SecureNotes (type 'help' for commands)")
	if a.svc.Auth.State() == models.StateUnenrolled {
		hint(a.out, "No PIN set yet. Type 'login' to choose one.")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(ctx, a, a.status, a.reader)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
	return nil
}

// Close releases the databases and stores opened by Open.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.svc.Auth.Authorized()
}

func (a *App) status() string {
	return a.svc.Auth.State().String()
}

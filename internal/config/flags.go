package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/securenotes/internal/flagx"
)

var knownFlags = []string{"-d", "-b", "-t", "-m", "-l"}

// parseFlags populates cfg from the flags in args it knows about; other
// arguments are ignored (see flagx.FilterArgs).
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("securenotes", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the notes database")
	fs.StringVar(&cfg.SecretBackend, "b", cfg.SecretBackend, "secret backend (keyring, sqlite)")
	timeout := fs.Int("t", int(cfg.InactivityTimeout.Seconds()), "inactivity timeout (in seconds)")
	fs.IntVar(&cfg.MaxAttempts, "m", cfg.MaxAttempts, "failed PIN attempts before wipe")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	cfg.InactivityTimeout = time.Duration(*timeout) * time.Second
	return nil
}

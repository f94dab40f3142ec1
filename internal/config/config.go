package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/securenotes/internal/cryptox"
	"github.com/dmitrijs2005/securenotes/internal/logging"
)

// Secret backends.
const (
	SecretBackendKeyring = "keyring"
	SecretBackendSQLite  = "sqlite"
)

// Config holds runtime settings for the SecureNotes CLI.
type Config struct {
	DatabasePath string

	// SecretBackend selects where pin_salt, pin_hash and master_key live.
	SecretBackend  string
	SecretsPath    string
	KeyringService string
	// KeyringBackend forces one keyring backend (e.g. "file"); empty lets
	// the keyring library pick the platform default.
	KeyringBackend string
	KeyringFileDir string

	MaxAttempts             int
	PinLength               int
	InactivityTimeout       time.Duration
	InactivityCheckInterval time.Duration
	KDFIterations           int
	// PersistAttempts stores the failed attempt counter next to the
	// credential so a relaunch does not reset it.
	PersistAttempts bool

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "securenotes.db"
	c.SecretBackend = SecretBackendKeyring
	c.SecretsPath = "securenotes-secrets.db"
	c.KeyringService = "securenotes"
	c.KeyringBackend = ""
	c.KeyringFileDir = "~/.securenotes/keyring"
	c.MaxAttempts = 3
	c.PinLength = 6
	c.InactivityTimeout = 180 * time.Second
	c.InactivityCheckInterval = time.Second
	c.KDFIterations = cryptox.DefaultIterations
	c.PersistAttempts = false
	c.LogLevel = "info"
	c.LogFormat = logging.FormatText
}

// Validate reports settings that would weaken or break the vault.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	switch c.SecretBackend {
	case SecretBackendKeyring:
		if c.KeyringService == "" {
			errs = append(errs, errors.New("keyring service is empty"))
		}
	case SecretBackendSQLite:
		if c.SecretsPath == "" {
			errs = append(errs, errors.New("secrets path is empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown secret backend %q", c.SecretBackend))
	}
	if c.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts))
	}
	if c.PinLength < 4 {
		errs = append(errs, fmt.Errorf("PIN length must be at least 4, got %d", c.PinLength))
	}
	if c.InactivityTimeout <= 0 {
		errs = append(errs, errors.New("inactivity timeout must be positive"))
	}
	if c.InactivityCheckInterval <= 0 {
		errs = append(errs, errors.New("inactivity check interval must be positive"))
	}
	if c.KDFIterations < cryptox.DefaultIterations {
		errs = append(errs, fmt.Errorf("kdf iterations must be at least %d, got %d", cryptox.DefaultIterations, c.KDFIterations))
	}
	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON, logging.FormatZerolog:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config from defaults, then the JSON file named in args
// (if any), then the flags in args. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

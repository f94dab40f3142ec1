package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/securenotes/internal/flagx"
	"github.com/dmitrijs2005/securenotes/internal/timex"
)

// JsonConfig is the on-disk form of Config. Intervals use timex.Duration.
type JsonConfig struct {
	DatabasePath            string         `json:"database_path"`
	SecretBackend           string         `json:"secret_backend"`
	SecretsPath             string         `json:"secrets_path"`
	KeyringService          string         `json:"keyring_service"`
	KeyringBackend          string         `json:"keyring_backend"`
	KeyringFileDir          string         `json:"keyring_file_dir"`
	MaxAttempts             int            `json:"max_attempts"`
	PinLength               int            `json:"pin_length"`
	InactivityTimeout       timex.Duration `json:"inactivity_timeout"`
	InactivityCheckInterval timex.Duration `json:"inactivity_check_interval"`
	KDFIterations           int            `json:"kdf_iterations"`
	PersistAttempts         bool           `json:"persist_attempts"`
	LogLevel                string         `json:"log_level"`
	LogFormat               string         `json:"log_format"`
}

// parseJson overlays cfg with the JSON file given by -c/-config in args.
// Keys absent from the file keep the values already in cfg.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	jc := JsonConfig{
		DatabasePath:            cfg.DatabasePath,
		SecretBackend:           cfg.SecretBackend,
		SecretsPath:             cfg.SecretsPath,
		KeyringService:          cfg.KeyringService,
		KeyringBackend:          cfg.KeyringBackend,
		KeyringFileDir:          cfg.KeyringFileDir,
		MaxAttempts:             cfg.MaxAttempts,
		PinLength:               cfg.PinLength,
		InactivityTimeout:       timex.Duration{Duration: cfg.InactivityTimeout},
		InactivityCheckInterval: timex.Duration{Duration: cfg.InactivityCheckInterval},
		KDFIterations:           cfg.KDFIterations,
		PersistAttempts:         cfg.PersistAttempts,
		LogLevel:                cfg.LogLevel,
		LogFormat:               cfg.LogFormat,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.DatabasePath = jc.DatabasePath
	cfg.SecretBackend = jc.SecretBackend
	cfg.SecretsPath = jc.SecretsPath
	cfg.KeyringService = jc.KeyringService
	cfg.KeyringBackend = jc.KeyringBackend
	cfg.KeyringFileDir = jc.KeyringFileDir
	cfg.MaxAttempts = jc.MaxAttempts
	cfg.PinLength = jc.PinLength
	cfg.InactivityTimeout = jc.InactivityTimeout.Duration
	cfg.InactivityCheckInterval = jc.InactivityCheckInterval.Duration
	cfg.KDFIterations = jc.KDFIterations
	cfg.PersistAttempts = jc.PersistAttempts
	cfg.LogLevel = jc.LogLevel
	cfg.LogFormat = jc.LogFormat
	return nil
}

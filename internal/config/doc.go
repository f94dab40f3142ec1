// Package config loads runtime configuration for the SecureNotes CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   path of the notes database
//	-b string   secret backend: "keyring" or "sqlite"
//	-t int      inactivity timeout (seconds)
//	-m int      failed PIN attempts before the data is wiped
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "180s" or
// integer nanoseconds. Keys missing from the file keep their previous value:
//
//	{
//	  "database_path": "/home/me/.securenotes/notes.db",
//	  "secret_backend": "keyring",
//	  "secrets_path": "/home/me/.securenotes/secrets.db",
//	  "keyring_service": "securenotes",
//	  "keyring_backend": "file",
//	  "keyring_file_dir": "/home/me/.securenotes/keyring",
//	  "max_attempts": 3,
//	  "pin_length": 6,
//	  "inactivity_timeout": "180s",
//	  "inactivity_check_interval": "1s",
//	  "kdf_iterations": 100000,
//	  "persist_attempts": false,
//	  "log_level": "info",
//	  "log_format": "text"
//	}
package config

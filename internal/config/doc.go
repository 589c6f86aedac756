// Package config loads, normalizes, and validates obsrec configuration.
//
// Configuration lives in a TOML file (default ~/.config/obsrec/config.toml,
// falling back to ./obsrec.toml). Defaults are applied first, then the file,
// then environment overrides for secrets. Load returns a validated Config
// ready for use by the daemon and CLI.
package config

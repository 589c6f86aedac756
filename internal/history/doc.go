// Package history persists a record of capture cycles in SQLite so the CLI
// can report what the daemon has recorded, normalized, and published, and
// which cycles failed and why.
package history

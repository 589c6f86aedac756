// Package logging constructs the application's slog loggers and provides the
// shared attribute helpers used across components.
//
// Loggers are built from config (level, format, optional log-dir mirroring)
// via NewFromConfig. Components attach their identity with
// NewComponentLogger, and capture cycles are correlated through FieldRunID.
package logging

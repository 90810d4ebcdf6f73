// Package logger builds the structured slog logger shared by the CLI and the
// shell bridge. Production output is JSON; every other environment gets the
// human-readable text handler.
package logger

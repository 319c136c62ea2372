// Package logging builds the slog loggers tidy writes its diagnostics with.
//
// Two formats are supported: "console" (slog text handler with short
// timestamps) and "json" (one object per line with ts/level/msg keys).
// Log output goes to stderr by default so it never mixes with the summary
// printed on stdout.
package logging

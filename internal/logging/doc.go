// Package logging assembles structured slog loggers and formatting helpers used
// across gallerysync.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so engine code can tag log lines with the
// run identifier, stage, and category. The package also provides a no-op logger
// for tests and a retention helper that prunes old log files.
package logging

// Package logging carries the shared logging surface: the attribute helpers
// that keep field names consistent across packages, token sanitization for
// log lines, and the discard logger tests lean on.
//
// Attribute helpers pair with plain slog loggers:
//
//	logger.Info("meeting scheduled",
//	    logging.Account("work"),
//	    logging.Operation("calendar.create"))
//
// Err is nil-safe and collapses to nothing when there is no error:
//
//	logger.Warn("send failed", logging.Err(err))
//
// Secrets never reach log output directly; SanitizeToken reduces them to a
// length indicator first.
package logging

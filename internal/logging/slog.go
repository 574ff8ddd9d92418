package logging

import (
	"fmt"
	"log/slog"
)

// Attribute keys shared across the codebase, so the same field never shows
// up under two different names.
const (
	KeyOperation = "operation"
	KeyService   = "service"
	KeyAccount   = "account"
	KeyError     = "error"
	KeyIntent    = "intent"
	KeyProject   = "project"
)

// Operation returns the attribute naming the operation in flight.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Service returns the attribute naming the backing service.
func Service(svc string) slog.Attr {
	return slog.String(KeyService, svc)
}

// Account returns the attribute naming the credential a call acts on.
func Account(account string) slog.Attr {
	return slog.String(KeyAccount, account)
}

// Intent returns the attribute for a classified command intent.
func Intent(kind string) slog.Attr {
	return slog.String(KeyIntent, kind)
}

// Project returns the attribute for a project identifier.
func Project(id string) slog.Attr {
	return slog.String(KeyProject, id)
}

// Err returns the error attribute, or an empty group for a nil error. The
// empty group is omitted from output, so Err(maybeNil) is always safe to
// pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeToken renders a secret as a length indicator for log lines. No
// part of the token itself is ever included; even short prefixes can narrow
// a search space.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}

// NopLogger returns a logger that discards everything. Tests use it to
// silence components that log as a side effect.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

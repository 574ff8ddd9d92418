package common

import (
	"context"
)

// GetAccountFromArgs extracts the account name from request arguments.
// Falls back to the account carried in the context, and finally to
// "default".
//
// Priority order:
//  1. Explicit "account" argument in request
//  2. Account from context (bound by the HTTP transport from the
//     server's configured account)
//  3. "default"
func GetAccountFromArgs(ctx context.Context, args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	if account, ok := AccountFromContext(ctx); ok && account != "" {
		return account
	}
	return "default"
}

type accountContextKey struct{}

// WithAccount returns a context carrying an account name. The HTTP
// transport binds the server's configured account so tool handlers can
// resolve the caller's account without an explicit argument.
func WithAccount(ctx context.Context, account string) context.Context {
	return context.WithValue(ctx, accountContextKey{}, account)
}

// AccountFromContext returns the session account stored in the context.
func AccountFromContext(ctx context.Context) (string, bool) {
	account, ok := ctx.Value(accountContextKey{}).(string)
	return account, ok
}

package handlers

import (
	"context"

	"github.com/akinalp/gamevault/models"
)

// contextKey is a private type so context values set here cannot collide with
// string keys from other packages.
type contextKey string

// UserContextKey carries the authenticated *models.Account. Set by the auth middleware.
const UserContextKey contextKey = "user"

// WithAccount returns a copy of ctx carrying account.
func WithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, UserContextKey, account)
}

// AccountFromContext returns the account set by the auth middleware.
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(UserContextKey).(*models.Account)
	return account, ok && account != nil
}

// TierMiddleware is the minimum privilege tier check.
//
// Runs after AuthMiddleware, so the account is already in the context.
//
//	authMw.Require(tierMw.Require(http.HandlerFunc(adminHandler.ListUsers)))

package middleware

import (
	"net/http"

	"github.com/akinalp/gamevault/handlers"
	"github.com/akinalp/gamevault/models"
	"github.com/akinalp/gamevault/pkg"
	"github.com/akinalp/gamevault/services"
)

// TierMiddleware requires a minimum account tier.
type TierMiddleware struct {
	minTier models.Tier
}

// NewTierMiddleware, constructor.
func NewTierMiddleware(minTier models.Tier) *TierMiddleware {
	return &TierMiddleware{minTier: minTier}
}

// Require responds 403 when the account's tier is below the minimum.
func (m *TierMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := handlers.AccountFromContext(r.Context())
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		if err := services.RequireTier(account, m.minTier); err != nil {
			pkg.Error(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

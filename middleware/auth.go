// Package middleware holds the func(next http.Handler) http.Handler layers
// wrapped around handlers: authentication, tier checks and access logging.
//
// A middleware either calls next or writes the response itself and stops the
// chain.
package middleware

import (
	"net/http"

	"github.com/akinalp/gamevault/handlers"
	"github.com/akinalp/gamevault/pkg"
	"github.com/akinalp/gamevault/services"
)

// AuthMiddleware admits requests carrying a valid session token.
type AuthMiddleware struct {
	authService services.AuthService
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Require rejects the request with 401 unless the Authorization header is
// exactly "Bearer <token>" and the token names a live session. The account is
// put in the request context under handlers.UserContextKey.
//
// Missing, malformed, unknown and expired tokens all get the same response.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := services.ParseBearer(r.Header.Get("Authorization"))
		if err != nil {
			pkg.Error(w, err)
			return
		}

		account, err := m.authService.ValidateToken(r.Context(), token)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(handlers.WithAccount(r.Context(), account)))
	})
}

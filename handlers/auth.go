// Package handlers turns HTTP requests into service calls.
//
// Handlers stay thin: decode the request, call the service, write the
// response with pkg.JSON or pkg.Error. No business logic, no storage access.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/akinalp/gamevault/models"
	"github.com/akinalp/gamevault/pkg"
	"github.com/akinalp/gamevault/pkg/ratelimit"
	"github.com/akinalp/gamevault/services"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	authService  services.AuthService
	loginLimiter *ratelimit.LoginRateLimiter
	ips          *ratelimit.IPResolver
}

// NewAuthHandler, constructor. A nil loginLimiter disables rate limiting; a
// nil ips keys the limiter on the peer address only.
func NewAuthHandler(authService services.AuthService, loginLimiter *ratelimit.LoginRateLimiter, ips *ratelimit.IPResolver) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimiter: loginLimiter,
		ips:          ips,
	}
}

// Register godoc
// POST /api/auth/register
// Body: { "email": "...", "password": "..." }
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, account)
}

// Login godoc
// POST /api/auth/login
//
// Attempts are limited per client IP. Forwarding headers count only from a
// trusted proxy. A successful login resets the counter.
// The User-Agent header becomes the session's platform label.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := h.ips.ClientIP(r)
	if h.loginLimiter != nil && !h.loginLimiter.Allow(ip) {
		retryAfter := h.loginLimiter.RetryAfterSeconds(ip)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("too many login attempts, please try again in %s",
				ratelimit.FormatRetryMessage(retryAfter)))
		return
	}

	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.authService.Login(r.Context(), &req, r.UserAgent())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if h.loginLimiter != nil {
		h.loginLimiter.Reset(ip)
	}

	pkg.JSON(w, http.StatusOK, models.LoginResponse{
		Token:     session.ID,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout godoc
// POST /api/auth/logout
// Header: Authorization: Bearer <token>
//
// 204 when the session was removed, 404 when there was nothing to remove.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	removed, err := h.authService.Logout(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if !removed {
		pkg.ErrorWithMessage(w, http.StatusNotFound, "session not found")
		return
	}

	pkg.NoContent(w)
}

// Me godoc
// GET /api/users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := AccountFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	pkg.JSON(w, http.StatusOK, account)
}

// decodeJSON reads the body into dst, writing a 400 on failure.
// Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

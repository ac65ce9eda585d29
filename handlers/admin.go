// AdminHandler serves account administration endpoints.
//
// Routes are wrapped by the tier middleware, so only admin-tier accounts reach
// these handlers.

package handlers

import (
	"net/http"

	"github.com/akinalp/gamevault/pkg"
	"github.com/akinalp/gamevault/services"
)

// AdminHandler serves account administration.
type AdminHandler struct {
	authService services.AuthService
}

// NewAdminHandler, constructor.
func NewAdminHandler(authService services.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// ListUsers — GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.authService.ListAccounts(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, accounts)
}

// DeleteUser — DELETE /api/admin/users/{id}
// Deletes any account with its sessions. 404 when the account does not exist.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "user id is required")
		return
	}

	deleted, err := h.authService.DeleteAccount(r.Context(), id)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	if !deleted {
		pkg.Error(w, pkg.ErrNotFound)
		return
	}

	pkg.NoContent(w)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/akinalp/gamevault/models"
	"github.com/akinalp/gamevault/pkg"
	"github.com/akinalp/gamevault/services"
)

// UserHandler serves the authenticated user's own account and account lookups.
type UserHandler struct {
	authService services.AuthService
}

// NewUserHandler, constructor.
func NewUserHandler(authService services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// UpdateMe godoc
// PATCH /api/users/me
// Body: { "email"?: "...", "password"?: "..." }
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	account, ok := AccountFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.UpdateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.authService.UpdateProfile(r.Context(), account.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, updated)
}

// DeleteMe godoc
// DELETE /api/users/me
// Revokes every session of the account, then deletes it.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	account, ok := AccountFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	if _, err := h.authService.DeleteAccount(r.Context(), account.ID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.NoContent(w)
}

// AddToList godoc
// PUT /api/users/me/{list}/{value}
func (h *UserHandler) AddToList(w http.ResponseWriter, r *http.Request) {
	h.mutateList(w, r, h.authService.AddToList)
}

// RemoveFromList godoc
// DELETE /api/users/me/{list}/{value}
func (h *UserHandler) RemoveFromList(w http.ResponseWriter, r *http.Request) {
	h.mutateList(w, r, h.authService.RemoveFromList)
}

type listMutation func(ctx context.Context, id string, list models.ListName, value string) (*models.Account, error)

func (h *UserHandler) mutateList(w http.ResponseWriter, r *http.Request, mutate listMutation) {
	account, ok := AccountFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	list := models.ListName(r.PathValue("list"))
	value := r.PathValue("value")

	updated, err := mutate(r.Context(), account.ID, list, value)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, updated)
}

// GetByID godoc
// GET /api/users/{id}
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "user id is required")
		return
	}

	account, err := h.authService.GetAccount(r.Context(), id)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, account)
}

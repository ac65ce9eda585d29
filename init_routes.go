// HTTP route registration.
//
// Chain helpers:
//   - auth: bearer session check
//   - authAdmin: auth + admin tier

package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akinalp/gamevault/middleware"
	"github.com/akinalp/gamevault/models"
	"github.com/akinalp/gamevault/services"
)

// initRoutes builds the middleware chains and registers every endpoint.
// Literal paths ("/api/users/me") are registered next to their parametric
// siblings ("/api/users/{id}"); ServeMux picks the more specific pattern.
func initRoutes(mux *http.ServeMux, h *Handlers, authService services.AuthService) {
	authMw := middleware.NewAuthMiddleware(authService)
	adminMw := middleware.NewTierMiddleware(models.TierAdmin)

	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(http.HandlerFunc(handler))
	}
	authAdmin := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(adminMw.Require(http.HandlerFunc(handler)))
	}

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"gamevault"}`)
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/stats", h.Stats.GetPublicStats)

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)

	// Current account
	mux.Handle("GET /api/users/me", auth(h.Auth.Me))
	mux.Handle("PATCH /api/users/me", auth(h.User.UpdateMe))
	mux.Handle("DELETE /api/users/me", auth(h.User.DeleteMe))
	mux.Handle("PUT /api/users/me/{list}/{value}", auth(h.User.AddToList))
	mux.Handle("DELETE /api/users/me/{list}/{value}", auth(h.User.RemoveFromList))
	mux.Handle("GET /api/users/{id}", auth(h.User.GetByID))

	// Admin
	mux.Handle("GET /api/admin/users", authAdmin(h.Admin.ListUsers))
	mux.Handle("DELETE /api/admin/users/{id}", authAdmin(h.Admin.DeleteUser))

	// Catalog
	mux.HandleFunc("GET /api/catalog/most-played", h.Catalog.MostPlayed)
	mux.HandleFunc("GET /api/catalog/games/{appId}", h.Catalog.GameDetails)
	mux.HandleFunc("GET /api/catalog/games/{appId}/reviews", h.Catalog.GameReviews)
}

// Handler layer setup.

package main

import (
	"github.com/akinalp/gamevault/handlers"
	"github.com/akinalp/gamevault/pkg/ratelimit"
)

// Handlers groups every handler instance.
type Handlers struct {
	Auth    *handlers.AuthHandler
	User    *handlers.UserHandler
	Admin   *handlers.AdminHandler
	Catalog *handlers.CatalogHandler
	Stats   *handlers.StatsHandler
}

func initHandlers(svcs *Services, repos *Repositories, loginLimiter *ratelimit.LoginRateLimiter, ips *ratelimit.IPResolver) *Handlers {
	return &Handlers{
		Auth:    handlers.NewAuthHandler(svcs.Auth, loginLimiter, ips),
		User:    handlers.NewUserHandler(svcs.Auth),
		Admin:   handlers.NewAdminHandler(svcs.Auth),
		Catalog: handlers.NewCatalogHandler(svcs.Catalog),
		Stats:   handlers.NewStatsHandler(repos.Account),
	}
}

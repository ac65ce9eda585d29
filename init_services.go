// Service layer setup.
//
// Order matters: the session service comes first because the account
// service deletes an account's sessions before the account itself.

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/akinalp/gamevault/config"
	"github.com/akinalp/gamevault/pkg/cache"
	"github.com/akinalp/gamevault/pkg/hasher"
	"github.com/akinalp/gamevault/pkg/ratelimit"
	"github.com/akinalp/gamevault/pkg/steam"
	"github.com/akinalp/gamevault/services"
)

// Services groups every service instance.
type Services struct {
	Session services.SessionService
	Account services.AccountService
	Auth    services.AuthService
	Catalog services.CatalogService
}

// Background holds the long-lived helpers that must be stopped on shutdown.
type Background struct {
	Sweeper      services.SessionSweeper // nil when the sweep is disabled
	CatalogCache *cache.TTLCache[string, json.RawMessage]
	LoginLimiter *ratelimit.LoginRateLimiter
}

// Stop releases every background goroutine.
func (b *Background) Stop() {
	if b.Sweeper != nil {
		b.Sweeper.Stop()
	}
	b.CatalogCache.Close()
	b.LoginLimiter.Close()
}

func initServices(repos *Repositories, cfg *config.Config) (*Services, *Background, error) {
	h, err := hasher.New(cfg.Auth.Hasher)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build password hasher: %w", err)
	}

	sessionService := services.NewSessionService(repos.Session, repos.Account, nil)
	accountService := services.NewAccountService(repos.Account, sessionService, h, nil)
	authService := services.NewAuthService(accountService, sessionService, cfg.Auth.AdminEmails)

	fetcher := steam.NewClient(steam.Config{
		APIURL:   cfg.Catalog.APIURL,
		StoreURL: cfg.Catalog.StoreURL,
		Timeout:  cfg.Catalog.Timeout,
	})
	catalogCache := cache.New[string, json.RawMessage](time.Minute, nil)
	catalogService := services.NewCatalogService(fetcher, catalogCache, services.CatalogConfig{
		DefaultLocale: cfg.Catalog.DefaultLocale,
		TTL:           cfg.Catalog.CacheTTL,
	})

	bg := &Background{
		CatalogCache: catalogCache,
		LoginLimiter: ratelimit.NewLoginRateLimiter(cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow, nil),
	}
	if cfg.Session.SweepInterval > 0 {
		bg.Sweeper = services.NewSessionSweeper(sessionService, cfg.Session.SweepInterval, nil)
		bg.Sweeper.Start()
	}

	return &Services{
		Session: sessionService,
		Account: accountService,
		Auth:    authService,
		Catalog: catalogService,
	}, bg, nil
}

// Repository layer setup.

package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/akinalp/gamevault/config"
	"github.com/akinalp/gamevault/database"
	"github.com/akinalp/gamevault/repository"
)

// Repositories groups every repository instance.
type Repositories struct {
	Account repository.AccountRepository
	Session repository.SessionRepository
}

// initRepositories builds the repositories. Accounts always live in SQLite;
// sessions go to Redis when SESSION_STORE=redis, in which case the returned
// client must be closed on shutdown.
func initRepositories(ctx context.Context, db *database.DB, cfg *config.Config) (*Repositories, redis.UniversalClient, error) {
	repos := &Repositories{
		Account: repository.NewSQLiteAccountRepo(db.Conn),
	}

	if cfg.Session.Store != config.SessionStoreRedis {
		repos.Session = repository.NewSQLiteSessionRepo(db.Conn)
		return repos, nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
	}

	repos.Session = repository.NewRedisSessionRepo(client, cfg.Redis.KeyPrefix, nil)
	return repos, client, nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/akinalp/gamevault/models"
	"github.com/akinalp/gamevault/pkg"
)

// expiredRetention keeps a record in Redis for a while after ExpiresAt so
// lookups still see it as expired rather than missing; the sweeper or the
// Redis TTL removes it afterwards.
const expiredRetention = time.Hour

// redisSessionRepo stores each session as JSON under "<prefix>session:<id>"
// and keeps a set "<prefix>account_sessions:<accountID>" per account.
type redisSessionRepo struct {
	client redis.UniversalClient
	prefix string
	clock  clock.Clock
}

// NewRedisSessionRepo returns a SessionRepository backed by Redis. A nil clock
// uses the wall clock.
func NewRedisSessionRepo(client redis.UniversalClient, prefix string, clk clock.Clock) SessionRepository {
	if clk == nil {
		clk = clock.New()
	}
	return &redisSessionRepo{client: client, prefix: prefix, clock: clk}
}

func (r *redisSessionRepo) sessionKey(id string) string {
	return r.prefix + "session:" + id
}

func (r *redisSessionRepo) accountKey(accountID string) string {
	return r.prefix + "account_sessions:" + accountID
}

func (r *redisSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if session.AccountID == "" {
		return fmt.Errorf("%w: session has no account", pkg.ErrValidation)
	}

	ttl := session.ExpiresAt.Sub(r.clock.Now()) + expiredRetention
	if ttl <= 0 {
		return fmt.Errorf("%w: session already expired", pkg.ErrValidation)
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(session.ID), data, ttl)
		pipe.SAdd(ctx, r.accountKey(session.AccountID), session.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *redisSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	val, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (r *redisSessionRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	session, err := r.GetByID(ctx, id)
	if errors.Is(err, pkg.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var del *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.sessionKey(id))
		pipe.SRem(ctx, r.accountKey(session.AccountID), id)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return del.Val() == 1, nil
}

func (r *redisSessionRepo) DeleteByAccountID(ctx context.Context, accountID string) (int64, error) {
	ids, err := r.client.SMembers(ctx, r.accountKey(accountID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list account sessions: %w", err)
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, r.sessionKey(id))
	}

	var del *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(keys) > 0 {
			del = pipe.Del(ctx, keys...)
		}
		pipe.Del(ctx, r.accountKey(accountID))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete account sessions: %w", err)
	}
	if del == nil {
		return 0, nil
	}
	return del.Val(), nil
}

func (r *redisSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var purged int64

	iter := r.client.Scan(ctx, 0, r.sessionKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		val, err := r.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // removed by TTL meanwhile
		}
		if err != nil {
			return purged, fmt.Errorf("failed to read session: %w", err)
		}

		var session models.Session
		if err := json.Unmarshal(val, &session); err != nil {
			return purged, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		if session.ValidAt(now) {
			continue
		}

		deleted, err := r.DeleteByID(ctx, session.ID)
		if err != nil {
			return purged, err
		}
		if deleted {
			purged++
		}
	}
	if err := iter.Err(); err != nil {
		return purged, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return purged, nil
}

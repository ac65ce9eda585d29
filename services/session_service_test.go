package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/akinalp/gamevault/pkg"
)

func TestSessionService_Create(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t)
	account := s.register(t, "a@b.co", "pw1")

	session, err := s.sessions.Create(ctx, account.ID, "")
	require.NoError(t, err)
	assert.Equal(t, UnknownPlatform, session.Platform)
	assert.Equal(t, s.clock.Now().Add(SessionLifetime).UTC(), session.ExpiresAt)

	found, err := s.sessions.FindValid(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.AccountID)

	resolved, err := s.sessions.ResolveAccount(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, resolved.ID)

	_, err = s.sessions.Create(ctx, "ghost", "curl")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestSessionService_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t)
	account := s.register(t, "a@b.co", "pw1")

	old, err := s.sessions.Create(ctx, account.ID, "old")
	require.NoError(t, err)
	s.clock.Add(24 * time.Hour)
	fresh, err := s.sessions.Create(ctx, account.ID, "fresh")
	require.NoError(t, err)

	s.clock.Add(SessionLifetime - 24*time.Hour)
	n, err := s.sessions.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	deleted, err := s.sessions.DeleteByToken(ctx, old.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "already purged")

	_, err = s.sessions.FindValid(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestSessionService_DeleteByToken_UnlinksAccount(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t)
	account := s.register(t, "a@b.co", "pw1")
	token := s.login(t, "a@b.co", "pw1")

	deleted, err := s.sessions.DeleteByToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := s.accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Sessions)
}

type countingSessions struct {
	SessionService
	purges atomic.Int32
}

func (c *countingSessions) PurgeExpired(context.Context) (int64, error) {
	c.purges.Add(1)
	return 0, nil
}

func TestSessionSweeper(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sessions := &countingSessions{}
	sweeper := NewSessionSweeper(sessions, time.Hour, nil)
	sweeper.Start()
	sweeper.Start()

	assert.Eventually(t, func() bool { return sessions.purges.Load() == 1 }, time.Second, 5*time.Millisecond,
		"first sweep runs at start")

	sweeper.Stop()
	sweeper.Stop()
}

func TestSessionSweeper_StopWithoutStart(t *testing.T) {
	sweeper := NewSessionSweeper(&countingSessions{}, time.Hour, nil)
	done := make(chan struct{})
	go func() {
		sweeper.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked")
	}
}

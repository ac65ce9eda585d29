package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/gamevault/models"
	"github.com/akinalp/gamevault/pkg"
)

// sessionRepoContract runs the behavior every SessionRepository must share.
// now is the reference time the repository's clock reports.
func sessionRepoContract(t *testing.T, repo SessionRepository, accountID string, now time.Time) {
	ctx := context.Background()

	live := &models.Session{AccountID: accountID, Platform: "curl/8.0", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	soon := &models.Session{AccountID: accountID, Platform: "Unknown", ExpiresAt: now.Add(time.Minute), CreatedAt: now}
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, soon))
	assert.NotEqual(t, live.ID, soon.ID)

	got, err := repo.GetByID(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, accountID, got.AccountID)
	assert.Equal(t, "curl/8.0", got.Platform)
	assert.True(t, live.ExpiresAt.Equal(got.ExpiresAt))

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	purged, err := repo.DeleteExpired(ctx, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged, "expiry equal to now counts as expired")

	_, err = repo.GetByID(ctx, soon.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	deleted, err := repo.DeleteByID(ctx, live.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteByID(ctx, live.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Session{AccountID: accountID, Platform: "p", ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	}
	n, err := repo.DeleteByAccountID(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.DeleteByAccountID(ctx, accountID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteSessionRepo(t *testing.T) {
	db := newTestDB(t)
	account := newAccount("a@b.co")
	require.NoError(t, NewSQLiteAccountRepo(db.Conn).Create(context.Background(), account))

	repo := NewSQLiteSessionRepo(db.Conn)
	sessionRepoContract(t, repo, account.ID, time.UnixMilli(1_700_000_000_000).UTC())

	t.Run("unknown account", func(t *testing.T) {
		err := repo.Create(context.Background(), &models.Session{AccountID: "ghost", ExpiresAt: time.Now().Add(time.Hour)})
		assert.ErrorIs(t, err, pkg.ErrNotFound)
	})
}

package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/gamevault/database"
	"github.com/akinalp/gamevault/models"
	"github.com/akinalp/gamevault/pkg"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), database.Migrations())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAccount(email string) *models.Account {
	now := time.UnixMilli(1_700_000_000_000).UTC()
	return &models.Account{
		Email:        email,
		PasswordHash: "digest",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestSQLiteAccountRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteAccountRepo(newTestDB(t).Conn)

	account := newAccount("a@b.co")
	require.NoError(t, repo.Create(ctx, account))
	assert.NotEmpty(t, account.ID)

	got, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", got.Email)
	assert.Equal(t, "digest", got.PasswordHash)
	assert.Equal(t, models.TierMember, got.Tier)
	assert.Equal(t, account.CreatedAt, got.CreatedAt)
	assert.Equal(t, []string{}, got.Likes)
	assert.Equal(t, []string{}, got.Wishlist)
	assert.Equal(t, []string{}, got.Sessions)

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, newAccount("a@b.co"))
		assert.ErrorIs(t, err, pkg.ErrDuplicateContact)
	})

	t.Run("missing digest", func(t *testing.T) {
		a := newAccount("c@d.co")
		a.PasswordHash = ""
		assert.ErrorIs(t, repo.Create(ctx, a), pkg.ErrValidation)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, pkg.ErrNotFound)
	})

	t.Run("by email", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "a@b.co")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, account.ID, found[0].ID)

		found, err = repo.GetByEmail(ctx, "x@y.co")
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestSQLiteAccountRepo_Lists(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteAccountRepo(newTestDB(t).Conn)

	account := newAccount("a@b.co")
	require.NoError(t, repo.Create(ctx, account))

	require.NoError(t, repo.AddListItem(ctx, account.ID, models.ListLikes, "570"))
	require.NoError(t, repo.AddListItem(ctx, account.ID, models.ListLikes, "730"))
	require.NoError(t, repo.AddListItem(ctx, account.ID, models.ListLikes, "570"))
	require.NoError(t, repo.AddListItem(ctx, account.ID, models.ListWishlist, "570"))

	got, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"570", "730"}, got.Likes)
	assert.Equal(t, []string{"570"}, got.Wishlist)

	require.NoError(t, repo.RemoveListItem(ctx, account.ID, models.ListLikes, "570"))
	require.NoError(t, repo.RemoveListItem(ctx, account.ID, models.ListLikes, "absent"))
	require.NoError(t, repo.AddListItem(ctx, account.ID, models.ListLikes, "570"))

	got, err = repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"730", "570"}, got.Likes, "re-added values go to the end")

	err = repo.AddListItem(ctx, "missing", models.ListLikes, "1")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestSQLiteAccountRepo_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSQLiteAccountRepo(db.Conn)
	sessions := NewSQLiteSessionRepo(db.Conn)

	first := newAccount("a@b.co")
	second := newAccount("c@d.co")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	first.Email = "new@b.co"
	first.Tier = models.TierAdmin
	first.UpdatedAt = first.UpdatedAt.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, first))

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@b.co", got.Email)
	assert.Equal(t, models.TierAdmin, got.Tier)
	assert.Equal(t, first.UpdatedAt, got.UpdatedAt)

	second.Email = "new@b.co"
	assert.ErrorIs(t, repo.Update(ctx, second), pkg.ErrDuplicateContact)
	assert.ErrorIs(t, repo.Update(ctx, &models.Account{ID: "ghost", Email: "g@h.co", PasswordHash: "x"}), pkg.ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	s := &models.Session{AccountID: first.ID, Platform: "test", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, sessions.Create(ctx, s))
	require.NoError(t, repo.AddSession(ctx, first.ID, s.ID))
	require.NoError(t, repo.AddListItem(ctx, first.ID, models.ListWishlist, "10"))

	got, err = repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{s.ID}, got.Sessions)

	deleted, err := repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	_, err = sessions.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound, "sessions cascade with the account")

	deleted, err = repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

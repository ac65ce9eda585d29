package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	script := `
-- comment; with a semicolon
CREATE TABLE a (x TEXT DEFAULT 'a;b');
INSERT INTO a VALUES ('it''s');
SELECT 1`

	assert.Equal(t, []string{
		"CREATE TABLE a (x TEXT DEFAULT 'a;b')",
		"INSERT INTO a VALUES ('it''s')",
		"SELECT 1",
	}, splitStatements(script))
}

func TestNew_AppliesEmbeddedMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "gamevault.db")

	db, err := New(path, Migrations())
	require.NoError(t, err)

	var n int
	require.NoError(t, db.Conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)
	require.NoError(t, db.Close())

	// reopening must not re-run 001_init.sql
	db, err = New(path, Migrations())
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestNew_BrokenMigration(t *testing.T) {
	migrations := fstest.MapFS{
		"001_bad.sql": {Data: []byte("CREATE TABLE ;")},
	}

	_, err := New(filepath.Join(t.TempDir(), "bad.db"), migrations)
	assert.ErrorContains(t, err, "001_bad.sql")
}

func TestWithTx(t *testing.T) {
	migrations := fstest.MapFS{
		"001_t.sql": {Data: []byte("CREATE TABLE t (v TEXT)")},
	}
	db, err := New(filepath.Join(t.TempDir(), "tx.db"), migrations)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	count := func() int {
		var n int
		require.NoError(t, db.Conn.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
		return n
	}

	err = WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO t VALUES ('a')`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count())

	boom := errors.New("boom")
	err = WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO t VALUES ('b')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, count(), "rolled back")

	assert.Panics(t, func() {
		_ = WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
			_, _ = tx.ExecContext(ctx, `INSERT INTO t VALUES ('c')`)
			panic("kaboom")
		})
	})
	assert.Equal(t, 1, count(), "rolled back on panic")
}

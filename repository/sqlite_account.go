package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/akinalp/gamevault/database"
	"github.com/akinalp/gamevault/models"
	"github.com/akinalp/gamevault/pkg"
)

const accountColumns = `id, email, password_hash, tier, created_at, updated_at`

// sqliteAccountRepo is the SQLite implementation of AccountRepository.
// Lists and session links live in child tables and are loaded on every read.
type sqliteAccountRepo struct {
	db *sql.DB
}

// NewSQLiteAccountRepo returns an AccountRepository backed by db.
func NewSQLiteAccountRepo(db *sql.DB) AccountRepository {
	return &sqliteAccountRepo{db: db}
}

func (r *sqliteAccountRepo) Create(ctx context.Context, account *models.Account) error {
	if account.Email == "" || account.PasswordHash == "" {
		return fmt.Errorf("%w: email and password hash are required", pkg.ErrValidation)
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Tier,
		toMillis(account.CreatedAt),
		toMillis(account.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already in use", pkg.ErrDuplicateContact)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	if account.Likes == nil {
		account.Likes = []string{}
	}
	if account.Wishlist == nil {
		account.Wishlist = []string{}
	}
	if account.Sessions == nil {
		account.Sessions = []string{}
	}
	return nil
}

func (r *sqliteAccountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)

	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}

	if err := r.hydrate(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *sqliteAccountRepo) GetByEmail(ctx context.Context, email string) ([]models.Account, error) {
	return r.query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
}

func (r *sqliteAccountRepo) List(ctx context.Context) ([]models.Account, error) {
	return r.query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at, id`)
}

func (r *sqliteAccountRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

func (r *sqliteAccountRepo) query(ctx context.Context, query string, args ...any) ([]models.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	// Close before hydrating so a single-connection pool is not held.
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("failed to close account rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	for i := range accounts {
		if err := r.hydrate(ctx, &accounts[i]); err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

func (r *sqliteAccountRepo) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET email = ?, password_hash = ?, tier = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		account.Email,
		account.PasswordHash,
		account.Tier,
		toMillis(account.UpdatedAt),
		account.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already in use", pkg.ErrDuplicateContact)
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}
	return nil
}

func (r *sqliteAccountRepo) AddListItem(ctx context.Context, accountID string, list models.ListName, value string) error {
	// The aggregate always yields one row, so the next position is computed
	// and the insert is skipped by the primary key when value is present.
	query := `
		INSERT OR IGNORE INTO account_list_items (account_id, list, value, position)
		SELECT ?, ?, ?, COALESCE(MAX(position), 0) + 1
		FROM account_list_items WHERE account_id = ? AND list = ?`

	_, err := r.db.ExecContext(ctx, query, accountID, string(list), value, accountID, string(list))
	if err != nil {
		if isForeignKeyViolation(err) {
			return pkg.ErrNotFound
		}
		return fmt.Errorf("failed to add %s item: %w", list, err)
	}
	return nil
}

func (r *sqliteAccountRepo) RemoveListItem(ctx context.Context, accountID string, list models.ListName, value string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM account_list_items WHERE account_id = ? AND list = ? AND value = ?`,
		accountID, string(list), value,
	)
	if err != nil {
		return fmt.Errorf("failed to remove %s item: %w", list, err)
	}
	return nil
}

func (r *sqliteAccountRepo) AddSession(ctx context.Context, accountID, sessionID string) error {
	query := `
		INSERT OR IGNORE INTO account_sessions (account_id, session_id, position)
		SELECT ?, ?, COALESCE(MAX(position), 0) + 1
		FROM account_sessions WHERE account_id = ?`

	_, err := r.db.ExecContext(ctx, query, accountID, sessionID, accountID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return pkg.ErrNotFound
		}
		return fmt.Errorf("failed to link session: %w", err)
	}
	return nil
}

func (r *sqliteAccountRepo) RemoveSession(ctx context.Context, accountID, sessionID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM account_sessions WHERE account_id = ? AND session_id = ?`,
		accountID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to unlink session: %w", err)
	}
	return nil
}

func (r *sqliteAccountRepo) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool

	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM account_list_items WHERE account_id = ?`,
			`DELETE FROM account_sessions WHERE account_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return err
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		deleted = affected == 1
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete account: %w", err)
	}
	return deleted, nil
}

func (r *sqliteAccountRepo) hydrate(ctx context.Context, account *models.Account) error {
	account.Likes = []string{}
	account.Wishlist = []string{}
	account.Sessions = []string{}

	rows, err := r.db.QueryContext(ctx,
		`SELECT list, value FROM account_list_items WHERE account_id = ? ORDER BY position`,
		account.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load account lists: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var list, value string
		if err := rows.Scan(&list, &value); err != nil {
			return fmt.Errorf("failed to scan list item: %w", err)
		}
		switch models.ListName(list) {
		case models.ListLikes:
			account.Likes = append(account.Likes, value)
		case models.ListWishlist:
			account.Wishlist = append(account.Wishlist, value)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate list items: %w", err)
	}
	rows.Close()

	sessionRows, err := r.db.QueryContext(ctx,
		`SELECT session_id FROM account_sessions WHERE account_id = ? ORDER BY position`,
		account.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load session links: %w", err)
	}
	defer sessionRows.Close()

	for sessionRows.Next() {
		var sessionID string
		if err := sessionRows.Scan(&sessionID); err != nil {
			return fmt.Errorf("failed to scan session link: %w", err)
		}
		account.Sessions = append(account.Sessions, sessionID)
	}
	return sessionRows.Err()
}

func scanAccount(row rowScanner) (*models.Account, error) {
	account := &models.Account{}
	var createdAt, updatedAt int64

	if err := row.Scan(
		&account.ID, &account.Email, &account.PasswordHash,
		&account.Tier, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	account.CreatedAt = fromMillis(createdAt)
	account.UpdatedAt = fromMillis(updatedAt)
	return account, nil
}

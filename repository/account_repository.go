// Package repository is the persistence layer.
//
// Each concern has an interface file (used by services) and one or more
// implementations (sqlite_*.go, redis_*.go). Lookups that find nothing return
// pkg.ErrNotFound.
package repository

import (
	"context"

	"github.com/akinalp/gamevault/models"
)

// AccountRepository stores accounts, their lists and their session back-references.
type AccountRepository interface {
	// Create assigns an ID when empty. Returns pkg.ErrDuplicateContact when the
	// email is taken and pkg.ErrValidation when email or digest is missing.
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	// GetByEmail returns every account with this email (zero or more).
	GetByEmail(ctx context.Context, email string) ([]models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	Count(ctx context.Context) (int, error)
	// Update writes email, password hash, tier and updated_at.
	Update(ctx context.Context, account *models.Account) error
	// AddListItem appends value unless already present.
	AddListItem(ctx context.Context, accountID string, list models.ListName, value string) error
	// RemoveListItem is a no-op when value is absent.
	RemoveListItem(ctx context.Context, accountID string, list models.ListName, value string) error
	AddSession(ctx context.Context, accountID, sessionID string) error
	RemoveSession(ctx context.Context, accountID, sessionID string) error
	// Delete removes the account with its lists and links, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}

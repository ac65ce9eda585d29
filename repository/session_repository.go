package repository

import (
	"context"
	"time"

	"github.com/akinalp/gamevault/models"
)

// SessionRepository stores session records. It does not judge expiry except in
// DeleteExpired; GetByID returns expired records too.
type SessionRepository interface {
	// Create assigns an ID when empty.
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	// DeleteByID reports whether a record was removed.
	DeleteByID(ctx context.Context, id string) (bool, error)
	DeleteByAccountID(ctx context.Context, accountID string) (int64, error)
	// DeleteExpired removes every session with ExpiresAt <= now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

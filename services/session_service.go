package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/akinalp/gamevault/models"
	"github.com/akinalp/gamevault/pkg"
	"github.com/akinalp/gamevault/pkg/logger"
	"github.com/akinalp/gamevault/pkg/metrics"
	"github.com/akinalp/gamevault/repository"
)

const (
	// SessionLifetime is how long a login stays valid.
	SessionLifetime = 7 * 24 * time.Hour
	// UnknownPlatform labels sessions created without a platform string.
	UnknownPlatform = "Unknown"
)

// SessionService issues, resolves and revokes bearer sessions.
//
// Lookups that find nothing, or find an expired session, return pkg.ErrNotFound;
// callers decide whether that is an authentication failure.
type SessionService interface {
	Create(ctx context.Context, accountID, platform string) (*models.Session, error)
	FindValid(ctx context.Context, token string) (*models.Session, error)
	ResolveAccount(ctx context.Context, token string) (*models.Account, error)
	// DeleteByToken removes the session whether or not it has expired.
	DeleteByToken(ctx context.Context, token string) (bool, error)
	DeleteAllForAccount(ctx context.Context, accountID string) (int64, error)
	// PurgeExpired removes every session expired at the current time.
	PurgeExpired(ctx context.Context) (int64, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	accountRepo repository.AccountRepository
	clock       clock.Clock
}

var sessionLog = logger.For("session")

// NewSessionService, constructor. A nil clock uses the wall clock.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	accountRepo repository.AccountRepository,
	clk clock.Clock,
) SessionService {
	if clk == nil {
		clk = clock.New()
	}
	return &sessionService{
		sessionRepo: sessionRepo,
		accountRepo: accountRepo,
		clock:       clk,
	}
}

// Create persists a new session and then links it to the account. The two
// writes are sequential; when linking fails the session is removed again.
func (s *sessionService) Create(ctx context.Context, accountID, platform string) (*models.Session, error) {
	if platform == "" {
		platform = UnknownPlatform
	}

	now := s.clock.Now().UTC()
	session := &models.Session{
		AccountID: accountID,
		Platform:  platform,
		ExpiresAt: now.Add(SessionLifetime),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	if err := s.accountRepo.AddSession(ctx, accountID, session.ID); err != nil {
		if _, delErr := s.sessionRepo.DeleteByID(ctx, session.ID); delErr != nil {
			sessionLog.WithError(delErr).WithField("session_id", session.ID).Warn("failed to roll back unlinked session")
		}
		return nil, fmt.Errorf("failed to link session: %w", err)
	}

	metrics.SessionsIssued.Inc()
	return session, nil
}

func (s *sessionService) FindValid(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, pkg.ErrNotFound
	}

	session, err := s.sessionRepo.GetByID(ctx, token)
	if err != nil {
		return nil, err
	}

	if !session.ValidAt(s.clock.Now()) {
		return nil, pkg.ErrNotFound
	}
	return session, nil
}

func (s *sessionService) ResolveAccount(ctx context.Context, token string) (*models.Account, error) {
	session, err := s.FindValid(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.accountRepo.GetByID(ctx, session.AccountID)
}

func (s *sessionService) DeleteByToken(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	session, err := s.sessionRepo.GetByID(ctx, token)
	if errors.Is(err, pkg.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	deleted, err := s.sessionRepo.DeleteByID(ctx, token)
	if err != nil || !deleted {
		return false, err
	}

	if err := s.accountRepo.RemoveSession(ctx, session.AccountID, token); err != nil {
		sessionLog.WithError(err).WithField("account_id", session.AccountID).Warn("failed to unlink session")
	}
	return true, nil
}

func (s *sessionService) DeleteAllForAccount(ctx context.Context, accountID string) (int64, error) {
	n, err := s.sessionRepo.DeleteByAccountID(ctx, accountID)
	if err != nil {
		return 0, err
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if errors.Is(err, pkg.ErrNotFound) {
		return n, nil
	}
	if err != nil {
		return n, err
	}
	for _, id := range account.Sessions {
		if err := s.accountRepo.RemoveSession(ctx, accountID, id); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (s *sessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.sessionRepo.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	metrics.SessionsPurged.Add(float64(n))
	return n, nil
}

// Package services holds the business logic.
//
// Services sit between handlers and repositories. They never see
// http.Request/Response and never run SQL; they take and return domain models
// and report failures with the sentinel errors from pkg.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"

	"github.com/akinalp/gamevault/models"
	"github.com/akinalp/gamevault/pkg"
	"github.com/akinalp/gamevault/pkg/hasher"
	"github.com/akinalp/gamevault/pkg/logger"
	"github.com/akinalp/gamevault/pkg/validate"
	"github.com/akinalp/gamevault/repository"
)

// AccountService is the account directory.
type AccountService interface {
	// Create hashes password and stores a new account.
	Create(ctx context.Context, email, password string, tier models.Tier) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) ([]models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	// Update applies the recognized fields of req. A malformed email is ignored.
	Update(ctx context.Context, id string, req *models.UpdateAccountRequest) (*models.Account, error)
	AddToList(ctx context.Context, id string, list models.ListName, value string) (*models.Account, error)
	RemoveFromList(ctx context.Context, id string, list models.ListName, value string) (*models.Account, error)
	// Delete removes the account's sessions first, then the account.
	Delete(ctx context.Context, id string) (bool, error)
	VerifyPassword(account *models.Account, password string) bool
}

type accountService struct {
	accountRepo repository.AccountRepository
	sessions    SessionService
	hasher      hasher.Hasher
	clock       clock.Clock
}

var accountLog = logger.For("account")

// NewAccountService, constructor. A nil clock uses the wall clock.
func NewAccountService(
	accountRepo repository.AccountRepository,
	sessions SessionService,
	h hasher.Hasher,
	clk clock.Clock,
) AccountService {
	if clk == nil {
		clk = clock.New()
	}
	return &accountService{
		accountRepo: accountRepo,
		sessions:    sessions,
		hasher:      h,
		clock:       clk,
	}
}

func (s *accountService) Create(ctx context.Context, email, password string, tier models.Tier) (*models.Account, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", pkg.ErrValidation)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now().UTC()
	account := &models.Account{
		Email:        email,
		PasswordHash: digest,
		Tier:         tier,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	accountLog.WithField("account_id", account.ID).Info("account created")
	return account, nil
}

func (s *accountService) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

func (s *accountService) FindByEmail(ctx context.Context, email string) ([]models.Account, error) {
	return s.accountRepo.GetByEmail(ctx, email)
}

func (s *accountService) List(ctx context.Context) ([]models.Account, error) {
	return s.accountRepo.List(ctx)
}

func (s *accountService) Update(ctx context.Context, id string, req *models.UpdateAccountRequest) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if validate.IsContact(*req.Email) {
			account.Email = *req.Email
		} else {
			accountLog.WithField("account_id", id).Debug("ignoring malformed email in profile update")
		}
	}

	if req.Password != nil {
		if *req.Password == "" {
			return nil, fmt.Errorf("%w: password must not be empty", pkg.ErrValidation)
		}
		digest, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		account.PasswordHash = digest
	}

	account.UpdatedAt = s.clock.Now().UTC()
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) AddToList(ctx context.Context, id string, list models.ListName, value string) (*models.Account, error) {
	if err := checkListItem(list, value); err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.accountRepo.AddListItem(ctx, id, list, value); err != nil {
		return nil, err
	}
	return s.accountRepo.GetByID(ctx, id)
}

func (s *accountService) RemoveFromList(ctx context.Context, id string, list models.ListName, value string) (*models.Account, error) {
	if err := checkListItem(list, value); err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.accountRepo.RemoveListItem(ctx, id, list, value); err != nil {
		return nil, err
	}
	return s.accountRepo.GetByID(ctx, id)
}

func (s *accountService) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := s.accountRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	revoked, err := s.sessions.DeleteAllForAccount(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to revoke sessions: %w", err)
	}

	deleted, err := s.accountRepo.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if deleted {
		accountLog.WithFields(logrus.Fields{
			"account_id":       id,
			"sessions_revoked": revoked,
		}).Info("account deleted")
	}
	return deleted, nil
}

func (s *accountService) VerifyPassword(account *models.Account, password string) bool {
	return s.hasher.Verify(account.PasswordHash, password)
}

func checkListItem(list models.ListName, value string) error {
	if !list.Valid() {
		return fmt.Errorf("%w: unknown list %q", pkg.ErrValidation, list)
	}
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: value is required", pkg.ErrValidation)
	}
	return nil
}

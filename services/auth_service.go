package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akinalp/gamevault/models"
	"github.com/akinalp/gamevault/pkg"
	"github.com/akinalp/gamevault/pkg/logger"
	"github.com/akinalp/gamevault/pkg/metrics"
	"github.com/akinalp/gamevault/pkg/validate"
)

// AuthService is the API the handlers use. Every credential or token failure
// comes back as pkg.ErrAuthentication with no further detail.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error)
	// Login returns the new session; its ID is the bearer token.
	Login(ctx context.Context, req *models.LoginRequest, platform string) (*models.Session, error)
	ValidateToken(ctx context.Context, token string) (*models.Account, error)
	// Logout takes the raw Authorization header value and reports whether a
	// session was removed.
	Logout(ctx context.Context, authorization string) (bool, error)

	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	UpdateProfile(ctx context.Context, id string, req *models.UpdateAccountRequest) (*models.Account, error)
	AddToList(ctx context.Context, id string, list models.ListName, value string) (*models.Account, error)
	RemoveFromList(ctx context.Context, id string, list models.ListName, value string) (*models.Account, error)
	DeleteAccount(ctx context.Context, id string) (bool, error)
}

type authService struct {
	accounts    AccountService
	sessions    SessionService
	adminEmails map[string]struct{}
}

var authLog = logger.For("auth")

// NewAuthService, constructor.
//
// Accounts registered with an email listed in adminEmails get models.TierAdmin.
func NewAuthService(accounts AccountService, sessions SessionService, adminEmails []string) AuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &authService{
		accounts:    accounts,
		sessions:    sessions,
		adminEmails: admins,
	}
}

// Register checks, in order: password present, email present, email format,
// email not taken. The first failure is returned.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	existing, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: email already in use", pkg.ErrDuplicateContact)
	}

	tier := models.TierMember
	if _, ok := s.adminEmails[strings.ToLower(req.Email)]; ok {
		tier = models.TierAdmin
	}

	return s.accounts.Create(ctx, req.Email, req.Password, tier)
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest, platform string) (*models.Session, error) {
	if req.Email == "" || req.Password == "" {
		metrics.LoginsFailed.Inc()
		return nil, pkg.ErrAuthentication
	}

	candidates, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		if !s.accounts.VerifyPassword(&candidates[i], req.Password) {
			continue
		}

		session, err := s.sessions.Create(ctx, candidates[i].ID, platform)
		if err != nil {
			return nil, err
		}
		authLog.WithField("account_id", candidates[i].ID).Info("login")
		return session, nil
	}

	metrics.LoginsFailed.Inc()
	return nil, pkg.ErrAuthentication
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*models.Account, error) {
	account, err := s.sessions.ResolveAccount(ctx, token)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, pkg.ErrAuthentication
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *authService) Logout(ctx context.Context, authorization string) (bool, error) {
	token, err := ParseBearer(authorization)
	if err != nil {
		return false, err
	}
	return s.sessions.DeleteByToken(ctx, token)
}

func (s *authService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

func (s *authService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.accounts.List(ctx)
}

func (s *authService) UpdateProfile(ctx context.Context, id string, req *models.UpdateAccountRequest) (*models.Account, error) {
	return s.accounts.Update(ctx, id, req)
}

func (s *authService) AddToList(ctx context.Context, id string, list models.ListName, value string) (*models.Account, error) {
	return s.accounts.AddToList(ctx, id, list, value)
}

func (s *authService) RemoveFromList(ctx context.Context, id string, list models.ListName, value string) (*models.Account, error) {
	return s.accounts.RemoveFromList(ctx, id, list, value)
}

func (s *authService) DeleteAccount(ctx context.Context, id string) (bool, error) {
	return s.accounts.Delete(ctx, id)
}

// ParseBearer extracts the token from an Authorization header of the exact
// form "Bearer <token>": one single space, two parts, case-sensitive scheme.
func ParseBearer(header string) (string, error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", pkg.ErrAuthentication
	}
	return parts[1], nil
}

// RequireTier fails with pkg.ErrAuthorization when the account's tier is below minTier.
func RequireTier(account *models.Account, minTier models.Tier) error {
	if account == nil || account.Tier < minTier {
		return pkg.ErrAuthorization
	}
	return nil
}

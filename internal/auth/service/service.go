package service

import (
	"context"
	"strings"
	"time"

	"sakkanal_backend/internal/auth/password"
	"sakkanal_backend/internal/auth/repository"
	"sakkanal_backend/internal/auth/token"
	"sakkanal_backend/internal/auth/transport"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/logger"
)

// RoleAdmin is the role required by the admin routes.
const RoleAdmin = "admin"

const msgInvalidCredentials = "invalid credentials"

type Service struct {
	repo repository.AdminRepository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
	now  func() time.Time
}

func New(repo repository.AdminRepository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log, now: time.Now}
}

// SignIn checks the credentials and issues an access token. Unknown email
// and wrong password produce the same error.
func (s *Service) SignIn(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.AuthEvent("sign_in", email, false, "unknown email")
			return transport.LoginResponse{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return transport.LoginResponse{}, err
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		s.log.AuthEvent("sign_in", email, false, "password mismatch")
		return transport.LoginResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	signed, expiresAt, err := token.SignAccess(user.ID, user.Roles, s.now(), s.cfg.GetAccessTokenTTL(), s.cfg.GetJWTAccessSecret())
	if err != nil {
		return transport.LoginResponse{}, apperr.Wrap(apperr.KindInternal, "sign token", err).WithOp("auth.sign_in")
	}

	s.log.AuthEvent("sign_in", email, true, "")
	return transport.LoginResponse{AccessToken: signed, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

// CreateAdmin creates or resets an admin account. Used by the operator CLI.
func (s *Service) CreateAdmin(ctx context.Context, email, plain string) (repository.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return repository.AdminUser{}, apperr.Validation("email is required")
	}
	hash, err := password.Hash(plain)
	if err != nil {
		return repository.AdminUser{}, apperr.Wrap(apperr.KindValidation, "invalid password", err)
	}
	return s.repo.Upsert(ctx, email, hash, []string{RoleAdmin})
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bilasin/bilasin/internal/auth"
	"github.com/bilasin/bilasin/internal/domain"
)

// minUsernameLength keeps usernames long enough to be unambiguous in logs.
const minUsernameLength = 3

// AccountService provides business logic for admin accounts and their
// bearer tokens.
type AccountService struct {
	admins domain.AdminRepository
	logger *slog.Logger
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(admins domain.AdminRepository, logger *slog.Logger) *AccountService {
	return &AccountService{admins: admins, logger: logger}
}

// RegisterParams carries a new shop registration.
type RegisterParams struct {
	Name     string
	Username string
	Password string
}

// Register creates a new admin account. Returns ECONFLICT when the username
// is already taken.
func (s *AccountService) Register(ctx context.Context, p RegisterParams) (*domain.Admin, error) {
	const op = "account.register"

	name := strings.TrimSpace(p.Name)
	username := strings.ToLower(strings.TrimSpace(p.Username))

	if name == "" {
		return nil, domain.Invalid(op, "name is required")
	}
	if len(username) < minUsernameLength {
		return nil, domain.Invalidf(op, "username must be at least %d characters", minUsernameLength)
	}
	if strings.ContainsAny(username, " \t") {
		return nil, domain.Invalid(op, "username must not contain spaces")
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, domain.Invalid(op, err.Error())
		}
		return nil, domain.Internal(err, op, "failed to hash password")
	}

	admin, err := s.admins.Create(ctx, &domain.Admin{
		Name:         name,
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin registered", "admin_id", admin.ID, "username", admin.Username)
	return admin, nil
}

// Login verifies the credentials and issues a fresh bearer token. The raw
// token is returned to the caller exactly once; only its digest is stored.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, *domain.Admin, error) {
	const op = "account.login"

	username = strings.ToLower(strings.TrimSpace(username))

	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return "", nil, domain.Unauthorized(op, "Invalid username or password")
		}
		return "", nil, err
	}

	if err := auth.VerifyPassword(password, admin.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", nil, domain.Unauthorized(op, "Invalid username or password")
		}
		return "", nil, domain.Internal(err, op, "failed to verify password")
	}

	token, digest, err := auth.GenerateToken()
	if err != nil {
		return "", nil, domain.Internal(err, op, "failed to generate token")
	}

	if err := s.admins.InsertToken(ctx, admin.ID, digest); err != nil {
		return "", nil, err
	}

	s.logger.Info("admin logged in", "admin_id", admin.ID)
	return token, admin, nil
}

// Logout revokes the presented bearer token. Revoking an already revoked
// token is not an error.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.admins.DeleteToken(ctx, auth.DigestToken(token))
}

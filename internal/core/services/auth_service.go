package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eventdeskhq/eventdesk/internal/core/domain"
	"github.com/eventdeskhq/eventdesk/internal/core/ports"
)

type authService struct {
	repo     ports.Repository
	sessions ports.SessionStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService creates the session authenticator backed by the given
// repository and session store.
func NewAuthService(repo ports.Repository, sessions ports.SessionStore, logger *slog.Logger) ports.AuthService {
	return &authService{repo: repo, sessions: sessions, logger: logger, now: time.Now}
}

func (s *authService) Register(ctx context.Context, user *domain.User, password string) error {
	if err := domain.ValidateUsername(user.Username); err != nil {
		return err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return err
	}

	existing, err := s.repo.GetUserByUsername(ctx, user.Username)
	if err != nil {
		return fmt.Errorf("lookup username: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: username already taken", domain.ErrConflict)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.CreatedAt = s.now()

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	s.audit(ctx, &user.ID, "user.register", user.Username)
	return nil
}

// Login verifies credentials and mints a session. Unknown usernames and
// wrong passwords produce the identical error so responses cannot be used
// to enumerate accounts.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("lookup username: %w", err)
	}
	if user == nil {
		return nil, "", domain.ErrInvalidCredential
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredential
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	s.audit(ctx, &user.ID, "user.login", user.Username)
	return user, token, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// UserFromSession resolves a cookie token to its user. Stale tokens and
// tokens for removed users both yield ErrNotAuthenticated.
func (s *authService) UserFromSession(ctx context.Context, token string) (*domain.User, error) {
	userID, ok, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return user, nil
}

// ChangePassword verifies the current password through the same constant-time
// hash comparison as login before storing the new hash.
func (s *authService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("user lookup: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}

	if !VerifyPassword(currentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredential
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateUserPassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.audit(ctx, &userID, "user.password_change", user.Username)
	return nil
}

func (s *authService) UpdateSettings(ctx context.Context, user *domain.User) error {
	if err := s.repo.UpdateUserSettings(ctx, user); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	s.audit(ctx, &user.ID, "user.settings_change", user.Username)
	return nil
}

func (s *authService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *authService) audit(ctx context.Context, userID *int64, action, detail string) {
	saveAudit(ctx, s.repo, s.logger, s.now(), userID, action, detail)
}

package service

import (
	"context"
	"errors"
	"strings"

	"weather-api/internal/auth"
	"weather-api/internal/domain"
	"weather-api/internal/repository"
)

var (
	// ErrInvalidCredentials indicates a failed login or password check. It
	// is deliberately the same for unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSamePassword is returned when a password change would keep the
	// old password.
	ErrSamePassword = errors.New("new password must be different from the old password")
)

// bootstrap account, created once on an empty users table
const (
	bootstrapUsername = "admin"
	bootstrapPassword = "admin"
)

// UserService describes user lifecycle operations.
type UserService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// EnsureAdmin creates the bootstrap admin account when no users exist.
	EnsureAdmin(ctx context.Context) error
}

type userService struct {
	users  repository.UserRepository
	hasher auth.Hasher
}

func NewUserService(users repository.UserRepository, hasher auth.Hasher) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
	}
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if newPassword == oldPassword {
		return ErrSamePassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) EnsureAdmin(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := s.hasher.Hash(bootstrapPassword)
	if err != nil {
		return err
	}
	user := &domain.User{
		Username:     bootstrapUsername,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		// two instances racing the bootstrap is fine
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return err
	}
	return nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

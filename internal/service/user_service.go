package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"newsdesk/internal/domain"
	"newsdesk/internal/repository"
)

var (
	// ErrUserNotFound indicates no account exists for the given name.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates the account exists but the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserService verifies login credentials against externally provisioned accounts.
type UserService interface {
	// Authenticate has exactly three outcomes: unknown name (ErrUserNotFound),
	// password mismatch (ErrInvalidCredentials), or the matching user.
	Authenticate(ctx context.Context, userName, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// Bootstrap creates the named account with the given password unless it
	// already exists. Used to seed the admin account from configuration.
	Bootstrap(ctx context.Context, userName, password string) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Authenticate(ctx context.Context, userName, password string) (*domain.User, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return nil, ErrUserNotFound
	}

	user, err := s.users.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Bootstrap(ctx context.Context, userName, password string) error {
	userName = strings.TrimSpace(userName)
	if userName == "" || password == "" {
		return errors.New("bootstrap user name and password are required")
	}

	if _, err := s.users.GetByUserName(ctx, userName); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		UserName:     userName,
		PasswordHash: string(hash),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("create bootstrap user: %w", err)
	}
	return nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		UserName:  user.UserName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

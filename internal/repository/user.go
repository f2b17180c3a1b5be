package repository

import (
	"context"
	"errors"

	"newsdesk/internal/domain"
)

// ErrUserNotFound is returned when a lookup matches no stored user.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUserName(ctx context.Context, userName string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

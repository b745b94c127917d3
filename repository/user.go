package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create inserts a new user; a duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) error
}

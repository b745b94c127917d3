package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// TaskFilter scopes a listing to one owner. Results are ordered by due
// date ascending.
type TaskFilter struct {
	UserID string
	Limit  int
	Offset int
}

// TaskRepository persists tasks. Every lookup, update and delete is scoped
// by the owner so rows of other users behave as missing.
type TaskRepository interface {
	GetByID(ctx context.Context, userID, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, userID, id string) error
}

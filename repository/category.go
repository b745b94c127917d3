package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// CategoryFilter scopes a listing to one owner. Results are ordered by name
// ascending.
type CategoryFilter struct {
	UserID string
	Limit  int
	Offset int
}

// CategoryRepository persists categories. Deleting a category leaves tasks
// that reference it untouched.
type CategoryRepository interface {
	GetByID(ctx context.Context, userID, id string) (*domain.Category, error)
	List(ctx context.Context, filter CategoryFilter) ([]domain.Category, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, userID, id string) error
}

// ClampLimit bounds page sizes for every backend.
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// MaxPageSize caps a single listing.
const MaxPageSize = 1000

// Package adapter maps category and task operations of the views onto the
// backend client, validating input before anything leaves the process.
package adapter

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
)

// CategoryBackend is the slice of the backend client used for categories.
type CategoryBackend interface {
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
	CreateCategory(ctx context.Context, userID, name string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type CategoryAdapter struct {
	backend CategoryBackend
	logger  *zap.Logger
}

func NewCategoryAdapter(backend CategoryBackend, logger *zap.Logger) *CategoryAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryAdapter{backend: backend, logger: logger}
}

// List returns the owner's categories sorted by name. No rows is an empty
// slice.
func (a *CategoryAdapter) List(ctx context.Context, ownerID string) ([]domain.Category, error) {
	categories, err := a.backend.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, a.fail("list categories", err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	SortCategories(categories)
	return categories, nil
}

func (a *CategoryAdapter) Create(ctx context.Context, ownerID, name string) (domain.Category, error) {
	name, err := categoryName(name)
	if err != nil {
		return domain.Category{}, err
	}
	created, err := a.backend.CreateCategory(ctx, ownerID, name)
	if err != nil {
		return domain.Category{}, a.fail("create category", err)
	}
	return *created, nil
}

// Update replaces the name. Concurrent updates resolve to the last writer.
func (a *CategoryAdapter) Update(ctx context.Context, id, name string) (domain.Category, error) {
	name, err := categoryName(name)
	if err != nil {
		return domain.Category{}, err
	}
	updated, err := a.backend.UpdateCategory(ctx, id, name)
	if err != nil {
		return domain.Category{}, a.fail("update category", err)
	}
	return *updated, nil
}

// Delete removes the category. Tasks that reference it are left as they are.
func (a *CategoryAdapter) Delete(ctx context.Context, id string) error {
	if err := a.backend.DeleteCategory(ctx, id); err != nil {
		return a.fail("delete category", err)
	}
	return nil
}

func (a *CategoryAdapter) fail(op string, err error) error {
	a.logger.Warn("backend call failed", zap.String("op", op), zap.Error(err))
	return &RepositoryError{Op: op, Err: err}
}

func categoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "name", Message: "category name is required"}
	}
	return name, nil
}

// SortCategories orders by name, keeping the relative order of equal names.
func SortCategories(categories []domain.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
}

package category

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type UseCase struct {
	categories repository.CategoryRepository
	logger     *zap.Logger
}

func New(categories repository.CategoryRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		categories: categories,
		logger:     logger,
	}
}

// ListCategories returns the owner's categories sorted by name.
func (uc *UseCase) ListCategories(ctx context.Context, filter repository.CategoryFilter) ([]domain.Category, error) {
	if filter.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return uc.categories.List(ctx, filter)
}

func (uc *UseCase) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}
	category.ID = ""
	return uc.categories.Create(ctx, category)
}

// UpdateCategory replaces the name; the last writer wins.
func (uc *UseCase) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if category.ID == "" {
		return nil, domain.Invalid("missing category id")
	}
	return uc.categories.Update(ctx, category)
}

// DeleteCategory removes the category only; tasks keep their reference.
func (uc *UseCase) DeleteCategory(ctx context.Context, userID, id string) error {
	if err := uc.categories.Delete(ctx, userID, id); err != nil {
		return err
	}
	uc.logger.Debug("category deleted", zap.String("category_id", id), zap.String("user_id", userID))
	return nil
}

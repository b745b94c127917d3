package task

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type UseCase struct {
	tasks      repository.TaskRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
}

func New(tasks repository.TaskRepository, categories repository.CategoryRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:      tasks,
		categories: categories,
		logger:     logger,
	}
}

// ListTasks returns the owner's tasks sorted by due date.
func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if filter.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) GetTask(ctx context.Context, userID, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, userID, id)
}

func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task != nil && task.DueDate.IsZero() {
		task.DueDate = domain.Today()
	}
	if err := uc.validate(ctx, task); err != nil {
		return nil, err
	}
	task.ID = ""
	return uc.tasks.Create(ctx, task)
}

// UpdateTask replaces every editable field at once. There is no version
// check, so concurrent saves resolve to the last writer.
func (uc *UseCase) UpdateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := uc.validate(ctx, task); err != nil {
		return nil, err
	}
	if task.ID == "" {
		return nil, domain.Invalid("missing task id")
	}
	return uc.tasks.Update(ctx, task)
}

func (uc *UseCase) DeleteTask(ctx context.Context, userID, id string) error {
	return uc.tasks.Delete(ctx, userID, id)
}

// validate checks the fields and that a referenced category belongs to
// the same owner.
func (uc *UseCase) validate(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	if !task.HasCategory() {
		return nil
	}
	if _, err := uc.categories.GetByID(ctx, task.UserID, *task.CategoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			uc.logger.Debug("rejected unknown category reference",
				zap.String("user_id", task.UserID),
				zap.String("category_id", *task.CategoryID))
			return domain.Invalid("category does not exist")
		}
		return err
	}
	return nil
}

package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository returns a gorm-backed TaskRepository.
func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	var record taskRecord
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	task, err := record.toDomain()
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var records []taskRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", filter.UserID).
		Order("fecha ASC, created_at ASC").
		Limit(repository.ClampLimit(filter.Limit)).
		Offset(filter.Offset).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(records))
	for _, record := range records {
		task, err := record.toDomain()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	record := taskFromDomain(task)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	created, err := record.toDomain()
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces every editable column at once; there is no version check.
func (r *taskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	result := r.db.WithContext(ctx).
		Model(&taskRecord{}).
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		Updates(map[string]interface{}{
			"titulo":       task.Title,
			"descripcion":  task.Description,
			"fecha":        task.DueDate.String(),
			"estado":       task.Completed,
			"categoria_id": task.CategoryID,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return r.GetByID(ctx, task.UserID, task.ID)
}

func (r *taskRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&taskRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

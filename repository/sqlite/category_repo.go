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

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a gorm-backed CategoryRepository.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetByID(ctx context.Context, userID, id string) (*domain.Category, error) {
	var record categoryRecord
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	category := record.toDomain()
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, filter repository.CategoryFilter) ([]domain.Category, error) {
	var records []categoryRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", filter.UserID).
		Order("nombre ASC, created_at ASC").
		Limit(repository.ClampLimit(filter.Limit)).
		Offset(filter.Offset).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(records))
	for _, record := range records {
		categories = append(categories, record.toDomain())
	}
	return categories, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, domain.ErrInvalidPayload
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	record := categoryRecord{ID: category.ID, UserID: category.UserID, Name: category.Name}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	created := record.toDomain()
	return &created, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, domain.ErrInvalidPayload
	}

	result := r.db.WithContext(ctx).
		Model(&categoryRecord{}).
		Where("id = ? AND user_id = ?", category.ID, category.UserID).
		Updates(map[string]interface{}{
			"nombre":     category.Name,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrCategoryNotFound
	}
	return r.GetByID(ctx, category.UserID, category.ID)
}

func (r *categoryRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&categoryRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

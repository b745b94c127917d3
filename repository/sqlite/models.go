package sqlite

import (
	"time"

	"gorm.io/gorm"

	"github.com/fastygo/taskboard/domain"
)

type userRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

type categoryRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"index;not null"`
	Name      string `gorm:"column:nombre;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (categoryRecord) TableName() string { return "categorias" }

// taskRecord keeps the due date as YYYY-MM-DD text so ordering by the
// column is ordering by calendar day.
type taskRecord struct {
	ID          string  `gorm:"primaryKey;size:36"`
	UserID      string  `gorm:"index;not null"`
	Title       string  `gorm:"column:titulo;not null"`
	Description string  `gorm:"column:descripcion"`
	DueDate     string  `gorm:"column:fecha;not null"`
	Completed   bool    `gorm:"column:estado;not null"`
	CategoryID  *string `gorm:"column:categoria_id;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (taskRecord) TableName() string { return "tareas" }

// AutoMigrate creates or updates the users, categorias and tareas tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userRecord{}, &categoryRecord{}, &taskRecord{})
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r categoryRecord) toDomain() domain.Category {
	return domain.Category{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r taskRecord) toDomain() (domain.Task, error) {
	due, err := domain.ParseDate(r.DueDate)
	if err != nil {
		return domain.Task{}, err
	}
	return domain.Task{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     due,
		Completed:   r.Completed,
		CategoryID:  r.CategoryID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func taskFromDomain(t *domain.Task) taskRecord {
	return taskRecord{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.String(),
		Completed:   t.Completed,
		CategoryID:  t.CategoryID,
	}
}

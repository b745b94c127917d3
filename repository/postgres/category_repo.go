package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

const categoryColumns = `id, user_id, nombre, created_at, updated_at`

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a Postgres-backed implementation of CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) repository.CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) GetByID(ctx context.Context, userID, id string) (*domain.Category, error) {
	const query = `
	SELECT ` + categoryColumns + `
	FROM categorias
	WHERE id = $1 AND user_id = $2
	`
	return scanCategory(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *categoryRepository) List(ctx context.Context, filter repository.CategoryFilter) ([]domain.Category, error) {
	const query = `
	SELECT ` + categoryColumns + `
	FROM categorias
	WHERE user_id = $1
	ORDER BY nombre ASC, created_at ASC
	LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, repository.ClampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, domain.ErrInvalidPayload
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO categorias (id, user_id, nombre)
	VALUES ($1, $2, $3)
	RETURNING ` + categoryColumns

	return scanCategory(r.pool.QueryRow(ctx, query, category.ID, category.UserID, category.Name))
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	UPDATE categorias
	SET nombre = $3,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + categoryColumns

	return scanCategory(r.pool.QueryRow(ctx, query, category.ID, category.UserID, category.Name))
}

func (r *categoryRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM categorias WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		if isMalformedID(err) {
			return domain.ErrCategoryNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var category domain.Category
	if err := row.Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

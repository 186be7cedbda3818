package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/postgres/generated"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	queries *generated.Queries
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db generated.DBTX) *CategoryRepository {
	return &CategoryRepository{queries: generated.New(db)}
}

// Create creates a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.queries.CreateCategory(ctx, generated.CreateCategoryParams{
		ID:        category.ID,
		UserID:    category.UserID,
		Name:      category.Name,
		Kind:      string(category.Kind),
		Color:     category.Color,
		Icon:      category.Icon,
		CreatedAt: timeToPgTimestamptz(category.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(category.UpdatedAt),
	})
}

// GetByID retrieves a category owned by userID.
func (r *CategoryRepository) GetByID(ctx context.Context, userID, id string) (*domain.Category, error) {
	row, err := r.queries.GetCategory(ctx, generated.GetCategoryParams{UserID: userID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}

		return nil, err
	}

	return rowToCategory(row), nil
}

// List lists the categories of a user. An empty kind lists both kinds.
func (r *CategoryRepository) List(ctx context.Context, userID string, kind domain.Kind) ([]*domain.Category, error) {
	rows, err := r.queries.ListCategories(ctx, generated.ListCategoriesParams{
		UserID: userID,
		Kind:   string(kind),
	})
	if err != nil {
		return nil, err
	}

	categories := make([]*domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, rowToCategory(row))
	}

	return categories, nil
}

// Update persists a category.
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	n, err := r.queries.UpdateCategory(ctx, generated.UpdateCategoryParams{
		UserID:    category.UserID,
		ID:        category.ID,
		Name:      category.Name,
		Kind:      string(category.Kind),
		Color:     category.Color,
		Icon:      category.Icon,
		UpdatedAt: timeToPgTimestamptz(category.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

// Delete removes a category and its entries.
func (r *CategoryRepository) Delete(ctx context.Context, userID, id string) error {
	n, err := r.queries.DeleteCategory(ctx, generated.DeleteCategoryParams{UserID: userID, ID: id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

func rowToCategory(row generated.Category) *domain.Category {
	return &domain.Category{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		Kind:      domain.Kind(row.Kind),
		Color:     row.Color,
		Icon:      row.Icon,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

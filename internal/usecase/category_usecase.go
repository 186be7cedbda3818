package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/fintrack/internal/domain"
)

// CategoryUseCase handles category business logic.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	entryRepo    EntryRepository
	receipts     ReceiptStorage
	dashboards   *DashboardCache
	idGen        IDGenerator
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(
	categoryRepo CategoryRepository,
	entryRepo EntryRepository,
	receipts ReceiptStorage,
	dashboards *DashboardCache,
	idGen IDGenerator,
) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		entryRepo:    entryRepo,
		receipts:     receipts,
		dashboards:   dashboards,
		idGen:        idGen,
	}
}

// CreateCategoryInput represents input for creating a category.
type CreateCategoryInput struct {
	UserID string
	Name   string
	Kind   domain.Kind
	Color  string
	Icon   string
}

// CreateCategory creates a category, deriving its icon from the name when none is given.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	category, err := domain.NewCategory(
		uc.idGen.Generate(),
		input.UserID,
		input.Name,
		input.Kind,
		input.Color,
		input.Icon,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// GetCategory retrieves a category by ID.
func (uc *CategoryUseCase) GetCategory(ctx context.Context, userID, id string) (*domain.Category, error) {
	return uc.categoryRepo.GetByID(ctx, userID, id)
}

// ListCategories lists the user's categories, optionally restricted to one kind.
func (uc *CategoryUseCase) ListCategories(ctx context.Context, userID string, kind domain.Kind) ([]*domain.Category, error) {
	if kind != "" && !kind.IsValid() {
		return nil, domain.ErrInvalidKind
	}
	return uc.categoryRepo.List(ctx, userID, kind)
}

// UpdateCategoryInput represents input for updating a category.
// Nil fields are left unchanged. The icon is only replaced when Icon is set.
type UpdateCategoryInput struct {
	UserID string
	ID     string
	Name   *string
	Kind   *domain.Kind
	Color  *string
	Icon   *string
}

// UpdateCategory updates a category. Existing entries keep the kind they were created with.
func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := uc.categoryRepo.GetByID(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := domain.ValidateName(name); err != nil {
			return nil, err
		}
		category.Name = name
	}

	if input.Kind != nil {
		if !input.Kind.IsValid() {
			return nil, domain.ErrInvalidKind
		}
		category.Kind = *input.Kind
	}

	if input.Color != nil {
		if err := domain.ValidateColor(*input.Color); err != nil {
			return nil, err
		}
		category.Color = *input.Color
	}

	// A blank icon keeps the stored one.
	if input.Icon != nil {
		if icon := strings.TrimSpace(*input.Icon); icon != "" {
			category.Icon = icon
		}
	}
	category.EnsureIcon()

	category.UpdatedAt = time.Now().UTC()

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	uc.dashboards.Invalidate(ctx, input.UserID)

	return category, nil
}

// DeleteCategory deletes a category together with its entries and their receipts.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, userID, id string) error {
	if _, err := uc.categoryRepo.GetByID(ctx, userID, id); err != nil {
		return err
	}

	paths, err := uc.entryRepo.ReceiptPaths(ctx, userID, ReceiptScope{CategoryID: id})
	if err != nil {
		return err
	}

	if err := uc.categoryRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	removeReceipts(ctx, uc.receipts, paths)
	uc.dashboards.Invalidate(ctx, userID)

	return nil
}

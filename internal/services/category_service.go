package services

import (
	"context"
	"errors"
	"strings"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/store"
)

// categoryService handles category-related business logic.
type categoryService struct {
	tx store.Transactor
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(tx store.Transactor) CategoryServicer {
	return &categoryService{tx: tx}
}

// CreateCategory creates a category owned by the actor.
func (s *categoryService) CreateCategory(ctx context.Context, actor models.Actor, in CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if in.Type == "" {
		in.Type = models.CategoryTypeExpense
	}
	if !in.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be Income or Expense")
	}

	ownerID := actor.UserID
	category := &models.Category{
		Name:     name,
		Type:     in.Type,
		IsPublic: in.IsPublic,
		UserID:   &ownerID,
	}
	if err := s.tx.Stores().Categories.Create(ctx, category); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperrors.WithMessage(apperrors.ErrConflict, "a category with this name already exists")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// ListCategories returns the categories the actor may use.
func (s *categoryService) ListCategories(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	var (
		categories []models.Category
		total      int64
		err        error
	)
	if actor.IsAdmin {
		categories, total, err = s.tx.Stores().Categories.GetAll(ctx, page)
	} else {
		categories, total, err = s.tx.Stores().Categories.ListVisible(ctx, actor.UserID, page)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pagination.NewPageResponse(categories, page, total), nil
}

// GetCategory retrieves a category visible to the actor.
func (s *categoryService) GetCategory(ctx context.Context, actor models.Actor, id string) (*models.Category, error) {
	return visibleCategory(ctx, s.tx.Stores().Categories, actor, id)
}

// UpdateCategory changes a category. Only its creator or an admin may do so.
func (s *categoryService) UpdateCategory(ctx context.Context, actor models.Actor, id string, upd store.CategoryUpdate) (*models.Category, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name cannot be empty")
		}
		upd.Name = &name
	}
	if upd.Type != nil && !upd.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be Income or Expense")
	}

	categories := s.tx.Stores().Categories
	if _, err := editableCategory(ctx, categories, actor, id); err != nil {
		return nil, err
	}

	category, err := categories.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, apperrors.ErrCategoryNotFound
		case errors.Is(err, store.ErrConflict):
			return nil, apperrors.WithMessage(apperrors.ErrConflict, "a category with this name already exists")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// DeleteCategory removes a category that no transaction refers to.
func (s *categoryService) DeleteCategory(ctx context.Context, actor models.Actor, id string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, st store.Stores) error {
		if _, err := editableCategory(ctx, st.Categories, actor, id); err != nil {
			return err
		}
		n, err := st.Transactions.CountByCategory(ctx, id)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if n > 0 {
			return apperrors.ErrCategoryInUse
		}
		if err := st.Categories.Delete(ctx, id); err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				return apperrors.ErrCategoryNotFound
			case errors.Is(err, store.ErrConflict):
				return apperrors.WithMessage(apperrors.ErrCategoryInUse, "Category is used by existing budgets")
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	return asAppError(err)
}

func visibleCategory(ctx context.Context, categories store.CategoryStore, actor models.Actor, id string) (*models.Category, error) {
	category, err := categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !category.VisibleTo(actor) {
		return nil, apperrors.ErrCategoryNotFound
	}
	return category, nil
}

// editableCategory loads a category the actor may modify. Shared categories
// without a creator belong to admins.
func editableCategory(ctx context.Context, categories store.CategoryStore, actor models.Actor, id string) (*models.Category, error) {
	category, err := visibleCategory(ctx, categories, actor, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin || (category.UserID != nil && actor.Owns(*category.UserID)) {
		return category, nil
	}
	return nil, apperrors.WithMessage(apperrors.ErrForbidden, "only the creator can modify this category")
}

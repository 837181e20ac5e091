package services

import (
	"context"
	"errors"
	"strings"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
	"fintrack/internal/store"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	stores store.Stores
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(stores store.Stores) BudgetServicer {
	return &budgetService{stores: stores}
}

// CreateBudget creates a spending cap on a category the owner can use.
func (s *budgetService) CreateBudget(ctx context.Context, actor models.Actor, in CreateBudgetInput) (*models.Budget, error) {
	if !money.ValidAmount(in.Amount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive with at most 8 integer and 2 fractional digits")
	}

	ownerID := actor.UserID
	if actor.IsAdmin && in.UserID != "" {
		ownerID = in.UserID
	}
	if _, err := visibleCategory(ctx, s.stores.Categories, actor, in.CategoryID); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:     ownerID,
		CategoryID: in.CategoryID,
		Name:       strings.TrimSpace(in.Name),
		Amount:     in.Amount,
	}
	if err := s.stores.Budgets.Create(ctx, budget); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperrors.WithMessage(apperrors.ErrConflict, "budget refers to a missing user or category")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetBudget(ctx, actor, budget.ID)
}

// ListBudgets returns the actor's budgets, or every budget for admins.
func (s *budgetService) ListBudgets(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	var (
		budgets []models.Budget
		total   int64
		err     error
	)
	if actor.IsAdmin {
		budgets, total, err = s.stores.Budgets.GetAll(ctx, page)
	} else {
		budgets, total, err = s.stores.Budgets.ListByUser(ctx, actor.UserID, page)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pagination.NewPageResponse(budgets, page, total), nil
}

// GetBudget retrieves a budget by ID
func (s *budgetService) GetBudget(ctx context.Context, actor models.Actor, id string) (*models.Budget, error) {
	budget, err := s.stores.Budgets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !actor.CanAccess(budget.UserID) {
		return nil, apperrors.ErrBudgetNotFound
	}
	return budget, nil
}

// UpdateBudget changes a budget's name, amount or category.
func (s *budgetService) UpdateBudget(ctx context.Context, actor models.Actor, id string, upd store.BudgetUpdate) (*models.Budget, error) {
	if upd.Amount != nil && !money.ValidAmount(*upd.Amount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive with at most 8 integer and 2 fractional digits")
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		upd.Name = &name
	}

	if _, err := s.GetBudget(ctx, actor, id); err != nil {
		return nil, err
	}
	if upd.CategoryID != nil {
		if _, err := visibleCategory(ctx, s.stores.Categories, actor, *upd.CategoryID); err != nil {
			return nil, err
		}
	}

	budget, err := s.stores.Budgets.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// DeleteBudget removes a budget.
func (s *budgetService) DeleteBudget(ctx context.Context, actor models.Actor, id string) error {
	if _, err := s.GetBudget(ctx, actor, id); err != nil {
		return err
	}
	if err := s.stores.Budgets.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.ErrBudgetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

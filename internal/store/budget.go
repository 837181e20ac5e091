package store

import (
	"context"

	"fintrack/internal/models"
	"fintrack/internal/pagination"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetUpdate lists the mutable budget fields.
type BudgetUpdate struct {
	Name       *string
	Amount     *decimal.Decimal
	CategoryID *string
}

func (u BudgetUpdate) fields() map[string]interface{} {
	f := map[string]interface{}{}
	if u.Name != nil {
		f["name"] = *u.Name
	}
	if u.Amount != nil {
		f["amount"] = *u.Amount
	}
	if u.CategoryID != nil {
		f["category_id"] = *u.CategoryID
	}
	return f
}

// BudgetStore persists budgets.
type BudgetStore interface {
	GetByID(ctx context.Context, id string) (*models.Budget, error)
	GetAll(ctx context.Context, page pagination.PageRequest) ([]models.Budget, int64, error)
	ListByUser(ctx context.Context, userID string, page pagination.PageRequest) ([]models.Budget, int64, error)
	Create(ctx context.Context, budget *models.Budget) error
	Update(ctx context.Context, id string, upd BudgetUpdate) (*models.Budget, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type budgetStore struct {
	crud crud[models.Budget]
}

// NewBudgetStore creates a gorm-backed BudgetStore.
func NewBudgetStore(db *gorm.DB) BudgetStore {
	return &budgetStore{crud: crud[models.Budget]{db: db}}
}

func withCategory(db *gorm.DB) *gorm.DB {
	return db.Preload("Category")
}

func (s *budgetStore) GetByID(ctx context.Context, id string) (*models.Budget, error) {
	return s.crud.get(ctx, id, withCategory)
}

func (s *budgetStore) GetAll(ctx context.Context, page pagination.PageRequest) ([]models.Budget, int64, error) {
	return s.crud.list(ctx, page, "created_at ASC, id ASC")
}

func (s *budgetStore) ListByUser(ctx context.Context, userID string, page pagination.PageRequest) ([]models.Budget, int64, error) {
	return s.crud.list(ctx, page, "created_at ASC, id ASC", byUser(userID))
}

func (s *budgetStore) Create(ctx context.Context, budget *models.Budget) error {
	return s.crud.create(ctx, budget)
}

func (s *budgetStore) Update(ctx context.Context, id string, upd BudgetUpdate) (*models.Budget, error) {
	if _, err := s.crud.update(ctx, id, upd.fields()); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *budgetStore) Delete(ctx context.Context, id string) error {
	return s.crud.delete(ctx, id)
}

func (s *budgetStore) DeleteByUser(ctx context.Context, userID string) error {
	return s.crud.deleteBy(ctx, byUser(userID))
}

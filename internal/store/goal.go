package store

import (
	"context"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GoalUpdate lists the mutable goal fields.
type GoalUpdate struct {
	Name         *string
	Cost         *decimal.Decimal
	Deadline     *time.Time
	ActualAmount *decimal.Decimal
}

func (u GoalUpdate) fields() map[string]interface{} {
	f := map[string]interface{}{}
	if u.Name != nil {
		f["name"] = *u.Name
	}
	if u.Cost != nil {
		f["cost"] = *u.Cost
	}
	if u.Deadline != nil {
		f["deadline"] = *u.Deadline
	}
	if u.ActualAmount != nil {
		f["actual_amount"] = *u.ActualAmount
	}
	return f
}

// GoalStore persists savings goals.
type GoalStore interface {
	GetByID(ctx context.Context, id string) (*models.Goal, error)
	GetAll(ctx context.Context, page pagination.PageRequest) ([]models.Goal, int64, error)
	ListByUser(ctx context.Context, userID string, page pagination.PageRequest) ([]models.Goal, int64, error)
	Create(ctx context.Context, goal *models.Goal) error
	Update(ctx context.Context, id string, upd GoalUpdate) (*models.Goal, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type goalStore struct {
	crud crud[models.Goal]
}

// NewGoalStore creates a gorm-backed GoalStore.
func NewGoalStore(db *gorm.DB) GoalStore {
	return &goalStore{crud: crud[models.Goal]{db: db}}
}

func (s *goalStore) GetByID(ctx context.Context, id string) (*models.Goal, error) {
	return s.crud.get(ctx, id)
}

func (s *goalStore) GetAll(ctx context.Context, page pagination.PageRequest) ([]models.Goal, int64, error) {
	return s.crud.list(ctx, page, "created_at ASC, id ASC")
}

func (s *goalStore) ListByUser(ctx context.Context, userID string, page pagination.PageRequest) ([]models.Goal, int64, error) {
	return s.crud.list(ctx, page, "created_at ASC, id ASC", byUser(userID))
}

func (s *goalStore) Create(ctx context.Context, goal *models.Goal) error {
	return s.crud.create(ctx, goal)
}

func (s *goalStore) Update(ctx context.Context, id string, upd GoalUpdate) (*models.Goal, error) {
	return s.crud.update(ctx, id, upd.fields())
}

func (s *goalStore) Delete(ctx context.Context, id string) error {
	return s.crud.delete(ctx, id)
}

func (s *goalStore) DeleteByUser(ctx context.Context, userID string) error {
	return s.crud.deleteBy(ctx, byUser(userID))
}

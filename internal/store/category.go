package store

import (
	"context"

	"fintrack/internal/models"
	"fintrack/internal/pagination"

	"gorm.io/gorm"
)

// CategoryUpdate lists the mutable category fields.
type CategoryUpdate struct {
	Name     *string
	Type     *models.CategoryType
	IsPublic *bool
}

func (u CategoryUpdate) fields() map[string]interface{} {
	f := map[string]interface{}{}
	if u.Name != nil {
		f["name"] = *u.Name
	}
	if u.Type != nil {
		f["type"] = *u.Type
	}
	if u.IsPublic != nil {
		f["is_public"] = *u.IsPublic
	}
	return f
}

// CategoryStore persists categories.
type CategoryStore interface {
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetAll(ctx context.Context, page pagination.PageRequest) ([]models.Category, int64, error)
	// ListVisible returns public categories plus the private ones created by userID.
	ListVisible(ctx context.Context, userID string, page pagination.PageRequest) ([]models.Category, int64, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id string, upd CategoryUpdate) (*models.Category, error)
	Delete(ctx context.Context, id string) error
	// ReleaseByUser deletes the private categories created by userID and
	// detaches the user from the public ones.
	ReleaseByUser(ctx context.Context, userID string) error
}

type categoryStore struct {
	db   *gorm.DB
	crud crud[models.Category]
}

// NewCategoryStore creates a gorm-backed CategoryStore.
func NewCategoryStore(db *gorm.DB) CategoryStore {
	return &categoryStore{db: db, crud: crud[models.Category]{db: db}}
}

func (s *categoryStore) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return s.crud.get(ctx, id)
}

func (s *categoryStore) GetAll(ctx context.Context, page pagination.PageRequest) ([]models.Category, int64, error) {
	return s.crud.list(ctx, page, "name ASC")
}

func (s *categoryStore) ListVisible(ctx context.Context, userID string, page pagination.PageRequest) ([]models.Category, int64, error) {
	return s.crud.list(ctx, page, "name ASC", func(db *gorm.DB) *gorm.DB {
		return db.Where("is_public = ? OR user_id = ?", true, userID)
	})
}

func (s *categoryStore) Create(ctx context.Context, category *models.Category) error {
	return s.crud.create(ctx, category)
}

func (s *categoryStore) Update(ctx context.Context, id string, upd CategoryUpdate) (*models.Category, error) {
	return s.crud.update(ctx, id, upd.fields())
}

func (s *categoryStore) Delete(ctx context.Context, id string) error {
	return s.crud.delete(ctx, id)
}

func (s *categoryStore) ReleaseByUser(ctx context.Context, userID string) error {
	err := s.crud.deleteBy(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND is_public = ?", userID, false)
	})
	if err != nil {
		return err
	}
	return translate(s.db.WithContext(ctx).Model(&models.Category{}).Where("user_id = ?", userID).Update("user_id", nil).Error)
}

// Package store holds the gorm-backed persistence layer. There is one store per
// entity; Transactor hands out stores bound to a single database transaction so
// that a group of writes commits or rolls back together.
package store

import (
	"context"
	"errors"

	"fintrack/internal/pagination"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("store: record not found")
	// ErrConflict is returned when a write violates a unique or foreign key constraint.
	ErrConflict = errors.New("store: record conflicts with existing data")
)

// translate maps gorm errors onto the store sentinels. Requires gorm.Config.TranslateError.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.Join(ErrConflict, err)
	default:
		return err
	}
}

// crud implements the operations every entity store shares.
type crud[T any] struct {
	db *gorm.DB
}

func (c crud[T]) get(ctx context.Context, id string, scopes ...func(*gorm.DB) *gorm.DB) (*T, error) {
	var v T
	if err := c.db.WithContext(ctx).Scopes(scopes...).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// list returns one page of rows matching scopes together with the total row count.
func (c crud[T]) list(ctx context.Context, page pagination.PageRequest, order string, scopes ...func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	page.Defaults()

	base := c.db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var items []T
	if err := base.Scopes(pagination.Paginate(page)).Order(order).Find(&items).Error; err != nil {
		return nil, 0, translate(err)
	}
	return items, total, nil
}

func (c crud[T]) create(ctx context.Context, v *T) error {
	return translate(c.db.WithContext(ctx).Create(v).Error)
}

// update applies fields to the row and returns the refreshed record.
// An empty field set is a no-op that still reports ErrNotFound for a missing row.
func (c crud[T]) update(ctx context.Context, id string, fields map[string]interface{}) (*T, error) {
	if len(fields) > 0 {
		res := c.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return c.get(ctx, id)
}

func (c crud[T]) delete(ctx context.Context, id string) error {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// deleteBy removes every row matching scope.
func (c crud[T]) deleteBy(ctx context.Context, scope func(*gorm.DB) *gorm.DB) error {
	return translate(c.db.WithContext(ctx).Scopes(scope).Delete(new(T)).Error)
}

func byUser(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

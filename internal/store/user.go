package store

import (
	"context"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"

	"gorm.io/gorm"
)

// UserUpdate lists the mutable profile fields. Password carries an already hashed value.
type UserUpdate struct {
	FirstName   *string
	LastName    *string
	DateOfBirth *time.Time
	Passport    *string
	Password    *string
	IsAdmin     *bool
}

func (u UserUpdate) fields() map[string]interface{} {
	f := map[string]interface{}{}
	if u.FirstName != nil {
		f["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		f["last_name"] = *u.LastName
	}
	if u.DateOfBirth != nil {
		f["date_of_birth"] = *u.DateOfBirth
	}
	if u.Passport != nil {
		f["passport"] = *u.Passport
	}
	if u.Password != nil {
		f["password"] = *u.Password
	}
	if u.IsAdmin != nil {
		f["is_admin"] = *u.IsAdmin
	}
	return f
}

// UserStore persists users.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	GetAll(ctx context.Context, page pagination.PageRequest) ([]models.User, int64, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id string, upd UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type userStore struct {
	db   *gorm.DB
	crud crud[models.User]
}

// NewUserStore creates a gorm-backed UserStore.
func NewUserStore(db *gorm.DB) UserStore {
	return &userStore{db: db, crud: crud[models.User]{db: db}}
}

func (s *userStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.crud.get(ctx, id)
}

func (s *userStore) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("login = ?", login).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *userStore) GetAll(ctx context.Context, page pagination.PageRequest) ([]models.User, int64, error) {
	return s.crud.list(ctx, page, "created_at ASC, id ASC")
}

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	return s.crud.create(ctx, user)
}

func (s *userStore) Update(ctx context.Context, id string, upd UserUpdate) (*models.User, error) {
	return s.crud.update(ctx, id, upd.fields())
}

func (s *userStore) Delete(ctx context.Context, id string) error {
	return s.crud.delete(ctx, id)
}

package store

import (
	"context"

	"fintrack/internal/models"
	"fintrack/internal/pagination"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletUpdate lists the mutable wallet fields. Nil fields are left untouched.
type WalletUpdate struct {
	Type    *models.WalletType
	Balance *decimal.Decimal
}

func (u WalletUpdate) fields() map[string]interface{} {
	f := map[string]interface{}{}
	if u.Type != nil {
		f["type"] = *u.Type
	}
	if u.Balance != nil {
		f["balance"] = *u.Balance
	}
	return f
}

// WalletStore persists wallets.
type WalletStore interface {
	GetByID(ctx context.Context, id string) (*models.Wallet, error)
	// GetByIDForUpdate reads the wallet and row-locks it until the enclosing
	// transaction ends. Outside a transaction it behaves like GetByID.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Wallet, error)
	GetAll(ctx context.Context, page pagination.PageRequest) ([]models.Wallet, int64, error)
	ListByUser(ctx context.Context, userID string, page pagination.PageRequest) ([]models.Wallet, int64, error)
	// FirstTransferable returns the user's oldest non-Cash wallet.
	FirstTransferable(ctx context.Context, userID string) (*models.Wallet, error)
	Create(ctx context.Context, wallet *models.Wallet) error
	Update(ctx context.Context, id string, upd WalletUpdate) (*models.Wallet, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type walletStore struct {
	db   *gorm.DB
	crud crud[models.Wallet]
}

// NewWalletStore creates a gorm-backed WalletStore.
func NewWalletStore(db *gorm.DB) WalletStore {
	return &walletStore{db: db, crud: crud[models.Wallet]{db: db}}
}

func (s *walletStore) GetByID(ctx context.Context, id string) (*models.Wallet, error) {
	return s.crud.get(ctx, id)
}

func (s *walletStore) GetByIDForUpdate(ctx context.Context, id string) (*models.Wallet, error) {
	return s.crud.get(ctx, id, lockForUpdate)
}

// lockForUpdate adds FOR UPDATE on engines that support row locks. SQLite
// serialises writers on the whole database instead.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func (s *walletStore) GetAll(ctx context.Context, page pagination.PageRequest) ([]models.Wallet, int64, error) {
	return s.crud.list(ctx, page, "created_at ASC, id ASC")
}

func (s *walletStore) ListByUser(ctx context.Context, userID string, page pagination.PageRequest) ([]models.Wallet, int64, error) {
	return s.crud.list(ctx, page, "created_at ASC, id ASC", byUser(userID))
}

func (s *walletStore) FirstTransferable(ctx context.Context, userID string) (*models.Wallet, error) {
	var w models.Wallet
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND type <> ?", userID, models.WalletTypeCash).
		Order("created_at ASC, id ASC").
		First(&w).Error
	if err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

func (s *walletStore) Create(ctx context.Context, wallet *models.Wallet) error {
	return s.crud.create(ctx, wallet)
}

func (s *walletStore) Update(ctx context.Context, id string, upd WalletUpdate) (*models.Wallet, error) {
	return s.crud.update(ctx, id, upd.fields())
}

func (s *walletStore) Delete(ctx context.Context, id string) error {
	return s.crud.delete(ctx, id)
}

func (s *walletStore) DeleteByUser(ctx context.Context, userID string) error {
	return s.crud.deleteBy(ctx, byUser(userID))
}

package store

import (
	"context"

	"fintrack/internal/models"
	"fintrack/internal/pagination"

	"gorm.io/gorm"
)

// TransactionStore persists ledger records. Records are append-only.
type TransactionStore interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	GetAll(ctx context.Context, page pagination.PageRequest) ([]models.Transaction, int64, error)
	// ListByWallet returns records where the wallet is either side of the movement.
	ListByWallet(ctx context.Context, walletID string, page pagination.PageRequest) ([]models.Transaction, int64, error)
	// ListByUser returns records touching any wallet owned by userID.
	ListByUser(ctx context.Context, userID string, page pagination.PageRequest) ([]models.Transaction, int64, error)
	CountByWallet(ctx context.Context, walletID string) (int64, error)
	// CountByUser counts records touching any wallet owned by userID.
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

type transactionStore struct {
	db   *gorm.DB
	crud crud[models.Transaction]
}

// NewTransactionStore creates a gorm-backed TransactionStore.
func NewTransactionStore(db *gorm.DB) TransactionStore {
	return &transactionStore{db: db, crud: crud[models.Transaction]{db: db}}
}

func (s *transactionStore) Create(ctx context.Context, txn *models.Transaction) error {
	return s.crud.create(ctx, txn)
}

func (s *transactionStore) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	return s.crud.get(ctx, id)
}

func (s *transactionStore) GetAll(ctx context.Context, page pagination.PageRequest) ([]models.Transaction, int64, error) {
	return s.crud.list(ctx, page, "created_at DESC, id DESC")
}

func (s *transactionStore) ListByWallet(ctx context.Context, walletID string, page pagination.PageRequest) ([]models.Transaction, int64, error) {
	return s.crud.list(ctx, page, "created_at DESC, id DESC", touchesWallet(walletID))
}

func (s *transactionStore) ListByUser(ctx context.Context, userID string, page pagination.PageRequest) ([]models.Transaction, int64, error) {
	return s.crud.list(ctx, page, "created_at DESC, id DESC", s.touchesUser(userID))
}

func (s *transactionStore) CountByWallet(ctx context.Context, walletID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).Scopes(touchesWallet(walletID)).Count(&n).Error
	return n, translate(err)
}

func (s *transactionStore) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).Scopes(s.touchesUser(userID)).Count(&n).Error
	return n, translate(err)
}

func (s *transactionStore) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, translate(err)
}

func touchesWallet(walletID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("wallet_id = ? OR counterparty_wallet_id = ?", walletID, walletID)
	}
}

func (s *transactionStore) touchesUser(userID string) func(*gorm.DB) *gorm.DB {
	owned := s.db.Model(&models.Wallet{}).Select("id").Where("user_id = ?", userID)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("wallet_id IN (?) OR counterparty_wallet_id IN (?)", owned, owned)
	}
}

package services

import (
	"context"
	"errors"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/store"
)

// transactionService reads ledger history.
type transactionService struct {
	stores store.Stores
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(stores store.Stores) TransactionServicer {
	return &transactionService{stores: stores}
}

// ListTransactions returns transactions touching any of the actor's wallets,
// or every transaction for admins.
func (s *transactionService) ListTransactions(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	var (
		txns  []models.Transaction
		total int64
		err   error
	)
	if actor.IsAdmin {
		txns, total, err = s.stores.Transactions.GetAll(ctx, page)
	} else {
		txns, total, err = s.stores.Transactions.ListByUser(ctx, actor.UserID, page)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pagination.NewPageResponse(txns, page, total), nil
}

// GetTransaction retrieves a transaction if the actor owns either side of it.
func (s *transactionService) GetTransaction(ctx context.Context, actor models.Actor, id string) (*models.Transaction, error) {
	txn, err := s.stores.Transactions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if actor.IsAdmin {
		return txn, nil
	}

	walletIDs := []string{txn.WalletID}
	if txn.CounterpartyWalletID != nil {
		walletIDs = append(walletIDs, *txn.CounterpartyWalletID)
	}
	for _, walletID := range walletIDs {
		wallet, err := s.stores.Wallets.GetByID(ctx, walletID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if actor.Owns(wallet.UserID) {
			return txn, nil
		}
	}
	return nil, apperrors.ErrTransactionNotFound
}

// ListWalletTransactions returns the history of one wallet visible to the actor.
func (s *transactionService) ListWalletTransactions(ctx context.Context, actor models.Actor, walletID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if _, err := visibleWallet(ctx, s.stores.Wallets, actor, walletID); err != nil {
		return nil, err
	}
	txns, total, err := s.stores.Transactions.ListByWallet(ctx, walletID, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pagination.NewPageResponse(txns, page, total), nil
}

package services

import (
	"context"
	"errors"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/lock"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
	"fintrack/internal/store"
)

// walletService handles wallet CRUD. Balance changes made here share the
// ledger's per-wallet locks so they never interleave with a transfer.
type walletService struct {
	tx     store.Transactor
	locker lock.Locker
}

// NewWalletService creates a new WalletServicer.
func NewWalletService(tx store.Transactor, locker lock.Locker) WalletServicer {
	if locker == nil {
		locker = lock.NewLocal()
	}
	return &walletService{tx: tx, locker: locker}
}

// CreateWallet opens a wallet. Non-admins always open it for themselves.
func (s *walletService) CreateWallet(ctx context.Context, actor models.Actor, in CreateWalletInput) (*models.Wallet, error) {
	if in.Type == "" {
		in.Type = models.WalletTypeCash
	}
	if !in.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be one of Cash, Card, Bank")
	}
	if !money.ValidBalance(in.Balance) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "balance must be a non-negative amount with at most 8 integer and 2 fractional digits")
	}

	ownerID := actor.UserID
	if actor.IsAdmin && in.UserID != "" {
		ownerID = in.UserID
	}

	stores := s.tx.Stores()
	if ownerID != actor.UserID {
		if _, err := stores.Users.GetByID(ctx, ownerID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	wallet := &models.Wallet{
		UserID:  ownerID,
		Type:    in.Type,
		Balance: in.Balance,
	}
	if err := stores.Wallets.Create(ctx, wallet); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return wallet, nil
}

// ListWallets returns the actor's wallets, or every wallet for admins.
func (s *walletService) ListWallets(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Wallet], error) {
	var (
		wallets []models.Wallet
		total   int64
		err     error
	)
	if actor.IsAdmin {
		wallets, total, err = s.tx.Stores().Wallets.GetAll(ctx, page)
	} else {
		wallets, total, err = s.tx.Stores().Wallets.ListByUser(ctx, actor.UserID, page)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pagination.NewPageResponse(wallets, page, total), nil
}

// GetWallet retrieves a wallet visible to the actor.
func (s *walletService) GetWallet(ctx context.Context, actor models.Actor, id string) (*models.Wallet, error) {
	return visibleWallet(ctx, s.tx.Stores().Wallets, actor, id)
}

// UpdateWallet changes a wallet's type, and for admins its balance.
func (s *walletService) UpdateWallet(ctx context.Context, actor models.Actor, id string, upd store.WalletUpdate) (*models.Wallet, error) {
	if upd.Type != nil && !upd.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be one of Cash, Card, Bank")
	}
	if upd.Balance != nil {
		if !actor.IsAdmin {
			return nil, apperrors.WithMessage(apperrors.ErrForbidden, "only administrators can set a wallet balance")
		}
		if !money.ValidBalance(*upd.Balance) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "balance must be a non-negative amount with at most 8 integer and 2 fractional digits")
		}
	}

	if _, err := visibleWallet(ctx, s.tx.Stores().Wallets, actor, id); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, apperrors.ErrWalletBusy
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer release()

	wallet, err := s.tx.Stores().Wallets.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return wallet, nil
}

// DeleteWallet removes a wallet that has no recorded transactions.
func (s *walletService) DeleteWallet(ctx context.Context, actor models.Actor, id string) error {
	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return apperrors.ErrWalletBusy
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer release()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, st store.Stores) error {
		if _, err := visibleWallet(ctx, st.Wallets, actor, id); err != nil {
			return err
		}
		n, err := st.Transactions.CountByWallet(ctx, id)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if n > 0 {
			return apperrors.ErrWalletHasHistory
		}
		if err := st.Wallets.Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperrors.ErrWalletNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	return asAppError(err)
}

// asAppError passes AppErrors through and hides anything else behind INTERNAL_ERROR.
func asAppError(err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// visibleWallet loads a wallet and hides it from actors who may not access it.
func visibleWallet(ctx context.Context, wallets store.WalletStore, actor models.Actor, id string) (*models.Wallet, error) {
	wallet, err := wallets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !actor.CanAccess(wallet.UserID) {
		return nil, apperrors.ErrWalletNotFound
	}
	return wallet, nil
}

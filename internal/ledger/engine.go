package ledger

import (
	"context"
	"errors"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/events"
	"fintrack/internal/lock"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/store"

	"github.com/shopspring/decimal"
)

// Engine implements Operations on top of a Transactor.
type Engine struct {
	tx        store.Transactor
	locker    lock.Locker
	publisher events.Publisher
}

// NewEngine creates an Engine. A nil locker falls back to an in-process one and a
// nil publisher drops events.
func NewEngine(tx store.Transactor, locker lock.Locker, publisher events.Publisher) *Engine {
	if locker == nil {
		locker = lock.NewLocal()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Engine{tx: tx, locker: locker, publisher: publisher}
}

var _ Operations = (*Engine)(nil)

// TransferBetweenOwnWallets implements Operations.
func (e *Engine) TransferBetweenOwnWallets(ctx context.Context, actor models.Actor, req OwnTransferRequest) (*OwnTransferResult, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, e.reject(models.OperationOwnTransfer, actor, err)
	}
	if req.SourceWalletID == req.TargetWalletID {
		return nil, e.reject(models.OperationOwnTransfer, actor, apperrors.ErrSameWalletTransfer)
	}

	var (
		result OwnTransferResult
		txn    *models.Transaction
	)
	err := e.run(ctx, []string{req.SourceWalletID, req.TargetWalletID}, func(ctx context.Context, s store.Stores, markWrite func()) error {
		source, err := loadWallet(ctx, s, req.SourceWalletID)
		if err != nil {
			return err
		}
		target, err := loadWallet(ctx, s, req.TargetWalletID)
		if err != nil {
			return err
		}
		for _, w := range []*models.Wallet{source, target} {
			if !actor.Owns(w.UserID) {
				return apperrors.ErrForbiddenWallet
			}
		}
		if source.IsCash() || target.IsCash() {
			return apperrors.WithMessage(apperrors.ErrForbiddenWallet, "Cash wallets cannot take part in transfers")
		}

		category, err := loadCategory(ctx, s, actor, req.CategoryID)
		if err != nil {
			return err
		}

		delta := req.Amount
		if category.IsIncome() {
			delta = delta.Neg()
		}
		newTarget := target.Balance.Add(delta)
		newSource := source.Balance.Sub(delta)
		if err := checkBalances(newTarget, newSource); err != nil {
			return err
		}

		markWrite()
		if err := setBalance(ctx, s, target.ID, newTarget); err != nil {
			return err
		}
		if err := setBalance(ctx, s, source.ID, newSource); err != nil {
			return err
		}
		txn = &models.Transaction{
			Amount:               req.Amount,
			WalletID:             source.ID,
			CategoryID:           category.ID,
			Operation:            models.OperationOwnTransfer,
			CounterpartyWalletID: &target.ID,
		}
		if err := s.Transactions.Create(ctx, txn); err != nil {
			return err
		}

		result = OwnTransferResult{SourceBalance: newSource, TargetBalance: newTarget, TransactionID: txn.ID}
		return nil
	})
	if err != nil {
		return nil, e.fail(models.OperationOwnTransfer, actor, err)
	}

	e.committed(ctx, actor, txn, map[string]decimal.Decimal{
		req.SourceWalletID: result.SourceBalance,
		req.TargetWalletID: result.TargetBalance,
	})
	return &result, nil
}

// TransferToUser implements Operations.
func (e *Engine) TransferToUser(ctx context.Context, actor models.Actor, req UserTransferRequest) (*UserTransferResult, error) {
	if req.TargetUserID == actor.UserID {
		return nil, e.reject(models.OperationUserTransfer, actor, apperrors.ErrSelfTransfer)
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, e.reject(models.OperationUserTransfer, actor, err)
	}

	recipient, err := e.tx.Stores().Wallets.FirstTransferable(ctx, req.TargetUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, e.reject(models.OperationUserTransfer, actor, apperrors.ErrNoWallet)
		}
		return nil, e.fail(models.OperationUserTransfer, actor, err)
	}

	var (
		result UserTransferResult
		txn    *models.Transaction
		credit decimal.Decimal
	)
	err = e.run(ctx, []string{req.SourceWalletID, recipient.ID}, func(ctx context.Context, s store.Stores, markWrite func()) error {
		target, err := s.Wallets.GetByIDForUpdate(ctx, recipient.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperrors.ErrNoWallet
			}
			return err
		}
		// The recipient wallet may have changed hands or type since it was resolved.
		if target.UserID != req.TargetUserID || target.IsCash() {
			return apperrors.ErrNoWallet
		}

		source, err := loadWallet(ctx, s, req.SourceWalletID)
		if err != nil {
			return err
		}
		if !actor.Owns(source.UserID) {
			return apperrors.ErrForbiddenWallet
		}
		if source.IsCash() {
			return apperrors.WithMessage(apperrors.ErrForbiddenWallet, "Cash wallets cannot take part in transfers")
		}

		category, err := loadCategory(ctx, s, actor, req.CategoryID)
		if err != nil {
			return err
		}
		if category.IsIncome() {
			return apperrors.ErrForbiddenOperation
		}

		newSource := source.Balance.Sub(req.Amount)
		newTarget := target.Balance.Add(req.Amount)
		if err := checkBalances(newSource, newTarget); err != nil {
			return err
		}

		markWrite()
		if err := setBalance(ctx, s, source.ID, newSource); err != nil {
			return err
		}
		if err := setBalance(ctx, s, target.ID, newTarget); err != nil {
			return err
		}
		txn = &models.Transaction{
			Amount:               req.Amount,
			WalletID:             source.ID,
			CategoryID:           category.ID,
			Operation:            models.OperationUserTransfer,
			CounterpartyWalletID: &target.ID,
		}
		if err := s.Transactions.Create(ctx, txn); err != nil {
			return err
		}

		result = UserTransferResult{Balance: newSource, TransactionID: txn.ID}
		credit = newTarget
		return nil
	})
	if err != nil {
		return nil, e.fail(models.OperationUserTransfer, actor, err)
	}

	e.committed(ctx, actor, txn, map[string]decimal.Decimal{
		req.SourceWalletID: result.Balance,
		recipient.ID:       credit,
	})
	return &result, nil
}

// RecordPurchase implements Operations.
func (e *Engine) RecordPurchase(ctx context.Context, actor models.Actor, req PurchaseRequest) (*models.Wallet, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, e.reject(models.OperationPurchase, actor, err)
	}

	var (
		wallet *models.Wallet
		txn    *models.Transaction
	)
	err := e.run(ctx, []string{req.WalletID}, func(ctx context.Context, s store.Stores, markWrite func()) error {
		w, err := loadWallet(ctx, s, req.WalletID)
		if err != nil {
			return err
		}
		if !actor.Owns(w.UserID) {
			return apperrors.ErrForbiddenWallet
		}

		category, err := loadCategory(ctx, s, actor, req.CategoryID)
		if err != nil {
			return err
		}
		if category.IsIncome() {
			return apperrors.ErrForbiddenOperation
		}

		newBalance := w.Balance.Sub(req.Amount)
		if err := checkBalances(newBalance); err != nil {
			return err
		}

		markWrite()
		updated, err := s.Wallets.Update(ctx, w.ID, store.WalletUpdate{Balance: &newBalance})
		if err != nil {
			return err
		}
		txn = &models.Transaction{
			Amount:     req.Amount,
			WalletID:   w.ID,
			CategoryID: category.ID,
			Operation:  models.OperationPurchase,
		}
		if err := s.Transactions.Create(ctx, txn); err != nil {
			return err
		}

		wallet = updated
		return nil
	})
	if err != nil {
		return nil, e.fail(models.OperationPurchase, actor, err)
	}

	e.committed(ctx, actor, txn, map[string]decimal.Decimal{wallet.ID: wallet.Balance})
	return wallet, nil
}

// run locks the wallets, then calls fn inside one database transaction. fn calls
// markWrite right before its first write so a failed rollback can be told apart
// from a rejected precondition.
func (e *Engine) run(ctx context.Context, walletIDs []string, fn func(ctx context.Context, s store.Stores, markWrite func()) error) error {
	release, err := e.locker.Acquire(ctx, walletIDs...)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrWalletBusy, err)
	}
	defer release()

	wrote := false
	err = e.tx.WithinTransaction(ctx, func(ctx context.Context, s store.Stores) error {
		return fn(ctx, s, func() { wrote = true })
	})
	return classify(err, wrote)
}

// classify turns a unit-of-work error into the error returned to callers.
func classify(err error, wrote bool) error {
	if err == nil {
		return nil
	}

	var rbErr *store.RollbackError
	if wrote && errors.As(err, &rbErr) {
		return apperrors.Wrap(apperrors.ErrPartialWrite, err)
	}
	// The server may have applied a commit whose acknowledgement was lost.
	var cErr *store.CommitError
	if errors.As(err, &cErr) {
		return apperrors.Wrap(apperrors.ErrOutcomeUnknown, err)
	}
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrPersistence, err)
}

func loadWallet(ctx context.Context, s store.Stores, id string) (*models.Wallet, error) {
	w, err := s.Wallets.GetByIDForUpdate(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.ErrWalletNotFound
	}
	return w, err
}

// loadCategory hides categories the actor cannot see behind CATEGORY_NOT_FOUND.
func loadCategory(ctx context.Context, s store.Stores, actor models.Actor, id string) (*models.Category, error) {
	c, err := s.Categories.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	if !c.VisibleTo(actor) {
		return nil, apperrors.ErrCategoryNotFound
	}
	return c, nil
}

func setBalance(ctx context.Context, s store.Stores, walletID string, balance decimal.Decimal) error {
	_, err := s.Wallets.Update(ctx, walletID, store.WalletUpdate{Balance: &balance})
	return err
}

func validateAmount(amount decimal.Decimal) error {
	if !money.ValidAmount(amount) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive with at most 2 decimal places and 8 integer digits")
	}
	return nil
}

func checkBalances(balances ...decimal.Decimal) error {
	for _, b := range balances {
		if b.IsNegative() {
			return apperrors.ErrNegativeBalance
		}
	}
	for _, b := range balances {
		if !money.Fits(b) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "resulting balance exceeds the supported range")
		}
	}
	return nil
}

func (e *Engine) reject(op models.Operation, actor models.Actor, err error) error {
	logger.Get().Debugw("Ledger operation rejected", "operation", op, "user_id", actor.UserID, "error", err)
	return err
}

func (e *Engine) fail(op models.Operation, actor models.Actor, err error) error {
	err = classify(err, false)
	appErr, _ := apperrors.As(err)
	if appErr.StatusCode >= 500 {
		logger.Get().Errorw("Ledger operation failed", "operation", op, "user_id", actor.UserID, "code", appErr.Code, "error", appErr.Internal)
	} else {
		logger.Get().Debugw("Ledger operation rejected", "operation", op, "user_id", actor.UserID, "code", appErr.Code)
	}
	return appErr
}

// committed logs the movement and publishes it. Publishing is best effort.
func (e *Engine) committed(ctx context.Context, actor models.Actor, txn *models.Transaction, balances map[string]decimal.Decimal) {
	logger.Get().Infow("Ledger operation committed",
		"operation", txn.Operation,
		"transaction_id", txn.ID,
		"user_id", actor.UserID,
		"wallet_id", txn.WalletID,
		"amount", txn.Amount.String(),
	)

	evt := events.NewTransactionRecorded(actor.UserID, txn, balances)
	if err := e.publisher.PublishTransactionRecorded(context.WithoutCancel(ctx), evt); err != nil {
		logger.Get().Warnw("Failed to publish ledger event", "transaction_id", txn.ID, "error", err)
	}
}

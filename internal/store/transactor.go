package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Stores groups the entity stores bound to one database handle.
type Stores struct {
	Users        UserStore
	Wallets      WalletStore
	Categories   CategoryStore
	Transactions TransactionStore
	Budgets      BudgetStore
	Goals        GoalStore
	Audit        AuditStore
}

// NewStores binds every entity store to db.
func NewStores(db *gorm.DB) Stores {
	return Stores{
		Users:        NewUserStore(db),
		Wallets:      NewWalletStore(db),
		Categories:   NewCategoryStore(db),
		Transactions: NewTransactionStore(db),
		Budgets:      NewBudgetStore(db),
		Goals:        NewGoalStore(db),
		Audit:        NewAuditStore(db),
	}
}

// Transactor runs units of work.
type Transactor interface {
	// Stores returns stores that are not bound to any transaction.
	Stores() Stores
	// WithinTransaction calls fn with stores bound to a fresh transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

// RollbackError reports that a failed unit of work could not be rolled back,
// so some of its writes may have been persisted.
type RollbackError struct {
	Err error
}

func (e *RollbackError) Error() string { return "rollback failed: " + e.Err.Error() }

func (e *RollbackError) Unwrap() error { return e.Err }

// CommitError reports that the final commit returned an error. When the
// connection dropped during COMMIT the server may still have applied it, so
// the outcome is unknown to the caller.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string { return "commit failed: " + e.Err.Error() }

func (e *CommitError) Unwrap() error { return e.Err }

type gormTransactor struct {
	db     *gorm.DB
	stores Stores
}

// NewTransactor creates a Transactor over db.
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db, stores: NewStores(db)}
}

func (t *gormTransactor) Stores() Stores { return t.stores }

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, s Stores) error) (err error) {
	tx := t.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, &RollbackError{Err: rbErr})
		}
	}()

	if err = fn(ctx, NewStores(tx)); err != nil {
		return err
	}

	if cErr := tx.Commit().Error; cErr != nil {
		committed = true
		return &CommitError{Err: cErr}
	}
	committed = true
	return nil
}

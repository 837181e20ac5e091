// Package ledger moves money between wallets. Every operation validates its
// preconditions, computes the new balances, and persists the balance updates and
// exactly one Transaction record as a single unit of work.
package ledger

import (
	"context"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

// Operations is the money-moving API exposed to handlers.
type Operations interface {
	// TransferBetweenOwnWallets moves amount between two non-Cash wallets of the actor.
	// An Income category reverses the direction: the target pays the source.
	TransferBetweenOwnWallets(ctx context.Context, actor models.Actor, req OwnTransferRequest) (*OwnTransferResult, error)
	// TransferToUser moves amount from the actor's wallet into the recipient's oldest non-Cash wallet.
	TransferToUser(ctx context.Context, actor models.Actor, req UserTransferRequest) (*UserTransferResult, error)
	// RecordPurchase spends amount from one of the actor's wallets, Cash included.
	RecordPurchase(ctx context.Context, actor models.Actor, req PurchaseRequest) (*models.Wallet, error)
}

// OwnTransferRequest moves money between two wallets owned by the same user.
type OwnTransferRequest struct {
	SourceWalletID string
	TargetWalletID string
	Amount         decimal.Decimal
	CategoryID     string
}

// OwnTransferResult carries both balances after the transfer.
type OwnTransferResult struct {
	SourceBalance decimal.Decimal `json:"source_balance" swaggertype:"string"`
	TargetBalance decimal.Decimal `json:"target_balance" swaggertype:"string"`
	TransactionID string          `json:"transaction_id"`
}

// UserTransferRequest sends money to another user.
type UserTransferRequest struct {
	TargetUserID   string
	SourceWalletID string
	Amount         decimal.Decimal
	CategoryID     string
}

// UserTransferResult carries the sender's balance after the transfer.
type UserTransferResult struct {
	Balance       decimal.Decimal `json:"balance" swaggertype:"string"`
	TransactionID string          `json:"transaction_id"`
}

// PurchaseRequest spends money from a wallet.
type PurchaseRequest struct {
	WalletID   string
	Amount     decimal.Decimal
	CategoryID string
}

// Package events announces committed ledger movements to other systems.
// Publishing happens after the database commit; a failed publish is logged by the
// caller and never undoes the movement.
package events

import (
	"context"
	"encoding/json"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

// RoutingKeyTransactionRecorded is the routing key of TransactionRecorded messages.
const RoutingKeyTransactionRecorded = "ledger.transaction.recorded"

// TransactionRecorded describes one committed ledger record and the balances it produced.
type TransactionRecorded struct {
	TransactionID        string            `json:"transaction_id"`
	Operation            models.Operation  `json:"operation"`
	ActorID              string            `json:"actor_id"`
	WalletID             string            `json:"wallet_id"`
	CounterpartyWalletID *string           `json:"counterparty_wallet_id,omitempty"`
	CategoryID           string            `json:"category_id"`
	Amount               decimal.Decimal   `json:"amount"`
	Balances             map[string]string `json:"balances"`
	OccurredAt           time.Time         `json:"occurred_at"`
}

// NewTransactionRecorded builds the event for txn. balances maps wallet id to its new balance.
func NewTransactionRecorded(actorID string, txn *models.Transaction, balances map[string]decimal.Decimal) TransactionRecorded {
	b := make(map[string]string, len(balances))
	for id, v := range balances {
		b[id] = v.StringFixed(2)
	}
	return TransactionRecorded{
		TransactionID:        txn.ID,
		Operation:            txn.Operation,
		ActorID:              actorID,
		WalletID:             txn.WalletID,
		CounterpartyWalletID: txn.CounterpartyWalletID,
		CategoryID:           txn.CategoryID,
		Amount:               txn.Amount,
		Balances:             b,
		OccurredAt:           txn.CreatedAt.UTC(),
	}
}

// ToJSON serialises the event body.
func (e TransactionRecorded) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher sends ledger events.
type Publisher interface {
	PublishTransactionRecorded(ctx context.Context, evt TransactionRecorded) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishTransactionRecorded(context.Context, TransactionRecorded) error {
	return nil
}

func (NopPublisher) Close() error { return nil }

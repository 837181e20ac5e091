package models

import (
	"time"

	"fintrack/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Operation names the ledger operation that produced a transaction
type Operation string

const (
	OperationPurchase     Operation = "purchase"
	OperationOwnTransfer  Operation = "own_transfer"
	OperationUserTransfer Operation = "user_transfer"
)

// Transaction is an immutable ledger record. It is only ever written together
// with the balance change it describes.
type Transaction struct {
	ID                   string          `gorm:"type:uuid;primaryKey" json:"id"`
	Amount               decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount" swaggertype:"string"`
	WalletID             string          `gorm:"type:uuid;not null;index" json:"wallet_id"`
	CategoryID           string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Operation            Operation       `gorm:"not null" json:"operation"`
	CounterpartyWalletID *string         `gorm:"type:uuid" json:"counterparty_wallet_id,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New()
	}
	return nil
}

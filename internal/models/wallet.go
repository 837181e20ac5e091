package models

import "github.com/shopspring/decimal"

// WalletType represents the kind of wallet
type WalletType string

const (
	WalletTypeCash WalletType = "Cash"
	WalletTypeCard WalletType = "Card"
	WalletTypeBank WalletType = "Bank"
)

// Valid reports whether t is a known wallet type.
func (t WalletType) Valid() bool {
	switch t {
	case WalletTypeCash, WalletTypeCard, WalletTypeBank:
		return true
	}
	return false
}

// Wallet holds a balance owned by a single user.
// Cash wallets can only be spent from with purchases; they never take part in transfers.
type Wallet struct {
	Base
	UserID  string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type    WalletType      `gorm:"not null;default:'Cash'" json:"type"`
	Balance decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"balance" swaggertype:"string"`
}

// IsCash reports whether the wallet is excluded from transfers.
func (w *Wallet) IsCash() bool {
	return w.Type == WalletTypeCash
}

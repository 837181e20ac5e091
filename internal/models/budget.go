package models

import "github.com/shopspring/decimal"

// Budget caps spending in a category
type Budget struct {
	Base
	UserID     string          `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID string          `gorm:"type:uuid;not null" json:"category_id"`
	Name       string          `gorm:"size:250" json:"name"`
	Amount     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount" swaggertype:"string"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

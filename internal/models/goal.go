package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal tracks savings toward a target cost
type Goal struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string          `gorm:"size:250" json:"name"`
	Cost         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"cost" swaggertype:"string"`
	Deadline     *time.Time      `gorm:"type:date" json:"deadline,omitempty"`
	ActualAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"actual_amount" swaggertype:"string"`
}

// Progress returns the saved share of the cost in the [0, 1] range.
func (g *Goal) Progress() float64 {
	if !g.Cost.IsPositive() {
		return 0
	}
	p, _ := g.ActualAmount.Div(g.Cost).Float64()
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

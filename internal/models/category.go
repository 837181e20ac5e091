package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "Income"
	CategoryTypeExpense CategoryType = "Expense"
)

// Valid reports whether t is a known category type.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category classifies transactions and budgets. Public categories are shared by
// every user; private ones are visible to their creator only.
type Category struct {
	Base
	Name     string       `gorm:"size:250;uniqueIndex;not null" json:"name"`
	Type     CategoryType `gorm:"not null;default:'Expense'" json:"type"`
	IsPublic bool         `gorm:"not null;default:false" json:"is_public"`
	UserID   *string      `gorm:"type:uuid;index" json:"user_id,omitempty"`
}

// VisibleTo reports whether the category may be used by the actor.
func (c *Category) VisibleTo(actor Actor) bool {
	if c.IsPublic || actor.IsAdmin {
		return true
	}
	return c.UserID != nil && *c.UserID == actor.UserID
}

// IsIncome reports whether money flows toward the wallet under this category.
func (c *Category) IsIncome() bool {
	return c.Type == CategoryTypeIncome
}

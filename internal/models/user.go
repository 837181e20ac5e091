package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Login       string     `gorm:"size:255;uniqueIndex;not null" json:"login"`
	Password    string     `gorm:"size:255;not null" json:"-"`
	FirstName   string     `gorm:"size:50" json:"first_name"`
	LastName    string     `gorm:"size:50" json:"last_name"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Passport    *string    `gorm:"size:11;uniqueIndex" json:"passport,omitempty"`
	IsAdmin     bool       `gorm:"not null;default:false" json:"is_admin"`
	Wallets     []Wallet   `gorm:"foreignKey:UserID" json:"wallets,omitempty"`
}

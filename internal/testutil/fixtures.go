package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique login.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithLogin(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithLogin creates a user with the given login.
func CreateTestUserWithLogin(t *testing.T, db *gorm.DB, login string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Login:     login,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  "User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAdmin creates a user with the admin flag set.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	if err := db.Model(user).Update("is_admin", true).Error; err != nil {
		t.Fatalf("failed to promote test admin: %v", err)
	}
	user.IsAdmin = true
	return user
}

// CreateTestWallet creates a wallet of the given type with the given balance.
func CreateTestWallet(t *testing.T, db *gorm.DB, userID string, walletType models.WalletType, balance string) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{
		UserID:  userID,
		Type:    walletType,
		Balance: decimal.RequireFromString(balance),
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}
	return wallet
}

// CreateTestCategory creates a public category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     fmt.Sprintf("Test Category %d", nextID()),
		Type:     categoryType,
		IsPublic: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestPrivateCategory creates a category visible only to its creator.
func CreateTestPrivateCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:   fmt.Sprintf("Private Category %d", nextID()),
		Type:   categoryType,
		UserID: &userID,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction records a purchase against the wallet without touching its balance.
func CreateTestTransaction(t *testing.T, db *gorm.DB, walletID, categoryID, amount string) *models.Transaction {
	t.Helper()

	txn := &models.Transaction{
		Amount:     decimal.RequireFromString(amount),
		WalletID:   walletID,
		CategoryID: categoryID,
		Operation:  models.OperationPurchase,
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return txn
}

// CreateTestBudget creates a budget for the given category.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Name:       fmt.Sprintf("Test Budget %d", nextID()),
		Amount:     decimal.NewFromInt(100),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestGoal creates a savings goal with nothing saved yet.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID: userID,
		Name:   fmt.Sprintf("Test Goal %d", nextID()),
		Cost:   decimal.NewFromInt(1000),
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CountRows returns the number of rows in the model's table.
func CountRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}

// ReloadWallet reads the wallet's current state from the database.
func ReloadWallet(t *testing.T, db *gorm.DB, id string) *models.Wallet {
	t.Helper()

	var w models.Wallet
	if err := db.First(&w, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload wallet %s: %v", id, err)
	}
	return &w
}

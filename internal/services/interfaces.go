package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/store"
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Login       string
	Password    string
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Passport    *string
}

// ProfileUpdate lists the profile fields a user may change. Password is plain text.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	DateOfBirth *time.Time
	Passport    *string
	Password    *string
}

// CreateUserInput carries an administrator's request for a new user.
type CreateUserInput struct {
	RegisterInput
	IsAdmin bool
}

// AdminUserUpdate lists the fields an administrator may change on any user.
type AdminUserUpdate struct {
	ProfileUpdate
	IsAdmin *bool
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, login, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*models.User, error)
	ListUsers(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error)
	UpdateUser(ctx context.Context, id string, upd AdminUserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, actor models.Actor, id string) error
}

// CreateWalletInput carries the fields of a new wallet. UserID is honoured for admins only.
type CreateWalletInput struct {
	UserID  string
	Type    models.WalletType
	Balance decimal.Decimal
}

// WalletServicer defines the contract for wallet-related business logic.
type WalletServicer interface {
	CreateWallet(ctx context.Context, actor models.Actor, in CreateWalletInput) (*models.Wallet, error)
	ListWallets(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Wallet], error)
	GetWallet(ctx context.Context, actor models.Actor, id string) (*models.Wallet, error)
	UpdateWallet(ctx context.Context, actor models.Actor, id string, upd store.WalletUpdate) (*models.Wallet, error)
	DeleteWallet(ctx context.Context, actor models.Actor, id string) error
}

// CreateCategoryInput carries the fields of a new category.
type CreateCategoryInput struct {
	Name     string
	Type     models.CategoryType
	IsPublic bool
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, actor models.Actor, in CreateCategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategory(ctx context.Context, actor models.Actor, id string) (*models.Category, error)
	UpdateCategory(ctx context.Context, actor models.Actor, id string, upd store.CategoryUpdate) (*models.Category, error)
	DeleteCategory(ctx context.Context, actor models.Actor, id string) error
}

// TransactionServicer exposes the read side of the ledger. Transactions are
// only ever written by the ledger engine.
type TransactionServicer interface {
	ListTransactions(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransaction(ctx context.Context, actor models.Actor, id string) (*models.Transaction, error)
	ListWalletTransactions(ctx context.Context, actor models.Actor, walletID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

// CreateBudgetInput carries the fields of a new budget.
type CreateBudgetInput struct {
	UserID     string
	CategoryID string
	Name       string
	Amount     decimal.Decimal
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(ctx context.Context, actor models.Actor, in CreateBudgetInput) (*models.Budget, error)
	ListBudgets(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudget(ctx context.Context, actor models.Actor, id string) (*models.Budget, error)
	UpdateBudget(ctx context.Context, actor models.Actor, id string, upd store.BudgetUpdate) (*models.Budget, error)
	DeleteBudget(ctx context.Context, actor models.Actor, id string) error
}

// CreateGoalInput carries the fields of a new goal.
type CreateGoalInput struct {
	UserID       string
	Name         string
	Cost         decimal.Decimal
	Deadline     *time.Time
	ActualAmount decimal.Decimal
}

// GoalServicer defines the contract for goal-related business logic.
type GoalServicer interface {
	CreateGoal(ctx context.Context, actor models.Actor, in CreateGoalInput) (*models.Goal, error)
	ListGoals(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	GetGoal(ctx context.Context, actor models.Actor, id string) (*models.Goal, error)
	UpdateGoal(ctx context.Context, actor models.Actor, id string, upd store.GoalUpdate) (*models.Goal, error)
	DeleteGoal(ctx context.Context, actor models.Actor, id string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	ListUserLogs(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}

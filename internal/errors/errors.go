// Package errors provides custom error types for the fintrack API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import (
	stderrors "errors"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so that a
// wrapped or re-messaged error still matches its sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// As extracts the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid login or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrConflict       = &AppError{Code: "CONFLICT", Message: "Record already exists", StatusCode: http.StatusConflict}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateLogin = &AppError{Code: "DUPLICATE_LOGIN", Message: "A user with this login already exists", StatusCode: http.StatusConflict}
	ErrUserHasHistory = &AppError{Code: "USER_HAS_HISTORY", Message: "User's wallets have recorded transactions", StatusCode: http.StatusConflict}
)

// Wallet errors.
var (
	ErrWalletNotFound   = &AppError{Code: "WALLET_NOT_FOUND", Message: "Wallet not found", StatusCode: http.StatusNotFound}
	ErrNoWallet         = &AppError{Code: "NO_WALLET", Message: "Recipient has no wallet that can receive transfers", StatusCode: http.StatusNotFound}
	ErrForbiddenWallet  = &AppError{Code: "FORBIDDEN_WALLET", Message: "Wallet cannot be used for this operation", StatusCode: http.StatusForbidden}
	ErrWalletBusy       = &AppError{Code: "WALLET_BUSY", Message: "Wallet is busy, retry later", StatusCode: http.StatusConflict}
	ErrWalletHasHistory = &AppError{Code: "WALLET_HAS_HISTORY", Message: "Wallet has recorded transactions", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse    = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing transactions", StatusCode: http.StatusConflict}
)

// Ledger errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrSameWalletTransfer  = &AppError{Code: "SAME_WALLET_TRANSFER", Message: "Cannot transfer to the same wallet", StatusCode: http.StatusBadRequest}
	ErrSelfTransfer        = &AppError{Code: "SELF_TRANSFER", Message: "Cannot transfer money to yourself", StatusCode: http.StatusForbidden}
	ErrForbiddenOperation  = &AppError{Code: "FORBIDDEN_OPERATION", Message: "Requesting money is not allowed", StatusCode: http.StatusForbidden}
	ErrNegativeBalance     = &AppError{Code: "NEGATIVE_BALANCE", Message: "Balance cannot become negative", StatusCode: http.StatusConflict}
	ErrPersistence         = &AppError{Code: "PERSISTENCE_ERROR", Message: "Failed to persist the operation", StatusCode: http.StatusInternalServerError}
	ErrPartialWrite        = &AppError{Code: "PARTIAL_WRITE", Message: "Operation was partially persisted", StatusCode: http.StatusInternalServerError}
	ErrOutcomeUnknown      = &AppError{Code: "OUTCOME_UNKNOWN", Message: "Operation outcome is unknown, check the wallet history before retrying", StatusCode: http.StatusInternalServerError}
)

// Budget and goal errors.
var (
	ErrBudgetNotFound = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrGoalNotFound   = &AppError{Code: "GOAL_NOT_FOUND", Message: "Goal not found", StatusCode: http.StatusNotFound}
)

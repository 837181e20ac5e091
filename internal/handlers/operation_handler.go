package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/ledger"
	"fintrack/internal/services"
)

// OperationHandler exposes the money-moving operations. Amounts are validated
// by the ledger so its precondition order holds for HTTP callers too.
type OperationHandler struct {
	ledger       ledger.Operations
	auditService services.AuditServicer
}

// NewOperationHandler creates a new OperationHandler.
func NewOperationHandler(ops ledger.Operations, auditService services.AuditServicer) *OperationHandler {
	return &OperationHandler{ledger: ops, auditService: auditService}
}

// TransferBetweenWalletsRequest represents a transfer between two of the caller's wallets.
type TransferBetweenWalletsRequest struct {
	SourceWalletID string          `json:"source_wallet_id" binding:"required,uuid"`
	TargetWalletID string          `json:"target_wallet_id" binding:"required,uuid"`
	Amount         decimal.Decimal `json:"amount" swaggertype:"string"`
	CategoryID     string          `json:"category_id" binding:"required,uuid"`
}

// TransferToUserRequest represents a transfer to another user.
type TransferToUserRequest struct {
	TargetUserID   string          `json:"target_user_id" binding:"required,uuid"`
	SourceWalletID string          `json:"source_wallet_id" binding:"required,uuid"`
	Amount         decimal.Decimal `json:"amount" swaggertype:"string"`
	CategoryID     string          `json:"category_id" binding:"required,uuid"`
}

// PurchaseRequest represents spending from one of the caller's wallets.
type PurchaseRequest struct {
	WalletID   string          `json:"wallet_id" binding:"required,uuid"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"string"`
	CategoryID string          `json:"category_id" binding:"required,uuid"`
}

// TransferBetweenWallets moves money between the caller's own wallets
// @Summary     Transfer between own wallets
// @Description Move money between two non-Cash wallets of the caller. An Income category reverses the direction.
// @Tags        operations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransferBetweenWalletsRequest true "Transfer details"
// @Success     200 {object} ledger.OwnTransferResult "Balances after the transfer"
// @Failure     400 {object} ErrorResponse "Invalid input or same wallet"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Wallet not usable for transfers"
// @Failure     404 {object} ErrorResponse "Wallet or category not found"
// @Failure     409 {object} ErrorResponse "Balance would become negative or wallet busy"
// @Failure     500 {object} ErrorResponse "Persistence failure"
// @Router      /operations/transfer-between-wallets [post]
func (h *OperationHandler) TransferBetweenWallets(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransferBetweenWalletsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.ledger.TransferBetweenOwnWallets(c.Request.Context(), actor, ledger.OwnTransferRequest{
		SourceWalletID: req.SourceWalletID,
		TargetWalletID: req.TargetWalletID,
		Amount:         req.Amount,
		CategoryID:     req.CategoryID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor.UserID, services.AuditActionOwnTransfer, "transaction", result.TransactionID, c.ClientIP(),
		map[string]interface{}{
			"source_wallet_id": req.SourceWalletID,
			"target_wallet_id": req.TargetWalletID,
			"amount":           req.Amount.StringFixed(2),
			"category_id":      req.CategoryID,
		})

	c.JSON(http.StatusOK, result)
}

// TransferToUser sends money to another user
// @Summary     Transfer to another user
// @Description Move money from the caller's non-Cash wallet into the recipient's oldest non-Cash wallet
// @Tags        operations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransferToUserRequest true "Transfer details"
// @Success     200 {object} ledger.UserTransferResult "Sender balance after the transfer"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Self transfer, Income category or unusable wallet"
// @Failure     404 {object} ErrorResponse "Wallet, category or recipient wallet not found"
// @Failure     409 {object} ErrorResponse "Balance would become negative or wallet busy"
// @Failure     500 {object} ErrorResponse "Persistence failure"
// @Router      /operations/transfer-to-user [post]
func (h *OperationHandler) TransferToUser(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransferToUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.ledger.TransferToUser(c.Request.Context(), actor, ledger.UserTransferRequest{
		TargetUserID:   req.TargetUserID,
		SourceWalletID: req.SourceWalletID,
		Amount:         req.Amount,
		CategoryID:     req.CategoryID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor.UserID, services.AuditActionUserTransfer, "transaction", result.TransactionID, c.ClientIP(),
		map[string]interface{}{
			"target_user_id":   req.TargetUserID,
			"source_wallet_id": req.SourceWalletID,
			"amount":           req.Amount.StringFixed(2),
			"category_id":      req.CategoryID,
		})

	c.JSON(http.StatusOK, result)
}

// Purchase records spending from a wallet
// @Summary     Record a purchase
// @Description Spend money from one of the caller's wallets, Cash included, under an Expense category
// @Tags        operations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PurchaseRequest true "Purchase details"
// @Success     200 {object} models.Wallet "Wallet after the purchase"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Income category or foreign wallet"
// @Failure     404 {object} ErrorResponse "Wallet or category not found"
// @Failure     409 {object} ErrorResponse "Balance would become negative or wallet busy"
// @Failure     500 {object} ErrorResponse "Persistence failure"
// @Router      /operations/purchase [post]
func (h *OperationHandler) Purchase(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	wallet, err := h.ledger.RecordPurchase(c.Request.Context(), actor, ledger.PurchaseRequest{
		WalletID:   req.WalletID,
		Amount:     req.Amount,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor.UserID, services.AuditActionPurchase, "wallet", wallet.ID, c.ClientIP(),
		map[string]interface{}{
			"amount":      req.Amount.StringFixed(2),
			"category_id": req.CategoryID,
		})

	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

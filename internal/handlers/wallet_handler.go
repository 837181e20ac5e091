package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

// WalletHandler handles wallet-related requests.
type WalletHandler struct {
	walletService services.WalletServicer
	auditService  services.AuditServicer
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService services.WalletServicer, auditService services.AuditServicer) *WalletHandler {
	return &WalletHandler{walletService: walletService, auditService: auditService}
}

// CreateWalletRequest represents the request payload for opening a wallet.
// UserID is only honoured for administrators.
type CreateWalletRequest struct {
	UserID  string          `json:"user_id" binding:"omitempty,uuid"`
	Type    string          `json:"type" binding:"omitempty,wallet_type"`
	Balance decimal.Decimal `json:"balance" swaggertype:"string" binding:"money_nonneg"`
}

// UpdateWalletRequest represents the request payload for updating a wallet.
// Balance may only be set by administrators.
type UpdateWalletRequest struct {
	Type    *string          `json:"type" binding:"omitempty,wallet_type"`
	Balance *decimal.Decimal `json:"balance" swaggertype:"string" binding:"omitempty,money_nonneg"`
}

// CreateWallet handles the creation of a new wallet
// @Summary     Create a wallet
// @Description Open a Cash, Card or Bank wallet. Administrators may open it for another user.
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateWalletRequest true "Wallet details"
// @Success     201 {object} models.Wallet "Wallet created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Owner not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets [post]
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	wallet, err := h.walletService.CreateWallet(c.Request.Context(), actor, services.CreateWalletInput{
		UserID:  req.UserID,
		Type:    models.WalletType(req.Type),
		Balance: req.Balance,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"wallet": wallet})
}

// GetWallets handles the retrieval of wallets
// @Summary     List wallets
// @Description Get a paginated list of the caller's wallets; administrators see every wallet
// @Tags        wallets
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Wallet] "Paginated wallets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets [get]
func (h *WalletHandler) GetWallets(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.walletService.ListWallets(c.Request.Context(), actor, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetWallet handles the retrieval of a single wallet
// @Summary     Get wallet by ID
// @Tags        wallets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Wallet ID"
// @Success     200 {object} models.Wallet "Wallet"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets/{id} [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), actor, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

// UpdateWallet handles wallet updates
// @Summary     Update a wallet
// @Description Change a wallet's type. Administrators may also set its balance.
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Wallet ID"
// @Param       request body UpdateWalletRequest true "Fields to change"
// @Success     200 {object} models.Wallet "Updated wallet"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Balance changes require an administrator"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     409 {object} ErrorResponse "Wallet busy"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets/{id} [patch]
func (h *WalletHandler) UpdateWallet(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var upd store.WalletUpdate
	if req.Type != nil {
		t := models.WalletType(*req.Type)
		upd.Type = &t
	}
	upd.Balance = req.Balance

	wallet, err := h.walletService.UpdateWallet(c.Request.Context(), actor, id, upd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if req.Balance != nil {
		h.auditService.Log(c.Request.Context(), actor.UserID, services.AuditActionUpdateBalance, "wallet", id, c.ClientIP(),
			map[string]interface{}{"balance": wallet.Balance.StringFixed(2)})
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

// DeleteWallet handles wallet deletion
// @Summary     Delete a wallet
// @Description Delete a wallet that has no recorded transactions
// @Tags        wallets
// @Security    BearerAuth
// @Param       id path string true "Wallet ID"
// @Success     204 "Wallet deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     409 {object} ErrorResponse "Wallet has transactions"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets/{id} [delete]
func (h *WalletHandler) DeleteWallet(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.walletService.DeleteWallet(c.Request.Context(), actor, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor.UserID, services.AuditActionDeleteWallet, "wallet", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

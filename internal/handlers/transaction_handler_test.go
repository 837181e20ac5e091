package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

type mockTransactionService struct {
	listTransactionsFn       func(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	getTransactionFn         func(ctx context.Context, actor models.Actor, id string) (*models.Transaction, error)
	listWalletTransactionsFn func(ctx context.Context, actor models.Actor, walletID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

func (m *mockTransactionService) ListTransactions(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(ctx, actor, page)
	}
	return pagination.NewPageResponse([]models.Transaction{}, page, 0), nil
}

func (m *mockTransactionService) GetTransaction(ctx context.Context, actor models.Actor, id string) (*models.Transaction, error) {
	if m.getTransactionFn != nil {
		return m.getTransactionFn(ctx, actor, id)
	}
	return &models.Transaction{ID: id}, nil
}

func (m *mockTransactionService) ListWalletTransactions(ctx context.Context, actor models.Actor, walletID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if m.listWalletTransactionsFn != nil {
		return m.listWalletTransactionsFn(ctx, actor, walletID, page)
	}
	return pagination.NewPageResponse([]models.Transaction{}, page, 0), nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	r.Use(injectUserID(testUserID))
	r.GET("/transactions", handler.GetTransactions)
	r.GET("/transactions/:id", handler.GetTransaction)
	r.GET("/wallets/:id/transactions", handler.GetWalletTransactions)
	return r
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("returns a page", func(t *testing.T) {
		svc := &mockTransactionService{
			listTransactionsFn: func(_ context.Context, _ models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
				txns := []models.Transaction{
					{ID: "t1", Amount: decimal.NewFromInt(10), Operation: models.OperationPurchase},
					{ID: "t2", Amount: decimal.NewFromInt(20), Operation: models.OperationOwnTransfer},
				}
				return pagination.NewPageResponse(txns, page, 2), nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "GET", "/transactions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 transactions, got %d", len(data))
		}
		if result["page"] != float64(1) {
			t.Errorf("expected page 1, got %v", result["page"])
		}
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "GET", "/transactions/"+testWallet, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		txn := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if txn["id"] != testWallet {
			t.Errorf("expected id %s, got %v", testWallet, txn["id"])
		}
	})

	t.Run("returns 404 when not visible", func(t *testing.T) {
		svc := &mockTransactionService{
			getTransactionFn: func(context.Context, models.Actor, string) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "GET", "/transactions/"+testWallet, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "GET", "/transactions/123", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetWalletTransactions(t *testing.T) {
	t.Run("scopes to the wallet", func(t *testing.T) {
		var gotWallet string
		svc := &mockTransactionService{
			listWalletTransactionsFn: func(_ context.Context, _ models.Actor, walletID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
				gotWallet = walletID
				return pagination.NewPageResponse([]models.Transaction{}, page, 0), nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "GET", "/wallets/"+testWallet+"/transactions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotWallet != testWallet {
			t.Errorf("expected wallet %s, got %s", testWallet, gotWallet)
		}
	})

	t.Run("returns 404 for foreign wallet", func(t *testing.T) {
		svc := &mockTransactionService{
			listWalletTransactionsFn: func(context.Context, models.Actor, string, pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
				return nil, apperrors.ErrWalletNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "GET", "/wallets/"+testWallet2+"/transactions", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

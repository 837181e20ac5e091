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
	"fintrack/internal/store"
)

type mockWalletService struct {
	createWalletFn func(ctx context.Context, actor models.Actor, in services.CreateWalletInput) (*models.Wallet, error)
	listWalletsFn  func(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Wallet], error)
	getWalletFn    func(ctx context.Context, actor models.Actor, id string) (*models.Wallet, error)
	updateWalletFn func(ctx context.Context, actor models.Actor, id string, upd store.WalletUpdate) (*models.Wallet, error)
	deleteWalletFn func(ctx context.Context, actor models.Actor, id string) error
}

func (m *mockWalletService) CreateWallet(ctx context.Context, actor models.Actor, in services.CreateWalletInput) (*models.Wallet, error) {
	if m.createWalletFn != nil {
		return m.createWalletFn(ctx, actor, in)
	}
	return &models.Wallet{Base: models.Base{ID: testWallet}, UserID: actor.UserID, Type: in.Type, Balance: in.Balance}, nil
}

func (m *mockWalletService) ListWallets(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Wallet], error) {
	if m.listWalletsFn != nil {
		return m.listWalletsFn(ctx, actor, page)
	}
	return pagination.NewPageResponse([]models.Wallet{}, page, 0), nil
}

func (m *mockWalletService) GetWallet(ctx context.Context, actor models.Actor, id string) (*models.Wallet, error) {
	if m.getWalletFn != nil {
		return m.getWalletFn(ctx, actor, id)
	}
	return &models.Wallet{Base: models.Base{ID: id}, UserID: actor.UserID}, nil
}

func (m *mockWalletService) UpdateWallet(ctx context.Context, actor models.Actor, id string, upd store.WalletUpdate) (*models.Wallet, error) {
	if m.updateWalletFn != nil {
		return m.updateWalletFn(ctx, actor, id, upd)
	}
	w := &models.Wallet{Base: models.Base{ID: id}, UserID: actor.UserID}
	if upd.Balance != nil {
		w.Balance = *upd.Balance
	}
	return w, nil
}

func (m *mockWalletService) DeleteWallet(ctx context.Context, actor models.Actor, id string) error {
	if m.deleteWalletFn != nil {
		return m.deleteWalletFn(ctx, actor, id)
	}
	return nil
}

var _ services.WalletServicer = (*mockWalletService)(nil)

func setupWalletRouter(handler *WalletHandler, isAdmin bool) *gin.Engine {
	r := gin.New()
	r.Use(injectUser(testUserID, isAdmin))
	r.POST("/wallets", handler.CreateWallet)
	r.GET("/wallets", handler.GetWallets)
	r.GET("/wallets/:id", handler.GetWallet)
	r.PATCH("/wallets/:id", handler.UpdateWallet)
	r.DELETE("/wallets/:id", handler.DeleteWallet)
	return r
}

func TestWalletHandler_CreateWallet(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.CreateWalletInput
		svc := &mockWalletService{
			createWalletFn: func(_ context.Context, actor models.Actor, in services.CreateWalletInput) (*models.Wallet, error) {
				got = in
				return &models.Wallet{Base: models.Base{ID: testWallet}, UserID: actor.UserID, Type: in.Type, Balance: in.Balance}, nil
			},
		}
		r := setupWalletRouter(NewWalletHandler(svc, &mockAuditService{}), false)

		rec := doRequest(r, "POST", "/wallets", `{"type":"Card","balance":"100.50"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Type != models.WalletTypeCard {
			t.Errorf("expected type Card, got %s", got.Type)
		}
		if !got.Balance.Equal(decimal.RequireFromString("100.50")) {
			t.Errorf("expected balance 100.50, got %s", got.Balance)
		}
		wallet := parseJSON(t, rec)["wallet"].(map[string]interface{})
		if wallet["id"] != testWallet {
			t.Errorf("expected id %s, got %v", testWallet, wallet["id"])
		}
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		r := setupWalletRouter(NewWalletHandler(&mockWalletService{}, &mockAuditService{}), false)

		rec := doRequest(r, "POST", "/wallets", `{"type":"Crypto","balance":"1"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on negative balance", func(t *testing.T) {
		r := setupWalletRouter(NewWalletHandler(&mockWalletService{}, &mockAuditService{}), false)

		rec := doRequest(r, "POST", "/wallets", `{"type":"Bank","balance":"-1"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on three fractional digits", func(t *testing.T) {
		r := setupWalletRouter(NewWalletHandler(&mockWalletService{}, &mockAuditService{}), false)

		rec := doRequest(r, "POST", "/wallets", `{"type":"Bank","balance":"1.005"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestWalletHandler_GetWallet(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupWalletRouter(NewWalletHandler(&mockWalletService{}, &mockAuditService{}), false)

		rec := doRequest(r, "GET", "/wallets/"+testWallet, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		r := setupWalletRouter(NewWalletHandler(&mockWalletService{}, &mockAuditService{}), false)

		rec := doRequest(r, "GET", "/wallets/not-a-uuid", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when hidden", func(t *testing.T) {
		svc := &mockWalletService{
			getWalletFn: func(context.Context, models.Actor, string) (*models.Wallet, error) {
				return nil, apperrors.ErrWalletNotFound
			},
		}
		r := setupWalletRouter(NewWalletHandler(svc, &mockAuditService{}), false)

		rec := doRequest(r, "GET", "/wallets/"+testWallet2, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "WALLET_NOT_FOUND")
	})
}

func TestWalletHandler_GetWallets(t *testing.T) {
	t.Run("passes page parameters", func(t *testing.T) {
		var got pagination.PageRequest
		svc := &mockWalletService{
			listWalletsFn: func(_ context.Context, _ models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Wallet], error) {
				got = page
				return pagination.NewPageResponse([]models.Wallet{{UserID: testUserID}}, page, 1), nil
			},
		}
		r := setupWalletRouter(NewWalletHandler(svc, &mockAuditService{}), false)

		rec := doRequest(r, "GET", "/wallets?page=2&page_size=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.Page != 2 || got.PageSize != 5 {
			t.Errorf("expected page 2 size 5, got %+v", got)
		}
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupWalletRouter(NewWalletHandler(&mockWalletService{}, &mockAuditService{}), false)

		rec := doRequest(r, "GET", "/wallets?page_size=1000", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestWalletHandler_UpdateWallet(t *testing.T) {
	t.Run("balance change is audited", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupWalletRouter(NewWalletHandler(&mockWalletService{}, audit), true)

		rec := doRequest(r, "PATCH", "/wallets/"+testWallet, `{"balance":"42.00"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(audit.entries) != 1 {
			t.Fatalf("expected 1 audit entry, got %d", len(audit.entries))
		}
		if audit.entries[0].changes["balance"] != "42.00" {
			t.Errorf("expected audited balance 42.00, got %v", audit.entries[0].changes["balance"])
		}
	})

	t.Run("type change is not audited", func(t *testing.T) {
		var got store.WalletUpdate
		audit := &mockAuditService{}
		svc := &mockWalletService{
			updateWalletFn: func(_ context.Context, actor models.Actor, id string, upd store.WalletUpdate) (*models.Wallet, error) {
				got = upd
				return &models.Wallet{Base: models.Base{ID: id}, UserID: actor.UserID, Type: *upd.Type}, nil
			},
		}
		r := setupWalletRouter(NewWalletHandler(svc, audit), false)

		rec := doRequest(r, "PATCH", "/wallets/"+testWallet, `{"type":"Bank"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.Type == nil || *got.Type != models.WalletTypeBank || got.Balance != nil {
			t.Errorf("unexpected update %+v", got)
		}
		if len(audit.entries) != 0 {
			t.Errorf("expected no audit entries, got %d", len(audit.entries))
		}
	})

	t.Run("returns 403 from service", func(t *testing.T) {
		svc := &mockWalletService{
			updateWalletFn: func(context.Context, models.Actor, string, store.WalletUpdate) (*models.Wallet, error) {
				return nil, apperrors.ErrForbidden
			},
		}
		r := setupWalletRouter(NewWalletHandler(svc, &mockAuditService{}), false)

		rec := doRequest(r, "PATCH", "/wallets/"+testWallet, `{"balance":"1"}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestWalletHandler_DeleteWallet(t *testing.T) {
	t.Run("returns 204 and audits", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupWalletRouter(NewWalletHandler(&mockWalletService{}, audit), false)

		rec := doRequest(r, "DELETE", "/wallets/"+testWallet, "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != services.AuditActionDeleteWallet {
			t.Errorf("expected one delete entry, got %+v", audit.entries)
		}
	})

	t.Run("returns 409 with history", func(t *testing.T) {
		audit := &mockAuditService{}
		svc := &mockWalletService{
			deleteWalletFn: func(context.Context, models.Actor, string) error {
				return apperrors.ErrWalletHasHistory
			},
		}
		r := setupWalletRouter(NewWalletHandler(svc, audit), false)

		rec := doRequest(r, "DELETE", "/wallets/"+testWallet, "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "WALLET_HAS_HISTORY")
		if len(audit.entries) != 0 {
			t.Error("failed delete must not be audited")
		}
	})
}

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

type mockBudgetService struct {
	createBudgetFn func(ctx context.Context, actor models.Actor, in services.CreateBudgetInput) (*models.Budget, error)
	listBudgetsFn  func(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	getBudgetFn    func(ctx context.Context, actor models.Actor, id string) (*models.Budget, error)
	updateBudgetFn func(ctx context.Context, actor models.Actor, id string, upd store.BudgetUpdate) (*models.Budget, error)
	deleteBudgetFn func(ctx context.Context, actor models.Actor, id string) error
}

func (m *mockBudgetService) CreateBudget(ctx context.Context, actor models.Actor, in services.CreateBudgetInput) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(ctx, actor, in)
	}
	return &models.Budget{UserID: actor.UserID, CategoryID: in.CategoryID, Name: in.Name, Amount: in.Amount}, nil
}

func (m *mockBudgetService) ListBudgets(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	if m.listBudgetsFn != nil {
		return m.listBudgetsFn(ctx, actor, page)
	}
	return pagination.NewPageResponse([]models.Budget{}, page, 0), nil
}

func (m *mockBudgetService) GetBudget(ctx context.Context, actor models.Actor, id string) (*models.Budget, error) {
	if m.getBudgetFn != nil {
		return m.getBudgetFn(ctx, actor, id)
	}
	return &models.Budget{Base: models.Base{ID: id}}, nil
}

func (m *mockBudgetService) UpdateBudget(ctx context.Context, actor models.Actor, id string, upd store.BudgetUpdate) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(ctx, actor, id, upd)
	}
	return &models.Budget{Base: models.Base{ID: id}}, nil
}

func (m *mockBudgetService) DeleteBudget(ctx context.Context, actor models.Actor, id string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(ctx, actor, id)
	}
	return nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	r.Use(injectUserID(testUserID))
	r.POST("/budgets", handler.CreateBudget)
	r.GET("/budgets", handler.GetBudgets)
	r.GET("/budgets/:id", handler.GetBudget)
	r.PATCH("/budgets/:id", handler.UpdateBudget)
	r.DELETE("/budgets/:id", handler.DeleteBudget)
	return r
}

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.CreateBudgetInput
		svc := &mockBudgetService{
			createBudgetFn: func(_ context.Context, actor models.Actor, in services.CreateBudgetInput) (*models.Budget, error) {
				got = in
				return &models.Budget{UserID: actor.UserID, CategoryID: in.CategoryID, Name: in.Name, Amount: in.Amount}, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc))

		rec := doRequest(r, "POST", "/budgets", `{"category_id":"`+testCatID+`","name":"Groceries","amount":"500.00"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Amount.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected amount 500, got %s", got.Amount)
		}
		if got.CategoryID != testCatID {
			t.Errorf("expected category %s, got %s", testCatID, got.CategoryID)
		}
	})

	t.Run("returns 400 on zero amount", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}))

		rec := doRequest(r, "POST", "/budgets", `{"category_id":"`+testCatID+`","amount":"0"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on missing category", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}))

		rec := doRequest(r, "POST", "/budgets", `{"amount":"10"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 for hidden category", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(context.Context, models.Actor, services.CreateBudgetInput) (*models.Budget, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc))

		rec := doRequest(r, "POST", "/budgets", `{"category_id":"`+testCatID+`","amount":"10"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})
}

func TestBudgetHandler_GetBudget(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetFn: func(context.Context, models.Actor, string) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc))

		rec := doRequest(r, "GET", "/budgets/"+testWallet, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})
}

func TestBudgetHandler_UpdateBudget(t *testing.T) {
	t.Run("passes amount through", func(t *testing.T) {
		var got store.BudgetUpdate
		svc := &mockBudgetService{
			updateBudgetFn: func(_ context.Context, _ models.Actor, id string, upd store.BudgetUpdate) (*models.Budget, error) {
				got = upd
				return &models.Budget{Base: models.Base{ID: id}, Amount: *upd.Amount}, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc))

		rec := doRequest(r, "PATCH", "/budgets/"+testWallet, `{"amount":"75.25"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount == nil || !got.Amount.Equal(decimal.RequireFromString("75.25")) {
			t.Errorf("expected amount 75.25, got %v", got.Amount)
		}
		if got.Name != nil || got.CategoryID != nil {
			t.Errorf("expected untouched fields, got %+v", got)
		}
	})

	t.Run("returns 400 on negative amount", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}))

		rec := doRequest(r, "PATCH", "/budgets/"+testWallet, `{"amount":"-5"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_DeleteBudget(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}))

		rec := doRequest(r, "DELETE", "/budgets/"+testWallet, "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/config"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

const (
	testUserID  = "0190c7a8-0000-7000-8000-000000000001"
	testOtherID = "0190c7a8-0000-7000-8000-000000000002"
	testWallet  = "0190c7a8-0000-7000-8000-00000000000a"
	testWallet2 = "0190c7a8-0000-7000-8000-00000000000b"
	testCatID   = "0190c7a8-0000-7000-8000-00000000000c"
)

// --- mock services ---

type mockUserService struct {
	registerFn      func(ctx context.Context, in services.RegisterInput) (*models.User, error)
	authenticateFn  func(ctx context.Context, login, password string) (*models.User, error)
	getUserByIDFn   func(ctx context.Context, id string) (*models.User, error)
	updateProfileFn func(ctx context.Context, id string, upd services.ProfileUpdate) (*models.User, error)
	listUsersFn     func(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	createUserFn    func(ctx context.Context, in services.CreateUserInput) (*models.User, error)
	updateUserFn    func(ctx context.Context, id string, upd services.AdminUserUpdate) (*models.User, error)
	deleteUserFn    func(ctx context.Context, actor models.Actor, id string) error
}

func (m *mockUserService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, in)
	}
	return &models.User{}, nil
}

func (m *mockUserService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, login, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(ctx, id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, id string, upd services.ProfileUpdate) (*models.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, upd)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) ListUsers(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx, page)
	}
	return pagination.NewPageResponse([]models.User{}, page, 0), nil
}

func (m *mockUserService) CreateUser(ctx context.Context, in services.CreateUserInput) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, in)
	}
	return &models.User{Base: models.Base{ID: testOtherID}, Login: in.Login, IsAdmin: in.IsAdmin}, nil
}

func (m *mockUserService) UpdateUser(ctx context.Context, id string, upd services.AdminUserUpdate) (*models.User, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(ctx, id, upd)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) DeleteUser(ctx context.Context, actor models.Actor, id string) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(ctx, actor, id)
	}
	return nil
}

var _ services.UserServicer = (*mockUserService)(nil)

type auditEntry struct {
	userID, action, resourceType, resourceID string
	changes                                  map[string]interface{}
}

type mockAuditService struct {
	entries []auditEntry
}

func (m *mockAuditService) Log(_ context.Context, userID, action, resourceType, resourceID, _ string, changes map[string]interface{}) {
	m.entries = append(m.entries, auditEntry{userID, action, resourceType, resourceID, changes})
}

func (m *mockAuditService) ListUserLogs(_ context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	var logs []models.AuditLog
	for _, e := range m.entries {
		if e.userID == userID {
			logs = append(logs, models.AuditLog{UserID: e.userID, Action: e.action, ResourceType: e.resourceType, ResourceID: e.resourceID})
		}
	}
	return pagination.NewPageResponse(logs, page, int64(len(logs))), nil
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	config.Set(&config.Config{JWTSecret: "test-secret", JWTExpirationDur: time.Hour})
}

func injectUser(uid string, isAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Set(middleware.IsAdminKey, isAdmin)
		c.Next()
	}
}

func injectUserID(uid string) gin.HandlerFunc {
	return injectUser(uid, false)
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/profile", handler.GetProfile)
	auth.PATCH("/profile", handler.UpdateProfile)
	auth.GET("/profile/audit-logs", handler.GetAuditLogs)
	return r
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with token", func(t *testing.T) {
		var got services.RegisterInput
		userSvc := &mockUserService{
			registerFn: func(_ context.Context, in services.RegisterInput) (*models.User, error) {
				got = in
				return &models.User{Base: models.Base{ID: testUserID}, Login: in.Login, FirstName: in.FirstName}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/auth/register",
			`{"login":"alice","password":"password123","first_name":"Alice","date_of_birth":"1990-05-17"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if token, _ := result["token"].(string); token == "" {
			t.Fatal("expected non-empty token")
		}
		claims, err := middleware.ParseAccessToken(result["token"].(string))
		if err != nil {
			t.Fatalf("expected a valid token: %v", err)
		}
		if claims.UserID != testUserID {
			t.Errorf("expected token for %s, got %s", testUserID, claims.UserID)
		}
		if got.DateOfBirth == nil || got.DateOfBirth.Format(dateLayout) != "1990-05-17" {
			t.Errorf("expected date of birth to be parsed, got %v", got.DateOfBirth)
		}
		user := result["user"].(map[string]interface{})
		if user["login"] != "alice" {
			t.Errorf("expected login alice, got %v", user["login"])
		}
	})

	t.Run("returns 400 on missing login", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/auth/register", `{"password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/auth/register", `{"login":"alice","password":"short"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/auth/register", `{"login":"alice","password":"password123","date_of_birth":"17.05.1990"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid personal data", func(t *testing.T) {
		called := false
		userSvc := &mockUserService{
			registerFn: func(context.Context, services.RegisterInput) (*models.User, error) {
				called = true
				return &models.User{}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}))
		child := time.Now().UTC().AddDate(-5, 0, 0).Format(dateLayout)
		unborn := time.Now().UTC().AddDate(0, 0, 2).Format(dateLayout)

		bodies := []string{
			`{"login":"alice","password":"password123","date_of_birth":"` + child + `"}`,
			`{"login":"alice","password":"password123","date_of_birth":"` + unborn + `"}`,
			`{"login":"alice","password":"password123","passport":"x"}`,
			`{"login":"alice","password":"password123","passport":"1234-567890"}`,
			`{"login":"alice","password":"password123","first_name":"R2-D2"}`,
			`{"login":"alice","password":"password123","last_name":"Smith2"}`,
		}
		for _, body := range bodies {
			rec := doRequest(r, "POST", "/auth/register", body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400 for %s, got %d", body, rec.Code)
				continue
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		}
		if called {
			t.Error("expected service not to be called")
		}
	})

	t.Run("returns 409 on duplicate login", func(t *testing.T) {
		userSvc := &mockUserService{
			registerFn: func(context.Context, services.RegisterInput) (*models.User, error) {
				return nil, apperrors.ErrDuplicateLogin
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/auth/register", `{"login":"alice","password":"password123"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_LOGIN")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 with admin token", func(t *testing.T) {
		userSvc := &mockUserService{
			authenticateFn: func(_ context.Context, login, _ string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: testUserID}, Login: login, IsAdmin: true}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/auth/login", `{"login":"root","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		claims, err := middleware.ParseAccessToken(parseJSON(t, rec)["token"].(string))
		if err != nil {
			t.Fatalf("expected a valid token: %v", err)
		}
		if !claims.IsAdmin {
			t.Error("expected admin flag in token")
		}
	})

	t.Run("returns 401 on invalid credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			authenticateFn: func(context.Context, string, string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/auth/login", `{"login":"alice","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 400 on missing password", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/auth/login", `{"login":"alice"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Profile(t *testing.T) {
	t.Run("get returns 200", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(_ context.Context, id string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: id}, Login: "alice"}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["id"] != testUserID {
			t.Errorf("expected id %s, got %v", testUserID, user["id"])
		}
	})

	t.Run("get returns 401 without identity", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{})
		r := gin.New()
		r.GET("/profile", handler.GetProfile)

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("password change is audited", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, audit))

		rec := doRequest(r, "PATCH", "/profile", `{"password":"new-password-1"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "CHANGE_PASSWORD" {
			t.Errorf("expected one CHANGE_PASSWORD entry, got %+v", audit.entries)
		}
	})

	t.Run("returns 400 on invalid passport", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, "PATCH", "/profile", `{"passport":"12345678901"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("name change is not audited", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, audit))

		rec := doRequest(r, "PATCH", "/profile", `{"first_name":"Al"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(audit.entries) != 0 {
			t.Errorf("expected no audit entries, got %+v", audit.entries)
		}
	})

	t.Run("audit logs are listed", func(t *testing.T) {
		audit := &mockAuditService{}
		audit.Log(context.Background(), testUserID, services.AuditActionPurchase, "wallet", testWallet, "", nil)
		audit.Log(context.Background(), testOtherID, services.AuditActionPurchase, "wallet", testWallet2, "", nil)
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, audit))

		rec := doRequest(r, "GET", "/profile/audit-logs", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if total := parseJSON(t, rec)["total_items"]; total != float64(1) {
			t.Errorf("expected 1 entry, got %v", total)
		}
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// AdminHandler serves administrator-only endpoints. Routes must be guarded by
// middleware.RequireAdmin.
type AdminHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userService services.UserServicer, auditService services.AuditServicer) *AdminHandler {
	return &AdminHandler{userService: userService, auditService: auditService}
}

// CreateUserRequest represents an administrator's request for a new user.
type CreateUserRequest struct {
	RegisterRequest
	IsAdmin bool `json:"is_admin"`
}

// UpdateUserRequest represents the user fields an administrator may change.
type UpdateUserRequest struct {
	UpdateProfileRequest
	IsAdmin *bool `json:"is_admin"`
}

// ListUsers returns every registered user
// @Summary     List users
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.User] "Paginated users"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Administrator access required"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.userService.ListUsers(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUserAuditLogs returns one user's audit trail
// @Summary     Get a user's audit log
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "User ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Paginated audit entries"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Administrator access required"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users/{id}/audit-logs [get]
func (h *AdminHandler) GetUserAuditLogs(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.userService.GetUserByID(c.Request.Context(), userID); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.auditService.ListUserLogs(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUser returns one user
// @Summary     Get a user
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} UserResponse "User"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Administrator access required"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// CreateUser creates a user, optionally with administrator rights
// @Summary     Create a user
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateUserRequest true "User data"
// @Success     201 {object} UserResponse "User created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Administrator access required"
// @Failure     409 {object} ErrorResponse "Login or passport already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dob, err := parseDate(req.DateOfBirth, "date_of_birth")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), services.CreateUserInput{
		RegisterInput: services.RegisterInput{
			Login:       req.Login,
			Password:    req.Password,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			DateOfBirth: dob,
			Passport:    req.Passport,
		},
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actorID, services.AuditActionCreateUser, "user", user.ID, c.ClientIP(),
		map[string]interface{}{"login": user.Login, "is_admin": user.IsAdmin})

	c.JSON(http.StatusCreated, gin.H{"user": newUserResponse(user)})
}

// UpdateUser changes a user's profile or administrator flag
// @Summary     Update a user
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "User ID"
// @Param       request body UpdateUserRequest true "Fields to change"
// @Success     200 {object} UserResponse "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Administrator access required"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Passport already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dob, err := parseDate(req.DateOfBirth, "date_of_birth")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, services.AdminUserUpdate{
		ProfileUpdate: services.ProfileUpdate{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			DateOfBirth: dob,
			Passport:    req.Passport,
			Password:    req.Password,
		},
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	if req.IsAdmin != nil {
		changes["is_admin"] = *req.IsAdmin
	}
	if req.Password != nil {
		changes["password"] = "changed"
	}
	h.auditService.Log(c.Request.Context(), actorID, services.AuditActionUpdateUser, "user", id, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// DeleteUser removes a user without ledger history
// @Summary     Delete a user
// @Description Removes the user with their wallets, budgets, goals and private categories. Users whose wallets appear in any transaction cannot be deleted.
// @Tags        admin
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     204 "User deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Administrator access required or own account"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "User has ledger history"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
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

	if err := h.userService.DeleteUser(c.Request.Context(), actor, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor.UserID, services.AuditActionDeleteUser, "user", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

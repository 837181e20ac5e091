package services

import (
	"context"
	"encoding/json"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/store"
)

// Audit actions recorded by the handlers.
const (
	AuditActionPurchase      = "PURCHASE"
	AuditActionOwnTransfer   = "TRANSFER_BETWEEN_WALLETS"
	AuditActionUserTransfer  = "TRANSFER_TO_USER"
	AuditActionUpdateBalance = "UPDATE_WALLET"
	AuditActionDeleteWallet  = "DELETE_WALLET"
	AuditActionCreateUser    = "CREATE_USER"
	AuditActionUpdateUser    = "UPDATE_USER"
	AuditActionDeleteUser    = "DELETE_USER"
)

// auditService handles audit log recording.
type auditService struct {
	audit store.AuditStore
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(audit store.AuditStore) AuditServicer {
	return &auditService{audit: audit}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.audit.Create(ctx, entry); err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// ListUserLogs returns the audit trail of one user, newest first.
func (s *auditService) ListUserLogs(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	entries, total, err := s.audit.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pagination.NewPageResponse(entries, page, total), nil
}

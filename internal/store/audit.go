package store

import (
	"context"

	"fintrack/internal/models"
	"fintrack/internal/pagination"

	"gorm.io/gorm"
)

// AuditStore persists audit log entries.
type AuditStore interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByUser(ctx context.Context, userID string, page pagination.PageRequest) ([]models.AuditLog, int64, error)
}

type auditStore struct {
	crud crud[models.AuditLog]
}

// NewAuditStore creates a gorm-backed AuditStore.
func NewAuditStore(db *gorm.DB) AuditStore {
	return &auditStore{crud: crud[models.AuditLog]{db: db}}
}

func (s *auditStore) Create(ctx context.Context, entry *models.AuditLog) error {
	return s.crud.create(ctx, entry)
}

func (s *auditStore) ListByUser(ctx context.Context, userID string, page pagination.PageRequest) ([]models.AuditLog, int64, error) {
	return s.crud.list(ctx, page, "created_at DESC, id DESC", byUser(userID))
}

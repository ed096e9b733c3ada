package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"gorm.io/gorm"
)

type AuditPostgreSQL struct {
	db *gorm.DB
}

func NewAuditPostgreSQL(db *gorm.DB) repositories.AuditRepository {
	return &AuditPostgreSQL{db: db}
}

func (a *AuditPostgreSQL) Create(ctx context.Context, entry *models.AuditLog) error {
	if err := a.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// ListByForm returns the newest entries first
func (a *AuditPostgreSQL) ListByForm(ctx context.Context, formID uint, filters repositories.AuditFilters) ([]models.AuditLog, int64, error) {
	query := a.db.WithContext(ctx).Model(&models.AuditLog{}).Where("form_id = ?", formID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var entries []models.AuditLog
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return entries, total, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"gorm.io/gorm"
)

type FormPostgreSQL struct {
	db *gorm.DB
}

func NewFormPostgreSQL(db *gorm.DB) repositories.FormRepository {
	return &FormPostgreSQL{db: db}
}

func (f *FormPostgreSQL) Create(ctx context.Context, form *models.Form) error {
	if err := f.db.WithContext(ctx).Create(form).Error; err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}
	return nil
}

func (f *FormPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Form, error) {
	var form models.Form
	if err := f.db.WithContext(ctx).First(&form, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("form", id)
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	return &form, nil
}

func (f *FormPostgreSQL) List(ctx context.Context, filters repositories.FormFilters) ([]models.FormSummary, int64, error) {
	query := f.db.WithContext(ctx).Model(&models.Form{})
	if filters.AuthorID != nil {
		query = query.Where("author_id = ?", *filters.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count forms: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var forms []models.FormSummary
	if err := query.Select("id", "name").Order("id ASC").Scan(&forms).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list forms: %w", err)
	}
	return forms, total, nil
}

func (f *FormPostgreSQL) UpdateName(ctx context.Context, id uint, name string) (bool, error) {
	result := f.db.WithContext(ctx).
		Model(&models.Form{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update form: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (f *FormPostgreSQL) Delete(ctx context.Context, id uint, authorID string) (bool, error) {
	result := f.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&models.Form{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete form: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (f *FormPostgreSQL) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := f.db.WithContext(ctx).Model(&models.Form{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check form existence: %w", err)
	}
	return count > 0, nil
}

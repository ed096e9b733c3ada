package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db       *gorm.DB
	siblings siblingScope
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:       db,
		siblings: newSiblingScope(db, "questions", "form_id", "forms"),
	}
}

// ===== BASIC OPERATIONS =====

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("question", id)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &question, nil
}

// Update writes every mutable column, zero values included
func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	result := q.db.WithContext(ctx).
		Model(question).
		Select("FormID", "Index", "Question", "AnswerType", "UpdatedAt").
		Updates(question)
	if result.Error != nil {
		return fmt.Errorf("failed to update question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("question", question.ID)
	}
	return nil
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) (bool, error) {
	result := q.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete question: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (q *QuestionPostgreSQL) ListByForm(ctx context.Context, formID uint) ([]models.Question, error) {
	var questions []models.Question
	if err := q.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("sort_index ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to list questions of form %d: %w", formID, err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) CountByForm(ctx context.Context, formID uint) (int64, error) {
	var count int64
	if err := q.db.WithContext(ctx).Model(&models.Question{}).Where("form_id = ?", formID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// ===== ORDERING =====

func (q *QuestionPostgreSQL) LockScope(ctx context.Context, formID uint) error {
	return q.siblings.lock(ctx, formID)
}

func (q *QuestionPostgreSQL) MaxIndex(ctx context.Context, formID uint) (int, error) {
	return q.siblings.maxIndex(ctx, formID)
}

func (q *QuestionPostgreSQL) IndexTaken(ctx context.Context, formID uint, index int, excludeID uint) (bool, error) {
	return q.siblings.indexTaken(ctx, formID, index, excludeID)
}

func (q *QuestionPostgreSQL) ShiftIndexes(ctx context.Context, formID uint, fromIndex int, excludeID uint) (int64, error) {
	return q.siblings.shift(ctx, formID, fromIndex, excludeID)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"gorm.io/gorm"
)

type AnswerPostgreSQL struct {
	db       *gorm.DB
	siblings siblingScope
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{
		db:       db,
		siblings: newSiblingScope(db, "answers", "question_id", "questions"),
	}
}

func (a *AnswerPostgreSQL) Create(ctx context.Context, answer *models.Answer) error {
	if err := a.db.WithContext(ctx).Create(answer).Error; err != nil {
		return fmt.Errorf("failed to create answer: %w", err)
	}
	return nil
}

func (a *AnswerPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Answer, error) {
	var answer models.Answer
	if err := a.db.WithContext(ctx).First(&answer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("answer", id)
		}
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}
	return &answer, nil
}

func (a *AnswerPostgreSQL) Update(ctx context.Context, answer *models.Answer) error {
	result := a.db.WithContext(ctx).
		Model(answer).
		Select("QuestionID", "Index", "Answer", "IsCorrect", "UpdatedAt").
		Updates(answer)
	if result.Error != nil {
		return fmt.Errorf("failed to update answer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("answer", answer.ID)
	}
	return nil
}

func (a *AnswerPostgreSQL) Delete(ctx context.Context, id uint) (bool, error) {
	result := a.db.WithContext(ctx).Delete(&models.Answer{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete answer: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (a *AnswerPostgreSQL) ListByQuestion(ctx context.Context, questionID uint) ([]models.Answer, error) {
	var answers []models.Answer
	if err := a.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("sort_index ASC, id ASC").
		Find(&answers).Error; err != nil {
		return nil, fmt.Errorf("failed to list answers of question %d: %w", questionID, err)
	}
	return answers, nil
}

func (a *AnswerPostgreSQL) ListByQuestions(ctx context.Context, questionIDs []uint) (map[uint][]models.Answer, error) {
	grouped := make(map[uint][]models.Answer, len(questionIDs))
	if len(questionIDs) == 0 {
		return grouped, nil
	}

	var answers []models.Answer
	if err := a.db.WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Order("question_id ASC, sort_index ASC, id ASC").
		Find(&answers).Error; err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}

	for _, answer := range answers {
		grouped[answer.QuestionID] = append(grouped[answer.QuestionID], answer)
	}
	return grouped, nil
}

func (a *AnswerPostgreSQL) DeleteByQuestion(ctx context.Context, questionID uint) (int64, error) {
	result := a.db.WithContext(ctx).Where("question_id = ?", questionID).Delete(&models.Answer{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete answers of question %d: %w", questionID, result.Error)
	}
	return result.RowsAffected, nil
}

func (a *AnswerPostgreSQL) ClearCorrect(ctx context.Context, questionID uint, exceptID uint) (int64, error) {
	result := a.db.WithContext(ctx).
		Table("answers").
		Where("question_id = ? AND id <> ? AND is_correct = ?", questionID, exceptID, true).
		UpdateColumn("is_correct", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear correct answers: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ===== ORDERING =====

func (a *AnswerPostgreSQL) LockScope(ctx context.Context, questionID uint) error {
	return a.siblings.lock(ctx, questionID)
}

func (a *AnswerPostgreSQL) MaxIndex(ctx context.Context, questionID uint) (int, error) {
	return a.siblings.maxIndex(ctx, questionID)
}

func (a *AnswerPostgreSQL) IndexTaken(ctx context.Context, questionID uint, index int, excludeID uint) (bool, error) {
	return a.siblings.indexTaken(ctx, questionID, index, excludeID)
}

func (a *AnswerPostgreSQL) ShiftIndexes(ctx context.Context, questionID uint, fromIndex int, excludeID uint) (int64, error) {
	return a.siblings.shift(ctx, questionID, fromIndex, excludeID)
}

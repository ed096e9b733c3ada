package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
)

// OwnershipResolver answers "does this record belong to that user" by walking
// answer -> question -> form. Any lookup failure answers false.
type OwnershipResolver struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewOwnershipResolver(repo repositories.Repository, logger *slog.Logger) *OwnershipResolver {
	return &OwnershipResolver{repo: repo, logger: logger}
}

func (o *OwnershipResolver) FormBelongsToUser(ctx context.Context, formID uint, userID string) bool {
	if userID == "" {
		return false
	}
	form, err := o.repo.Form().GetByID(ctx, formID)
	if err != nil {
		o.logLookupFailure(ctx, "form", formID, err)
		return false
	}
	return form.AuthorID == userID
}

func (o *OwnershipResolver) QuestionBelongsToUser(ctx context.Context, questionID uint, userID string) bool {
	question, err := o.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		o.logLookupFailure(ctx, "question", questionID, err)
		return false
	}
	return o.FormBelongsToUser(ctx, question.FormID, userID)
}

func (o *OwnershipResolver) AnswerBelongsToUser(ctx context.Context, answerID uint, userID string) bool {
	answer, err := o.repo.Answer().GetByID(ctx, answerID)
	if err != nil {
		o.logLookupFailure(ctx, "answer", answerID, err)
		return false
	}
	return o.QuestionBelongsToUser(ctx, answer.QuestionID, userID)
}

// AuthorizeForm loads the form and checks it belongs to userID.
// It returns ErrFormNotFound before a PermissionError.
func (o *OwnershipResolver) AuthorizeForm(ctx context.Context, formID uint, userID, action string) (*models.Form, error) {
	form, err := o.repo.Form().GetByID(ctx, formID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	if userID == "" || form.AuthorID != userID {
		return nil, NewPermissionError(userID, formID, "form", action, "not the author of the form")
	}
	return form, nil
}

// AuthorizeQuestion loads the question and checks its form belongs to userID
func (o *OwnershipResolver) AuthorizeQuestion(ctx context.Context, questionID uint, userID, action string) (*models.Question, error) {
	question, err := o.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	if !o.FormBelongsToUser(ctx, question.FormID, userID) {
		return nil, NewPermissionError(userID, questionID, "question", action, "question belongs to another author")
	}
	return question, nil
}

// AuthorizeAnswer loads the answer and checks its question's form belongs to userID
func (o *OwnershipResolver) AuthorizeAnswer(ctx context.Context, answerID uint, userID, action string) (*models.Answer, error) {
	answer, err := o.repo.Answer().GetByID(ctx, answerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAnswerNotFound
		}
		return nil, err
	}
	if !o.QuestionBelongsToUser(ctx, answer.QuestionID, userID) {
		return nil, NewPermissionError(userID, answerID, "answer", action, "answer belongs to another author")
	}
	return answer, nil
}

func (o *OwnershipResolver) logLookupFailure(ctx context.Context, entity string, id uint, err error) {
	if repositories.IsNotFoundError(err) {
		return
	}
	o.logger.WarnContext(ctx, "Ownership lookup failed",
		"entity", entity,
		"id", id,
		"error", err)
}

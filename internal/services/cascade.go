package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/form-service/internal/repositories"
	"golang.org/x/sync/errgroup"
)

const defaultCascadeConcurrency = 4

// CascadeResult summarises a form deletion and its children
type CascadeResult struct {
	FormDeleted       bool   `json:"form_deleted"`
	QuestionsDeleted  int    `json:"questions_deleted"`
	AnswersDeleted    int64  `json:"answers_deleted"`
	FailedQuestionIDs []uint `json:"failed_question_ids,omitempty"`
}

// QuestionDeletion is the outcome of deleting a single question
type QuestionDeletion struct {
	Deleted        bool
	AnswersDeleted int64
}

// CascadeDeleter removes records together with their children.
// Questions of a deleted form are removed concurrently, bounded by concurrency.
type CascadeDeleter struct {
	repo        repositories.Repository
	logger      *slog.Logger
	concurrency int
}

func NewCascadeDeleter(repo repositories.Repository, logger *slog.Logger, concurrency int) *CascadeDeleter {
	if concurrency <= 0 {
		concurrency = defaultCascadeConcurrency
	}
	return &CascadeDeleter{
		repo:        repo,
		logger:      logger,
		concurrency: concurrency,
	}
}

// WithRepository returns a deleter bound to repo, typically an open transaction
func (d *CascadeDeleter) WithRepository(repo repositories.Repository) *CascadeDeleter {
	return &CascadeDeleter{
		repo:        repo,
		logger:      d.logger,
		concurrency: d.concurrency,
	}
}

// DeleteQuestion removes the answers of the question, then the question
func (d *CascadeDeleter) DeleteQuestion(ctx context.Context, questionID uint) (QuestionDeletion, error) {
	answersDeleted, err := d.repo.Answer().DeleteByQuestion(ctx, questionID)
	if err != nil {
		return QuestionDeletion{}, fmt.Errorf("failed to delete answers of question %d: %w", questionID, err)
	}

	deleted, err := d.repo.Question().Delete(ctx, questionID)
	if err != nil {
		return QuestionDeletion{AnswersDeleted: answersDeleted}, fmt.Errorf("failed to delete question %d: %w", questionID, err)
	}

	return QuestionDeletion{Deleted: deleted, AnswersDeleted: answersDeleted}, nil
}

// DeleteForm removes the form when authorID owns it, then every question of
// the form with its answers. A failing question does not stop the others;
// failures are collected into a CascadeError.
func (d *CascadeDeleter) DeleteForm(ctx context.Context, formID uint, authorID string) (*CascadeResult, error) {
	deleted, err := d.repo.Form().Delete(ctx, formID, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete form %d: %w", formID, err)
	}

	result := &CascadeResult{FormDeleted: deleted}
	if !deleted {
		return result, nil
	}

	questions, err := d.repo.Question().ListByForm(ctx, formID)
	if err != nil {
		return result, &CascadeError{FormID: formID, Cause: err}
	}

	var (
		mu       sync.Mutex
		failures = make(map[uint]error)
	)

	var g errgroup.Group
	g.SetLimit(d.concurrency)

	for _, question := range questions {
		g.Go(func() error {
			deletion, err := d.DeleteQuestion(ctx, question.ID)

			mu.Lock()
			defer mu.Unlock()

			result.AnswersDeleted += deletion.AnswersDeleted
			if err != nil {
				failures[question.ID] = err
				return err
			}
			if deletion.Deleted {
				result.QuestionsDeleted++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		cascadeErr := &CascadeError{FormID: formID, Failed: failures}
		result.FailedQuestionIDs = cascadeErr.FailedQuestionIDs()

		d.logger.ErrorContext(ctx, "Cascade delete left questions behind",
			"form_id", formID,
			"failed_questions", result.FailedQuestionIDs,
			"error", err)

		return result, cascadeErr
	}

	return result, nil
}

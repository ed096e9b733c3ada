package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/validator"
)

type answerService struct {
	repo      repositories.Repository
	ownership *OwnershipResolver
	reindexer *Reindexer
	activity  *activityRecorder
	validator *validator.Validator
	logger    *slog.Logger
	opLogger  *ServiceLogger
}

func NewAnswerService(deps *Dependencies) AnswerService {
	return &answerService{
		repo:      deps.Repo,
		ownership: deps.ownership(),
		reindexer: NewReindexer(deps.Logger),
		activity:  deps.activity(),
		validator: deps.Validator,
		logger:    deps.Logger,
		opLogger:  NewServiceLogger(deps.Logger, LogConfig{Service: "form-service", Component: "answer"}),
	}
}

// answerPlacement is the outcome of inserting one answer
type answerPlacement struct {
	answer  *models.Answer
	shifted int64
	demoted int64
}

// insertAnswer places an answer under question inside the current unit of work.
// A correct answer under a radio question demotes every other answer.
func insertAnswer(ctx context.Context, repo repositories.Repository, reindexer *Reindexer, writes *writeLog, question *models.Question, input AnswerInput) (*answerPlacement, error) {
	assignment, err := reindexer.ResolveIndex(ctx, repo.Answer(), question.ID, input.Index, 0)
	if err != nil {
		return nil, err
	}

	answer := &models.Answer{
		QuestionID: question.ID,
		Index:      assignment.Index,
		Answer:     input.Answer,
		IsCorrect:  input.IsCorrect != nil && *input.IsCorrect,
	}
	if err := repo.Answer().Create(ctx, answer); err != nil {
		return nil, err
	}
	writes.add("answer", answer.ID)

	placement := &answerPlacement{answer: answer, shifted: assignment.Shifted}
	if answer.IsCorrect && question.AnswerType.IsExclusive() {
		demoted, err := repo.Answer().ClearCorrect(ctx, question.ID, answer.ID)
		if err != nil {
			return nil, err
		}
		placement.demoted = demoted
	}
	return placement, nil
}

func (s *answerService) Create(ctx context.Context, req *CreateAnswerRequest, userID string) (result *CreateAnswerResult, err error) {
	op := s.opLogger.WithOperation(ctx, "create_answer", userID)
	defer func() {
		var id uint
		if result != nil {
			id = result.AnswerID
		}
		op.LogResult(id, "answer", err)
	}()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	question, err := s.ownership.AuthorizeQuestion(ctx, req.QuestionID, userID, "add answers to")
	if err != nil {
		return nil, err
	}

	var placement *answerPlacement
	err = runInTransaction(ctx, s.repo, s.logger, "create answer", func(repo repositories.Repository, writes *writeLog) error {
		if err := repo.Answer().LockScope(ctx, question.ID); err != nil {
			return mapNotFound(err, ErrQuestionNotFound)
		}
		// Reload under the lock; the answer type may have changed since the ownership check
		current, err := repo.Question().GetByID(ctx, question.ID)
		if err != nil {
			return mapNotFound(err, ErrQuestionNotFound)
		}

		placement, err = insertAnswer(ctx, repo, s.reindexer, writes, current, AnswerInput{
			Answer:    req.Answer,
			IsCorrect: req.IsCorrect,
			Index:     req.Index,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	answer := placement.answer
	s.activity.record(ctx, activity{
		action:     models.AuditAnswerCreated,
		eventType:  events.EventAnswerCreated,
		formID:     question.FormID,
		actorID:    userID,
		targetType: "answer",
		targetID:   answer.ID,
		data: events.AnswerChangedEvent{
			AnswerID:       answer.ID,
			QuestionID:     answer.QuestionID,
			Index:          answer.Index,
			IsCorrect:      answer.IsCorrect,
			ShiftedSibling: placement.shifted,
			Demoted:        placement.demoted,
		},
	})

	return &CreateAnswerResult{
		AnswerID:        answer.ID,
		Index:           answer.Index,
		ShiftedSiblings: placement.shifted,
		Demoted:         placement.demoted,
	}, nil
}

func (s *answerService) Update(ctx context.Context, id uint, req *UpdateAnswerRequest, userID string) (result *UpdateResult, err error) {
	op := s.opLogger.WithOperation(ctx, "update_answer", userID)
	defer func() { op.LogResult(id, "answer", err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.ownership.AuthorizeAnswer(ctx, id, userID, "update")
	if err != nil {
		return nil, err
	}

	targetQuestionID := existing.QuestionID
	moved := req.QuestionID != nil && *req.QuestionID != existing.QuestionID
	if moved {
		targetQuestionID = *req.QuestionID
		if _, err := s.ownership.AuthorizeQuestion(ctx, targetQuestionID, userID, "move answers to"); err != nil {
			return nil, err
		}
	}

	var (
		sourceFormID uint
		targetFormID uint
		after        models.Answer
		assignment   IndexAssignment
		demoted      int64
		updated      bool
	)
	err = runInTransaction(ctx, s.repo, s.logger, "update answer", func(repo repositories.Repository, writes *writeLog) error {
		if err := repo.Answer().LockScope(ctx, targetQuestionID); err != nil {
			return mapNotFound(err, ErrQuestionNotFound)
		}

		current, err := repo.Answer().GetByID(ctx, id)
		if err != nil {
			return mapNotFound(err, ErrAnswerNotFound)
		}
		target, err := repo.Question().GetByID(ctx, targetQuestionID)
		if err != nil {
			return mapNotFound(err, ErrQuestionNotFound)
		}
		targetFormID = target.FormID
		sourceFormID = target.FormID
		if moved {
			source, err := repo.Question().GetByID(ctx, current.QuestionID)
			if err != nil {
				s.logger.WarnContext(ctx, "Source question lookup failed, its form cache is not invalidated",
					"answer_id", id,
					"question_id", current.QuestionID,
					"error", err)
			} else {
				sourceFormID = source.FormID
			}
		}

		before := *current
		after = *current
		after.QuestionID = targetQuestionID
		assignment = IndexAssignment{Index: current.Index}

		switch {
		case req.Index != nil:
			assignment, err = s.reindexer.AssignIndex(ctx, repo.Answer(), targetQuestionID, *req.Index, id)
		case moved:
			assignment, err = s.reindexer.ResolveIndex(ctx, repo.Answer(), targetQuestionID, nil, id)
		}
		if err != nil {
			return err
		}
		after.Index = assignment.Index

		if req.Answer != nil {
			after.Answer = *req.Answer
		}
		if req.IsCorrect != nil {
			after.IsCorrect = *req.IsCorrect
		}

		updated = before.QuestionID != after.QuestionID ||
			before.Index != after.Index ||
			before.Answer != after.Answer ||
			before.IsCorrect != after.IsCorrect
		if !updated {
			return nil
		}

		if err := repo.Answer().Update(ctx, &after); err != nil {
			return mapNotFound(err, ErrAnswerNotFound)
		}
		writes.add("answer", after.ID)

		if after.IsCorrect && target.AnswerType.IsExclusive() {
			demoted, err = repo.Answer().ClearCorrect(ctx, targetQuestionID, after.ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result = &UpdateResult{Updated: updated}
	if !updated {
		return result, nil
	}
	result.Index = &after.Index
	result.ShiftedSiblings = assignment.Shifted

	s.activity.record(ctx, activity{
		action:     models.AuditAnswerUpdated,
		eventType:  events.EventAnswerUpdated,
		formID:     targetFormID,
		actorID:    userID,
		targetType: "answer",
		targetID:   id,
		touched:    []uint{sourceFormID},
		data: events.AnswerChangedEvent{
			AnswerID:       id,
			QuestionID:     after.QuestionID,
			Index:          after.Index,
			IsCorrect:      after.IsCorrect,
			ShiftedSibling: assignment.Shifted,
			Demoted:        demoted,
		},
	})

	return result, nil
}

// Delete removes the answer. The gap it leaves in the sibling indexes is kept.
func (s *answerService) Delete(ctx context.Context, id uint, userID string) (result *DeleteResult, err error) {
	op := s.opLogger.WithOperation(ctx, "delete_answer", userID)
	defer func() { op.LogResult(id, "answer", err) }()

	answer, err := s.ownership.AuthorizeAnswer(ctx, id, userID, "delete")
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.Answer().Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrAnswerNotFound
	}

	var formID uint
	if question, err := s.repo.Question().GetByID(ctx, answer.QuestionID); err == nil {
		formID = question.FormID
	}

	s.activity.record(ctx, activity{
		action:     models.AuditAnswerDeleted,
		eventType:  events.EventAnswerDeleted,
		formID:     formID,
		actorID:    userID,
		targetType: "answer",
		targetID:   id,
		data: events.AnswerDeletedEvent{
			AnswerID:   id,
			QuestionID: answer.QuestionID,
		},
	})

	return &DeleteResult{Deleted: true}, nil
}

// mapNotFound replaces a repository not-found error with the service error
func mapNotFound(err error, notFound error) error {
	if repositories.IsNotFoundError(err) {
		return notFound
	}
	return err
}

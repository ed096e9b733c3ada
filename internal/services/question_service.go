package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/validator"
)

type questionService struct {
	repo      repositories.Repository
	ownership *OwnershipResolver
	reindexer *Reindexer
	cascade   *CascadeDeleter
	activity  *activityRecorder
	validator *validator.Validator
	logger    *slog.Logger
	opLogger  *ServiceLogger
}

func NewQuestionService(deps *Dependencies) QuestionService {
	return &questionService{
		repo:      deps.Repo,
		ownership: deps.ownership(),
		reindexer: NewReindexer(deps.Logger),
		cascade:   deps.cascade(),
		activity:  deps.activity(),
		validator: deps.Validator,
		logger:    deps.Logger,
		opLogger:  NewServiceLogger(deps.Logger, LogConfig{Service: "form-service", Component: "question"}),
	}
}

// validateAnswerInputs applies the radio rule to a batch of answers
func (s *questionService) validateAnswerInputs(answerType models.AnswerType, answers []AnswerInput, field string) error {
	correct := make([]bool, len(answers))
	for i, a := range answers {
		correct[i] = a.IsCorrect != nil && *a.IsCorrect
	}
	return s.validator.Form().ValidateAnswerSet(answerType, correct, field).Err()
}

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest, userID string) (result *CreateQuestionResult, err error) {
	op := s.opLogger.WithOperation(ctx, "create_question", userID)
	defer func() {
		var id uint
		if result != nil {
			id = result.QuestionID
		}
		op.LogResult(id, "question", err)
	}()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := s.validateAnswerInputs(req.AnswerType, req.Answers, "answers"); err != nil {
		return nil, err
	}

	if _, err := s.ownership.AuthorizeForm(ctx, req.FormID, userID, "add questions to"); err != nil {
		return nil, err
	}

	var (
		question   *models.Question
		assignment IndexAssignment
		answerIDs  []uint
	)
	err = runInTransaction(ctx, s.repo, s.logger, "create question", func(repo repositories.Repository, writes *writeLog) error {
		if err := repo.Question().LockScope(ctx, req.FormID); err != nil {
			return mapNotFound(err, ErrFormNotFound)
		}

		var err error
		assignment, err = s.reindexer.ResolveIndex(ctx, repo.Question(), req.FormID, req.Index, 0)
		if err != nil {
			return err
		}

		question = &models.Question{
			FormID:     req.FormID,
			Index:      assignment.Index,
			Question:   req.Question,
			AnswerType: req.AnswerType,
		}
		if err := repo.Question().Create(ctx, question); err != nil {
			return err
		}
		writes.add("question", question.ID)

		answerIDs, err = s.insertAnswers(ctx, repo, writes, question, req.Answers)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.activity.record(ctx, activity{
		action:     models.AuditQuestionCreated,
		eventType:  events.EventQuestionCreated,
		formID:     question.FormID,
		actorID:    userID,
		targetType: "question",
		targetID:   question.ID,
		data: events.QuestionChangedEvent{
			QuestionID:     question.ID,
			FormID:         question.FormID,
			Index:          question.Index,
			ShiftedSibling: assignment.Shifted,
		},
	})

	return &CreateQuestionResult{
		QuestionID:      question.ID,
		Index:           question.Index,
		ShiftedSiblings: assignment.Shifted,
		AnswerIDs:       answerIDs,
	}, nil
}

func (s *questionService) insertAnswers(ctx context.Context, repo repositories.Repository, writes *writeLog, question *models.Question, inputs []AnswerInput) ([]uint, error) {
	ids := make([]uint, 0, len(inputs))
	for _, input := range inputs {
		placement, err := insertAnswer(ctx, repo, s.reindexer, writes, question, input)
		if err != nil {
			return nil, err
		}
		ids = append(ids, placement.answer.ID)
	}
	return ids, nil
}

func (s *questionService) Update(ctx context.Context, id uint, req *UpdateQuestionRequest, userID string) (result *UpdateResult, err error) {
	op := s.opLogger.WithOperation(ctx, "update_question", userID)
	defer func() { op.LogResult(id, "question", err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.ownership.AuthorizeQuestion(ctx, id, userID, "update")
	if err != nil {
		return nil, err
	}

	answerType := existing.AnswerType
	if req.AnswerType != nil {
		answerType = *req.AnswerType
	}
	if err := s.validateAnswerInputs(answerType, req.Answers, "answers"); err != nil {
		return nil, err
	}

	targetFormID := existing.FormID
	moved := req.FormID != nil && *req.FormID != existing.FormID
	if moved {
		targetFormID = *req.FormID
		if _, err := s.ownership.AuthorizeForm(ctx, targetFormID, userID, "move questions to"); err != nil {
			return nil, err
		}
	}

	var (
		before     models.Question
		after      models.Question
		assignment IndexAssignment
		updated    bool
	)
	err = runInTransaction(ctx, s.repo, s.logger, "update question", func(repo repositories.Repository, writes *writeLog) error {
		if err := repo.Question().LockScope(ctx, targetFormID); err != nil {
			return mapNotFound(err, ErrFormNotFound)
		}

		current, err := repo.Question().GetByID(ctx, id)
		if err != nil {
			return mapNotFound(err, ErrQuestionNotFound)
		}
		before = *current
		after = *current
		after.FormID = targetFormID
		assignment = IndexAssignment{Index: current.Index}

		switch {
		case req.Index != nil:
			assignment, err = s.reindexer.AssignIndex(ctx, repo.Question(), targetFormID, *req.Index, id)
		case moved:
			assignment, err = s.reindexer.ResolveIndex(ctx, repo.Question(), targetFormID, nil, id)
		}
		if err != nil {
			return err
		}
		after.Index = assignment.Index

		if req.Question != nil {
			after.Question = *req.Question
		}
		if req.AnswerType != nil {
			after.AnswerType = *req.AnswerType
		}

		fieldsChanged := before.FormID != after.FormID ||
			before.Index != after.Index ||
			before.Question != after.Question ||
			before.AnswerType != after.AnswerType
		updated = fieldsChanged || len(req.Answers) > 0

		if fieldsChanged {
			if err := repo.Question().Update(ctx, &after); err != nil {
				return mapNotFound(err, ErrQuestionNotFound)
			}
			writes.add("question", after.ID)
		}

		if before.AnswerType != after.AnswerType && after.AnswerType.IsExclusive() {
			if err := s.keepSingleCorrect(ctx, repo, after.ID); err != nil {
				return err
			}
		}

		_, err = s.insertAnswers(ctx, repo, writes, &after, req.Answers)
		return err
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

	payload := events.QuestionChangedEvent{
		QuestionID:     id,
		FormID:         after.FormID,
		Index:          after.Index,
		ShiftedSibling: assignment.Shifted,
	}
	if moved {
		previous := before.FormID
		payload.PreviousFormID = &previous
	}

	s.activity.record(ctx, activity{
		action:     models.AuditQuestionUpdated,
		eventType:  events.EventQuestionUpdated,
		formID:     after.FormID,
		actorID:    userID,
		targetType: "question",
		targetID:   id,
		touched:    []uint{before.FormID},
		data:       payload,
	})

	return result, nil
}

// keepSingleCorrect demotes every correct answer but the lowest indexed one.
// Used when a question becomes a radio question.
func (s *questionService) keepSingleCorrect(ctx context.Context, repo repositories.Repository, questionID uint) error {
	answers, err := repo.Answer().ListByQuestion(ctx, questionID)
	if err != nil {
		return fmt.Errorf("failed to load answers of question %d: %w", questionID, err)
	}
	for _, a := range answers {
		if a.IsCorrect {
			_, err := repo.Answer().ClearCorrect(ctx, questionID, a.ID)
			return err
		}
	}
	return nil
}

// Delete removes the question and its answers. Sibling indexes are not compacted.
func (s *questionService) Delete(ctx context.Context, id uint, userID string) (result *DeleteResult, err error) {
	op := s.opLogger.WithOperation(ctx, "delete_question", userID)
	defer func() { op.LogResult(id, "question", err) }()

	question, err := s.ownership.AuthorizeQuestion(ctx, id, userID, "delete")
	if err != nil {
		return nil, err
	}

	var deletion QuestionDeletion
	err = runInTransaction(ctx, s.repo, s.logger, "delete question", func(repo repositories.Repository, writes *writeLog) error {
		var err error
		deletion, err = s.cascade.WithRepository(repo).DeleteQuestion(ctx, id)
		if deletion.AnswersDeleted > 0 {
			writes.add("answers_of_question", id)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !deletion.Deleted {
		return nil, ErrQuestionNotFound
	}

	s.activity.record(ctx, activity{
		action:     models.AuditQuestionDeleted,
		eventType:  events.EventQuestionDeleted,
		formID:     question.FormID,
		actorID:    userID,
		targetType: "question",
		targetID:   id,
		data: events.QuestionDeletedEvent{
			QuestionID:     id,
			FormID:         question.FormID,
			AnswersDeleted: deletion.AnswersDeleted,
		},
	})

	return &DeleteResult{Deleted: true, AnswersDeleted: deletion.AnswersDeleted}, nil
}

// GetPublic returns the question with redacted answers
func (s *questionService) GetPublic(ctx context.Context, id uint) (*PublicQuestion, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrQuestionNotFound)
	}
	answers, err := s.repo.Answer().ListByQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	public := toPublicQuestion(*question, answers)
	return &public, nil
}

// ListPublic returns the questions of a form in index order with redacted answers
func (s *questionService) ListPublic(ctx context.Context, formID uint) ([]PublicQuestion, error) {
	exists, err := s.repo.Form().Exists(ctx, formID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrFormNotFound
	}

	questions, answers, err := loadQuestionTree(ctx, s.repo, formID)
	if err != nil {
		return nil, err
	}

	public := make([]PublicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, toPublicQuestion(q, answers[q.ID]))
	}
	return public, nil
}

// loadQuestionTree loads the questions of a form and their answers in two queries
func loadQuestionTree(ctx context.Context, repo repositories.Repository, formID uint) ([]models.Question, map[uint][]models.Answer, error) {
	questions, err := repo.Question().ListByForm(ctx, formID)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	answers, err := repo.Answer().ListByQuestions(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return questions, answers, nil
}

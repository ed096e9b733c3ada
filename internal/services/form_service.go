package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/form-service/internal/cache"
	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/validator"
)

type formService struct {
	repo      repositories.Repository
	ownership *OwnershipResolver
	reindexer *Reindexer
	cascade   *CascadeDeleter
	activity  *activityRecorder
	cache     cache.CacheService
	cacheTTL  time.Duration
	validator *validator.Validator
	logger    *slog.Logger
	opLogger  *ServiceLogger
}

func NewFormService(deps *Dependencies) FormService {
	return &formService{
		repo:      deps.Repo,
		ownership: deps.ownership(),
		reindexer: NewReindexer(deps.Logger),
		cascade:   deps.cascade(),
		activity:  deps.activity(),
		cache:     deps.Cache,
		cacheTTL:  deps.CacheTTL,
		validator: deps.Validator,
		logger:    deps.Logger,
		opLogger:  NewServiceLogger(deps.Logger, LogConfig{Service: "form-service", Component: "form"}),
	}
}

// Create stores a form with its nested questions and answers in one unit of work.
// Questions and answers without an explicit index are appended in payload order.
func (s *formService) Create(ctx context.Context, req *CreateFormRequest, userID string) (result *CreateFormResult, err error) {
	op := s.opLogger.WithOperation(ctx, "create_form", userID)
	defer func() {
		var id uint
		if result != nil {
			id = result.FormID
		}
		op.LogResult(id, "form", err)
	}()

	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	var errs ValidationErrors
	for i, q := range req.Questions {
		correct := make([]bool, len(q.Answers))
		for j, a := range q.Answers {
			correct[j] = a.IsCorrect != nil && *a.IsCorrect
		}
		errs = append(errs, s.validator.Form().ValidateAnswerSet(q.AnswerType, correct, fmt.Sprintf("questions[%d].answers", i))...)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	var form *models.Form
	questionIDs := make([]uint, 0, len(req.Questions))
	err = runInTransaction(ctx, s.repo, s.logger, "create form", func(repo repositories.Repository, writes *writeLog) error {
		form = &models.Form{AuthorID: userID, Name: req.Name}
		if err := repo.Form().Create(ctx, form); err != nil {
			return err
		}
		writes.add("form", form.ID)

		for _, input := range req.Questions {
			assignment, err := s.reindexer.ResolveIndex(ctx, repo.Question(), form.ID, nil, 0)
			if err != nil {
				return err
			}
			question := &models.Question{
				FormID:     form.ID,
				Index:      assignment.Index,
				Question:   input.Question,
				AnswerType: input.AnswerType,
			}
			if err := repo.Question().Create(ctx, question); err != nil {
				return err
			}
			writes.add("question", question.ID)
			questionIDs = append(questionIDs, question.ID)

			for _, answer := range input.Answers {
				if _, err := insertAnswer(ctx, repo, s.reindexer, writes, question, answer); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.record(ctx, activity{
		action:     models.AuditFormCreated,
		eventType:  events.EventFormCreated,
		formID:     form.ID,
		actorID:    userID,
		targetType: "form",
		targetID:   form.ID,
		data:       events.FormChangedEvent{FormID: form.ID, Name: form.Name},
	})

	return &CreateFormResult{FormID: form.ID, QuestionIDs: questionIDs}, nil
}

func (s *formService) Rename(ctx context.Context, id uint, req *UpdateFormRequest, userID string) (result *UpdateResult, err error) {
	op := s.opLogger.WithOperation(ctx, "rename_form", userID)
	defer func() { op.LogResult(id, "form", err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	form, err := s.ownership.AuthorizeForm(ctx, id, userID, "rename")
	if err != nil {
		return nil, err
	}
	if form.Name == req.Name {
		return &UpdateResult{Updated: false}, nil
	}

	if _, err := s.repo.Form().UpdateName(ctx, id, req.Name); err != nil {
		return nil, mapNotFound(err, ErrFormNotFound)
	}

	s.activity.record(ctx, activity{
		action:     models.AuditFormUpdated,
		eventType:  events.EventFormUpdated,
		formID:     id,
		actorID:    userID,
		targetType: "form",
		targetID:   id,
		data:       events.FormChangedEvent{FormID: id, Name: req.Name},
	})

	return &UpdateResult{Updated: true}, nil
}

// Delete removes the form and cascades to its questions and answers. When some
// children fail the form is still gone and the partial result comes back with a CascadeError.
func (s *formService) Delete(ctx context.Context, id uint, userID string) (result *CascadeResult, err error) {
	op := s.opLogger.WithOperation(ctx, "delete_form", userID)
	defer func() { op.LogResult(id, "form", err) }()

	if _, err := s.ownership.AuthorizeForm(ctx, id, userID, "delete"); err != nil {
		return nil, err
	}

	result, err = s.cascade.DeleteForm(ctx, id, userID)
	if result == nil {
		return nil, err
	}
	if !result.FormDeleted && err == nil {
		// Removed concurrently between the ownership check and the delete
		return nil, ErrFormNotFound
	}

	s.activity.record(ctx, activity{
		action:     models.AuditFormDeleted,
		eventType:  events.EventFormDeleted,
		formID:     id,
		actorID:    userID,
		targetType: "form",
		targetID:   id,
		data: events.FormDeletedEvent{
			FormID:           id,
			QuestionsDeleted: result.QuestionsDeleted,
			AnswersDeleted:   result.AnswersDeleted,
			FailedQuestions:  result.FailedQuestionIDs,
		},
	})

	return result, err
}

func (s *formService) List(ctx context.Context, filters repositories.FormFilters) (*FormList, error) {
	filters.AuthorID = nil
	forms, total, err := s.repo.Form().List(ctx, filters)
	if err != nil {
		return nil, err
	}
	return newFormList(forms, total), nil
}

func (s *formService) ListMine(ctx context.Context, userID string, filters repositories.FormFilters) (*FormList, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	filters.AuthorID = &userID
	forms, total, err := s.repo.Form().List(ctx, filters)
	if err != nil {
		return nil, err
	}
	return newFormList(forms, total), nil
}

// GetPublic serves the redacted form structure, read through the cache
func (s *formService) GetPublic(ctx context.Context, id uint) (*PublicForm, error) {
	cacheable := true
	generation, err := s.cache.Counter(ctx, cache.PublicFormGenerationKey(id))
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read form cache generation", "form_id", id, "error", err)
		cacheable = false
	}
	key := cache.PublicFormKey(id, generation)

	if cacheable {
		var cached PublicForm
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "Failed to read cached form", "form_id", id, "error", err)
		}
	}

	form, err := s.repo.Form().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrFormNotFound)
	}
	detail, err := assembleFormDetail(ctx, s.repo, form)
	if err != nil {
		return nil, err
	}

	public := detail.Redact()
	if cacheable {
		if err := s.cache.Set(ctx, key, public, s.cacheTTL); err != nil {
			s.logger.WarnContext(ctx, "Failed to cache form", "form_id", id, "error", err)
		}
	}
	return public, nil
}

func (s *formService) GetOwned(ctx context.Context, id uint, userID string) (*FormDetail, error) {
	form, err := s.ownership.AuthorizeForm(ctx, id, userID, "view")
	if err != nil {
		return nil, err
	}
	return assembleFormDetail(ctx, s.repo, form)
}

func (s *formService) AuditTrail(ctx context.Context, id uint, userID string, filters repositories.AuditFilters) (*AuditTrail, error) {
	if _, err := s.ownership.AuthorizeForm(ctx, id, userID, "view audit trail of"); err != nil {
		return nil, err
	}
	entries, total, err := s.repo.Audit().ListByForm(ctx, id, filters)
	if err != nil {
		return nil, err
	}
	return &AuditTrail{Entries: entries, Total: total}, nil
}

// assembleFormDetail loads the full owner view of a form
func assembleFormDetail(ctx context.Context, repo repositories.Repository, form *models.Form) (*FormDetail, error) {
	questions, answers, err := loadQuestionTree(ctx, repo, form.ID)
	if err != nil {
		return nil, err
	}

	detail := &FormDetail{Form: *form, Questions: make([]QuestionDetail, 0, len(questions))}
	for _, q := range questions {
		qa := answers[q.ID]
		if qa == nil {
			qa = []models.Answer{}
		}
		detail.Questions = append(detail.Questions, QuestionDetail{Question: q, Answers: qa})
	}
	return detail, nil
}

func newFormList(forms []models.FormSummary, total int64) *FormList {
	if forms == nil {
		forms = []models.FormSummary{}
	}
	return &FormList{Forms: forms, Total: total}
}

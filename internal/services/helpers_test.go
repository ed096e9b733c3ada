package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/form-service/internal/testutil"
	"github.com/stretchr/testify/require"
)

const (
	author   = "author-1"
	stranger = "author-2"
)

var errBoom = errors.New("boom")

type testEnv struct {
	repo      *postgres.Repository
	services  ServiceManager
	publisher *events.MockEventPublisher
	log       *slog.Logger
}

func (e *testEnv) logger() *slog.Logger { return e.log }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := postgres.NewRepository(testutil.SetupTestDB(t))
	return newTestEnvWithRepo(t, repo, repo)
}

// newTestEnvWithRepo wires the services over serviceRepo while keeping the
// plain repository around for assertions
func newTestEnvWithRepo(t *testing.T, repo *postgres.Repository, serviceRepo repositories.Repository) *testEnv {
	t.Helper()
	logger := testutil.NewTestLogger()
	publisher := events.NewMockEventPublisher(logger)
	return &testEnv{
		repo:      repo,
		publisher: publisher,
		log:       logger,
		services: NewServiceManager(Dependencies{
			Repo:               serviceRepo,
			Publisher:          publisher,
			Logger:             logger,
			CascadeConcurrency: 2,
		}),
	}
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func (e *testEnv) createForm(t *testing.T, owner string) uint {
	t.Helper()
	result, err := e.services.Form().Create(context.Background(), &CreateFormRequest{Name: "Survey"}, owner)
	require.NoError(t, err)
	return result.FormID
}

func (e *testEnv) createQuestion(t *testing.T, formID uint, answerType models.AnswerType, index *int) *CreateQuestionResult {
	t.Helper()
	result, err := e.services.Question().Create(context.Background(), &CreateQuestionRequest{
		FormID:     formID,
		Question:   "What?",
		AnswerType: answerType,
		Index:      index,
	}, author)
	require.NoError(t, err)
	return result
}

func (e *testEnv) createAnswer(t *testing.T, questionID uint, correct bool) *CreateAnswerResult {
	t.Helper()
	result, err := e.services.Answer().Create(context.Background(), &CreateAnswerRequest{
		QuestionID: questionID,
		Answer:     "option",
		IsCorrect:  boolPtr(correct),
	}, author)
	require.NoError(t, err)
	return result
}

// questionOrder returns question ids by index and fails on duplicate indexes
func (e *testEnv) questionOrder(t *testing.T, formID uint) map[int]uint {
	t.Helper()
	questions, err := e.repo.Question().ListByForm(context.Background(), formID)
	require.NoError(t, err)
	order := make(map[int]uint, len(questions))
	for _, q := range questions {
		_, dup := order[q.Index]
		require.Falsef(t, dup, "index %d is used twice", q.Index)
		order[q.Index] = q.ID
	}
	return order
}

func (e *testEnv) correctAnswers(t *testing.T, questionID uint) []uint {
	t.Helper()
	answers, err := e.repo.Answer().ListByQuestion(context.Background(), questionID)
	require.NoError(t, err)
	var ids []uint
	for _, a := range answers {
		if a.IsCorrect {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// flakyRepository hides the transaction support of the wrapped repository and
// lets tests fail answer writes
type flakyRepository struct {
	repositories.Repository
	answers   *flakyAnswers
	questions *flakyQuestions
}

func newFlakyRepository(repo repositories.Repository) *flakyRepository {
	return &flakyRepository{
		Repository: repo,
		answers: &flakyAnswers{
			AnswerRepository: repo.Answer(),
			failDeleteFor:    map[uint]bool{},
		},
		questions: &flakyQuestions{
			QuestionRepository: repo.Question(),
			lookupBudget:       map[uint]int{},
		},
	}
}

func (r *flakyRepository) Answer() repositories.AnswerRepository     { return r.answers }
func (r *flakyRepository) Question() repositories.QuestionRepository { return r.questions }

// flakyQuestions fails GetByID for an id once its lookup budget is spent
type flakyQuestions struct {
	repositories.QuestionRepository
	lookupBudget map[uint]int
}

func (q *flakyQuestions) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	if budget, ok := q.lookupBudget[id]; ok {
		if budget == 0 {
			return nil, errBoom
		}
		q.lookupBudget[id] = budget - 1
	}
	return q.QuestionRepository.GetByID(ctx, id)
}

type flakyAnswers struct {
	repositories.AnswerRepository
	failCreate    bool
	failDeleteFor map[uint]bool
}

func (a *flakyAnswers) Create(ctx context.Context, answer *models.Answer) error {
	if a.failCreate {
		return errBoom
	}
	return a.AnswerRepository.Create(ctx, answer)
}

func (a *flakyAnswers) DeleteByQuestion(ctx context.Context, questionID uint) (int64, error) {
	if a.failDeleteFor[questionID] {
		return 0, errBoom
	}
	return a.AnswerRepository.DeleteByQuestion(ctx, questionID)
}

// failingTxRepository opens real transactions whose answer writes fail
type failingTxRepository struct {
	repositories.TransactionRepository
}

func (r *failingTxRepository) Begin(ctx context.Context) (repositories.TransactionRepository, error) {
	tx, err := r.TransactionRepository.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &failingTx{
		TransactionRepository: tx,
		answers: &flakyAnswers{
			AnswerRepository: tx.Answer(),
			failCreate:       true,
			failDeleteFor:    map[uint]bool{},
		},
	}, nil
}

type failingTx struct {
	repositories.TransactionRepository
	answers *flakyAnswers
}

func (t *failingTx) Answer() repositories.AnswerRepository { return t.answers }

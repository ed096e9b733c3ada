package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SAP-F-2025/form-service/internal/cache"
	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/form-service/internal/testutil"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nestedFormRequest() *CreateFormRequest {
	return &CreateFormRequest{
		Name: "Quiz",
		Questions: []QuestionInput{
			{
				Question:   "Capital of France?",
				AnswerType: models.AnswerTypeRadio,
				Answers: []AnswerInput{
					{Answer: "Paris", IsCorrect: boolPtr(true)},
					{Answer: "Lyon", IsCorrect: boolPtr(false)},
				},
			},
			{
				Question:   "Comments",
				AnswerType: models.AnswerTypeText,
			},
		},
	}
}

func TestFormService_CreateNested(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	result, err := env.services.Form().Create(ctx, nestedFormRequest(), author)
	require.NoError(t, err)
	require.Len(t, result.QuestionIDs, 2)

	detail, err := env.services.Form().GetOwned(ctx, result.FormID, author)
	require.NoError(t, err)
	assert.Equal(t, "Quiz", detail.Name)
	assert.Equal(t, author, detail.AuthorID)
	require.Len(t, detail.Questions, 2)
	assert.Equal(t, 0, detail.Questions[0].Index)
	assert.Equal(t, 1, detail.Questions[1].Index)
	require.Len(t, detail.Questions[0].Answers, 2)
	assert.True(t, detail.Questions[0].Answers[0].IsCorrect)
	assert.NotNil(t, detail.Questions[1].Answers)

	assert.Len(t, env.publisher.EventsOfType(events.EventFormCreated), 1)
}

func TestFormService_CreateValidatesNestedRadio(t *testing.T) {
	env := newTestEnv(t)
	req := nestedFormRequest()
	req.Questions[0].Answers[1].IsCorrect = boolPtr(true)

	_, err := env.services.Form().Create(context.Background(), req, author)
	require.True(t, IsValidation(err))

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "questions[0].answers[1].is_correct", errs[0].Field)

	list, err := env.services.Form().List(context.Background(), repositories.FormFilters{})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestFormService_PublicViewIsRedacted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	result, err := env.services.Form().Create(ctx, nestedFormRequest(), author)
	require.NoError(t, err)

	public, err := env.services.Form().GetPublic(ctx, result.FormID)
	require.NoError(t, err)
	require.Len(t, public.Questions, 2)

	body, err := json.Marshal(public)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "is_correct")
	assert.Contains(t, string(body), "Paris")

	_, err = env.services.Form().GetPublic(ctx, result.FormID+100)
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func newCachedManager(t *testing.T, wrap func(cache.CacheService) cache.CacheService) (ServiceManager, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := testutil.NewTestLogger()
	cacheService := cache.NewRedisCache(client, logger)
	if wrap != nil {
		cacheService = wrap(cacheService)
	}
	repo := postgres.NewRepository(testutil.SetupTestDB(t))
	return NewServiceManager(Dependencies{
		Repo:     repo,
		Cache:    cacheService,
		Logger:   logger,
		CacheTTL: time.Minute,
	}), server
}

func TestFormService_PublicViewCache(t *testing.T) {
	ctx := context.Background()
	manager, server := newCachedManager(t, nil)

	created, err := manager.Form().Create(ctx, nestedFormRequest(), author)
	require.NoError(t, err)
	key := cache.PublicFormKey(created.FormID, 1)

	_, err = manager.Form().GetPublic(ctx, created.FormID)
	require.NoError(t, err)
	assert.True(t, server.Exists(key), "public view is cached after the first read")

	_, err = manager.Question().Create(ctx, &CreateQuestionRequest{
		FormID: created.FormID, Question: "Another", AnswerType: models.AnswerTypeText,
	}, author)
	require.NoError(t, err)
	assert.False(t, server.Exists(key), "mutations invalidate the cached view")

	generation, err := server.Get(cache.PublicFormGenerationKey(created.FormID))
	require.NoError(t, err)
	assert.Equal(t, "2", generation)

	public, err := manager.Form().GetPublic(ctx, created.FormID)
	require.NoError(t, err)
	assert.Len(t, public.Questions, 3)

	fresh := cache.PublicFormKey(created.FormID, 2)
	assert.True(t, server.Exists(fresh))
	server.FastForward(2 * time.Minute)
	assert.False(t, server.Exists(fresh))
}

// writeDuringSetCache runs beforeSet once, right before the first Set reaches the cache
type writeDuringSetCache struct {
	cache.CacheService
	beforeSet func()
}

func (c *writeDuringSetCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if hook := c.beforeSet; hook != nil {
		c.beforeSet = nil
		hook()
	}
	return c.CacheService.Set(ctx, key, value, ttl)
}

func TestFormService_PublicViewCacheIgnoresStaleReaders(t *testing.T) {
	ctx := context.Background()
	racing := &writeDuringSetCache{}
	manager, _ := newCachedManager(t, func(c cache.CacheService) cache.CacheService {
		racing.CacheService = c
		return racing
	})

	created, err := manager.Form().Create(ctx, nestedFormRequest(), author)
	require.NoError(t, err)

	// A writer commits after the reader loaded the tree but before it caches it
	racing.beforeSet = func() {
		_, err := manager.Question().Create(ctx, &CreateQuestionRequest{
			FormID: created.FormID, Question: "Late", AnswerType: models.AnswerTypeText,
		}, author)
		require.NoError(t, err)
	}

	stale, err := manager.Form().GetPublic(ctx, created.FormID)
	require.NoError(t, err)
	assert.Len(t, stale.Questions, 2)

	public, err := manager.Form().GetPublic(ctx, created.FormID)
	require.NoError(t, err)
	assert.Len(t, public.Questions, 3, "the stale tree is never served after the write")
}

func TestFormService_RenameAndOwnership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	formID := env.createForm(t, author)

	_, err := env.services.Form().Rename(ctx, formID, &UpdateFormRequest{Name: "Stolen"}, stranger)
	assert.True(t, IsForbidden(err))

	_, err = env.services.Form().GetOwned(ctx, formID, stranger)
	assert.True(t, IsForbidden(err))

	_, err = env.services.Form().Rename(ctx, formID+100, &UpdateFormRequest{Name: "x"}, author)
	assert.ErrorIs(t, err, ErrFormNotFound)

	result, err := env.services.Form().Rename(ctx, formID, &UpdateFormRequest{Name: "Renamed"}, author)
	require.NoError(t, err)
	assert.True(t, result.Updated)

	result, err = env.services.Form().Rename(ctx, formID, &UpdateFormRequest{Name: "Renamed"}, author)
	require.NoError(t, err)
	assert.False(t, result.Updated)

	_, err = env.services.Form().Rename(ctx, formID, &UpdateFormRequest{Name: " "}, author)
	assert.True(t, IsValidation(err))
}

func TestFormService_ListMine(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createForm(t, author)
	env.createForm(t, author)
	env.createForm(t, stranger)

	mine, err := env.services.Form().ListMine(ctx, author, repositories.FormFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)

	owner := author
	all, err := env.services.Form().List(ctx, repositories.FormFilters{AuthorID: &owner})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total, "public listing ignores author filters")
}

func TestFormService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	created, err := env.services.Form().Create(ctx, nestedFormRequest(), author)
	require.NoError(t, err)

	_, err = env.services.Form().Delete(ctx, created.FormID, stranger)
	require.True(t, IsForbidden(err))

	result, err := env.services.Form().Delete(ctx, created.FormID, author)
	require.NoError(t, err)
	assert.True(t, result.FormDeleted)
	assert.Equal(t, 2, result.QuestionsDeleted)
	assert.Equal(t, int64(2), result.AnswersDeleted)
	assert.Empty(t, result.FailedQuestionIDs)

	for _, id := range created.QuestionIDs {
		_, err := env.repo.Question().GetByID(ctx, id)
		assert.True(t, repositories.IsNotFoundError(err))
	}

	_, err = env.services.Form().Delete(ctx, created.FormID, author)
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestFormService_AuditTrail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	formID := env.createForm(t, author)
	env.createQuestion(t, formID, models.AnswerTypeText, nil)
	_, err := env.services.Form().Rename(ctx, formID, &UpdateFormRequest{Name: "Renamed"}, author)
	require.NoError(t, err)

	trail, err := env.services.Form().AuditTrail(ctx, formID, author, repositories.AuditFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), trail.Total)

	actions := make([]models.AuditAction, 0, len(trail.Entries))
	for _, entry := range trail.Entries {
		actions = append(actions, entry.Action)
		assert.Equal(t, author, entry.ActorID)
	}
	assert.ElementsMatch(t, []models.AuditAction{
		models.AuditFormCreated, models.AuditQuestionCreated, models.AuditFormUpdated,
	}, actions)

	_, err = env.services.Form().AuditTrail(ctx, formID, stranger, repositories.AuditFilters{})
	assert.True(t, IsForbidden(err))
}

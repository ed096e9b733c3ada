package services

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerService_RadioKeepsSingleCorrect(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	formID := env.createForm(t, author)
	question := env.createQuestion(t, formID, models.AnswerTypeRadio, nil)

	a := env.createAnswer(t, question.QuestionID, true)
	b := env.createAnswer(t, question.QuestionID, false)

	t.Run("new correct answer demotes the old one", func(t *testing.T) {
		c := env.createAnswer(t, question.QuestionID, true)
		assert.Equal(t, int64(1), c.Demoted)
		assert.Equal(t, []uint{c.AnswerID}, env.correctAnswers(t, question.QuestionID))
	})

	t.Run("marking an answer correct demotes its siblings", func(t *testing.T) {
		result, err := env.services.Answer().Update(ctx, b.AnswerID, &UpdateAnswerRequest{IsCorrect: boolPtr(true)}, author)
		require.NoError(t, err)
		assert.True(t, result.Updated)
		assert.Equal(t, []uint{b.AnswerID}, env.correctAnswers(t, question.QuestionID))
	})

	t.Run("incorrect answers leave siblings alone", func(t *testing.T) {
		_, err := env.services.Answer().Update(ctx, a.AnswerID, &UpdateAnswerRequest{IsCorrect: boolPtr(false)}, author)
		require.NoError(t, err)
		assert.Equal(t, []uint{b.AnswerID}, env.correctAnswers(t, question.QuestionID))
	})
}

func TestAnswerService_CheckboxAllowsManyCorrect(t *testing.T) {
	env := newTestEnv(t)
	formID := env.createForm(t, author)
	question := env.createQuestion(t, formID, models.AnswerTypeCheckbox, nil)

	env.createAnswer(t, question.QuestionID, true)
	second := env.createAnswer(t, question.QuestionID, true)

	assert.Zero(t, second.Demoted)
	assert.Len(t, env.correctAnswers(t, question.QuestionID), 2)
}

func TestAnswerService_Indexes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	formID := env.createForm(t, author)
	question := env.createQuestion(t, formID, models.AnswerTypeText, nil)

	a0 := env.createAnswer(t, question.QuestionID, false)
	a1 := env.createAnswer(t, question.QuestionID, false)
	assert.Equal(t, 0, a0.Index)
	assert.Equal(t, 1, a1.Index)

	inserted, err := env.services.Answer().Create(ctx, &CreateAnswerRequest{
		QuestionID: question.QuestionID,
		Answer:     "first",
		IsCorrect:  boolPtr(false),
		Index:      intPtr(0),
	}, author)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted.ShiftedSiblings)

	answers, err := env.repo.Answer().ListByQuestion(ctx, question.QuestionID)
	require.NoError(t, err)
	require.Len(t, answers, 3)
	assert.Equal(t, []uint{inserted.AnswerID, a0.AnswerID, a1.AnswerID},
		[]uint{answers[0].ID, answers[1].ID, answers[2].ID})
	assert.Equal(t, []int{0, 1, 2}, []int{answers[0].Index, answers[1].Index, answers[2].Index})
}

func TestAnswerService_MoveBetweenQuestions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	formID := env.createForm(t, author)
	source := env.createQuestion(t, formID, models.AnswerTypeCheckbox, nil)
	target := env.createQuestion(t, formID, models.AnswerTypeRadio, nil)

	moving := env.createAnswer(t, source.QuestionID, true)
	existing := env.createAnswer(t, target.QuestionID, true)

	result, err := env.services.Answer().Update(ctx, moving.AnswerID, &UpdateAnswerRequest{QuestionID: &target.QuestionID}, author)
	require.NoError(t, err)
	require.True(t, result.Updated)
	require.NotNil(t, result.Index)
	assert.Equal(t, 1, *result.Index)

	// The moved answer stays correct, so the radio target keeps only it
	assert.Equal(t, []uint{moving.AnswerID}, env.correctAnswers(t, target.QuestionID))
	assert.NotContains(t, env.correctAnswers(t, target.QuestionID), existing.AnswerID)

	remaining, err := env.repo.Answer().ListByQuestion(ctx, source.QuestionID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestAnswerService_MoveLogsSourceLookupFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	sourceForm := env.createForm(t, author)
	targetForm := env.createForm(t, author)
	source := env.createQuestion(t, sourceForm, models.AnswerTypeCheckbox, nil)
	target := env.createQuestion(t, targetForm, models.AnswerTypeCheckbox, nil)
	moving := env.createAnswer(t, source.QuestionID, false)

	// Ownership walks the source question once, the move lookup then fails
	flaky := newFlakyRepository(env.repo)
	flaky.questions.lookupBudget[source.QuestionID] = 1

	var buf bytes.Buffer
	manager := NewServiceManager(Dependencies{
		Repo:      flaky,
		Publisher: env.publisher,
		Logger:    slog.New(slog.NewTextHandler(&buf, nil)),
	})

	result, err := manager.Answer().Update(ctx, moving.AnswerID, &UpdateAnswerRequest{QuestionID: &target.QuestionID}, author)
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "Source question lookup failed")

	moved, err := env.repo.Answer().GetByID(ctx, moving.AnswerID)
	require.NoError(t, err)
	assert.Equal(t, target.QuestionID, moved.QuestionID)
}

func TestAnswerService_Ownership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	formID := env.createForm(t, author)
	question := env.createQuestion(t, formID, models.AnswerTypeText, nil)
	answer := env.createAnswer(t, question.QuestionID, false)

	_, err := env.services.Answer().Create(ctx, &CreateAnswerRequest{
		QuestionID: question.QuestionID, Answer: "x", IsCorrect: boolPtr(false),
	}, stranger)
	assert.True(t, IsForbidden(err))

	text := "hijacked"
	_, err = env.services.Answer().Update(ctx, answer.AnswerID, &UpdateAnswerRequest{Answer: &text}, stranger)
	assert.True(t, IsForbidden(err))

	_, err = env.services.Answer().Delete(ctx, answer.AnswerID, stranger)
	assert.True(t, IsForbidden(err))

	_, err = env.services.Answer().Delete(ctx, answer.AnswerID+100, author)
	assert.ErrorIs(t, err, ErrAnswerNotFound)

	_, err = env.services.Answer().Create(ctx, &CreateAnswerRequest{
		QuestionID: question.QuestionID + 100, Answer: "x", IsCorrect: boolPtr(false),
	}, author)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	reloaded, err := env.repo.Answer().GetByID(ctx, answer.AnswerID)
	require.NoError(t, err)
	assert.Equal(t, "option", reloaded.Answer)
}

func TestAnswerService_Validation(t *testing.T) {
	env := newTestEnv(t)
	formID := env.createForm(t, author)
	question := env.createQuestion(t, formID, models.AnswerTypeText, nil)

	_, err := env.services.Answer().Create(context.Background(), &CreateAnswerRequest{
		QuestionID: question.QuestionID,
		Answer:     "  ",
	}, author)
	require.True(t, IsValidation(err))

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	assert.True(t, fields["answer"])
	assert.True(t, fields["is_correct"])
}

func TestAnswerService_DeleteKeepsGaps(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	formID := env.createForm(t, author)
	question := env.createQuestion(t, formID, models.AnswerTypeText, nil)

	a0 := env.createAnswer(t, question.QuestionID, false)
	env.createAnswer(t, question.QuestionID, false)

	result, err := env.services.Answer().Delete(ctx, a0.AnswerID, author)
	require.NoError(t, err)
	assert.True(t, result.Deleted)

	next := env.createAnswer(t, question.QuestionID, false)
	assert.Equal(t, 2, next.Index)

	deleted := env.publisher.EventsOfType(events.EventAnswerDeleted)
	require.Len(t, deleted, 1)
	assert.Equal(t, formID, deleted[0].FormID)
}

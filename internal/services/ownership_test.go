package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnershipResolver_FailClosed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	resolver := NewOwnershipResolver(env.repo, env.logger())

	formID := env.createForm(t, author)
	question := env.createQuestion(t, formID, models.AnswerTypeRadio, nil)
	answer := env.createAnswer(t, question.QuestionID, true)

	t.Run("owner is accepted", func(t *testing.T) {
		assert.True(t, resolver.FormBelongsToUser(ctx, formID, author))
		assert.True(t, resolver.QuestionBelongsToUser(ctx, question.QuestionID, author))
		assert.True(t, resolver.AnswerBelongsToUser(ctx, answer.AnswerID, author))
	})

	t.Run("missing question", func(t *testing.T) {
		assert.False(t, resolver.QuestionBelongsToUser(ctx, question.QuestionID+1000, author))
	})

	t.Run("missing answer", func(t *testing.T) {
		assert.False(t, resolver.AnswerBelongsToUser(ctx, answer.AnswerID+1000, author))
	})

	t.Run("foreign author", func(t *testing.T) {
		assert.False(t, resolver.FormBelongsToUser(ctx, formID, stranger))
		assert.False(t, resolver.QuestionBelongsToUser(ctx, question.QuestionID, stranger))
		assert.False(t, resolver.AnswerBelongsToUser(ctx, answer.AnswerID, stranger))
	})

	t.Run("empty user", func(t *testing.T) {
		assert.False(t, resolver.QuestionBelongsToUser(ctx, question.QuestionID, ""))
	})

	t.Run("form deleted under its question", func(t *testing.T) {
		deleted, err := env.repo.Form().Delete(ctx, formID, author)
		require.NoError(t, err)
		require.True(t, deleted)

		assert.False(t, resolver.FormBelongsToUser(ctx, formID, author))
		assert.False(t, resolver.QuestionBelongsToUser(ctx, question.QuestionID, author))
		assert.False(t, resolver.AnswerBelongsToUser(ctx, answer.AnswerID, author))
	})
}

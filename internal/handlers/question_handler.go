package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService, logger utils.Logger) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
	}
}

// ListQuestions lists the questions of a form in index order
// @Param form_id query uint true "Form ID"
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	formID := parseUintQuery(c, "form_id")
	if formID == 0 {
		return
	}

	questions, err := h.questionService.ListPublic(c.Request.Context(), formID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// GetQuestion retrieves a question with its answers, correctness omitted
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	question, err := h.questionService.GetPublic(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// CreateQuestion inserts a question into a form, shifting siblings when the index is taken
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	var req services.CreateQuestionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.questionService.Create(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UpdateQuestion changes, reorders or moves a question
// @Router /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Updating question", "question_id", id)

	var req services.UpdateQuestionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.questionService.Update(c.Request.Context(), id, &req, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteQuestion deletes a question and its answers
// @Router /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Deleting question", "question_id", id)

	result, err := h.questionService.Delete(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AnswerHandler struct {
	BaseHandler
	answerService services.AnswerService
}

func NewAnswerHandler(answerService services.AnswerService, logger utils.Logger) *AnswerHandler {
	return &AnswerHandler{
		BaseHandler:   NewBaseHandler(logger),
		answerService: answerService,
	}
}

// @Router /answers [post]
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	h.LogRequest(c, "Creating answer")

	var req services.CreateAnswerRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.answerService.Create(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// @Router /answers/{id} [put]
func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Updating answer", "answer_id", id)

	var req services.UpdateAnswerRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.answerService.Update(c.Request.Context(), id, &req, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Router /answers/{id} [delete]
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Deleting answer", "answer_id", id)

	result, err := h.answerService.Delete(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type FormHandler struct {
	BaseHandler
	formService   services.FormService
	exportService services.ExportService
}

func NewFormHandler(formService services.FormService, exportService services.ExportService, logger utils.Logger) *FormHandler {
	return &FormHandler{
		BaseHandler:   NewBaseHandler(logger),
		formService:   formService,
		exportService: exportService,
	}
}

// ListForms returns every form as id and name
// @Router /forms [get]
func (h *FormHandler) ListForms(c *gin.Context) {
	forms, err := h.formService.List(c.Request.Context(), parseFormFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, forms)
}

// GetForm returns the public structure of a form. Answer correctness is never included.
// @Router /forms/{id} [get]
func (h *FormHandler) GetForm(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	form, err := h.formService.GetPublic(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// CreateForm creates a form, optionally with nested questions and answers
// @Router /forms [post]
func (h *FormHandler) CreateForm(c *gin.Context) {
	h.LogRequest(c, "Creating form")

	var req services.CreateFormRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.formService.Create(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UpdateForm renames a form
// @Router /forms/{id} [put]
func (h *FormHandler) UpdateForm(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Renaming form", "form_id", id)

	var req services.UpdateFormRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.formService.Rename(c.Request.Context(), id, &req, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteForm deletes a form with its questions and answers
// @Router /forms/{id} [delete]
func (h *FormHandler) DeleteForm(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Deleting form", "form_id", id)

	result, err := h.formService.Delete(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		var cascadeErr *services.CascadeError
		if errors.As(err, &cascadeErr) && result != nil {
			h.RespondWithError(c, http.StatusInternalServerError, "Form deleted but some questions could not be removed", err, result)
			return
		}
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListMyForms lists the forms of the caller
// @Router /my/forms [get]
func (h *FormHandler) ListMyForms(c *gin.Context) {
	forms, err := h.formService.ListMine(c.Request.Context(), currentUserID(c), parseFormFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, forms)
}

// GetMyForm returns the full structure of an owned form, correctness included
// @Router /my/forms/{id} [get]
func (h *FormHandler) GetMyForm(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	form, err := h.formService.GetOwned(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// GetAuditTrail lists the recorded changes of an owned form, newest first
// @Router /my/forms/{id}/audit [get]
func (h *FormHandler) GetAuditTrail(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	trail, err := h.formService.AuditTrail(c.Request.Context(), id, currentUserID(c), parseAuditFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, trail)
}

// ExportForm downloads an owned form as an XLSX workbook
// @Router /my/forms/{id}/export [get]
func (h *FormHandler) ExportForm(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Exporting form", "form_id", id)

	file, err := h.exportService.ExportForm(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

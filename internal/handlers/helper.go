package handlers

import (
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// currentUserID returns the caller set by AuthMiddleware, or "" for anonymous requests
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// parseIDParam reads a positive numeric path parameter. On failure it writes a
// 400 response and returns 0.
func parseIDParam(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a positive integer",
		})
		return 0
	}
	return uint(id)
}

// parseUintQuery reads a required positive numeric query parameter
func parseUintQuery(c *gin.Context, param string) uint {
	value, err := strconv.ParseUint(c.Query(param), 10, 32)
	if err != nil || value == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a positive integer",
		})
		return 0
	}
	return uint(value)
}

func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// parsePage converts page/size query parameters to limit and offset
func parsePage(c *gin.Context) (limit, offset int) {
	page := parseIntQuery(c, "page", 1)
	size := parseIntQuery(c, "size", defaultPageSize)

	if page < 1 {
		page = 1
	}
	if size < 1 || size > maxPageSize {
		size = defaultPageSize
	}
	return size, (page - 1) * size
}

func parseFormFilters(c *gin.Context) repositories.FormFilters {
	limit, offset := parsePage(c)
	return repositories.FormFilters{Limit: limit, Offset: offset}
}

func parseAuditFilters(c *gin.Context) repositories.AuditFilters {
	limit, offset := parsePage(c)
	return repositories.AuditFilters{Limit: limit, Offset: offset}
}

// bindJSON decodes the request body, writing a 400 response on malformed input
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

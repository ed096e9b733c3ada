package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/form-service/internal/auth"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid bearer token and stores the caller id as "user_id"
func AuthMiddleware(verifier auth.TokenVerifier, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
				Details: auth.ErrMissingToken.Error(),
			})
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Warn("Rejected bearer token",
				"path", c.Request.URL.Path,
				"request_id", c.GetString("request_id"),
				"error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired token",
			})
			return
		}

		c.Set("user_id", identity.UserID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

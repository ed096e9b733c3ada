package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/form-service/internal/auth"
	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	formHandler     *FormHandler
	questionHandler *QuestionHandler
	answerHandler   *AnswerHandler
	authHandler     *AuthHandler

	verifier auth.TokenVerifier
	// localAuth enables /auth routes; false when an external provider issues tokens
	localAuth bool
	logger    utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	verifier auth.TokenVerifier,
	localAuth bool,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		formHandler:     NewFormHandler(serviceManager.Form(), serviceManager.Export(), logger),
		questionHandler: NewQuestionHandler(serviceManager.Question(), logger),
		answerHandler:   NewAnswerHandler(serviceManager.Answer(), logger),
		authHandler:     NewAuthHandler(serviceManager.Auth(), logger),
		verifier:        verifier,
		localAuth:       localAuth,
		logger:          logger,
	}
}

// NewRouter builds the gin engine with logging middleware and every route
func (hm *HandlerManager) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ContextLogger(hm.logger))
	router.Use(utils.LoggerMiddleware(hm.logger))

	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	requireAuth := AuthMiddleware(hm.verifier, hm.logger)

	v1 := router.Group("/api/v1")
	{
		if hm.localAuth {
			authRoutes := v1.Group("/auth")
			{
				authRoutes.POST("/register", hm.authHandler.Register)
				authRoutes.POST("/login", hm.authHandler.Login)
			}
		}

		// Reads are public; writes need a token
		forms := v1.Group("/forms")
		{
			forms.GET("", hm.formHandler.ListForms)
			forms.GET("/:id", hm.formHandler.GetForm)
			forms.POST("", requireAuth, hm.formHandler.CreateForm)
			forms.PUT("/:id", requireAuth, hm.formHandler.UpdateForm)
			forms.DELETE("/:id", requireAuth, hm.formHandler.DeleteForm)
		}

		questions := v1.Group("/questions")
		{
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.POST("", requireAuth, hm.questionHandler.CreateQuestion)
			questions.PUT("/:id", requireAuth, hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", requireAuth, hm.questionHandler.DeleteQuestion)
		}

		answers := v1.Group("/answers", requireAuth)
		{
			answers.POST("", hm.answerHandler.CreateAnswer)
			answers.PUT("/:id", hm.answerHandler.UpdateAnswer)
			answers.DELETE("/:id", hm.answerHandler.DeleteAnswer)
		}

		// Owner views include answer correctness
		my := v1.Group("/my", requireAuth)
		{
			my.GET("/forms", hm.formHandler.ListMyForms)
			my.GET("/forms/:id", hm.formHandler.GetMyForm)
			my.GET("/forms/:id/export", hm.formHandler.ExportForm)
			my.GET("/forms/:id/audit", hm.formHandler.GetAuditTrail)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "form-service",
	})
}

package services

import (
	"log/slog"
	"time"

	"github.com/SAP-F-2025/form-service/internal/auth"
	"github.com/SAP-F-2025/form-service/internal/cache"
	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/validator"
)

// Dependencies are shared by every service
type Dependencies struct {
	Repo      repositories.Repository
	Cache     cache.CacheService
	Publisher events.EventPublisher
	// Issuer is nil when an external provider issues tokens
	Issuer    auth.TokenIssuer
	Validator *validator.Validator
	Logger    *slog.Logger

	CacheTTL           time.Duration
	CascadeConcurrency int
}

func (d *Dependencies) withDefaults() *Dependencies {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Cache == nil {
		d.Cache = cache.NewNoopCache()
	}
	if d.Publisher == nil {
		d.Publisher = events.NewMockEventPublisher(d.Logger)
	}
	if d.Validator == nil {
		d.Validator = validator.New()
	}
	if d.CacheTTL <= 0 {
		d.CacheTTL = 5 * time.Minute
	}
	return d
}

func (d *Dependencies) ownership() *OwnershipResolver {
	return NewOwnershipResolver(d.Repo, d.Logger)
}

func (d *Dependencies) cascade() *CascadeDeleter {
	return NewCascadeDeleter(d.Repo, d.Logger, d.CascadeConcurrency)
}

func (d *Dependencies) activity() *activityRecorder {
	return newActivityRecorder(d.Repo, d.Cache, d.Publisher, d.Logger)
}

// ServiceManager wires every service over one set of dependencies
type ServiceManager interface {
	Form() FormService
	Question() QuestionService
	Answer() AnswerService
	Auth() AuthService
	Export() ExportService
}

type serviceManager struct {
	form     FormService
	question QuestionService
	answer   AnswerService
	auth     AuthService
	export   ExportService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	d := deps.withDefaults()
	return &serviceManager{
		form:     NewFormService(d),
		question: NewQuestionService(d),
		answer:   NewAnswerService(d),
		auth:     NewAuthService(d),
		export:   NewExportService(d),
	}
}

func (m *serviceManager) Form() FormService         { return m.form }
func (m *serviceManager) Question() QuestionService { return m.question }
func (m *serviceManager) Answer() AnswerService     { return m.answer }
func (m *serviceManager) Auth() AuthService         { return m.auth }
func (m *serviceManager) Export() ExportService     { return m.export }

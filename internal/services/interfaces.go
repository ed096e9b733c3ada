package services

import (
	"context"

	"github.com/SAP-F-2025/form-service/internal/repositories"
)

// ===== SERVICE INTERFACES =====

type FormService interface {
	Create(ctx context.Context, req *CreateFormRequest, userID string) (*CreateFormResult, error)
	Rename(ctx context.Context, id uint, req *UpdateFormRequest, userID string) (*UpdateResult, error)
	Delete(ctx context.Context, id uint, userID string) (*CascadeResult, error)

	// Public reads never expose answer correctness
	List(ctx context.Context, filters repositories.FormFilters) (*FormList, error)
	GetPublic(ctx context.Context, id uint) (*PublicForm, error)

	// Owner reads
	ListMine(ctx context.Context, userID string, filters repositories.FormFilters) (*FormList, error)
	GetOwned(ctx context.Context, id uint, userID string) (*FormDetail, error)
	AuditTrail(ctx context.Context, id uint, userID string, filters repositories.AuditFilters) (*AuditTrail, error)
}

type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest, userID string) (*CreateQuestionResult, error)
	Update(ctx context.Context, id uint, req *UpdateQuestionRequest, userID string) (*UpdateResult, error)
	Delete(ctx context.Context, id uint, userID string) (*DeleteResult, error)

	GetPublic(ctx context.Context, id uint) (*PublicQuestion, error)
	ListPublic(ctx context.Context, formID uint) ([]PublicQuestion, error)
}

type AnswerService interface {
	Create(ctx context.Context, req *CreateAnswerRequest, userID string) (*CreateAnswerResult, error)
	Update(ctx context.Context, id uint, req *UpdateAnswerRequest, userID string) (*UpdateResult, error)
	Delete(ctx context.Context, id uint, userID string) (*DeleteResult, error)
}

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
}

// ExportService renders an owned form as a spreadsheet
type ExportService interface {
	ExportForm(ctx context.Context, id uint, userID string) (*ExportFile, error)
}

package repositories

import (
	"context"

	"github.com/SAP-F-2025/form-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type FormFilters struct {
	AuthorID *string `json:"author_id"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
}

type AuditFilters struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

// SiblingRepository is implemented by repositories whose records are ordered
// inside a parent scope (questions of a form, answers of a question).
type SiblingRepository interface {
	// LockScope locks the parent row of the scope for the rest of the transaction.
	// It returns ErrNotFound when the parent does not exist.
	LockScope(ctx context.Context, scopeID uint) error
	// MaxIndex returns the highest index in the scope, or -1 when the scope is empty.
	MaxIndex(ctx context.Context, scopeID uint) (int, error)
	IndexTaken(ctx context.Context, scopeID uint, index int, excludeID uint) (bool, error)
	// ShiftIndexes increments every index >= fromIndex by one, skipping excludeID.
	ShiftIndexes(ctx context.Context, scopeID uint, fromIndex int, excludeID uint) (int64, error)
}

type FormRepository interface {
	Create(ctx context.Context, form *models.Form) error
	GetByID(ctx context.Context, id uint) (*models.Form, error)
	List(ctx context.Context, filters FormFilters) ([]models.FormSummary, int64, error)
	UpdateName(ctx context.Context, id uint, name string) (bool, error)
	// Delete removes the form when it belongs to authorID and reports whether a row was removed.
	Delete(ctx context.Context, id uint, authorID string) (bool, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type QuestionRepository interface {
	SiblingRepository

	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) (bool, error)
	ListByForm(ctx context.Context, formID uint) ([]models.Question, error)
	CountByForm(ctx context.Context, formID uint) (int64, error)
}

type AnswerRepository interface {
	SiblingRepository

	Create(ctx context.Context, answer *models.Answer) error
	GetByID(ctx context.Context, id uint) (*models.Answer, error)
	Update(ctx context.Context, answer *models.Answer) error
	Delete(ctx context.Context, id uint) (bool, error)
	ListByQuestion(ctx context.Context, questionID uint) ([]models.Answer, error)
	// ListByQuestions returns answers grouped by question id, each group ordered by index
	ListByQuestions(ctx context.Context, questionIDs []uint) (map[uint][]models.Answer, error)
	DeleteByQuestion(ctx context.Context, questionID uint) (int64, error)
	// ClearCorrect sets is_correct to false on every answer of the question except exceptID
	ClearCorrect(ctx context.Context, questionID uint, exceptID uint) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id string) error
}

type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByForm(ctx context.Context, formID uint, filters AuditFilters) ([]models.AuditLog, int64, error)
}

// Repository gives access to every entity store sharing one connection or transaction
type Repository interface {
	Form() FormRepository
	Question() QuestionRepository
	Answer() AnswerRepository
	User() UserRepository
	Audit() AuditRepository
}

// TransactionRepository is a Repository that can open a unit of work.
// Repositories returned by Begin share a single transaction until Commit or Rollback.
type TransactionRepository interface {
	Repository
	Begin(ctx context.Context) (TransactionRepository, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

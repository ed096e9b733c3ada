package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"gorm.io/gorm"
)

var errNestedTransaction = errors.New("nested transactions are not supported")

// Repository bundles the gorm repositories over one *gorm.DB, which is either
// the connection pool or a single open transaction.
type Repository struct {
	db       *gorm.DB
	inTx     bool
	finished bool

	forms     repositories.FormRepository
	questions repositories.QuestionRepository
	answers   repositories.AnswerRepository
	users     repositories.UserRepository
	audit     repositories.AuditRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return newRepository(db, false)
}

func newRepository(db *gorm.DB, inTx bool) *Repository {
	return &Repository{
		db:        db,
		inTx:      inTx,
		forms:     NewFormPostgreSQL(db),
		questions: NewQuestionPostgreSQL(db),
		answers:   NewAnswerPostgreSQL(db),
		users:     NewUserPostgreSQL(db),
		audit:     NewAuditPostgreSQL(db),
	}
}

func (r *Repository) Form() repositories.FormRepository         { return r.forms }
func (r *Repository) Question() repositories.QuestionRepository { return r.questions }
func (r *Repository) Answer() repositories.AnswerRepository     { return r.answers }
func (r *Repository) User() repositories.UserRepository         { return r.users }
func (r *Repository) Audit() repositories.AuditRepository       { return r.audit }

// ===== TRANSACTIONS =====

func (r *Repository) Begin(ctx context.Context) (repositories.TransactionRepository, error) {
	if r.inTx {
		return nil, errNestedTransaction
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return newRepository(tx, true), nil
}

func (r *Repository) Commit(ctx context.Context) error {
	if !r.inTx {
		return repositories.ErrNotInTx
	}
	if r.finished {
		return repositories.ErrTxClosed
	}
	r.finished = true
	if err := r.db.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback is safe to call after Commit and returns nil in that case
func (r *Repository) Rollback(ctx context.Context) error {
	if !r.inTx {
		return repositories.ErrNotInTx
	}
	if r.finished {
		return nil
	}
	r.finished = true
	if err := r.db.Rollback().Error; err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// AutoMigrate creates or updates every table the service owns
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Form{},
		&models.Question{},
		&models.Answer{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

var _ repositories.TransactionRepository = (*Repository)(nil)

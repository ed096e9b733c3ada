package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/form-service/internal/repositories"
)

// writeLog records the writes of a unit of work so a non-transactional
// failure can report what was left behind
type writeLog struct {
	committed []string
}

func (w *writeLog) add(entity string, id uint) {
	w.committed = append(w.committed, fmt.Sprintf("%s:%d", entity, id))
}

type unitOfWork func(repo repositories.Repository, writes *writeLog) error

// runInTransaction executes fn atomically when repo supports transactions.
// Otherwise fn runs step by step against repo and a failure after some writes
// is returned as a PartialFailureError.
func runInTransaction(ctx context.Context, repo repositories.Repository, logger *slog.Logger, operation string, fn unitOfWork) error {
	writes := &writeLog{}

	txRepo, ok := repo.(repositories.TransactionRepository)
	if !ok {
		if err := fn(repo, writes); err != nil {
			if len(writes.committed) > 0 {
				return &PartialFailureError{Operation: operation, Committed: writes.committed, Err: err}
			}
			return err
		}
		return nil
	}

	tx, err := txRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin %s: %w", operation, err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.ErrorContext(ctx, "Failed to rollback transaction", "operation", operation, "error", rbErr)
		}
	}()

	if err := fn(tx, writes); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit %s: %w", operation, err)
	}
	return nil
}

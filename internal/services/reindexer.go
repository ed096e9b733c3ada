package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/form-service/internal/repositories"
)

// IndexAssignment is the outcome of placing a record among its siblings
type IndexAssignment struct {
	Index int
	// Shifted is the number of siblings moved up by one to make room
	Shifted int64
}

// Reindexer keeps sibling indexes unique inside a scope. Callers are expected
// to hold the scope lock (SiblingRepository.LockScope) of the current unit of work.
type Reindexer struct {
	logger *slog.Logger
}

func NewReindexer(logger *slog.Logger) *Reindexer {
	return &Reindexer{logger: logger}
}

// NextIndex returns the index that appends a record to the scope
func (r *Reindexer) NextIndex(ctx context.Context, siblings repositories.SiblingRepository, scopeID uint) (int, error) {
	maxIndex, err := siblings.MaxIndex(ctx, scopeID)
	if err != nil {
		return 0, fmt.Errorf("failed to read max index of scope %d: %w", scopeID, err)
	}
	return maxIndex + 1, nil
}

// AssignIndex places a record at desired. When another sibling already holds
// that index, every sibling at or above it moves up by one. excludeID is the
// record being placed, or 0 for a new record.
func (r *Reindexer) AssignIndex(ctx context.Context, siblings repositories.SiblingRepository, scopeID uint, desired int, excludeID uint) (IndexAssignment, error) {
	if desired < 0 {
		return IndexAssignment{}, NewValidationError("index", "must be at least 0", desired)
	}

	taken, err := siblings.IndexTaken(ctx, scopeID, desired, excludeID)
	if err != nil {
		return IndexAssignment{}, fmt.Errorf("failed to check index %d of scope %d: %w", desired, scopeID, err)
	}
	if !taken {
		return IndexAssignment{Index: desired}, nil
	}

	shifted, err := siblings.ShiftIndexes(ctx, scopeID, desired, excludeID)
	if err != nil {
		return IndexAssignment{}, fmt.Errorf("failed to shift siblings of scope %d: %w", scopeID, err)
	}

	r.logger.DebugContext(ctx, "Shifted siblings",
		"scope_id", scopeID,
		"from_index", desired,
		"shifted", shifted)

	return IndexAssignment{Index: desired, Shifted: shifted}, nil
}

// ResolveIndex appends when desired is nil, otherwise behaves like AssignIndex
func (r *Reindexer) ResolveIndex(ctx context.Context, siblings repositories.SiblingRepository, scopeID uint, desired *int, excludeID uint) (IndexAssignment, error) {
	if desired == nil {
		next, err := r.NextIndex(ctx, siblings, scopeID)
		if err != nil {
			return IndexAssignment{}, err
		}
		return IndexAssignment{Index: next}, nil
	}
	return r.AssignIndex(ctx, siblings, scopeID, *desired, excludeID)
}

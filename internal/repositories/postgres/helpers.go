package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/form-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// siblingScope implements the index bookkeeping shared by questions and answers.
// Tables are addressed by name so concurrent callers never share a model value.
type siblingScope struct {
	db          *gorm.DB
	table       string
	scopeColumn string
	parentTable string
}

func newSiblingScope(db *gorm.DB, table, scopeColumn, parentTable string) siblingScope {
	return siblingScope{
		db:          db,
		table:       table,
		scopeColumn: scopeColumn,
		parentTable: parentTable,
	}
}

func (s siblingScope) where() string {
	return s.scopeColumn + " = ?"
}

// lock takes a row lock on the parent. Dialects without row locks ignore the clause.
func (s siblingScope) lock(ctx context.Context, scopeID uint) error {
	var ids []uint
	if err := s.db.WithContext(ctx).
		Table(s.parentTable).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", scopeID).
		Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to lock %s %d: %w", s.parentTable, scopeID, err)
	}
	if len(ids) == 0 {
		return fmt.Errorf("%s %d: %w", s.parentTable, scopeID, repositories.ErrNotFound)
	}
	return nil
}

func (s siblingScope) maxIndex(ctx context.Context, scopeID uint) (int, error) {
	var maxIndex int
	if err := s.db.WithContext(ctx).
		Table(s.table).
		Where(s.where(), scopeID).
		Select("COALESCE(MAX(sort_index), -1)").
		Scan(&maxIndex).Error; err != nil {
		return 0, fmt.Errorf("failed to get max index of %s: %w", s.table, err)
	}
	return maxIndex, nil
}

func (s siblingScope) indexTaken(ctx context.Context, scopeID uint, index int, excludeID uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Table(s.table).
		Where(s.where()+" AND sort_index = ? AND id <> ?", scopeID, index, excludeID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check index of %s: %w", s.table, err)
	}
	return count > 0, nil
}

func (s siblingScope) shift(ctx context.Context, scopeID uint, fromIndex int, excludeID uint) (int64, error) {
	result := s.db.WithContext(ctx).
		Table(s.table).
		Where(s.where()+" AND sort_index >= ? AND id <> ?", scopeID, fromIndex, excludeID).
		UpdateColumn("sort_index", gorm.Expr("sort_index + ?", 1))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to shift %s indexes: %w", s.table, result.Error)
	}
	return result.RowsAffected, nil
}

func notFound(entity string, id any) error {
	return fmt.Errorf("%s %v: %w", entity, id, repositories.ErrNotFound)
}

package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/form-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSiblingRepository is a mock implementation of SiblingRepository
type MockSiblingRepository struct {
	mock.Mock
}

func (m *MockSiblingRepository) LockScope(ctx context.Context, scopeID uint) error {
	args := m.Called(ctx, scopeID)
	return args.Error(0)
}

func (m *MockSiblingRepository) MaxIndex(ctx context.Context, scopeID uint) (int, error) {
	args := m.Called(ctx, scopeID)
	return args.Int(0), args.Error(1)
}

func (m *MockSiblingRepository) IndexTaken(ctx context.Context, scopeID uint, index int, excludeID uint) (bool, error) {
	args := m.Called(ctx, scopeID, index, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSiblingRepository) ShiftIndexes(ctx context.Context, scopeID uint, fromIndex int, excludeID uint) (int64, error) {
	args := m.Called(ctx, scopeID, fromIndex, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func TestReindexer_NextIndex(t *testing.T) {
	ctx := context.Background()
	r := NewReindexer(testutil.NewTestLogger())

	t.Run("empty scope starts at zero", func(t *testing.T) {
		siblings := new(MockSiblingRepository)
		siblings.On("MaxIndex", ctx, uint(1)).Return(-1, nil)

		next, err := r.NextIndex(ctx, siblings, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, next)
	})

	t.Run("appends after the highest index", func(t *testing.T) {
		siblings := new(MockSiblingRepository)
		siblings.On("MaxIndex", ctx, uint(1)).Return(7, nil)

		next, err := r.NextIndex(ctx, siblings, 1)
		require.NoError(t, err)
		assert.Equal(t, 8, next)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		siblings := new(MockSiblingRepository)
		siblings.On("MaxIndex", ctx, uint(1)).Return(0, errBoom)

		_, err := r.NextIndex(ctx, siblings, 1)
		assert.ErrorIs(t, err, errBoom)
	})
}

func TestReindexer_AssignIndex(t *testing.T) {
	ctx := context.Background()
	r := NewReindexer(testutil.NewTestLogger())

	t.Run("free index is used without shifting", func(t *testing.T) {
		siblings := new(MockSiblingRepository)
		siblings.On("IndexTaken", ctx, uint(3), 2, uint(0)).Return(false, nil)

		assignment, err := r.AssignIndex(ctx, siblings, 3, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, IndexAssignment{Index: 2}, assignment)
		siblings.AssertNotCalled(t, "ShiftIndexes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("collision shifts siblings up", func(t *testing.T) {
		siblings := new(MockSiblingRepository)
		siblings.On("IndexTaken", ctx, uint(3), 0, uint(9)).Return(true, nil)
		siblings.On("ShiftIndexes", ctx, uint(3), 0, uint(9)).Return(int64(4), nil)

		assignment, err := r.AssignIndex(ctx, siblings, 3, 0, 9)
		require.NoError(t, err)
		assert.Equal(t, IndexAssignment{Index: 0, Shifted: 4}, assignment)
		siblings.AssertExpectations(t)
	})

	t.Run("negative index is a validation error", func(t *testing.T) {
		siblings := new(MockSiblingRepository)

		_, err := r.AssignIndex(ctx, siblings, 3, -1, 0)
		assert.True(t, IsValidation(err))
		siblings.AssertNotCalled(t, "IndexTaken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("shift failure is returned", func(t *testing.T) {
		siblings := new(MockSiblingRepository)
		siblings.On("IndexTaken", ctx, uint(3), 1, uint(0)).Return(true, nil)
		siblings.On("ShiftIndexes", ctx, uint(3), 1, uint(0)).Return(int64(0), errBoom)

		_, err := r.AssignIndex(ctx, siblings, 3, 1, 0)
		assert.ErrorIs(t, err, errBoom)
	})
}

func TestReindexer_ResolveIndex(t *testing.T) {
	ctx := context.Background()
	r := NewReindexer(testutil.NewTestLogger())

	siblings := new(MockSiblingRepository)
	siblings.On("MaxIndex", ctx, uint(5)).Return(2, nil)
	siblings.On("IndexTaken", ctx, uint(5), 0, uint(0)).Return(false, nil)

	appended, err := r.ResolveIndex(ctx, siblings, 5, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, appended.Index)

	explicit, err := r.ResolveIndex(ctx, siblings, 5, intPtr(0), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, explicit.Index, "zero is an explicit index, not a missing one")
}

package budget

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fintrack/internal/domain"
)

type mockBudgetRepo struct {
	mock.Mock
}

func (m *mockBudgetRepo) GetByID(ctx context.Context, id, userID int64) (*domain.Budget, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *mockBudgetRepo) ListByMonth(ctx context.Context, userID int64, month string) ([]*domain.Budget, error) {
	args := m.Called(ctx, userID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Budget), args.Error(1)
}

func (m *mockBudgetRepo) Upsert(ctx context.Context, b *domain.Budget) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBudgetRepo) Delete(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type mockSpendingReader struct {
	mock.Mock
}

func (m *mockSpendingReader) SpentInMonth(ctx context.Context, userID, categoryID int64, month string) (float64, error) {
	args := m.Called(ctx, userID, categoryID, month)
	return args.Get(0).(float64), args.Error(1)
}

func TestService_Set_RejectsBadMonth(t *testing.T) {
	service := NewService(new(mockBudgetRepo), new(mockSpendingReader))

	_, err := service.Set(context.Background(), 10, SetRequest{
		CategoryID: 1,
		Amount:     500,
		Month:      "2025-13",
	})
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = service.Set(context.Background(), 10, SetRequest{
		CategoryID: 1,
		Amount:     500,
		Month:      "June 2025",
	})
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestService_Progress_ComputesRemaining(t *testing.T) {
	budgets := new(mockBudgetRepo)
	spending := new(mockSpendingReader)

	budgets.On("ListByMonth", mock.Anything, int64(10), "2025-06").Return([]*domain.Budget{
		{ID: 1, UserID: 10, CategoryID: 3, Amount: 500, Month: "2025-06"},
		{ID: 2, UserID: 10, CategoryID: 4, Amount: 200, Month: "2025-06"},
	}, nil)
	spending.On("SpentInMonth", mock.Anything, int64(10), int64(3), "2025-06").Return(320.0, nil)
	spending.On("SpentInMonth", mock.Anything, int64(10), int64(4), "2025-06").Return(260.0, nil)

	service := NewService(budgets, spending)

	progress, err := service.Progress(context.Background(), 10, "2025-06")
	require.NoError(t, err)
	require.Len(t, progress, 2)

	assert.Equal(t, 320.0, progress[0].Spent)
	assert.Equal(t, 180.0, progress[0].Remaining)

	// Over budget: remaining goes negative rather than clamping.
	assert.Equal(t, -60.0, progress[1].Remaining)
}

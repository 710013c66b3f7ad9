package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fintrack/internal/domain"
	"fintrack/internal/repository"
)

type mockTransactionRepo struct {
	mock.Mock
}

func (m *mockTransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id, userID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) List(ctx context.Context, userID int64, f repository.TransactionFilter) ([]*domain.Transaction, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) Update(ctx context.Context, t *domain.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTransactionRepo) Delete(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockTransactionRepo) SumByType(ctx context.Context, userID int64, txType domain.TransactionType, f repository.TransactionFilter) (float64, error) {
	args := m.Called(ctx, userID, txType, f)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockTransactionRepo) TotalsByCategory(ctx context.Context, userID int64, f repository.TransactionFilter) ([]repository.CategoryTotal, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CategoryTotal), args.Error(1)
}

func TestService_Summary(t *testing.T) {
	repo := new(mockTransactionRepo)

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	catID := int64(3)

	repo.On("SumByType", mock.Anything, int64(10), domain.TransactionIncome, mock.Anything).Return(3000.0, nil)
	repo.On("SumByType", mock.Anything, int64(10), domain.TransactionExpense, mock.Anything).Return(1250.5, nil)
	repo.On("TotalsByCategory", mock.Anything, int64(10), mock.MatchedBy(func(f repository.TransactionFilter) bool {
		return f.Type != nil && *f.Type == domain.TransactionExpense
	})).Return([]repository.CategoryTotal{{CategoryID: &catID, Total: 1250.5}}, nil)

	service := NewService(repo)

	summary, err := service.Summary(context.Background(), 10, from, to)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, summary.Income)
	assert.Equal(t, 1250.5, summary.Expenses)
	assert.Equal(t, 1749.5, summary.Net)
	require.Len(t, summary.ByCategory, 1)
	assert.Equal(t, 1250.5, summary.ByCategory[0].Total)
}

func TestService_Update_PartialFields(t *testing.T) {
	repo := new(mockTransactionRepo)

	existing := &domain.Transaction{
		ID:     5,
		UserID: 10,
		Type:   domain.TransactionExpense,
		Amount: 100,
		Note:   "groceries",
	}
	repo.On("GetByID", mock.Anything, int64(5), int64(10)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(tx *domain.Transaction) bool {
		return tx.Amount == 150 && tx.Note == "groceries"
	})).Return(nil)

	service := NewService(repo)

	amount := 150.0
	updated, err := service.Update(context.Background(), 10, 5, UpdateRequest{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, 150.0, updated.Amount)
	assert.Equal(t, "groceries", updated.Note)
}

func TestService_Update_NotFound(t *testing.T) {
	repo := new(mockTransactionRepo)

	repo.On("GetByID", mock.Anything, int64(404), int64(10)).Return(nil, repository.ErrTransactionNotFound)

	service := NewService(repo)

	_, err := service.Update(context.Background(), 10, 404, UpdateRequest{})
	assert.ErrorIs(t, err, repository.ErrTransactionNotFound)
}

func TestService_List_ClampsLimit(t *testing.T) {
	repo := new(mockTransactionRepo)

	repo.On("List", mock.Anything, int64(10), mock.MatchedBy(func(f repository.TransactionFilter) bool {
		return f.Limit == 50
	})).Return([]*domain.Transaction{}, nil)

	service := NewService(repo)

	_, err := service.List(context.Background(), 10, repository.TransactionFilter{Limit: 10000})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

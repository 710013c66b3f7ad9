package goal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fintrack/internal/domain"
	"fintrack/internal/repository"
)

type mockGoalRepo struct {
	mock.Mock
}

func (m *mockGoalRepo) Create(ctx context.Context, g *domain.Goal) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *mockGoalRepo) GetByID(ctx context.Context, id, userID int64) (*domain.Goal, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *mockGoalRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Goal), args.Error(1)
}

func (m *mockGoalRepo) Update(ctx context.Context, g *domain.Goal) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *mockGoalRepo) Contribute(ctx context.Context, id, userID int64, amount float64) error {
	args := m.Called(ctx, id, userID, amount)
	return args.Error(0)
}

func (m *mockGoalRepo) Delete(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func TestService_Contribute_ReturnsRefreshedGoal(t *testing.T) {
	repo := new(mockGoalRepo)

	repo.On("Contribute", mock.Anything, int64(5), int64(10), 250.0).Return(nil)
	repo.On("GetByID", mock.Anything, int64(5), int64(10)).Return(&domain.Goal{
		ID: 5, UserID: 10, Name: "Vacation", TargetAmount: 2000, SavedAmount: 750,
	}, nil)

	service := NewService(repo)

	g, err := service.Contribute(context.Background(), 10, 5, 250)
	require.NoError(t, err)
	assert.Equal(t, 750.0, g.SavedAmount)
	repo.AssertExpectations(t)
}

func TestService_Contribute_ForeignGoal(t *testing.T) {
	repo := new(mockGoalRepo)

	repo.On("Contribute", mock.Anything, int64(5), int64(99), 250.0).Return(repository.ErrGoalNotFound)

	service := NewService(repo)

	_, err := service.Contribute(context.Background(), 99, 5, 250)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

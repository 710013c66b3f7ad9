package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fintrack/internal/domain"
	"fintrack/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *mockUserRepo) SetStatus(ctx context.Context, id int64, status domain.AccountStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockUserRepo) ResetActiveSessions(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockRevoker struct {
	mock.Mock
}

func (m *mockRevoker) RevokeAllActive(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_SuspendUser_RevokesEverything(t *testing.T) {
	users := new(mockUserRepo)
	revoker := new(mockRevoker)

	users.On("GetByID", mock.Anything, int64(10)).Return(&domain.User{
		ID: 10, Role: domain.RoleUser, Status: domain.StatusActive,
	}, nil)
	users.On("SetStatus", mock.Anything, int64(10), domain.StatusSuspended).Return(nil)
	revoker.On("RevokeAllActive", mock.Anything, int64(10)).Return(int64(4), nil)
	users.On("ResetActiveSessions", mock.Anything, int64(10)).Return(nil)

	service := NewService(users, revoker)

	revoked, err := service.SuspendUser(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), revoked)
	users.AssertExpectations(t)
	revoker.AssertExpectations(t)
}

func TestService_SuspendUser_AdminProtected(t *testing.T) {
	users := new(mockUserRepo)
	revoker := new(mockRevoker)

	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID: 1, Role: domain.RoleAdmin,
	}, nil)

	service := NewService(users, revoker)

	_, err := service.SuspendUser(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCannotSuspend)
	users.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
	revoker.AssertNotCalled(t, "RevokeAllActive", mock.Anything, mock.Anything)
}

func TestService_SuspendUser_NotFound(t *testing.T) {
	users := new(mockUserRepo)
	revoker := new(mockRevoker)

	users.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrUserNotFound)

	service := NewService(users, revoker)

	_, err := service.SuspendUser(context.Background(), 404)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestService_RevokeUserSessions_KeepsStatus(t *testing.T) {
	users := new(mockUserRepo)
	revoker := new(mockRevoker)

	users.On("GetByID", mock.Anything, int64(10)).Return(&domain.User{
		ID: 10, Role: domain.RoleUser, Status: domain.StatusActive,
	}, nil)
	revoker.On("RevokeAllActive", mock.Anything, int64(10)).Return(int64(2), nil)
	users.On("ResetActiveSessions", mock.Anything, int64(10)).Return(nil)

	service := NewService(users, revoker)

	revoked, err := service.RevokeUserSessions(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), revoked)
	users.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ListUsers_StripsPasswordHash(t *testing.T) {
	users := new(mockUserRepo)
	revoker := new(mockRevoker)

	users.On("List", mock.Anything, 20, 0).Return([]*domain.User{
		{ID: 1, Email: "a@example.com", PasswordHash: "secret"},
	}, nil)

	service := NewService(users, revoker)

	got, err := service.ListUsers(context.Background(), 0, -1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].PasswordHash)
}
